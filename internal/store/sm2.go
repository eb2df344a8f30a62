package store

import "math"

// minEase is the floor the SM-2 ease factor never drops below.
const minEase = 1.3

// sm2 applies one SM-2 review step to the scheduling state (interval in
// days, ease factor, repetition count) for a rating in [0,5]. Ratings below
// 2 are failures: the card resets to a one-day interval and loses ease;
// passing ratings grow the interval 1 -> 6 -> interval*ease.
func sm2(interval, ease float64, repetitions int64, rating int) (float64, float64, int64) {
	if rating < 2 {
		return 1, math.Max(minEase, ease-0.2), 0
	}

	q := float64(4 - rating)
	ease = math.Max(minEase, ease+0.1-q*(0.08+q*0.02))
	repetitions++

	switch repetitions {
	case 1:
		interval = 1
	case 2:
		interval = 6
	default:
		interval = interval * ease
	}
	return interval, ease, repetitions
}
