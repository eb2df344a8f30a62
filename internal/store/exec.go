package store

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nasby/ansuz/internal/apperr"
)

// ValueKind enumerates the SQLite storage classes a Value can carry.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInteger
	KindFloat
	KindText
	KindBytes
)

// Value is one SQL parameter or cell, a tagged union over the SQLite
// storage classes. Blobs travel as hex-encoded strings on the wire.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Float float64
	Text  string
	Bytes []byte
}

// UnmarshalJSON accepts null, booleans, numbers (integers when exact),
// strings, and {"hex": "..."} blob wrappers.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if string(data) == "null" {
		v.Kind = KindNull
		return nil
	}
	switch data[0] {
	case 't', 'f':
		v.Kind = KindBool
		return json.Unmarshal(data, &v.Bool)
	case '"':
		v.Kind = KindText
		return json.Unmarshal(data, &v.Text)
	case '{':
		var wrap struct {
			Hex string `json:"hex"`
		}
		if err := json.Unmarshal(data, &wrap); err != nil {
			return err
		}
		raw, err := hex.DecodeString(wrap.Hex)
		if err != nil {
			return fmt.Errorf("%w: bad hex blob", apperr.ErrInvalid)
		}
		v.Kind = KindBytes
		v.Bytes = raw
		return nil
	}
	// Number: integer when it survives the round trip exactly.
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		v.Kind = KindInteger
		v.Int = i
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	v.Kind = KindFloat
	v.Float = f
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Bool)
	case KindInteger:
		return json.Marshal(v.Int)
	case KindFloat:
		return json.Marshal(v.Float)
	case KindText:
		return json.Marshal(v.Text)
	case KindBytes:
		return json.Marshal(map[string]string{"hex": hex.EncodeToString(v.Bytes)})
	default:
		return []byte("null"), nil
	}
}

// arg converts a Value to a driver-bindable argument.
func (v Value) arg() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInteger:
		return v.Int
	case KindFloat:
		return v.Float
	case KindText:
		return v.Text
	case KindBytes:
		return v.Bytes
	default:
		return nil
	}
}

// fromSQL converts a scanned cell back into a Value.
func fromSQL(cell any) Value {
	switch x := cell.(type) {
	case nil:
		return Value{Kind: KindNull}
	case bool:
		return Value{Kind: KindBool, Bool: x}
	case int64:
		return Value{Kind: KindInteger, Int: x}
	case float64:
		return Value{Kind: KindFloat, Float: x}
	case string:
		return Value{Kind: KindText, Text: x}
	case []byte:
		return Value{Kind: KindBytes, Bytes: x}
	case time.Time:
		return Value{Kind: KindText, Text: x.Format(time.RFC3339)}
	default:
		return Value{Kind: KindText, Text: fmt.Sprint(x)}
	}
}

// ExecResult is the outcome of a passthrough statement. Columns and Rows are
// set for query modes; RowsAffected and LastInsertID for run mode. Rows are
// positional so callers bind cells by index and duplicate column names keep
// their own cells.
type ExecResult struct {
	Columns      []string  `json:"columns,omitempty"`
	Rows         [][]Value `json:"rows,omitempty"`
	RowsAffected int64     `json:"rows_affected"`
	LastInsertID int64     `json:"last_insert_id"`
}

// Exec runs an arbitrary SQL statement against the store. Mode "run"
// executes without reading rows, "get" returns at most the first row, and
// anything else returns all rows. The statement runs under the store lock
// like every other operation, but bypasses the search-shadow maintenance:
// callers writing to notes this way own the drift they cause.
func (s *Store) Exec(query, mode string, params []Value) (*ExecResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty statement", apperr.ErrInvalid)
	}

	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p.arg()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == "run" {
		res, err := s.conn.Exec(query, args...)
		if err != nil {
			return nil, fmt.Errorf("store: exec: %w", err)
		}
		out := &ExecResult{}
		out.RowsAffected, _ = res.RowsAffected()
		out.LastInsertID, _ = res.LastInsertId()
		return out, nil
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: exec query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("store: exec columns: %w", err)
	}

	out := &ExecResult{Columns: cols, Rows: [][]Value{}}
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]Value, len(cols))
		for i := range cols {
			row[i] = fromSQL(cells[i])
		}
		out.Rows = append(out.Rows, row)
		if mode == "get" {
			break
		}
	}
	return out, rows.Err()
}
