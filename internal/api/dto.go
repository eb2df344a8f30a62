package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nasby/ansuz/internal/store"
)

// CreateNoteRequest is the request body for creating a note or folder.
type CreateNoteRequest struct {
	ParentID *string `json:"parent_id"`
	IsFolder bool    `json:"is_folder"`
	Name     string  `json:"name"`
}

// Validate checks CreateNoteRequest.
func (r CreateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.When(r.IsFolder), validation.Length(0, 256)),
	)
}

// TemplateNoteRequest creates a pre-populated note.
type TemplateNoteRequest struct {
	Title   string `json:"title"`
	Emoji   string `json:"emoji"`
	Content string `json:"content"`
}

// Validate checks TemplateNoteRequest.
func (r TemplateNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 256)),
		validation.Field(&r.Content, validation.Required),
	)
}

// SaveContentRequest is the request body for saving note content.
type SaveContentRequest struct {
	Content   string `json:"content"`
	Title     string `json:"title"`
	PlainText string `json:"plain_text"`
}

// Validate checks SaveContentRequest.
func (r SaveContentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 256)),
	)
}

// RenameRequest is the request body for renaming a note.
type RenameRequest struct {
	Title string `json:"title"`
}

// Validate checks RenameRequest.
func (r RenameRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 256)),
	)
}

// MoveRequest reparents a note.
type MoveRequest struct {
	ParentID *string `json:"parent_id"`
}

// DailyNoteRequest requests the daily note for a date.
type DailyNoteRequest struct {
	Date string `json:"date"`
}

// Validate checks DailyNoteRequest.
func (r DailyNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Date, validation.Required, validation.Date("2006-01-02")),
	)
}

// SyncLinksRequest replaces a note's outgoing wikilinks.
type SyncLinksRequest struct {
	Targets []string `json:"targets"`
}

// SyncTagsRequest replaces a note's inline tags.
type SyncTagsRequest struct {
	Tags []string `json:"tags"`
}

// TagRequest names a tag.
type TagRequest struct {
	Name string `json:"name"`
}

// Validate checks TagRequest.
func (r TagRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 128)),
	)
}

// MoveTagRequest moves a note between two named tags.
type MoveTagRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate checks MoveTagRequest.
func (r MoveTagRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.From, validation.Required),
		validation.Field(&r.To, validation.Required, validation.Length(1, 128)),
	)
}

// SyncFlashcardsRequest replaces a note's card set.
type SyncFlashcardsRequest struct {
	Cards []store.CardInput `json:"cards"`
}

// ReviewRequest records one flashcard review.
type ReviewRequest struct {
	Rating int `json:"rating"`
}

// Validate checks ReviewRequest.
func (r ReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.Min(0), validation.Max(5)),
	)
}

// ExecRequest runs an arbitrary SQL statement.
type ExecRequest struct {
	Query  string        `json:"query"`
	Mode   string        `json:"mode"`
	Params []store.Value `json:"params"`
}

// Validate checks ExecRequest.
func (r ExecRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query, validation.Required),
		validation.Field(&r.Mode, validation.In("", "all", "get", "run")),
	)
}

// IDResponse wraps a created resource id.
type IDResponse struct {
	ID string `json:"id"`
}
