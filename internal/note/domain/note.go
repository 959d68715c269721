package domain

import "time"

type ID string

// Note is owned by exactly one user. Shared notes are independent copies in the
// recipient's collection, marked with IsShared and the sharer's username.
type Note struct {
	ID        ID         `json:"_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	UserID    string     `json:"userId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	SharedBy  string     `json:"sharedBy,omitempty"`
	IsShared  bool       `json:"isShared,omitempty"`
}

type Filter string

const (
	FilterAll     Filter = ""
	FilterCreated Filter = "created"
	FilterShared  Filter = "shared"
)

// ParseFilter maps the list query parameter; unknown values select every note.
func ParseFilter(raw string) Filter {
	switch Filter(raw) {
	case FilterCreated:
		return FilterCreated
	case FilterShared:
		return FilterShared
	default:
		return FilterAll
	}
}

// Matches reports whether n belongs to the subset selected by f.
func (f Filter) Matches(n Note) bool {
	switch f {
	case FilterCreated:
		return !n.IsShared
	case FilterShared:
		return n.IsShared
	default:
		return true
	}
}
