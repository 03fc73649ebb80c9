package domain

import "errors"

// ErrEmptyIdentity is returned when a caller supplies a blank identity token.
var ErrEmptyIdentity = errors.New("identity is required")

// Entry is the presence state for one known identity. A nil Handle means the
// identity completed bootstrap (or disconnected) but has no live session.
type Entry struct {
	Identity string
	Handle   Handle
}

// Online reports whether the entry currently has a live session bound.
func (e Entry) Online() bool {
	return e.Handle != nil
}
