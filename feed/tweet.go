package feed

import (
	"fmt"
	"time"
)

// Tweet is a short message posted by a user.
type Tweet struct {
	ID        int       `json:"id"`
	Message   string    `json:"message"`
	PostedBy  string    `json:"posted_by"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
}

// String renders the tweet the way the feeds list it.
func (t Tweet) String() string {
	return fmt.Sprintf("[%d] %s: %s ❤️ %d", t.ID, t.PostedBy, t.Message, t.Likes)
}

// newerThan orders tweets most recent first. Equal timestamps fall back to
// the id so later posts still come first.
func newerThan(a, b Tweet) int {
	if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
		return c
	}
	return b.ID - a.ID
}
