// package models defines the data model for the video gallery
package models

import (
	"fmt"
	"net/mail"
	"time"
)

// Video is a single playable item returned by a retrieval strategy.
//
// IDs are only unique within one response; each strategy uses its own ID scheme.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	VideoURL  string `json:"videoUrl"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	MimeType  string `json:"mimeType,omitempty"`
}

// Playable reports whether the video carries a URL the player can load.
func (v Video) Playable() bool {
	return v.VideoURL != ""
}

// User is a Google account that has signed in at least once.
type User struct {
	ID          string
	Sequence    int
	Email       string
	LoginCount  int
	CreatedAt   time.Time
	LastLoginAt time.Time
}

// NewUser creates a [User] for email seen for the first time at now.
func NewUser(email string, now time.Time) *User {
	return &User{
		Email:       email,
		LoginCount:  1,
		CreatedAt:   now,
		LastLoginAt: now,
	}
}

// Validate checks the fields required before the user is persisted.
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("invalid email %q: %w", u.Email, err)
	}
	return nil
}
