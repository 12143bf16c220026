package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// Common validation errors for User
var (
	ErrEmptyAccountID = errors.New("account ID cannot be empty")
	ErrEmptyUserName  = errors.New("user name cannot be empty")
	ErrInvalidEmail   = errors.New("invalid email format")
)

// User is the profile of a signed-in traveller. AccountID is the subject
// issued by the upstream identity provider.
type User struct {
	AccountID string    `json:"accountId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// NewUser creates a user profile joined at now.
func NewUser(accountID, name, email, imageURL string, now time.Time) (*User, error) {
	u := &User{
		AccountID: strings.TrimSpace(accountID),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		ImageURL:  strings.TrimSpace(imageURL),
		JoinedAt:  now.UTC(),
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.AccountID == "" {
		return ErrEmptyAccountID
	}

	if u.Name == "" {
		return ErrEmptyUserName
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}

	return nil
}
