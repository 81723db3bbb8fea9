package model

import "strings"

// User represents an application account as stored in the users table.
//
// Fields:
//
//	Username   email prefix chosen at sign-up.
//	Email      unique, stored lower-cased.
//	Password   bcrypt hash for accounts created by this service; seeded
//	           and imported documents may carry plaintext.
//	FirstName  first word of the name given at sign-up.
//	LastName   the remainder of that name, possibly empty.
//	Avatar     optional image URL.
type User struct {
	Meta
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar,omitempty"`
	Status    Status `json:"status"`
}

func (u *User) StatusRef() *Status { return &u.Status }

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Initials returns the first letter of each name part, "U" when both are empty.
func (u User) Initials() string {
	var b strings.Builder
	for _, part := range []string{u.FirstName, u.LastName} {
		if part != "" {
			b.WriteRune([]rune(part)[0])
		}
	}
	if b.Len() == 0 {
		return "U"
	}
	return b.String()
}

// Session is the signed-in user as seen by the rest of the application.
// It never carries the password. The id is encoded as a JSON string to
// match the stored session format.
type Session struct {
	ID    int64  `json:"id,string"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionFor projects a user record into a Session.
func SessionFor(u User) Session {
	return Session{ID: u.ID, Name: u.FullName(), Email: u.Email}
}
