package service

import "github.com/Oloap008/Trello-Clone/internal/model"

// SessionSource yields the signed-in user, or nil when nobody is.
type SessionSource interface {
	Current() *model.Session
}

// StaticSession is a SessionSource fixed at construction, used where the
// session comes from a verified request token.
type StaticSession struct{ Session *model.Session }

func (s StaticSession) Current() *model.Session { return s.Session }
