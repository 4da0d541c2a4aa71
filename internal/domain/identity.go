// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"unicode/utf8"
)

const (
	MaxUserIDLen      = 64
	MaxDisplayNameLen = 64
)

var (
	ErrUserIDEmpty        = errors.New("user id empty")
	ErrUserIDTooLong      = errors.New("user id too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
	ErrDisplayNameTooLong = errors.New("display name too long")
)

type UserID string

// Identity is the authenticated principal behind one connection. It is
// verified upstream; this process only caches it for the connection's
// lifetime.
type Identity struct {
	UserID UserID  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// NewIdentity is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewIdentity(userID, name string, avatar *string) (*Identity, error) {
	if userID == "" {
		return nil, ErrUserIDEmpty
	}
	if len(userID) > MaxUserIDLen {
		return nil, ErrUserIDTooLong
	}
	if name == "" {
		return nil, ErrDisplayNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		return nil, ErrDisplayNameTooLong
	}
	return &Identity{UserID: UserID(userID), Name: name, Avatar: avatar}, nil
}
