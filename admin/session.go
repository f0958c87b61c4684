// Package admin implements the content editing flow: a local login gate,
// the status list editor and the project editor.
package admin

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"portfolio/localstore"

	"golang.org/x/crypto/bcrypt"
)

var ErrWrongPassword = errors.New("wrong password")

// Session remembers whether this machine passed the password prompt. It
// gates the editing UI only; the HTTP API checks its own token.
type Session struct {
	kv       localstore.KV
	password string
}

func NewSession(kv localstore.KV, password string) *Session {
	return &Session{kv: kv, password: password}
}

func (s *Session) LoggedIn() bool {
	v, ok, err := s.kv.Get(localstore.KeyAdminAuth)
	return err == nil && ok && v == "true"
}

func (s *Session) Login(password string) error {
	if !CheckPassword(s.password, password) {
		return ErrWrongPassword
	}
	if err := s.kv.Set(localstore.KeyAdminAuth, "true"); err != nil {
		return fmt.Errorf("failed to persist login: %w", err)
	}
	return nil
}

func (s *Session) Logout() error {
	if err := s.kv.Delete(localstore.KeyAdminAuth); err != nil {
		return fmt.Errorf("failed to clear login: %w", err)
	}
	return nil
}

// CheckPassword compares given against expected, which is either a bcrypt
// hash or a plain password compared in constant time. An empty expected
// password never matches.
func CheckPassword(expected, given string) bool {
	if expected == "" {
		return false
	}
	if strings.HasPrefix(expected, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(expected), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}
