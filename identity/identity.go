// Package identity generates and remembers the anonymous chat username.
package identity

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"portfolio/localstore"
	"portfolio/models"
)

var adjectives = []string{
	"swift", "bright", "calm", "bold", "clever", "daring", "eager", "fierce", "gentle", "happy",
	"keen", "lively", "merry", "noble", "polite", "quiet", "rapid", "sharp", "witty", "zesty",
}

var animals = []string{
	"otter", "falcon", "panda", "wolf", "fox", "owl", "lynx", "hawk", "bear", "dolphin",
	"raven", "tiger", "eagle", "koala", "deer", "seal", "crane", "bison", "heron", "finch",
}

func Adjectives() []string { return append([]string(nil), adjectives...) }

func Animals() []string { return append([]string(nil), animals...) }

// Generate returns a name of the form adjective-animal-NNNN.
func Generate() string {
	return fmt.Sprintf("%s-%s-%d",
		adjectives[rand.IntN(len(adjectives))],
		animals[rand.IntN(len(animals))],
		1000+rand.IntN(9000),
	)
}

// Sanitize strips all whitespace and caps the result at MaxUsernameLength
// characters.
func Sanitize(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)

	runes := []rune(cleaned)
	if len(runes) > models.MaxUsernameLength {
		runes = runes[:models.MaxUsernameLength]
	}
	return string(runes)
}

// Store remembers the chosen username across runs.
type Store struct {
	kv localstore.KV
}

func NewStore(kv localstore.KV) *Store {
	return &Store{kv: kv}
}

// Username returns the persisted name, or "" when none was chosen yet.
func (s *Store) Username() (string, error) {
	name, _, err := s.kv.Get(localstore.KeyChatUsername)
	if err != nil {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	return name, nil
}

// Choose persists the sanitized input, or a generated name when the input
// sanitizes to nothing.
func (s *Store) Choose(input string) (string, error) {
	name := Sanitize(input)
	if name == "" {
		name = Generate()
	}
	if err := s.kv.Set(localstore.KeyChatUsername, name); err != nil {
		return "", fmt.Errorf("failed to save username: %w", err)
	}
	return name, nil
}
