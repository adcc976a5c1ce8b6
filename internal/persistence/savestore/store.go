// Package savestore keeps named save slots. Names are case-insensitive and
// trimmed; a missing slot is ErrNotFound, never a failure of the caller.
package savestore

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("save not found")
	ErrEmptyName = errors.New("save name is empty")
)

type Record struct {
	Name    string
	Blob    []byte
	SavedAt time.Time
}

type Info struct {
	Name    string    `json:"name"`
	Size    int       `json:"size"`
	SavedAt time.Time `json:"saved_at"`
}

type Store interface {
	// Save upserts the slot and returns the stored timestamp.
	Save(ctx context.Context, name string, blob []byte) (time.Time, error)
	Load(ctx context.Context, name string) (Record, error)
	Exists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]Info, error)
	Close() error
}

// Normalize returns the canonical slot name.
func Normalize(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", ErrEmptyName
	}
	return n, nil
}

// Key is the storage key for a slot.
func Key(name string) (string, error) {
	n, err := Normalize(name)
	if err != nil {
		return "", err
	}
	return "save_" + n, nil
}

func nameFromKey(key string) string { return strings.TrimPrefix(key, "save_") }
