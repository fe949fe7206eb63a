// Package storage defines the key-value surface cart documents are persisted through.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when nothing is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Backend reads and writes whole documents by key.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// ChangeFunc is called with the key of a document that was written.
type ChangeFunc func(key string)

// Watcher is implemented by backends that can report writes, including writes
// made by other processes. onChange runs on a background goroutine until stop
// is called or ctx ends.
type Watcher interface {
	Watch(ctx context.Context, onChange ChangeFunc) (stop func() error, err error)
}

// Pinger is implemented by backends with a remote dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}
