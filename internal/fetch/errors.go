package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies fetch failures.
type Kind int

const (
	// KindNetwork covers request, status and stream failures.
	KindNetwork Kind = iota + 1
	// KindFilesystem covers failures opening or writing the destination.
	KindFilesystem
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindFilesystem:
		return "filesystem"
	default:
		return "unknown"
	}
}

// ErrShortRead marks a body that ended before its declared Content-Length.
var ErrShortRead = errors.New("response shorter than declared content length")

// Error is returned by Fetch.
type Error struct {
	Kind Kind
	URL  string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s -> %s: %s error: %v", e.URL, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether err is a network-kind fetch error.
func IsNetwork(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindNetwork
}

// IsFilesystem reports whether err is a filesystem-kind fetch error.
func IsFilesystem(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindFilesystem
}
