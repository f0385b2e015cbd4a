package pluct

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeInvalidType  = "invalid_type"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// Issue describes one problem found while projecting a fetched document.
type Issue struct {
	Path    string // JSON Pointer (for example: /links/1).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

// Issues is a collection of problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /title
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ErrKeyNotFound is matched by every KeyError.
var ErrKeyNotFound = errors.New("pluct: key not found")

// KeyError is returned by Schema.Get when the raw document lacks a key.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string { return fmt.Sprintf("pluct: key %q not found in schema", e.Key) }

func (e *KeyError) Is(target error) bool { return target == ErrKeyNotFound }
