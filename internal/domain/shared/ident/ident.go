// Package ident validates entity identifiers before they reach a store.
package ident

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalid = errors.New("ident: invalid identifier")

var pattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Values front-ends send when an id was never filled in.
var placeholders = map[string]struct{}{
	"undefined":       {},
	"null":            {},
	"nil":             {},
	"none":            {},
	"nan":             {},
	"[object object]": {},
	":id":             {},
}

// Check rejects empty, placeholder and malformed identifiers.
func Check(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return fmt.Errorf("%w: empty", ErrInvalid)
	}
	if _, ok := placeholders[strings.ToLower(trimmed)]; ok {
		return fmt.Errorf("%w: placeholder %q", ErrInvalid, trimmed)
	}
	if trimmed != id || !pattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalid, id)
	}
	return nil
}
