package storage

import (
	"fmt"
	"regexp"

	"github.com/pixil98/go-errors"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type ValidatingSpec interface {
	Validate() error
}

// ValidIdentifier reports whether id can be used as a record key. Keys become
// file names, so they are limited to letters, digits, dash and underscore.
func ValidIdentifier(id string) bool {
	return identifierPattern.MatchString(id)
}

// Asset is the on-disk envelope around a stored record.
type Asset[T ValidatingSpec] struct {
	Version    uint   `json:"version"`
	Identifier string `json:"id"`
	Spec       T      `json:"spec"`
}

func (a *Asset[T]) Id() string {
	return a.Identifier
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if !ValidIdentifier(a.Identifier) {
		el.Add(fmt.Errorf("id must be non-empty and alphanumeric"))
	}

	el.Add(a.Spec.Validate())

	return el.Err()
}
