// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package source

import (
	"errors"
	"fmt"
)

// ErrNotAuthorized is returned when a provider has no stored token. Run
// "avail auth <provider>" first.
var ErrNotAuthorized = errors.New("not authorized")

// SourceFetchError reports that one provider failed. The provider then
// contributes no events to the computation.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }
