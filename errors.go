// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"bytes"
	"fmt"
	"strings"
)

// UnknownRecipeError is returned by registry lookups for names no loaded
// recipe carries.
type UnknownRecipeError struct {
	Name string
}

func (e *UnknownRecipeError) Error() string {
	return fmt.Sprintf("no recipe named %q is registered", e.Name)
}

// UnknownVersionError indicates a version identifier the recipe does not
// declare.
type UnknownVersionError struct {
	Recipe  string
	Version string
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("%s declares no version %s", e.Recipe, e.Version)
}

// UnknownVariantError indicates a variant name the recipe does not
// declare.
type UnknownVariantError struct {
	Recipe  string
	Variant string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("%s declares no variant %q", e.Recipe, e.Variant)
}

// IllegalValueError indicates a variant override outside the declared
// legal set, including setting a boolean variant as if it were
// enumerated or the reverse.
type IllegalValueError struct {
	Recipe  string
	Variant string
	Value   string
	Legal   []string
}

func (e *IllegalValueError) Error() string {
	return fmt.Sprintf("%q is not a legal value for variant %s of %s (legal values: %s)",
		e.Value, e.Variant, e.Recipe, strings.Join(e.Legal, ", "))
}

// ConflictViolationError indicates one declared conflict firing against a
// configuration.
type ConflictViolationError struct {
	Spec     string
	Conflict Conflict
}

func (e *ConflictViolationError) Error() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s is forbidden [%s]", e.Spec, e.Conflict)
	if e.Conflict.Msg != "" {
		fmt.Fprintf(&buf, ": %s", e.Conflict.Msg)
	}
	return buf.String()
}

// A ValidationError aggregates everything wrong with one configuration.
// Validate reports all problems it finds in a single pass rather than
// stopping at the first, so users fix a bad spec once instead of
// replaying it.
type ValidationError struct {
	Spec   string
	Issues []error
}

// Violations returns the individual problems, in the order found.
func (e *ValidationError) Violations() []error {
	return e.Issues
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].Error()
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d problems with %s:", len(e.Issues), e.Spec)
	for _, issue := range e.Issues {
		fmt.Fprintf(&buf, "\n\t%s", issue.Error())
	}
	return buf.String()
}
