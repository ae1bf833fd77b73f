// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/SCOREC/spack/vers"
)

// A Condition is a predicate over a resolved build configuration, written
// in the notation recipe rules use:
//
//	@1.2:1.4       version in the range 1.2 through 1.4
//	+cuda          boolean variant cuda enabled
//	~cuda          boolean variant cuda disabled
//	gpu_arch=HSW   enumerated variant gpu_arch set to HSW
//
// Terms are separated by whitespace and all must hold. The empty condition
// holds for every configuration; rules without a "when" clause use it.
type Condition struct {
	raw   string
	vrng  vers.Constraint
	terms []condTerm
}

type condOp uint8

const (
	condEnabled condOp = iota
	condDisabled
	condEquals
)

type condTerm struct {
	name  string
	op    condOp
	value string
}

// ParseCondition parses the rule notation above. It reports malformed
// terms but does not know any particular recipe's variant table; the
// recipe loader cross-checks every loaded condition against the variants
// its recipe declares.
func ParseCondition(s string) (Condition, error) {
	c := Condition{raw: strings.Join(strings.Fields(s), " ")}
	for _, tok := range strings.Fields(s) {
		switch {
		case strings.HasPrefix(tok, "@"):
			rng, err := vers.ParseRange(tok[1:])
			if err != nil {
				return Condition{}, errors.Wrapf(err, "bad version term %q", tok)
			}
			if c.vrng == nil {
				c.vrng = rng
			} else {
				c.vrng = c.vrng.Intersect(rng)
			}
		case strings.HasPrefix(tok, "+"):
			if len(tok) == 1 {
				return Condition{}, errors.Errorf("term %q names no variant", tok)
			}
			c.terms = append(c.terms, condTerm{name: tok[1:], op: condEnabled})
		case strings.HasPrefix(tok, "~"):
			if len(tok) == 1 {
				return Condition{}, errors.Errorf("term %q names no variant", tok)
			}
			c.terms = append(c.terms, condTerm{name: tok[1:], op: condDisabled})
		case strings.Contains(tok, "="):
			name, value, _ := strings.Cut(tok, "=")
			if name == "" || value == "" {
				return Condition{}, errors.Errorf("malformed term %q", tok)
			}
			c.terms = append(c.terms, condTerm{name: name, op: condEquals, value: value})
		default:
			return Condition{}, errors.Errorf("unrecognized term %q", tok)
		}
	}
	return c, nil
}

// IsAlways reports whether the condition holds for every configuration.
func (c Condition) IsAlways() bool {
	return c.vrng == nil && len(c.terms) == 0
}

// Matches evaluates the condition against a resolved configuration. It is
// total: variants the configuration does not carry read as disabled or
// empty.
func (c Condition) Matches(cfg *Config) bool {
	if c.vrng != nil && !c.vrng.Matches(cfg.Version) {
		return false
	}
	for _, t := range c.terms {
		switch t.op {
		case condEnabled:
			if !cfg.Enabled(t.name) {
				return false
			}
		case condDisabled:
			if cfg.Enabled(t.name) {
				return false
			}
		case condEquals:
			if cfg.Value(t.name) != t.value {
				return false
			}
		}
	}
	return true
}

func (c Condition) String() string {
	return c.raw
}
