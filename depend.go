// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/SCOREC/spack/vers"
)

// DepType is the set of relationships a dependency edge participates in.
// Build dependencies are needed while compiling, link dependencies at link
// time and whenever the package is itself linked against, and run
// dependencies whenever the package executes.
type DepType uint8

const (
	DepBuild DepType = 1 << iota
	DepLink
	DepRun

	// DepDefault is assumed when a dependency declares no explicit type.
	DepDefault = DepBuild | DepLink
)

// Has reports whether t includes every relationship in u.
func (t DepType) Has(u DepType) bool {
	return t&u == u
}

func (t DepType) String() string {
	var parts []string
	if t.Has(DepBuild) {
		parts = append(parts, "build")
	}
	if t.Has(DepLink) {
		parts = append(parts, "link")
	}
	if t.Has(DepRun) {
		parts = append(parts, "run")
	}
	return strings.Join(parts, ",")
}

func parseDepType(names []string) (DepType, error) {
	if len(names) == 0 {
		return DepDefault, nil
	}
	var t DepType
	for _, n := range names {
		switch n {
		case "build":
			t |= DepBuild
		case "link":
			t |= DepLink
		case "run":
			t |= DepRun
		default:
			return 0, errors.Errorf("unknown dependency type %q", n)
		}
	}
	return t, nil
}

// A Dependency declares that another package must be available, optionally
// pinned to a version range and optionally gated on a condition over the
// depending package's own configuration. Edges are declarations consumed
// by the host's resolver; this package only answers which edges are active
// for a given configuration.
type Dependency struct {
	Name  string
	Range vers.Constraint
	When  Condition
	Type  DepType
}

func (d Dependency) String() string {
	s := d.Name
	if d.Range != nil && !vers.IsAny(d.Range) {
		s += "@" + d.Range.String()
	}
	if !d.When.IsAlways() {
		s += " when " + d.When.String()
	}
	return s
}
