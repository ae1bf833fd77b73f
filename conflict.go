// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

// A Conflict declares a combination of variant values and versions that
// cannot be built: a configuration matching both Trigger and When is
// rejected by Validate before any build arguments are produced. Msg, when
// present, explains the rule to the person who selected the combination.
//
// Conflicts are declarative facts. Nothing in this package acts on them at
// build time; the host runs Validate over the finalized configuration and
// refuses to proceed on violations.
type Conflict struct {
	Trigger Condition
	When    Condition
	Msg     string
}

// appliesTo reports whether the conflict rules out the given
// configuration.
func (c Conflict) appliesTo(cfg *Config) bool {
	return c.Trigger.Matches(cfg) && c.When.Matches(cfg)
}

func (c Conflict) String() string {
	s := c.Trigger.String()
	if !c.When.IsAlways() {
		s += " when " + c.When.String()
	}
	return s
}
