// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"crypto/sha256"
	"io"
	"sort"
	"strings"

	"github.com/SCOREC/spack/vers"
)

// A Config is the finalized variant selection for one build of one
// package: a concrete version plus an effective value for every declared
// variant. A fresh Config carries the recipe's defaults; callers override
// individual variants before handing the Config to Validate and then to
// the translator.
//
// Config is not safe for concurrent mutation. Hosts build one per build
// invocation and treat it as read-only afterward.
type Config struct {
	Name    string
	Version vers.Version

	r     *Recipe
	bools map[string]bool
	enums map[string]string
}

// NewConfig returns a Config for one declared version of r with every
// variant at its default.
func NewConfig(r *Recipe, version string) (*Config, error) {
	vr, ok := r.Version(version)
	if !ok {
		return nil, &UnknownVersionError{Recipe: r.Name, Version: version}
	}
	cfg := &Config{
		Name:    r.Name,
		Version: vr.ID,
		r:       r,
		bools:   make(map[string]bool),
		enums:   make(map[string]string),
	}
	for _, v := range r.Variants {
		if v.Type == EnumVariant {
			cfg.enums[v.Name] = v.DefaultEnum
		} else {
			cfg.bools[v.Name] = v.DefaultBool
		}
	}
	return cfg, nil
}

// Enable turns a boolean variant on.
func (c *Config) Enable(name string) error {
	return c.setBool(name, true)
}

// Disable turns a boolean variant off.
func (c *Config) Disable(name string) error {
	return c.setBool(name, false)
}

func (c *Config) setBool(name string, on bool) error {
	v, ok := c.r.Variant(name)
	if !ok {
		return &UnknownVariantError{Recipe: c.Name, Variant: name}
	}
	if v.Type != BoolVariant {
		return &IllegalValueError{Recipe: c.Name, Variant: name, Value: boolString(on), Legal: v.legalValues()}
	}
	c.bools[name] = on
	return nil
}

// Set overrides an enumerated variant. The value must be legal per the
// variant's declaration.
func (c *Config) Set(name, value string) error {
	v, ok := c.r.Variant(name)
	if !ok {
		return &UnknownVariantError{Recipe: c.Name, Variant: name}
	}
	if v.Type != EnumVariant || !v.Legal(value) {
		return &IllegalValueError{Recipe: c.Name, Variant: name, Value: value, Legal: v.legalValues()}
	}
	c.enums[name] = value
	return nil
}

// Enabled reports whether the named boolean variant is on. It is total:
// names the configuration does not carry read as off.
func (c *Config) Enabled(name string) bool {
	return c.bools[name]
}

// Value returns the effective value of the named enumerated variant, or
// the empty string if the configuration does not carry it.
func (c *Config) Value(name string) string {
	return c.enums[name]
}

// String renders the configuration the way users write build specs:
// name@version, the boolean variants as +name or ~name, then the
// enumerated variants as name=value, each group in name order.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString("@")
	b.WriteString(c.Version.String())
	for _, name := range c.sortedNames() {
		on, ok := c.bools[name]
		if !ok {
			continue
		}
		if on {
			b.WriteString("+")
		} else {
			b.WriteString("~")
		}
		b.WriteString(name)
	}
	for _, name := range c.sortedNames() {
		if _, ok := c.enums[name]; !ok {
			continue
		}
		b.WriteString(" ")
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(c.enums[name])
	}
	return b.String()
}

// Digest computes a digest of everything that identifies this build:
// package, version, and every effective variant value. Two Configs with
// the same digest request the same build, so hosts may use it to memoize
// build products.
func (c *Config) Digest() []byte {
	h := sha256.New()
	c.writeDigestInputs(h)
	return h.Sum(nil)
}

func (c *Config) writeDigestInputs(w io.Writer) {
	writeString := func(s string) {
		// Writes to a hash.Hash never fail.
		w.Write([]byte(s))
		w.Write([]byte("\n"))
	}
	writeString(c.Name)
	writeString(c.Version.String())
	for _, name := range c.sortedNames() {
		if on, ok := c.bools[name]; ok {
			writeString(name + "=" + boolString(on))
		} else {
			writeString(name + "=" + c.enums[name])
		}
	}
}

func (c *Config) sortedNames() []string {
	names := make([]string, 0, len(c.bools)+len(c.enums))
	for name := range c.bools {
		names = append(names, name)
	}
	for name := range c.enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func boolString(on bool) string {
	if on {
		return "true"
	}
	return "false"
}
