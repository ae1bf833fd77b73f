// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

// VariantType distinguishes the two kinds of build option a recipe can
// expose.
type VariantType uint8

const (
	// BoolVariant is an on/off option.
	BoolVariant VariantType = iota
	// EnumVariant is a single-valued option drawn from a closed set.
	EnumVariant
)

func (t VariantType) String() string {
	if t == EnumVariant {
		return "enum"
	}
	return "bool"
}

// A Variant declares one named, typed build option. Boolean variants carry
// a default of on or off; enumerated variants carry a default plus the
// closed set of values an override may choose. The effective value of a
// variant in any build is its default unless explicitly overridden, and an
// override must be legal per Legal.
type Variant struct {
	Name        string
	Description string
	Type        VariantType

	DefaultBool bool

	DefaultEnum string
	Values      []string
}

// Legal reports whether value is an admissible setting for an enumerated
// variant. The default is always admissible, even when the declared value
// set does not repeat it; "none"-style sentinels rely on this.
func (v *Variant) Legal(value string) bool {
	if v.Type != EnumVariant {
		return false
	}
	if value == v.DefaultEnum {
		return true
	}
	for _, ok := range v.Values {
		if value == ok {
			return true
		}
	}
	return false
}

// Default renders the declared default as a string, for display and
// digesting.
func (v *Variant) Default() string {
	if v.Type == EnumVariant {
		return v.DefaultEnum
	}
	if v.DefaultBool {
		return "true"
	}
	return "false"
}

// legalValues lists every admissible setting, for diagnostics.
func (v *Variant) legalValues() []string {
	if v.Type != EnumVariant {
		return []string{"on", "off"}
	}
	out := make([]string, 0, len(v.Values)+1)
	seen := false
	for _, val := range v.Values {
		if val == v.DefaultEnum {
			seen = true
		}
		out = append(out, val)
	}
	if !seen {
		out = append([]string{v.DefaultEnum}, out...)
	}
	return out
}
