// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"github.com/pkg/errors"
)

// Validate performs all constraint checks on a finalized configuration
// before the host commits to building it. It determines whether cfg names
// a declared version, assigns only declared variants with legal values,
// and escapes every declared conflict.
//
// All problems found are reported together in a single *ValidationError
// rather than one at a time. A nil return is the translator's
// precondition: only validated configurations may be translated into
// build arguments.
func Validate(r *Recipe, cfg *Config) error {
	if err := checkConfigIsFor(r, cfg); err != nil {
		// Every later check would be noise against the wrong recipe.
		return &ValidationError{Spec: cfg.String(), Issues: []error{err}}
	}

	var issues []error
	if err := checkVersionDeclared(r, cfg); err != nil {
		issues = append(issues, err)
	}
	issues = append(issues, checkVariantAssignments(r, cfg)...)
	issues = append(issues, checkConflicts(r, cfg)...)

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Spec: cfg.String(), Issues: issues}
}

// checkConfigIsFor ensures the configuration was built for this recipe in
// the first place.
func checkConfigIsFor(r *Recipe, cfg *Config) error {
	if cfg.Name != r.Name {
		return errors.Errorf("configuration is for %s, not %s", cfg.Name, r.Name)
	}
	return nil
}

// checkVersionDeclared ensures the configuration's version is one the
// recipe declares.
func checkVersionDeclared(r *Recipe, cfg *Config) error {
	if _, ok := r.Version(cfg.Version.String()); !ok {
		return &UnknownVersionError{Recipe: r.Name, Version: cfg.Version.String()}
	}
	return nil
}

// checkVariantAssignments ensures every variant the configuration carries
// is declared, carries the declared type, and holds a legal value.
func checkVariantAssignments(r *Recipe, cfg *Config) []error {
	var issues []error
	for _, name := range cfg.sortedNames() {
		v, ok := r.Variant(name)
		if !ok {
			issues = append(issues, &UnknownVariantError{Recipe: r.Name, Variant: name})
			continue
		}
		if _, isBool := cfg.bools[name]; isBool {
			if v.Type != BoolVariant {
				issues = append(issues, &IllegalValueError{
					Recipe: r.Name, Variant: name, Value: boolString(cfg.bools[name]), Legal: v.legalValues(),
				})
			}
			continue
		}
		if v.Type != EnumVariant || !v.Legal(cfg.enums[name]) {
			issues = append(issues, &IllegalValueError{
				Recipe: r.Name, Variant: name, Value: cfg.enums[name], Legal: v.legalValues(),
			})
		}
	}
	return issues
}

// checkConflicts evaluates every declared conflict against the
// configuration and reports each one that fires.
func checkConflicts(r *Recipe, cfg *Config) []error {
	var issues []error
	for _, c := range r.Conflicts {
		if c.appliesTo(cfg) {
			issues = append(issues, &ConflictViolationError{Spec: cfg.String(), Conflict: c})
		}
	}
	return issues
}

// CheckRecipe lints a loaded recipe for versions no reachable
// configuration can build. A declared constraint set must leave at least
// one buildable combination per version; a version whose own defaults
// already fire a conflict is an authoring defect, since users reasonably
// expect the defaults to build.
func CheckRecipe(r *Recipe) error {
	var issues []error
	for _, vr := range r.Versions {
		cfg, err := NewConfig(r, vr.ID.String())
		if err != nil {
			issues = append(issues, err)
			continue
		}
		if err := Validate(r, cfg); err != nil {
			issues = append(issues, errors.Wrapf(err, "defaults of version %s are unbuildable", vr.ID))
		}
	}
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Spec: r.Name, Issues: issues}
}
