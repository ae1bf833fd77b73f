// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"github.com/pkg/errors"
)

// An ArgsFunc translates a validated configuration into arguments for
// the recipe's build-configuration tool. Implementations are pure and
// total: deterministic output for identical input, no side effects, no
// failure path. They assume the configuration already passed Validate;
// behavior on an invalid configuration is unspecified.
type ArgsFunc func(*Config) []string

// A Registry holds one loaded recipe collection: recipes by name, with
// prefix search, and the translator bound to each recipe that has
// procedural build logic. Registries are populated once at load time and
// read-only afterward.
type Registry struct {
	recipes recipeTrie
	args    map[string]ArgsFunc
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		recipes: newRecipeTrie(),
		args:    make(map[string]ArgsFunc),
	}
}

// Add registers a loaded recipe. Names are unique across a collection; a
// second recipe under the same name is an authoring error, never a
// silent replacement.
func (reg *Registry) Add(r *Recipe) error {
	if _, has := reg.recipes.Get(r.Name); has {
		return errors.Errorf("a recipe named %s is already registered", r.Name)
	}
	reg.recipes.Insert(r.Name, r)
	return nil
}

// Get returns the named recipe.
func (reg *Registry) Get(name string) (*Recipe, error) {
	r, has := reg.recipes.Get(name)
	if !has {
		return nil, &UnknownRecipeError{Name: name}
	}
	return r, nil
}

// Has reports whether a recipe is registered under name.
func (reg *Registry) Has(name string) bool {
	_, has := reg.recipes.Get(name)
	return has
}

// Len returns the number of registered recipes.
func (reg *Registry) Len() int {
	return reg.recipes.Len()
}

// Names returns the names of registered recipes beginning with prefix,
// in lexical order. The empty prefix lists the whole collection.
func (reg *Registry) Names(prefix string) []string {
	var names []string
	reg.recipes.WalkPrefix(prefix, func(name string, _ *Recipe) bool {
		names = append(names, name)
		return false
	})
	return names
}

// All returns every registered recipe in name order.
func (reg *Registry) All() []*Recipe {
	out := make([]*Recipe, 0, reg.Len())
	reg.recipes.Walk(func(_ string, r *Recipe) bool {
		out = append(out, r)
		return false
	})
	return out
}

// BindArgs attaches the build-argument translator for the named recipe.
// Recipes without a bound translator are purely declarative and take no
// build arguments.
func (reg *Registry) BindArgs(name string, fn ArgsFunc) error {
	if !reg.Has(name) {
		return &UnknownRecipeError{Name: name}
	}
	reg.args[name] = fn
	return nil
}

// Args translates cfg through the named recipe's bound translator. The
// configuration must already have passed Validate; Args dispatches
// without re-checking, per the translator contract.
func (reg *Registry) Args(name string, cfg *Config) ([]string, error) {
	if _, err := reg.Get(name); err != nil {
		return nil, err
	}
	fn, bound := reg.args[name]
	if !bound {
		return nil, nil
	}
	return fn(cfg), nil
}
