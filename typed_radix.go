// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"github.com/armon/go-radix"
)

// Typed implementation of a radix tree. A simple wrapper that lets us
// avoid having to type assert anywhere else, cleaning up other code a
// bit.
//
// Only the operations the registry actually performs are implemented.
// More can be added if/when we need them.

type recipeTrie struct {
	t *radix.Tree
}

func newRecipeTrie() recipeTrie {
	return recipeTrie{
		t: radix.New(),
	}
}

// Get is used to look up a specific key, returning the recipe and if it was found
func (t recipeTrie) Get(s string) (*Recipe, bool) {
	if v, has := t.t.Get(s); has {
		return v.(*Recipe), has
	}
	return nil, false
}

// Insert is used to add a new entry or update an existing entry. Returns if updated.
func (t recipeTrie) Insert(s string, r *Recipe) (*Recipe, bool) {
	if v, had := t.t.Insert(s, r); had {
		return v.(*Recipe), had
	}
	return nil, false
}

// Len is used to return the number of elements in the tree
func (t recipeTrie) Len() int {
	return t.t.Len()
}

// Walk visits every entry in lexical key order until fn returns true.
func (t recipeTrie) Walk(fn func(string, *Recipe) bool) {
	t.t.Walk(func(s string, v interface{}) bool {
		return fn(s, v.(*Recipe))
	})
}

// WalkPrefix visits, in lexical key order, every entry whose key begins
// with prefix.
func (t recipeTrie) WalkPrefix(prefix string, fn func(string, *Recipe) bool) {
	t.t.WalkPrefix(prefix, func(s string, v interface{}) bool {
		return fn(s, v.(*Recipe))
	})
}
