// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package builtin ships the recipe collection compiled into a host
// binary, so fresh installs can build packages before any external
// collection has been fetched. Declarations live in recipes/*.toml;
// recipes with procedural build logic pair their declaration with a Go
// translator here.
package builtin

import (
	"embed"

	"github.com/SCOREC/spack"
)

//go:embed recipes/*.toml
var recipesFS embed.FS

// Load returns a Registry holding every builtin recipe, with each
// procedural translator bound. A nil Loggers loads silently.
func Load(l *spack.Loggers) (*spack.Registry, error) {
	reg, err := spack.NewLoader(l).LoadFS(recipesFS, "recipes")
	if err != nil {
		return nil, err
	}
	if err := reg.BindArgs("kokkos", KokkosCMakeArgs); err != nil {
		return nil, err
	}
	return reg, nil
}
