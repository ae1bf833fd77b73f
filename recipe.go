// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spack models declarative package-build recipes: per-version
// download and checksum tables, typed build options, conflict rules,
// dependency edges, and the translation of a finalized option selection
// into build-tool arguments. The surrounding package manager supplies
// everything else: cross-package version resolution, fetching, and the
// build itself all happen in the host, which consumes these declarations.
package spack

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/SCOREC/spack/vers"
)

// A Recipe is one package's loaded declaration: where its sources live,
// which versions exist and how to verify them, which build options it
// exposes, which combinations are forbidden, and which other packages it
// needs. Recipes are immutable once loaded; the host reads them at build
// time and never writes them back.
type Recipe struct {
	Name        string
	Description string

	// Homepage is informational. URL is the example archive location the
	// per-version download URLs derive from, and Git is the repository
	// branch versions are cloned from.
	Homepage string
	URL      string
	Git      string

	// BuildSystem names the configuration tool the translated arguments
	// are for, e.g. "cmake" or "python".
	BuildSystem string

	// ImportModules lists the module names an interpreted-language package
	// installs, used by hosts to sanity-check an install.
	ImportModules []string

	Versions  []VersionRecord
	Variants  []Variant
	Conflicts []Conflict
	Depends   []Dependency
}

// Version looks up a declared version record by its identifier.
func (r *Recipe) Version(id string) (VersionRecord, bool) {
	for _, vr := range r.Versions {
		if vr.ID.String() == id {
			return vr, true
		}
	}
	return VersionRecord{}, false
}

// Variant looks up a declared variant by name.
func (r *Recipe) Variant(name string) (*Variant, bool) {
	for i := range r.Variants {
		if r.Variants[i].Name == name {
			return &r.Variants[i], true
		}
	}
	return nil, false
}

// SortedVersions returns the declared versions ordered newest first, with
// branch versions ahead of numeric releases.
func (r *Recipe) SortedVersions() []VersionRecord {
	out := make([]VersionRecord, len(r.Versions))
	copy(out, r.Versions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID.Compare(out[j].ID) > 0
	})
	return out
}

// Preferred returns the version a host should pick when the user names
// none: the newest fingerprinted release. Branch versions are moving
// targets and are only preferred when the recipe declares nothing else.
func (r *Recipe) Preferred() (VersionRecord, bool) {
	var best VersionRecord
	var found bool
	for _, vr := range r.Versions {
		if vr.IsBranch() {
			continue
		}
		if !found || vr.ID.Compare(best.ID) > 0 {
			best, found = vr, true
		}
	}
	if found {
		return best, true
	}
	if len(r.Versions) > 0 {
		return r.Versions[0], true
	}
	return VersionRecord{}, false
}

// DownloadURL derives the archive URL for one declared version by
// substituting its identifier into the recipe's example URL. Branch
// versions have no archive; hosts clone Git instead.
func (r *Recipe) DownloadURL(v vers.Version) (string, error) {
	vr, ok := r.Version(v.String())
	if !ok {
		return "", &UnknownVersionError{Recipe: r.Name, Version: v.String()}
	}
	if vr.IsBranch() {
		return "", errors.Errorf("version %s of %s tracks branch %s and has no archive url", v, r.Name, vr.Branch)
	}
	if r.URL == "" {
		return "", errors.Errorf("recipe %s declares no archive url", r.Name)
	}
	return substituteVersion(r.URL, v)
}

// DependenciesFor returns the dependency edges active under the given
// configuration, in declaration order.
func (r *Recipe) DependenciesFor(cfg *Config) []Dependency {
	var out []Dependency
	for _, d := range r.Depends {
		if d.When.Matches(cfg) {
			out = append(out, d)
		}
	}
	return out
}
