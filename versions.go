// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"regexp"

	"github.com/pkg/errors"

	"github.com/SCOREC/spack/vers"
)

// A VersionRecord declares one fetchable version of a package: an
// identifier plus either the fingerprint of its release archive or the
// name of a moving VCS branch. Identifiers are unique within a recipe.
type VersionRecord struct {
	ID     vers.Version
	Sum    Fingerprint
	Branch string
}

// IsBranch reports whether the record tracks a moving branch pointer
// instead of a fingerprinted release archive.
func (r VersionRecord) IsBranch() bool {
	return r.Branch != ""
}

func (r VersionRecord) String() string {
	if r.IsBranch() {
		return r.ID.String() + " (branch " + r.Branch + ")"
	}
	return r.ID.String() + " (" + r.Sum.String() + ")"
}

// urlVersionRe matches the rightmost dotted release number embedded in an
// example archive URL. Recipe URLs name one concrete release; every other
// release substitutes its own identifier at the same spot.
var urlVersionRe = regexp.MustCompile(`[0-9]+(\.[0-9]+)+`)

// substituteVersion rewrites the example archive URL for the given
// version identifier.
func substituteVersion(url string, v vers.Version) (string, error) {
	locs := urlVersionRe.FindAllStringIndex(url, -1)
	if len(locs) == 0 {
		return "", errors.Errorf("no version to substitute in url %q", url)
	}
	last := locs[len(locs)-1]
	return url[:last[0]] + v.String() + url[last[1]:], nil
}
