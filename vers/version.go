// Package vers models the version identifiers and version constraints used
// by package recipes.
//
// Scientific packages do not follow semver. Release identifiers are dotted
// numeric strings of arbitrary precision, frequently zero-padded (2.04.11,
// 2.03.13), and a recipe may also track a moving VCS branch such as
// "develop". Constraints are inclusive ranges with prefix semantics: the
// range ":1" admits every 1.x release, and the point "2.7" admits 2.7.1.
package vers

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// Version is a single release identifier. There are two kinds: numeric
// versions, which denote immutable releases and compare componentwise, and
// branch versions, which denote a moving VCS pointer. A branch compares
// greater than every numeric version, so an open-ended range admits it and
// a bounded one does not.
type Version struct {
	raw  string
	v    *goversion.Version
	segs []int
}

// New parses a version identifier. Identifiers that do not parse as dotted
// numeric versions are treated as branch names; New itself never fails, in
// the same way a constraint that isn't semver falls back to a plain string
// in other tooling.
func New(s string) Version {
	v, err := goversion.NewVersion(s)
	if err != nil {
		return Version{raw: s}
	}
	segs := v.Segments()
	// go-version zero-pads to three segments; trim back to the precision
	// that was actually written so that prefix checks see "1" and not
	// "1.0.0".
	if n := strings.Count(s, ".") + 1; n < len(segs) {
		segs = segs[:n]
	}
	return Version{raw: s, v: v, segs: segs}
}

// NewBranch returns a branch version, regardless of whether the name would
// also parse as a numeric version.
func NewBranch(s string) Version {
	return Version{raw: s}
}

func (v Version) String() string {
	return v.raw
}

// IsBranch reports whether v is a moving branch pointer rather than a
// numeric release.
func (v Version) IsBranch() bool {
	return v.v == nil
}

// Segments returns the written numeric components of v, without zero
// padding. It returns nil for branch versions.
func (v Version) Segments() []int {
	if v.segs == nil {
		return nil
	}
	out := make([]int, len(v.segs))
	copy(out, v.segs)
	return out
}

// Compare returns -1, 0 or 1 as v is less than, equal to or greater than
// o. Numeric versions compare componentwise with zero padding, a branch
// compares greater than any numeric version, and two branches compare by
// name so that sorts stay deterministic.
func (v Version) Compare(o Version) int {
	switch {
	case v.IsBranch() && o.IsBranch():
		return strings.Compare(v.raw, o.raw)
	case v.IsBranch():
		return 1
	case o.IsBranch():
		return -1
	}
	return v.v.Compare(o.v)
}

// prefixOf reports whether every written component of v matches the
// corresponding component of o. It is how range endpoints admit releases
// written with more precision than the endpoint: 1 is a prefix of 1.10,
// and 2.7 of 2.7.1.
func (v Version) prefixOf(o Version) bool {
	if v.IsBranch() || o.IsBranch() {
		return v.IsBranch() && o.IsBranch() && v.raw == o.raw
	}
	if len(v.segs) > len(o.segs) {
		return false
	}
	for i, s := range v.segs {
		if o.segs[i] != s {
			return false
		}
	}
	return true
}

// Versions implements sort.Interface, ordering newest first. Branches sort
// before numeric releases: a moving pointer is newer than any release it
// has already produced.
type Versions []Version

func (vs Versions) Len() int      { return len(vs) }
func (vs Versions) Swap(i, j int) { vs[i], vs[j] = vs[j], vs[i] }

func (vs Versions) Less(i, j int) bool {
	return vs[i].Compare(vs[j]) > 0
}
