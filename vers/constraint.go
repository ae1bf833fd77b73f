package vers

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	anyC  = anyVersions{}
	noneC = noVersions{}
)

// A Constraint provides structured limitations on the versions that are
// admissible for a recipe or one of its rules.
type Constraint interface {
	fmt.Stringer
	// Matches indicates if the provided Version is allowed by the Constraint.
	Matches(Version) bool
	// MatchesAny indicates if the intersection of the Constraint with the
	// provided Constraint could allow any Version at all.
	MatchesAny(Constraint) bool
	// Intersect computes the intersection of the Constraint with the
	// provided Constraint.
	Intersect(Constraint) Constraint
}

// Any returns a constraint that will match any version.
func Any() Constraint {
	return anyC
}

// None returns a constraint that matches no version.
func None() Constraint {
	return noneC
}

// IsAny indicates if the provided constraint is the wildcard "Any" constraint.
func IsAny(c Constraint) bool {
	_, ok := c.(anyVersions)
	return ok
}

// IsNone indicates if the provided constraint is the empty "None" constraint.
func IsNone(c Constraint) bool {
	_, ok := c.(noVersions)
	return ok
}

// ParseRange parses the range notation used throughout recipe rules:
//
//	lo:hi   every version from lo through hi, inclusive
//	:hi     every version up through hi
//	lo:     every version from lo on
//	:       any version
//	v       the single release v, and anything it is a prefix of
//
// Endpoints are inclusive and carry prefix semantics, so ":1" admits 1.10
// and the point "2.7" admits 2.7.1.
func ParseRange(s string) (Constraint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty version range")
	}
	if s == ":" {
		return anyC, nil
	}

	i := strings.Index(s, ":")
	if i < 0 {
		v := New(s)
		return rangeC{lo: &v, hi: &v, pt: true}, nil
	}
	if strings.Contains(s[i+1:], ":") {
		return nil, errors.Errorf("version range %q has more than one colon", s)
	}

	var r rangeC
	if lo := s[:i]; lo != "" {
		v := New(lo)
		r.lo = &v
	}
	if hi := s[i+1:]; hi != "" {
		v := New(hi)
		r.hi = &v
	}
	return r, nil
}

// NewRange returns a constraint admitting versions between lo and hi,
// inclusive. A nil endpoint leaves that side unbounded.
func NewRange(lo, hi *Version) Constraint {
	if lo == nil && hi == nil {
		return anyC
	}
	r := rangeC{}
	if lo != nil {
		v := *lo
		r.lo = &v
	}
	if hi != nil {
		v := *hi
		r.hi = &v
	}
	return r
}

// rangeC is an inclusive version range, possibly open on either end. A
// point range (pt) prints as the bare version.
type rangeC struct {
	lo, hi *Version
	pt     bool
}

func (r rangeC) String() string {
	if r.pt {
		return r.lo.String()
	}
	var lo, hi string
	if r.lo != nil {
		lo = r.lo.String()
	}
	if r.hi != nil {
		hi = r.hi.String()
	}
	return lo + ":" + hi
}

func (r rangeC) Matches(v Version) bool {
	if r.lo != nil && v.Compare(*r.lo) < 0 && !r.lo.prefixOf(v) {
		return false
	}
	if r.hi != nil && v.Compare(*r.hi) > 0 && !r.hi.prefixOf(v) {
		return false
	}
	return true
}

func (r rangeC) MatchesAny(c Constraint) bool {
	return !IsNone(r.Intersect(c))
}

func (r rangeC) Intersect(c Constraint) Constraint {
	switch c2 := c.(type) {
	case anyVersions:
		return r
	case noVersions:
		return noneC
	case rangeC:
		out := rangeC{lo: tighterLo(r.lo, c2.lo), hi: tighterHi(r.hi, c2.hi)}
		if out.lo != nil && out.hi != nil {
			if out.hi.Compare(*out.lo) < 0 && !out.hi.prefixOf(*out.lo) {
				return noneC
			}
			if out.lo.Compare(*out.hi) == 0 && !out.pt {
				out.pt = r.pt || c2.pt
			}
		}
		return out
	}
	return noneC
}

// tighterLo picks the more restrictive lower bound. A later version always
// excludes more, so a plain comparison suffices.
func tighterLo(a, b *Version) *Version {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Compare(*b) >= 0:
		return a
	}
	return b
}

// tighterHi picks the more restrictive upper bound. Prefix endpoints admit
// everything they prefix, so ":1" is looser than ":1.8" even though 1
// compares below 1.8.
func tighterHi(a, b *Version) *Version {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.prefixOf(*b):
		return b
	case b.prefixOf(*a):
		return a
	case a.Compare(*b) <= 0:
		return a
	}
	return b
}

// anyVersions is an unbounded constraint - it matches every version.
type anyVersions struct{}

func (anyVersions) String() string {
	return ":"
}

func (anyVersions) Matches(Version) bool {
	return true
}

func (anyVersions) MatchesAny(c Constraint) bool {
	return !IsNone(c)
}

func (anyVersions) Intersect(c Constraint) Constraint {
	return c
}

// noVersions is the empty set - it matches no versions.
type noVersions struct{}

func (noVersions) String() string {
	return ""
}

func (noVersions) Matches(Version) bool {
	return false
}

func (noVersions) MatchesAny(Constraint) bool {
	return false
}

func (noVersions) Intersect(Constraint) Constraint {
	return noneC
}
