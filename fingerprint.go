// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// Checksum algorithms recognized in version records.
const (
	MD5    = "md5"
	SHA256 = "sha256"
)

// A Fingerprint is the content checksum of a release archive. Once a
// fingerprint is published for a version identifier it must never change;
// hosts reject archives whose checksum disagrees with the declared one.
type Fingerprint struct {
	Algo string
	Hex  string
}

// ParseFingerprint reads a hex checksum, inferring the algorithm from its
// length the way recipe authors write them: 32 digits is md5, 64 is
// sha256. Anything else is an authoring error.
func ParseFingerprint(s string) (Fingerprint, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, err := hex.DecodeString(s); err != nil {
		return Fingerprint{}, errors.Wrapf(err, "checksum %q is not hexadecimal", s)
	}
	switch hex.DecodedLen(len(s)) {
	case md5.Size:
		return Fingerprint{Algo: MD5, Hex: s}, nil
	case sha256.Size:
		return Fingerprint{Algo: SHA256, Hex: s}, nil
	}
	return Fingerprint{}, errors.Errorf("checksum %q has length %d; recognized checksums are md5 (32 hex digits) and sha256 (64)", s, len(s))
}

// IsZero reports whether f carries no checksum at all, as on branch
// version records.
func (f Fingerprint) IsZero() bool {
	return f.Algo == "" && f.Hex == ""
}

func (f Fingerprint) String() string {
	if f.IsZero() {
		return ""
	}
	return f.Algo + ":" + f.Hex
}

// Verify reports whether data hashes to this fingerprint. A zero
// fingerprint verifies nothing.
func (f Fingerprint) Verify(data []byte) bool {
	switch f.Algo {
	case MD5:
		sum := md5.Sum(data)
		return hex.EncodeToString(sum[:]) == f.Hex
	case SHA256:
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:]) == f.Hex
	}
	return false
}
