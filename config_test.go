// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"bytes"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	r := readGoldenRecipe(t)

	cfg, err := NewConfig(r, "1.2.0")
	if err != nil {
		t.Fatalf("Should have built a default configuration, but got err %q", err)
	}

	if !cfg.Enabled("shared") {
		t.Error("shared defaults to true, but the configuration reports it disabled")
	}
	if cfg.Enabled("mpi") {
		t.Error("mpi defaults to false, but the configuration reports it enabled")
	}
	if v := cfg.Value("precision"); v != "double" {
		t.Errorf("precision should default to double, got %q", v)
	}

	want := "fakelib@1.2.0~mpi+shared precision=double"
	if got := cfg.String(); got != want {
		t.Errorf("Config string:\n\t(GOT): %s\n\t(WNT): %s", got, want)
	}

	_, err = NewConfig(r, "9.9")
	if err == nil {
		t.Fatal("Configuring an undeclared version should fail, but it did not")
	}
	if _, ok := err.(*UnknownVersionError); !ok {
		t.Errorf("Expected an UnknownVersionError, got %T", err)
	}
}

func TestConfigOverrides(t *testing.T) {
	r := readGoldenRecipe(t)

	cfg, err := NewConfig(r, "1.2.0")
	if err != nil {
		t.Fatalf("NewConfig failed: %s", err)
	}

	if err := cfg.Enable("nope"); err == nil {
		t.Error("Enabling an undeclared variant should fail, but it did not")
	} else if _, ok := err.(*UnknownVariantError); !ok {
		t.Errorf("Expected an UnknownVariantError, got %T", err)
	}

	// Boolean assignment on an enumerated variant, and vice versa.
	if err := cfg.Enable("precision"); err == nil {
		t.Error("Enabling an enumerated variant should fail, but it did not")
	} else if _, ok := err.(*IllegalValueError); !ok {
		t.Errorf("Expected an IllegalValueError, got %T", err)
	}
	if err := cfg.Set("shared", "on"); err == nil {
		t.Error("Setting a value on a boolean variant should fail, but it did not")
	} else if _, ok := err.(*IllegalValueError); !ok {
		t.Errorf("Expected an IllegalValueError, got %T", err)
	}

	if err := cfg.Set("precision", "quad"); err == nil {
		t.Error("Setting a value outside the declared set should fail, but it did not")
	} else if _, ok := err.(*IllegalValueError); !ok {
		t.Errorf("Expected an IllegalValueError, got %T", err)
	}

	if err := cfg.Enable("mpi"); err != nil {
		t.Fatalf("Enable(mpi) failed: %s", err)
	}
	if err := cfg.Set("precision", "single"); err != nil {
		t.Fatalf("Set(precision, single) failed: %s", err)
	}
	if !cfg.Enabled("mpi") {
		t.Error("mpi was enabled, but the configuration reports it disabled")
	}
	if v := cfg.Value("precision"); v != "single" {
		t.Errorf("precision was set to single, got %q", v)
	}

	want := "fakelib@1.2.0+mpi+shared precision=single"
	if got := cfg.String(); got != want {
		t.Errorf("Config string:\n\t(GOT): %s\n\t(WNT): %s", got, want)
	}

	if err := cfg.Disable("shared"); err != nil {
		t.Fatalf("Disable(shared) failed: %s", err)
	}
	if cfg.Enabled("shared") {
		t.Error("shared was disabled, but the configuration reports it enabled")
	}
}

func TestConfigZeroValues(t *testing.T) {
	r := readGoldenRecipe(t)

	cfg, err := NewConfig(r, "1.2.0")
	if err != nil {
		t.Fatalf("NewConfig failed: %s", err)
	}

	// Reads are total: undeclared names report zero values.
	if cfg.Enabled("nope") {
		t.Error("An undeclared variant should read as disabled")
	}
	if v := cfg.Value("nope"); v != "" {
		t.Errorf("An undeclared variant should read as empty, got %q", v)
	}
	if v := cfg.Value("shared"); v != "" {
		t.Errorf("Value on a boolean variant should read as empty, got %q", v)
	}
}

func TestConfigDigest(t *testing.T) {
	r := readGoldenRecipe(t)

	first, err := NewConfig(r, "1.2.0")
	if err != nil {
		t.Fatalf("NewConfig failed: %s", err)
	}
	second, err := NewConfig(r, "1.2.0")
	if err != nil {
		t.Fatalf("NewConfig failed: %s", err)
	}

	if !bytes.Equal(first.Digest(), second.Digest()) {
		t.Error("Two identical configurations should digest identically")
	}

	if err := second.Enable("mpi"); err != nil {
		t.Fatalf("Enable(mpi) failed: %s", err)
	}
	if bytes.Equal(first.Digest(), second.Digest()) {
		t.Error("Flipping a variant should change the digest, but it did not")
	}

	older, err := NewConfig(r, "1.0.5")
	if err != nil {
		t.Fatalf("NewConfig failed: %s", err)
	}
	if bytes.Equal(first.Digest(), older.Digest()) {
		t.Error("Different versions should digest differently, but they did not")
	}
}
