// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/SCOREC/spack/internal/test"
)

func TestReadRecipe(t *testing.T) {
	h := test.NewHelper(t)
	defer h.Cleanup()

	got, err := ReadRecipe([]byte(h.GetTestFileString("recipe/golden.toml")))
	if err != nil {
		t.Fatalf("Should have read the recipe correctly, but got err %q", err)
	}

	if got.Name != "fakelib" {
		t.Errorf("Name = %q, wanted fakelib", got.Name)
	}
	if got.Homepage != "https://example.com/fakelib" {
		t.Errorf("Homepage did not parse as expected: %q", got.Homepage)
	}
	if got.URL != "https://example.com/fakelib/fakelib-1.2.0.tar.gz" {
		t.Errorf("URL did not parse as expected: %q", got.URL)
	}
	if got.Git != "https://example.com/fakelib.git" {
		t.Errorf("Git did not parse as expected: %q", got.Git)
	}
	if got.BuildSystem != "cmake" {
		t.Errorf("BuildSystem = %q, wanted cmake", got.BuildSystem)
	}

	if len(got.Versions) != 3 {
		t.Fatalf("Expected 3 versions, got %d", len(got.Versions))
	}
	dev := got.Versions[0]
	if !dev.IsBranch() || dev.Branch != "master" || !dev.ID.IsBranch() {
		t.Errorf("develop record did not parse as a branch: %s", dev)
	}
	if algo := got.Versions[1].Sum.Algo; algo != SHA256 {
		t.Errorf("1.2.0 checksum algorithm = %q, wanted sha256", algo)
	}
	if algo := got.Versions[2].Sum.Algo; algo != MD5 {
		t.Errorf("1.0.5 checksum algorithm = %q, wanted md5", algo)
	}

	shared, ok := got.Variant("shared")
	if !ok || shared.Type != BoolVariant || !shared.DefaultBool {
		t.Error("shared variant did not parse as a boolean defaulting to true")
	}
	precision, ok := got.Variant("precision")
	if !ok || precision.Type != EnumVariant || precision.DefaultEnum != "double" {
		t.Fatal("precision variant did not parse as an enum defaulting to double")
	}
	if !precision.Legal("single") || !precision.Legal("double") || precision.Legal("quad") {
		t.Error("precision legality does not follow the declared value set")
	}

	if len(got.Conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(got.Conflicts))
	}
	c := got.Conflicts[0]
	if c.Trigger.String() != "+mpi" || c.When.String() != "@:1.0" || c.Msg != "MPI arrived in 1.2." {
		t.Errorf("Conflict did not parse as expected: %s (msg %q)", c, c.Msg)
	}

	if len(got.Depends) != 2 {
		t.Fatalf("Expected 2 dependencies, got %d", len(got.Depends))
	}
	cmake := got.Depends[0]
	if cmake.Name != "cmake" || cmake.Range.String() != "3:" {
		t.Errorf("cmake dependency did not parse as expected: %s", cmake)
	}
	if cmake.Type != DepBuild || cmake.Type.Has(DepLink) {
		t.Errorf("cmake dependency type = %s, wanted build only", cmake.Type)
	}
	if !cmake.When.IsAlways() {
		t.Error("cmake dependency should be unconditional")
	}
	mpi := got.Depends[1]
	if mpi.Name != "mpi" || mpi.When.String() != "+mpi" || mpi.Type != DepDefault {
		t.Errorf("mpi dependency did not parse as expected: %s", mpi)
	}
}

func TestReadRecipeErrors(t *testing.T) {
	table := map[string]struct {
		toml string
		want string
	}{
		"malformed toml": {
			toml: "name = [",
			want: "unable to parse",
		},
		"no name": {
			toml: `
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
`,
			want: "declares no name",
		},
		"wrong type for name": {
			toml: `name = 42`,
			want: "Invalid type for name",
		},
		"no versions": {
			toml: `name = "x"`,
			want: "declares no versions",
		},
		"duplicate version": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[versions]]
version = "1.0"
checksum = "6c9bd8d8f8e1fca2e63c68fb41bbcd0df2401a7c94ce7a2f278e97e889b6b9e4"
`,
			want: "more than once",
		},
		"checksum and branch": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
branch = "main"
`,
			want: "exactly one of checksum or branch",
		},
		"no source": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
`,
			want: "exactly one of checksum or branch",
		},
		"checksum of unrecognized length": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "abcdef0123"
`,
			want: "recognized checksums",
		},
		"checksum not hexadecimal": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "zzzc0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
`,
			want: "not hexadecimal",
		},
		"duplicate variant": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[variants]]
name = "shared"
default = true
[[variants]]
name = "shared"
default = false
`,
			want: "variant shared more than once",
		},
		"boolean variant with values": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[variants]]
name = "shared"
default = false
values = ["on", "off"]
`,
			want: "cannot declare a value set",
		},
		"variant without default": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[variants]]
name = "shared"
`,
			want: "declares no default",
		},
		"conflict without trigger": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[conflicts]]
msg = "nope"
`,
			want: "declares no trigger",
		},
		"conflict on undeclared variant": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[conflicts]]
trigger = "+nope"
`,
			want: "declares no variant",
		},
		"equality against a boolean variant": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[variants]]
name = "shared"
default = true
[[conflicts]]
trigger = "shared=on"
`,
			want: "not enumerated",
		},
		"toggle against an enum variant": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[variants]]
name = "precision"
default = "double"
values = ["single", "double"]
[[conflicts]]
trigger = "+precision"
`,
			want: "not boolean",
		},
		"illegal value in condition": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[variants]]
name = "precision"
default = "double"
values = ["single", "double"]
[[conflicts]]
trigger = "precision=quad"
`,
			want: "not a legal value",
		},
		"malformed condition term": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[conflicts]]
trigger = "%cuda"
`,
			want: "unrecognized term",
		},
		"dependency without a package": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[depends]]
when = "+shared"
`,
			want: "names no package",
		},
		"dependency with a malformed range": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[depends]]
spec = "foo@1:2:3"
`,
			want: "more than one colon",
		},
		"dependency with an unknown type": {
			toml: `
name = "x"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
[[depends]]
spec = "foo"
type = ["magic"]
`,
			want: "unknown dependency type",
		},
	}

	for name, fix := range table {
		t.Run(name, func(t *testing.T) {
			_, err := ReadRecipe([]byte(fix.toml))
			if err == nil {
				t.Fatal("Reading an invalid recipe should have caused an error, but did not")
			}
			if !strings.Contains(err.Error(), fix.want) {
				t.Errorf("Unexpected error %q; expected it to mention %q", err, fix.want)
			}
		})
	}
}

func TestReadRecipeWarnsUnrecognizedKeys(t *testing.T) {
	var buf bytes.Buffer
	l := &Loggers{
		Out:     log.New(&buf, "", 0),
		Err:     log.New(&buf, "", 0),
		Verbose: true,
	}

	_, err := NewLoader(l).ReadRecipe([]byte(`
name = "x"
colour = "blue"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
sha1 = "ignored"
`))
	if err != nil {
		t.Fatalf("Unrecognized keys must not be fatal, but got err %q", err)
	}
	out := buf.String()
	if !strings.Contains(out, `unrecognized key "colour"`) {
		t.Errorf("Expected a warning about the colour key, got:\n%s", out)
	}
	if !strings.Contains(out, `unrecognized key "sha1"`) {
		t.Errorf("Expected a warning about the sha1 key, got:\n%s", out)
	}
}

func TestLoadDir(t *testing.T) {
	h := test.NewHelper(t)
	defer h.Cleanup()

	recipe := func(name string) string {
		return `
name = "` + name + `"
[[versions]]
version = "1.0"
checksum = "7d1c0e9f2a4b3c5d6e8f0a1b2c3d4e5f"
`
	}
	h.TempDir("recipes/sub")
	h.TempFile("recipes/b.toml", recipe("blib"))
	h.TempFile("recipes/sub/a.toml", recipe("alib"))
	h.TempFile("recipes/notes.txt", "not a recipe")

	reg, err := NewLoader(DiscardLoggers()).LoadDir(h.Path("recipes"))
	if err != nil {
		t.Fatalf("Should have loaded the collection, but got err %q", err)
	}
	if reg.Len() != 2 {
		t.Errorf("Expected 2 recipes, got %d", reg.Len())
	}
	want := []string{"alib", "blib"}
	got := reg.Names("")
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Names = %v, wanted %v", got, want)
	}

	h.TempDir("dup")
	h.TempFile("dup/one.toml", recipe("samelib"))
	h.TempFile("dup/two.toml", recipe("samelib"))
	if _, err := NewLoader(DiscardLoggers()).LoadDir(h.Path("dup")); err == nil {
		t.Error("Loading two recipes under one name should have caused an error, but did not")
	} else if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("Unexpected error %q; expected a duplicate registration error", err)
	}
}
