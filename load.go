// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/SCOREC/spack/vers"
)

// A Loader reads recipe declarations into memory, enforcing the
// author-time invariants the rest of the package then relies on: version
// identifiers unique, exactly one source per version, variant names
// unique, enumerations well formed, and every rule condition resolvable
// against the variant table it will be evaluated under.
type Loader struct {
	Loggers *Loggers
}

// NewLoader returns a Loader that logs through the given Loggers.
func NewLoader(l *Loggers) *Loader {
	return &Loader{Loggers: l}
}

// ReadRecipe parses and checks a single recipe declaration without any
// logging.
func ReadRecipe(b []byte) (*Recipe, error) {
	return (&Loader{Loggers: DiscardLoggers()}).ReadRecipe(b)
}

// ReadRecipe parses one recipe declaration and enforces the loader's
// invariants. Unrecognized keys are not fatal; they warn under verbose
// logging so that recipes written for a newer schema still load.
func (ld *Loader) ReadRecipe(b []byte) (*Recipe, error) {
	tree, err := toml.LoadBytes(b)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse the recipe as TOML")
	}
	ld.warnUnrecognizedKeys(tree)

	mapper := &tomlMapper{Tree: tree}
	raw := mapRecipe(mapper)
	if mapper.Error != nil {
		return nil, errors.Wrap(mapper.Error, "unable to map the recipe")
	}
	return fromRawRecipe(raw)
}

// LoadDir loads every *.toml recipe under dir into a fresh Registry.
// Files are visited in lexical order, so loading the same collection
// twice produces the same registry and the same duplicate-name error if
// there is one.
func (ld *Loader) LoadDir(dir string) (*Registry, error) {
	reg := NewRegistry()
	err := godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() || filepath.Ext(osPathname) != ".toml" {
				return nil
			}
			b, err := os.ReadFile(osPathname)
			if err != nil {
				return err
			}
			return ld.addRecipe(reg, osPathname, b)
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load recipes from %s", dir)
	}
	return reg, nil
}

// LoadFS is LoadDir for an fs.FS, which is how embedded recipe
// collections ship inside a host binary.
func (ld *Loader) LoadFS(fsys fs.FS, dir string) (*Registry, error) {
	reg := NewRegistry()
	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".toml") {
			return nil
		}
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		return ld.addRecipe(reg, path, b)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load recipes from %s", dir)
	}
	return reg, nil
}

func (ld *Loader) addRecipe(reg *Registry, path string, b []byte) error {
	r, err := ld.ReadRecipe(b)
	if err != nil {
		return errors.Wrapf(err, "unable to load %s", path)
	}
	if ld.Loggers != nil && ld.Loggers.Verbose {
		ld.Loggers.Err.Printf("Loaded %s from %s: %d versions, %d variants", r.Name, path, len(r.Versions), len(r.Variants))
	}
	return reg.Add(r)
}

var (
	knownRecipeKeys = map[string]bool{
		"name": true, "description": true, "homepage": true, "url": true,
		"git": true, "build": true, "import_modules": true, "versions": true,
		"variants": true, "conflicts": true, "depends": true,
	}
	knownVersionKeys  = map[string]bool{"version": true, "checksum": true, "branch": true}
	knownVariantKeys  = map[string]bool{"name": true, "description": true, "default": true, "values": true}
	knownConflictKeys = map[string]bool{"trigger": true, "when": true, "msg": true}
	knownDependKeys   = map[string]bool{"spec": true, "when": true, "type": true}
)

func (ld *Loader) warnUnrecognizedKeys(tree *toml.Tree) {
	if ld.Loggers == nil || !ld.Loggers.Verbose {
		return
	}
	for _, k := range tree.Keys() {
		if !knownRecipeKeys[k] {
			ld.Loggers.Err.Printf("Warning: unrecognized key %q in recipe", k)
		}
	}
	warnTables := func(table string, known map[string]bool) {
		tables, ok := tree.Get(table).([]*toml.Tree)
		if !ok {
			return
		}
		for _, t := range tables {
			for _, k := range t.Keys() {
				if !known[k] {
					ld.Loggers.Err.Printf("Warning: unrecognized key %q in [[%s]]", k, table)
				}
			}
		}
	}
	warnTables("versions", knownVersionKeys)
	warnTables("variants", knownVariantKeys)
	warnTables("conflicts", knownConflictKeys)
	warnTables("depends", knownDependKeys)
}

// The raw types mirror the TOML document shape before any invariant
// checking happens.
type rawRecipe struct {
	Name          string
	Description   string
	Homepage      string
	URL           string
	Git           string
	Build         string
	ImportModules []string
	Versions      []rawVersion
	Variants      []rawVariant
	Conflicts     []rawConflict
	Depends       []rawDepend
}

type rawVersion struct {
	Version  string
	Checksum string
	Branch   string
}

type rawVariant struct {
	Name        string
	Description string
	Default     interface{}
	Values      []string
}

type rawConflict struct {
	Trigger string
	When    string
	Msg     string
}

type rawDepend struct {
	Spec string
	When string
	Type []string
}

type tomlMapper struct {
	Tree  *toml.Tree
	Error error
}

func mapRecipe(mapper *tomlMapper) rawRecipe {
	if mapper.Error != nil { // Stop mapping if an error has already occurred
		return rawRecipe{}
	}

	raw := rawRecipe{
		Name:          readKeyAsString(mapper, "name"),
		Description:   readKeyAsString(mapper, "description"),
		Homepage:      readKeyAsString(mapper, "homepage"),
		URL:           readKeyAsString(mapper, "url"),
		Git:           readKeyAsString(mapper, "git"),
		Build:         readKeyAsString(mapper, "build"),
		ImportModules: readKeyAsStringList(mapper, "import_modules"),
	}
	raw.Versions = readTableAsVersions(mapper, "versions")
	raw.Variants = readTableAsVariants(mapper, "variants")
	raw.Conflicts = readTableAsConflicts(mapper, "conflicts")
	raw.Depends = readTableAsDepends(mapper, "depends")

	if mapper.Error != nil {
		return rawRecipe{}
	}
	return raw
}

func mapVersion(mapper *tomlMapper) rawVersion {
	if mapper.Error != nil { // Stop mapping if an error has already occurred
		return rawVersion{}
	}

	ver := rawVersion{
		Version:  readKeyAsString(mapper, "version"),
		Checksum: readKeyAsString(mapper, "checksum"),
		Branch:   readKeyAsString(mapper, "branch"),
	}

	if mapper.Error != nil {
		return rawVersion{}
	}
	return ver
}

func mapVariant(mapper *tomlMapper) rawVariant {
	if mapper.Error != nil { // Stop mapping if an error has already occurred
		return rawVariant{}
	}

	v := rawVariant{
		Name:        readKeyAsString(mapper, "name"),
		Description: readKeyAsString(mapper, "description"),
		Default:     readKeyAsDefault(mapper, "default"),
		Values:      readKeyAsStringList(mapper, "values"),
	}

	if mapper.Error != nil {
		return rawVariant{}
	}
	return v
}

func mapConflict(mapper *tomlMapper) rawConflict {
	if mapper.Error != nil { // Stop mapping if an error has already occurred
		return rawConflict{}
	}

	c := rawConflict{
		Trigger: readKeyAsString(mapper, "trigger"),
		When:    readKeyAsString(mapper, "when"),
		Msg:     readKeyAsString(mapper, "msg"),
	}

	if mapper.Error != nil {
		return rawConflict{}
	}
	return c
}

func mapDepend(mapper *tomlMapper) rawDepend {
	if mapper.Error != nil { // Stop mapping if an error has already occurred
		return rawDepend{}
	}

	d := rawDepend{
		Spec: readKeyAsString(mapper, "spec"),
		When: readKeyAsString(mapper, "when"),
		Type: readKeyAsStringList(mapper, "type"),
	}

	if mapper.Error != nil {
		return rawDepend{}
	}
	return d
}

func readTableAsVersions(mapper *tomlMapper, table string) []rawVersion {
	tables := readSubtables(mapper, table)
	if mapper.Error != nil || len(tables) == 0 {
		return nil
	}

	subMapper := &tomlMapper{}
	versions := make([]rawVersion, len(tables))
	for i := range tables {
		subMapper.Tree = tables[i]
		versions[i] = mapVersion(subMapper)
	}

	if subMapper.Error != nil {
		mapper.Error = errors.Wrapf(subMapper.Error, "in [[%s]]", table)
		return nil
	}
	return versions
}

func readTableAsVariants(mapper *tomlMapper, table string) []rawVariant {
	tables := readSubtables(mapper, table)
	if mapper.Error != nil || len(tables) == 0 {
		return nil
	}

	subMapper := &tomlMapper{}
	variants := make([]rawVariant, len(tables))
	for i := range tables {
		subMapper.Tree = tables[i]
		variants[i] = mapVariant(subMapper)
	}

	if subMapper.Error != nil {
		mapper.Error = errors.Wrapf(subMapper.Error, "in [[%s]]", table)
		return nil
	}
	return variants
}

func readTableAsConflicts(mapper *tomlMapper, table string) []rawConflict {
	tables := readSubtables(mapper, table)
	if mapper.Error != nil || len(tables) == 0 {
		return nil
	}

	subMapper := &tomlMapper{}
	conflicts := make([]rawConflict, len(tables))
	for i := range tables {
		subMapper.Tree = tables[i]
		conflicts[i] = mapConflict(subMapper)
	}

	if subMapper.Error != nil {
		mapper.Error = errors.Wrapf(subMapper.Error, "in [[%s]]", table)
		return nil
	}
	return conflicts
}

func readTableAsDepends(mapper *tomlMapper, table string) []rawDepend {
	tables := readSubtables(mapper, table)
	if mapper.Error != nil || len(tables) == 0 {
		return nil
	}

	subMapper := &tomlMapper{}
	depends := make([]rawDepend, len(tables))
	for i := range tables {
		subMapper.Tree = tables[i]
		depends[i] = mapDepend(subMapper)
	}

	if subMapper.Error != nil {
		mapper.Error = errors.Wrapf(subMapper.Error, "in [[%s]]", table)
		return nil
	}
	return depends
}

func readSubtables(mapper *tomlMapper, table string) []*toml.Tree {
	if mapper.Error != nil { // Stop mapping if an error has already occurred
		return nil
	}

	rawValue := mapper.Tree.Get(table)
	if rawValue == nil {
		return nil
	}

	tables, ok := rawValue.([]*toml.Tree)
	if !ok {
		mapper.Error = errors.Errorf("Invalid type for [[%s]], should be a TOML array of tables but got %T", table, rawValue)
		return nil
	}
	return tables
}

func readKeyAsString(mapper *tomlMapper, key string) string {
	if mapper.Error != nil { // Stop mapping if an error has already occurred
		return ""
	}

	rawValue := mapper.Tree.GetDefault(key, "")
	value, ok := rawValue.(string)
	if !ok {
		mapper.Error = errors.Errorf("Invalid type for %s, should be a string, but it is a %T", key, rawValue)
		return ""
	}
	return value
}

func readKeyAsStringList(mapper *tomlMapper, key string) []string {
	if mapper.Error != nil { // Stop mapping if an error has already occurred
		return nil
	}

	rawValue := mapper.Tree.Get(key)
	if rawValue == nil {
		return nil
	}

	list, ok := rawValue.([]interface{})
	if !ok {
		mapper.Error = errors.Errorf("Invalid type for %s, should be a TOML list of strings but got %T", key, rawValue)
		return nil
	}

	results := make([]string, len(list))
	for i := range list {
		ref, ok := list[i].(string)
		if !ok {
			mapper.Error = errors.Errorf("Invalid item type for %s, should be a string but got %T", key, list[i])
			return nil
		}
		results[i] = ref
	}
	return results
}

// readKeyAsDefault reads a variant default, which is the one
// schema position holding either a boolean or a string.
func readKeyAsDefault(mapper *tomlMapper, key string) interface{} {
	if mapper.Error != nil { // Stop mapping if an error has already occurred
		return nil
	}

	rawValue := mapper.Tree.Get(key)
	switch rawValue.(type) {
	case nil, bool, string:
		return rawValue
	}
	mapper.Error = errors.Errorf("Invalid type for %s, should be a boolean or a string, but it is a %T", key, rawValue)
	return nil
}

func fromRawRecipe(raw rawRecipe) (*Recipe, error) {
	if raw.Name == "" {
		return nil, errors.New("recipe declares no name")
	}
	r := &Recipe{
		Name:          raw.Name,
		Description:   raw.Description,
		Homepage:      raw.Homepage,
		URL:           raw.URL,
		Git:           raw.Git,
		BuildSystem:   raw.Build,
		ImportModules: raw.ImportModules,
	}

	if len(raw.Versions) == 0 {
		return nil, errors.Errorf("recipe %s declares no versions", r.Name)
	}
	seen := make(map[string]bool, len(raw.Versions))
	for _, rv := range raw.Versions {
		vr, err := fromRawVersion(rv)
		if err != nil {
			return nil, errors.Wrapf(err, "recipe %s", r.Name)
		}
		if seen[vr.ID.String()] {
			return nil, errors.Errorf("recipe %s declares version %s more than once", r.Name, vr.ID)
		}
		seen[vr.ID.String()] = true
		r.Versions = append(r.Versions, vr)
	}

	for _, rv := range raw.Variants {
		v, err := fromRawVariant(rv)
		if err != nil {
			return nil, errors.Wrapf(err, "recipe %s", r.Name)
		}
		if _, dup := r.Variant(v.Name); dup {
			return nil, errors.Errorf("recipe %s declares variant %s more than once", r.Name, v.Name)
		}
		r.Variants = append(r.Variants, v)
	}

	for _, rc := range raw.Conflicts {
		c, err := fromRawConflict(r, rc)
		if err != nil {
			return nil, errors.Wrapf(err, "recipe %s", r.Name)
		}
		r.Conflicts = append(r.Conflicts, c)
	}

	for _, rd := range raw.Depends {
		d, err := fromRawDepend(r, rd)
		if err != nil {
			return nil, errors.Wrapf(err, "recipe %s", r.Name)
		}
		r.Depends = append(r.Depends, d)
	}

	return r, nil
}

func fromRawVersion(raw rawVersion) (VersionRecord, error) {
	if raw.Version == "" {
		return VersionRecord{}, errors.New("version record declares no identifier")
	}
	if (raw.Checksum == "") == (raw.Branch == "") {
		return VersionRecord{}, errors.Errorf("version %s must declare exactly one of checksum or branch", raw.Version)
	}
	vr := VersionRecord{ID: vers.New(raw.Version), Branch: raw.Branch}
	if raw.Checksum != "" {
		sum, err := ParseFingerprint(raw.Checksum)
		if err != nil {
			return VersionRecord{}, errors.Wrapf(err, "version %s", raw.Version)
		}
		vr.Sum = sum
	}
	return vr, nil
}

func fromRawVariant(raw rawVariant) (Variant, error) {
	if raw.Name == "" {
		return Variant{}, errors.New("variant declares no name")
	}
	v := Variant{Name: raw.Name, Description: raw.Description}
	switch d := raw.Default.(type) {
	case bool:
		v.Type = BoolVariant
		v.DefaultBool = d
		if len(raw.Values) > 0 {
			return Variant{}, errors.Errorf("boolean variant %s cannot declare a value set", raw.Name)
		}
	case string:
		if d == "" {
			return Variant{}, errors.Errorf("variant %s declares an empty default", raw.Name)
		}
		v.Type = EnumVariant
		v.DefaultEnum = d
		seenVal := make(map[string]bool, len(raw.Values))
		for _, val := range raw.Values {
			if val == "" {
				return Variant{}, errors.Errorf("variant %s declares an empty value", raw.Name)
			}
			if seenVal[val] {
				return Variant{}, errors.Errorf("variant %s declares value %s more than once", raw.Name, val)
			}
			seenVal[val] = true
		}
		v.Values = raw.Values
	default:
		return Variant{}, errors.Errorf("variant %s declares no default", raw.Name)
	}
	return v, nil
}

func fromRawConflict(r *Recipe, raw rawConflict) (Conflict, error) {
	if raw.Trigger == "" {
		return Conflict{}, errors.New("conflict declares no trigger")
	}
	trigger, err := ParseCondition(raw.Trigger)
	if err != nil {
		return Conflict{}, errors.Wrap(err, "conflict trigger")
	}
	when, err := ParseCondition(raw.When)
	if err != nil {
		return Conflict{}, errors.Wrap(err, "conflict when clause")
	}
	c := Conflict{Trigger: trigger, When: when, Msg: raw.Msg}
	if err := checkConditionVariants(r, trigger); err != nil {
		return Conflict{}, errors.Wrapf(err, "conflict [%s]", c)
	}
	if err := checkConditionVariants(r, when); err != nil {
		return Conflict{}, errors.Wrapf(err, "conflict [%s]", c)
	}
	return c, nil
}

func fromRawDepend(r *Recipe, raw rawDepend) (Dependency, error) {
	name, rng, err := parseDepSpec(raw.Spec)
	if err != nil {
		return Dependency{}, err
	}
	when, err := ParseCondition(raw.When)
	if err != nil {
		return Dependency{}, errors.Wrapf(err, "dependency %s when clause", name)
	}
	if err := checkConditionVariants(r, when); err != nil {
		return Dependency{}, errors.Wrapf(err, "dependency %s when clause", name)
	}
	typ, err := parseDepType(raw.Type)
	if err != nil {
		return Dependency{}, errors.Wrapf(err, "dependency %s", name)
	}
	return Dependency{Name: name, Range: rng, When: when, Type: typ}, nil
}

// parseDepSpec splits a dependency spec like "hwloc@:1" into the package
// name and its version range. A bare name admits any version.
func parseDepSpec(spec string) (string, vers.Constraint, error) {
	name, rest, found := strings.Cut(spec, "@")
	if name == "" {
		return "", nil, errors.Errorf("dependency spec %q names no package", spec)
	}
	if !found {
		return name, vers.Any(), nil
	}
	rng, err := vers.ParseRange(rest)
	if err != nil {
		return "", nil, errors.Wrapf(err, "dependency spec %q", spec)
	}
	return name, rng, nil
}

// checkConditionVariants ensures a condition references only declared
// variants, with each term matching its variant's type and any compared
// value legal. Catching these at load time keeps rule evaluation total at
// build time.
func checkConditionVariants(r *Recipe, c Condition) error {
	for _, t := range c.terms {
		v, ok := r.Variant(t.name)
		if !ok {
			return &UnknownVariantError{Recipe: r.Name, Variant: t.name}
		}
		switch t.op {
		case condEnabled, condDisabled:
			if v.Type != BoolVariant {
				return errors.Errorf("variant %s of %s is not boolean", t.name, r.Name)
			}
		case condEquals:
			if v.Type != EnumVariant {
				return errors.Errorf("variant %s of %s is not enumerated", t.name, r.Name)
			}
			if !v.Legal(t.value) {
				return &IllegalValueError{Recipe: r.Name, Variant: t.name, Value: t.value, Legal: v.legalValues()}
			}
		}
	}
	return nil
}
