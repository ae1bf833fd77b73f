// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spack

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// An Index is the machine-readable summary of a recipe collection.
// Published collections carry one so hosts can answer "what can I
// install, at which versions, with which options" without parsing every
// recipe in the collection.
type Index struct {
	Recipes []IndexEntry `yaml:"recipes"`
}

// An IndexEntry summarizes a single recipe.
type IndexEntry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Homepage    string   `yaml:"homepage,omitempty"`
	Build       string   `yaml:"build,omitempty"`
	Versions    []string `yaml:"versions,omitempty"`
	Variants    []string `yaml:"variants,omitempty"`
}

// Index summarizes the registry. Recipes appear in name order, versions
// newest first, variants in name order, so the same collection always
// produces the same index.
func (reg *Registry) Index() Index {
	idx := Index{}
	for _, r := range reg.All() {
		e := IndexEntry{
			Name:        r.Name,
			Description: r.Description,
			Homepage:    r.Homepage,
			Build:       r.BuildSystem,
		}
		for _, vr := range r.SortedVersions() {
			e.Versions = append(e.Versions, vr.ID.String())
		}
		for _, v := range r.Variants {
			e.Variants = append(e.Variants, v.Name)
		}
		sort.Strings(e.Variants)
		idx.Recipes = append(idx.Recipes, e)
	}
	return idx
}

// WriteIndex renders the registry's index as YAML.
func (reg *Registry) WriteIndex(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reg.Index()); err != nil {
		return errors.Wrap(err, "unable to encode the collection index")
	}
	return enc.Close()
}

// ReadIndex parses a collection index.
func ReadIndex(r io.Reader) (Index, error) {
	var idx Index
	if err := yaml.NewDecoder(r).Decode(&idx); err != nil {
		return Index{}, errors.Wrap(err, "unable to decode the collection index")
	}
	return idx, nil
}
