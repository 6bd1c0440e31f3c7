// Game identifier generation
//
// Copyright (c) 2024 go-checkers authors
//
// This file is part of go-checkers.
//
// go-checkers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-checkers is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-checkers. If not, see
// <http://www.gnu.org/licenses/>

// Package idgen mints human-readable game identifiers. The wire
// protocol treats an id as an opaque token, so any scheme is
// wire-compatible; this one follows the original implementation's
// "adjective_noun" convention instead of an object-address integer.
package idgen

import (
	"fmt"
	"math/rand"
	"sync"
)

// Generator produces game identifiers.
type Generator interface {
	Next() string
}

// adjectives and nouns are compiled in and never mutated. Random's
// generator reads them on every call; the registry receives that
// generator as an injected Generator value.
var adjectives = []string{
	"amber", "brave", "calm", "daring", "eager", "fierce", "gentle",
	"hollow", "idle", "jagged", "keen", "lively", "mellow", "nimble",
	"olive", "patient", "quiet", "restless", "silent", "tidy",
	"urgent", "vivid", "weary", "yellow", "zealous",
}

var nouns = []string{
	"badger", "canyon", "delta", "ember", "falcon", "glacier",
	"harbor", "island", "juniper", "kestrel", "lagoon", "meadow",
	"nimbus", "otter", "pebble", "quarry", "raven", "summit",
	"thicket", "umbra", "valley", "willow", "xenon", "yarrow", "zephyr",
}

// Random returns a Generator that picks an adjective and a noun
// uniformly at random and joins them with an underscore, as the
// original implementation's idgen.gen_id did.
func Random() Generator {
	return &random{}
}

type random struct {
	mu sync.Mutex
}

func (r *random) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return adjectives[rand.Intn(len(adjectives))] + "_" + nouns[rand.Intn(len(nouns))]
}

// Sequential returns a deterministic, counter-backed Generator for
// tests that need stable, predictable ids.
func Sequential(prefix string) Generator {
	return &sequential{prefix: prefix}
}

type sequential struct {
	mu     sync.Mutex
	prefix string
	next   uint64
}

func (s *sequential) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("%s%d", s.prefix, s.next)
}
