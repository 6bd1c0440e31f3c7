// Identifier generator tests
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

package idgen

import "testing"

func TestSequentialIsDeterministicAndIncreasing(t *testing.T) {
	gen := Sequential("g")
	first := gen.Next()
	second := gen.Next()
	if first != "g1" {
		t.Errorf("expected the first id to be g1, got %s", first)
	}
	if second != "g2" {
		t.Errorf("expected the second id to be g2, got %s", second)
	}
}

func TestRandomProducesAdjectiveNounPair(t *testing.T) {
	gen := Random()
	id := gen.Next()
	count := 0
	for _, c := range id {
		if c == '_' {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one underscore in %q", id)
	}
}
