// Configuration loading tests
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

package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithNoArgs(t *testing.T) {
	conf, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if *conf != Default {
		t.Errorf("expected defaults unchanged, got %+v", conf)
	}
}

func TestFlagOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.toml")
	contents := "port = 9000\nbind = \"127.0.0.1\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config fixture: %s", err)
	}

	conf, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{
		"-conf", path,
		"-port", "9100",
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if conf.Port != 9100 {
		t.Errorf("expected the explicit -port flag to override the file, got %d", conf.Port)
	}
	if conf.Bind != "127.0.0.1" {
		t.Errorf("expected the file's bind value to survive, got %s", conf.Bind)
	}
}
