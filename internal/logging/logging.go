// Debug-gated logging
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

// Package logging provides the two loggers shared across the server:
// Info, always on, and Debug, which discards output unless enabled.
// Mirrors the teacher's io.Discard-backed debug logger toggled by the
// log-level flag rather than pulling in a structured logging library.
package logging

import (
	"io"
	"log"
	"os"
)

// Info logs operational messages: listener start/stop, bind failures,
// new connections.
var Info = log.New(os.Stderr, "", log.LstdFlags)

// Debug logs per-connection traffic. Discarded unless SetDebug(true)
// is called, normally from the -log-level flag.
var Debug = log.New(io.Discard, "[debug] ", log.Ltime|log.Lmicroseconds)

// SetDebug toggles Debug's output between os.Stderr and io.Discard.
func SetDebug(enabled bool) {
	if enabled {
		Debug.SetOutput(os.Stderr)
	} else {
		Debug.SetOutput(io.Discard)
	}
}
