// Connection handler tests
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

package conn

import (
	"bufio"
	"net"
	"testing"
	"time"

	"go-checkers/internal/idgen"
	"go-checkers/internal/registry"
)

type noopShutdowner struct{ called bool }

func (s *noopShutdowner) Shutdown() { s.called = true }

func newTestHandler(t *testing.T) (*Handler, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	reg := registry.New(8, time.Hour, idgen.Sequential("g"), 0)
	h := New(reg, &noopShutdowner{}, server, "test")
	go h.Serve()
	return h, client
}

func sendLine(t *testing.T, conn net.Conn, line string) {
	t.Helper()
	if _, err := conn.Write([]byte(line + "\r\n")); err != nil {
		t.Fatalf("write failed: %s", err)
	}
}

func readLine(t *testing.T, reader *bufio.Scanner) string {
	t.Helper()
	if !reader.Scan() {
		t.Fatalf("expected a line, scan ended: %v", reader.Err())
	}
	return reader.Text()
}

func TestUnknownCommandProducesError(t *testing.T) {
	_, client := newTestHandler(t)
	defer client.Close()
	reader := bufio.NewScanner(client)

	sendLine(t, client, "BOGUS")
	if got := readLine(t, reader); got != "ERROR invalid command" {
		t.Errorf("expected ERROR invalid command, got %q", got)
	}
}

func TestNewThenBoardThenQuit(t *testing.T) {
	_, client := newTestHandler(t)
	defer client.Close()
	reader := bufio.NewScanner(client)

	sendLine(t, client, "NEW")
	// NEW, as the sole attached handler, sees GAME_ID, BOARD, YOU_ARE
	// and TURN (no JOINED: that notice excludes the joiner and there
	// is no one else attached yet), followed by the command's own OK.
	var lines []string
	for i := 0; i < 5; i++ {
		lines = append(lines, readLine(t, reader))
	}
	foundOK := false
	for _, l := range lines {
		if l == "OK" {
			foundOK = true
		}
	}
	if !foundOK {
		t.Errorf("expected an OK ack among %v", lines)
	}

	sendLine(t, client, "BOARD")
	foundBoard := false
	for i := 0; i < 2; i++ {
		if l := readLine(t, reader); len(l) > len("STATUS BOARD") && l[:len("STATUS BOARD")] == "STATUS BOARD" {
			foundBoard = true
		}
	}
	if !foundBoard {
		t.Error("expected a STATUS BOARD line in reply to BOARD")
	}

	sendLine(t, client, "QUIT")
	if got := readLine(t, reader); got != "OK" {
		t.Errorf("expected OK before quitting, got %q", got)
	}
}
