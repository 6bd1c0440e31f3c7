// Per-connection protocol state machine
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

// Package conn drives a single client connection: it reads
// CRLF-terminated request lines, dispatches them through a static
// command table, and writes back the OK/ERROR acknowledgement plus
// whatever STATUS lines the command's side effects provoked.
package conn

import (
	"io"
	"sync"

	"go-checkers/internal/board"
	"go-checkers/internal/logging"
	"go-checkers/internal/protocol"
	"go-checkers/internal/registry"
	"go-checkers/internal/session"
)

// Shutdowner lets the SHUTDOWN command reach back into the process
// that owns the listener. main wires this to the listener's own
// close.
type Shutdowner interface {
	Shutdown()
}

// Handler is one client's connection state: the seat it may hold, the
// game it is attached to, and its output stream. It implements
// session.Handler so Games can deliver STATUS lines to it directly.
type Handler struct {
	reg   *registry.Registry
	shut  Shutdowner
	rwc   io.ReadWriteCloser
	out   *protocol.Writer
	label string

	mu     sync.Mutex
	game   *session.Game
	seat   board.Player
	seated bool

	once sync.Once
}

// New wraps rwc as a connection handler. label identifies the peer in
// debug logs (a remote address, or a websocket descriptor).
func New(reg *registry.Registry, shut Shutdowner, rwc io.ReadWriteCloser, label string) *Handler {
	return &Handler{
		reg:   reg,
		shut:  shut,
		rwc:   rwc,
		out:   protocol.NewWriter(rwc),
		label: label,
	}
}

// SendLine implements session.Handler.
func (h *Handler) SendLine(line string) {
	logging.Debug.Print(h.label, " > ", line)
	if err := h.out.WriteLine(line); err != nil {
		logging.Debug.Print(h.label, " write error: ", err)
		go h.cleanup()
	}
}

// Serve reads request lines until EOF, a fatal write error, or QUIT,
// dispatching each through the command table. Cleanup always runs
// exactly once, however the loop ends.
func (h *Handler) Serve() {
	defer h.cleanup()

	scanner := protocol.NewReader(h.rwc)
	scanner.Buffer(make([]byte, 4096), 4096)
	for scanner.Scan() {
		line := scanner.Text()
		logging.Debug.Print(h.label, " < ", line)
		if h.dispatch(line) == errQuit {
			return
		}
	}
}

var errQuit = &quitSignal{}

type quitSignal struct{}

func (*quitSignal) Error() string { return "quit" }

// dispatch tokenizes line, looks up the command in commandTable, runs
// it, and writes the resulting OK/ERROR ack. Returns errQuit when the
// connection should close after this command.
func (h *Handler) dispatch(line string) error {
	cmd, args := protocol.Tokenize(line)
	if cmd == "" {
		return nil
	}
	fn, ok := commandTable[cmd]
	if !ok {
		h.SendLine(protocol.Error("invalid command"))
		return nil
	}
	err := fn(h, args)
	switch {
	case err == errQuit:
		h.SendLine(protocol.OK)
		return errQuit
	case err != nil:
		h.SendLine(protocol.Error(err.Error()))
	default:
		h.SendLine(protocol.OK)
	}
	return nil
}

// cleanup runs exactly once per handler: it leaves the current game
// (if attached) and closes the underlying connection.
func (h *Handler) cleanup() {
	h.once.Do(func() {
		h.mu.Lock()
		g := h.game
		h.game = nil
		h.seated = false
		h.mu.Unlock()

		if g != nil {
			g.Leave(h)
		}
		h.rwc.Close()
		logging.Debug.Print(h.label, " disconnected")
	})
}

// attach records the game and seat (if any) this handler now belongs
// to, leaving whatever it was previously attached to.
func (h *Handler) attach(g *session.Game, seat board.Player, seated bool) {
	h.mu.Lock()
	prev := h.game
	h.game = g
	h.seat = seat
	h.seated = seated
	h.mu.Unlock()

	if prev != nil && prev != g {
		prev.Leave(h)
	}
}

func (h *Handler) currentGame() (*session.Game, board.Player, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.game, h.seat, h.seated
}

func (h *Handler) detach() {
	h.mu.Lock()
	g := h.game
	h.game = nil
	h.seated = false
	h.mu.Unlock()
	if g != nil {
		g.Leave(h)
	}
}
