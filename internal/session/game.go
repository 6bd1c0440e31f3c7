// Game session management: seating, spectating, turn gating and broadcast
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

// Package session implements a single hosted game: seat lifecycle,
// turn gating, and observer broadcast with include/exclude targeting.
// All mutation is serialized under the Game's mutex, matching the
// teacher's per-game RLock discipline.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go-checkers/internal/board"
)

// Handler is the subset of a connection a Game needs in order to
// deliver status lines and identify attached clients. Implemented by
// internal/conn.Handler; kept minimal here to avoid a dependency
// cycle between session and conn.
type Handler interface {
	SendLine(line string)
}

var (
	// ErrNoSeats is returned by Join when both seats are taken.
	ErrNoSeats = errors.New("no available seats")
	// ErrWaitingForPlayer is returned by MakeMove while a seat is open.
	ErrWaitingForPlayer = errors.New("waiting for player")
	// ErrInvalidMoveSource is returned when src holds no piece.
	ErrInvalidMoveSource = errors.New("invalid move source")
	// ErrNotYourPiece is returned when the piece at src belongs to
	// the other player.
	ErrNotYourPiece = errors.New("not your piece")
)

// seatOrder is the fixed order in which open seats are offered to
// joining players.
var seatOrder = [2]board.Player{board.Red, board.Black}

// Game is one hosted checkers game: a board plus the handlers seated
// at or spectating it.
type Game struct {
	ID string

	mu         sync.Mutex
	board      *board.Board
	seats      map[board.Player]Handler
	spectators []Handler
	lastActive time.Time
}

// New creates a new game with a fresh standard starting board.
func New(id string, size int) *Game {
	return &Game{
		ID:         id,
		board:      board.NewGame(size),
		seats:      make(map[board.Player]Handler),
		lastActive: time.Now(),
	}
}

func (g *Game) touch() {
	g.lastActive = time.Now()
}

// LastActive returns the time of the most recent join, leave, or move.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActive
}

// openSeats returns the seats with no handler, in seatOrder. Caller
// must hold g.mu.
func (g *Game) openSeats() []board.Player {
	var open []board.Player
	for _, p := range seatOrder {
		if g.seats[p] == nil {
			open = append(open, p)
		}
	}
	return open
}

// OpenSeats reports the currently unseated players.
func (g *Game) OpenSeats() []board.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.openSeats()
}

// TurnString returns "waiting" while a seat is open, else the current
// turn's player name.
func (g *Game) TurnString() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turnLocked()
}

func (g *Game) turnLocked() string {
	if len(g.openSeats()) > 0 {
		return "waiting"
	}
	return g.board.Turn().String()
}

// Winner reports the winning player, if the game has ended.
func (g *Game) Winner() (board.Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Winner()
}

// BoardString returns the wire-form serialization of the board.
func (g *Game) BoardString() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.WireString()
}

// sendStatus delivers message to every attached handler (players then
// spectators) passing both the include and exclude filters. Writes
// happen while g.mu is held: a single slow peer can stall the others,
// an accepted trade-off at this scale (see concurrency notes).
func (g *Game) sendStatus(message string, include, exclude map[Handler]bool) {
	deliver := func(h Handler) {
		if h == nil {
			return
		}
		if include != nil && !include[h] {
			return
		}
		if exclude != nil && exclude[h] {
			return
		}
		h.SendLine(message)
	}
	for _, p := range seatOrder {
		deliver(g.seats[p])
	}
	for _, h := range g.spectators {
		deliver(h)
	}
}

func only(h Handler) map[Handler]bool {
	return map[Handler]bool{h: true}
}

// Join seats handler in the first open seat (RED before BLACK) and
// emits the GAME_ID/BOARD/JOINED/YOU_ARE/TURN status burst.
func (g *Game) Join(h Handler) (board.Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	open := g.openSeats()
	if len(open) == 0 {
		return 0, ErrNoSeats
	}
	seat := open[0]
	g.seats[seat] = h

	joining := only(h)
	g.sendStatus(statusGameID(g.ID), joining, nil)
	g.sendStatus(statusBoard(g.board), joining, nil)
	g.sendStatus(statusJoined(seat), nil, joining)
	g.sendStatus(statusYouAre(seat), joining, nil)
	g.sendStatus(statusTurn(g.turnLocked()), nil, nil)

	g.touch()
	return seat, nil
}

// Spectate attaches handler as a spectator (idempotent) and emits the
// GAME_ID/BOARD/TURN status burst to it alone.
func (g *Game) Spectate(h Handler) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, s := range g.spectators {
		if s == h {
			return
		}
	}
	g.spectators = append(g.spectators, h)

	joining := only(h)
	g.sendStatus(statusGameID(g.ID), joining, nil)
	g.sendStatus(statusBoard(g.board), joining, nil)
	g.sendStatus(statusTurn(g.turnLocked()), joining, nil)

	g.touch()
}

// Leave clears any seat held by handler and removes it from the
// spectator list. Safe to call even if handler is not attached.
func (g *Game) Leave(h Handler) {
	g.mu.Lock()
	defer g.mu.Unlock()

	leaving := only(h)
	found := false
	for _, p := range seatOrder {
		if g.seats[p] == h {
			g.seats[p] = nil
			found = true
			g.sendStatus(statusLeft(p), nil, leaving)
		}
	}
	for i, s := range g.spectators {
		if s == h {
			g.spectators = append(g.spectators[:i], g.spectators[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return
	}
	g.sendStatus(statusTurn(g.turnLocked()), nil, leaving)
	g.touch()
}

// MakeMove validates that player may move the piece at src, then
// delegates to the rules engine and broadcasts the resulting
// MOVED/CAPTURED/KING/TURN/WINNER sequence.
func (g *Game) MakeMove(src, dst board.Position, player board.Player) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.openSeats()) > 0 {
		return ErrWaitingForPlayer
	}
	piece, ok := g.board.At(src)
	if !ok {
		return ErrInvalidMoveSource
	}
	if piece.Player != player {
		return ErrNotYourPiece
	}

	wasKing := piece.King
	captured, err := g.board.Move(src, dst)
	if err != nil {
		return err
	}

	g.sendStatus(statusMoved(src, dst), nil, nil)
	if captured != nil {
		capturedPos := capturedLocation(g.board, src, dst)
		g.sendStatus(statusCaptured(capturedPos), nil, nil)
	}
	if !wasKing && piece.King {
		g.sendStatus(statusKing(dst), nil, nil)
	}
	g.sendStatus(statusTurn(g.turnLocked()), nil, nil)
	if winner, ok := g.board.Winner(); ok {
		g.sendStatus(statusWinner(winner), nil, nil)
	}

	g.touch()
	return nil
}

// capturedLocation recovers the intermediate square of a jump from
// src to dst, for reporting in the CAPTURED status line.
func capturedLocation(b *board.Board, src, dst board.Position) board.Position {
	return board.Position{X: (src.X + dst.X) / 2, Y: (src.Y + dst.Y) / 2}
}

func statusGameID(id string) string     { return fmt.Sprintf("STATUS GAME_ID %s", id) }
func statusBoard(b *board.Board) string { return fmt.Sprintf("STATUS BOARD %s", b.WireString()) }
func statusJoined(p board.Player) string { return fmt.Sprintf("STATUS JOINED %s", p) }
func statusYouAre(p board.Player) string { return fmt.Sprintf("STATUS YOU_ARE %s", p) }
func statusLeft(p board.Player) string   { return fmt.Sprintf("STATUS LEFT %s", p) }
func statusTurn(turn string) string      { return fmt.Sprintf("STATUS TURN %s", turn) }
func statusWinner(p board.Player) string { return fmt.Sprintf("STATUS WINNER %s", p) }
func statusMoved(src, dst board.Position) string {
	return fmt.Sprintf("STATUS MOVED %d %d %d %d", src.X, src.Y, dst.X, dst.Y)
}
func statusCaptured(pos board.Position) string {
	return fmt.Sprintf("STATUS CAPTURED %d %d", pos.X, pos.Y)
}
func statusKing(pos board.Position) string {
	return fmt.Sprintf("STATUS KING %d %d", pos.X, pos.Y)
}
