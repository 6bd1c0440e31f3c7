// Server-wide game directory: creation, lookup, idle reaping and slot limiting
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

// Package registry is the process-wide game directory: it mints and
// looks up games by id, sweeps idle games on every listing, and
// optionally bounds the number of simultaneously ongoing games with a
// weighted semaphore.
package registry

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"go-checkers/internal/board"
	"go-checkers/internal/idgen"
	"go-checkers/internal/session"
)

// ErrGameNotAvailable is returned by JoinGame/SpectateGame for an
// unknown or reaped id.
var ErrGameNotAvailable = errors.New("game not available")

// Registry is the server's directory of live games.
type Registry struct {
	mu    sync.Mutex
	games map[string]*session.Game

	boardSize    int
	idleAfter    time.Duration
	ids          idgen.Generator
	slots        *semaphore.Weighted // nil means unbounded, per the zero-slot convention
	slotsHeldFor map[string]bool
}

// New creates an empty registry. boardSize is the side length handed
// to every new board. idleAfter is the inactivity threshold past
// which Games() reaps a game. A slotLimit of 0 means unbounded
// concurrent games, matching the "unbounded if unset" convention.
func New(boardSize int, idleAfter time.Duration, ids idgen.Generator, slotLimit int64) *Registry {
	r := &Registry{
		games:        make(map[string]*session.Game),
		boardSize:    boardSize,
		idleAfter:    idleAfter,
		ids:          ids,
		slotsHeldFor: make(map[string]bool),
	}
	if slotLimit > 0 {
		r.slots = semaphore.NewWeighted(slotLimit)
	}
	return r
}

// NewGame mints a fresh game, blocking until a concurrent-game slot is
// free when the registry is slot-limited.
func (r *Registry) NewGame(ctx context.Context) (*session.Game, error) {
	if r.slots != nil {
		if err := r.slots.Acquire(ctx, 1); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.ids.Next()
	for _, exists := r.games[id]; exists; _, exists = r.games[id] {
		id = r.ids.Next()
	}
	g := session.New(id, r.boardSize)
	r.games[id] = g
	if r.slots != nil {
		r.slotsHeldFor[id] = true
	}
	return g, nil
}

// JoinGame looks up id and seats handler in it.
func (r *Registry) JoinGame(id string, handler session.Handler) (*session.Game, board.Player, error) {
	g, ok := r.lookup(id)
	if !ok {
		return nil, 0, ErrGameNotAvailable
	}
	player, err := g.Join(handler)
	if err != nil {
		return nil, 0, err
	}
	return g, player, nil
}

// SpectateGame looks up id and attaches handler as a spectator.
func (r *Registry) SpectateGame(id string, handler session.Handler) (*session.Game, error) {
	g, ok := r.lookup(id)
	if !ok {
		return nil, ErrGameNotAvailable
	}
	g.Spectate(handler)
	return g, nil
}

func (r *Registry) lookup(id string) (*session.Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	return g, ok
}

// Games returns every currently live game, after sweeping idle ones.
func (r *Registry) Games() []*session.Game {
	r.reap()
	r.mu.Lock()
	defer r.mu.Unlock()
	games := make([]*session.Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	return games
}

// OpenGames returns games with an open seat and no winner.
func (r *Registry) OpenGames() []*session.Game {
	var open []*session.Game
	for _, g := range r.Games() {
		if _, won := g.Winner(); won {
			continue
		}
		if len(g.OpenSeats()) > 0 {
			open = append(open, g)
		}
	}
	return open
}

// UnfinishedGames returns every game with no winner yet.
func (r *Registry) UnfinishedGames() []*session.Game {
	var unfinished []*session.Game
	for _, g := range r.Games() {
		if _, won := g.Winner(); !won {
			unfinished = append(unfinished, g)
		}
	}
	return unfinished
}

// reap removes every game idle past the configured threshold. Best
// effort: a game reaped the instant after a client reads its id from
// LIST is not treated as an error, only as a race the client will
// observe as "game not available" on its next command.
func (r *Registry) reap() {
	if r.idleAfter <= 0 {
		return
	}
	now := time.Now()

	r.mu.Lock()
	var stale []string
	for id, g := range r.games {
		if now.Sub(g.LastActive()) > r.idleAfter {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		delete(r.games, id)
	}
	releasing := make([]string, 0, len(stale))
	for _, id := range stale {
		if r.slotsHeldFor[id] {
			releasing = append(releasing, id)
			delete(r.slotsHeldFor, id)
		}
	}
	r.mu.Unlock()

	if r.slots != nil {
		for range releasing {
			r.slots.Release(1)
		}
	}
}
