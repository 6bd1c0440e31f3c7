// Command dispatch table
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
	"context"
	"errors"
	"strconv"

	"go-checkers/internal/board"
	"go-checkers/internal/protocol"
)

// commandTable maps a request's command token to its handler. Built
// once at package init rather than dispatched by reflection on a
// method name.
var commandTable = map[string]func(*Handler, []string) error{
	"NEW":      cmdNew,
	"JOIN":     cmdJoin,
	"SPECTATE": cmdSpectate,
	"LIST":     cmdList,
	"LEAVE":    cmdLeave,
	"BOARD":    cmdBoard,
	"MOVE":     cmdMove,
	"TURN":     cmdTurn,
	"QUIT":     cmdQuit,
	"SHUTDOWN": cmdShutdown,
}

var (
	errNotPlaying     = errors.New("not playing a game")
	errAlreadyPlaying = errors.New("already playing a game")
	errBadArguments   = errors.New("malformed arguments")
)

func cmdNew(h *Handler, args []string) error {
	if g, _, _ := h.currentGame(); g != nil {
		return errAlreadyPlaying
	}
	g, err := h.reg.NewGame(context.Background())
	if err != nil {
		return err
	}
	seat, err := g.Join(h)
	if err != nil {
		return err
	}
	h.attach(g, seat, true)
	return nil
}

// cmdJoin resolves the new game before detaching from any old one, so
// a failed JOIN leaves the handler's prior seat untouched.
func cmdJoin(h *Handler, args []string) error {
	if len(args) != 1 {
		return errBadArguments
	}
	g, seat, err := h.reg.JoinGame(args[0], h)
	if err != nil {
		return err
	}
	h.detach()
	h.attach(g, seat, true)
	return nil
}

// cmdSpectate resolves the new game before detaching from any old
// one, so a failed SPECTATE leaves the handler's prior attachment
// untouched.
func cmdSpectate(h *Handler, args []string) error {
	if len(args) != 1 {
		return errBadArguments
	}
	g, err := h.reg.SpectateGame(args[0], h)
	if err != nil {
		return err
	}
	h.detach()
	h.attach(g, 0, false)
	return nil
}

func cmdLeave(h *Handler, args []string) error {
	g, _, _ := h.currentGame()
	if g == nil {
		return errNotPlaying
	}
	h.detach()
	return nil
}

func cmdList(h *Handler, args []string) error {
	spectateMode := len(args) == 1 && args[0] == "SPECTATE"
	if len(args) > 1 || (len(args) == 1 && !spectateMode) {
		return errBadArguments
	}

	current, _, _ := h.currentGame()

	var found []string
	if spectateMode {
		for _, g := range h.reg.UnfinishedGames() {
			if g == current {
				continue
			}
			found = append(found, g.ID)
		}
	} else {
		for _, g := range h.reg.OpenGames() {
			if g == current {
				continue
			}
			found = append(found, g.ID)
		}
	}

	statusArgs := make([]string, 0, len(found)+1)
	if spectateMode {
		statusArgs = append(statusArgs, "SPECTATE")
	}
	statusArgs = append(statusArgs, found...)
	h.SendLine(protocol.Status("LIST", statusArgs...))
	return nil
}

func cmdBoard(h *Handler, args []string) error {
	g, _, _ := h.currentGame()
	if g == nil {
		return errNotPlaying
	}
	h.SendLine(protocol.Status("BOARD", g.BoardString()))
	return nil
}

func cmdTurn(h *Handler, args []string) error {
	g, _, _ := h.currentGame()
	if g == nil {
		return errNotPlaying
	}
	h.SendLine(protocol.Status("TURN", g.TurnString()))
	return nil
}

func cmdMove(h *Handler, args []string) error {
	g, seat, seated := h.currentGame()
	if g == nil || !seated {
		return errNotPlaying
	}
	if len(args) != 4 {
		return errBadArguments
	}
	coords := make([]int, 4)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return errBadArguments
		}
		coords[i] = v
	}
	src := board.Position{X: coords[0], Y: coords[1]}
	dst := board.Position{X: coords[2], Y: coords[3]}
	return g.MakeMove(src, dst, seat)
}

func cmdQuit(h *Handler, args []string) error {
	return errQuit
}

func cmdShutdown(h *Handler, args []string) error {
	if h.shut != nil {
		h.shut.Shutdown()
	}
	return nil
}
