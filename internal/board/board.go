// Checkers board and rules engine
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

// Package board implements the authoritative American checkers rules
// engine: move legality, mandatory capture, multi-jump continuation,
// promotion timing and win detection.
package board

import (
	"errors"
	"fmt"
)

// Player is one of the two sides of a game.
type Player uint8

const (
	Black Player = iota
	Red
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == Black {
		return Red
	}
	return Black
}

func (p Player) String() string {
	if p == Black {
		return "black"
	}
	return "red"
}

// Position is a board coordinate, (0,0) at the top-left.
type Position struct {
	X, Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Piece is a single man or king belonging to a player.
type Piece struct {
	Player Player
	King   bool
}

func (p *Piece) rune() rune {
	var c rune
	if p.Player == Black {
		c = 'b'
	} else {
		c = 'r'
	}
	if p.King {
		c -= 'a' - 'A' // uppercase
	}
	return c
}

// ErrInvalidPlacement is returned by AddPiece when a location is
// already occupied or does not fall on a usable (dark) square.
var ErrInvalidPlacement = errors.New("invalid placement")

// InvalidMoveError is returned when a requested move is not legal.
type InvalidMoveError struct {
	Src, Dst Position
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move from %s to %s", e.Src, e.Dst)
}

const neutralRows = 2

// Board is a square grid of usable (dark) squares on which checkers
// is played, together with precomputed move/jump tables.
type Board struct {
	size int

	cells   map[Position]*Piece
	byOwner map[Player]map[Position]struct{}
	usable  map[Position]bool

	turn    Player
	lastJmp *Position

	moves     map[Player]map[Position][]Position
	kingMoves map[Position][]Position
	jumps     map[Player]map[Position][]Position
	kingJumps map[Position][]Position
	captures  map[[2]Position]Position
}

// New returns an empty board of the given size with no pieces placed
// and turn set to Black.
func New(size int) *Board {
	b := &Board{
		size:      size,
		cells:     make(map[Position]*Piece),
		byOwner:   map[Player]map[Position]struct{}{Black: {}, Red: {}},
		usable:    make(map[Position]bool),
		turn:      Black,
		moves:     map[Player]map[Position][]Position{Black: {}, Red: {}},
		kingMoves: make(map[Position][]Position),
		jumps:     map[Player]map[Position][]Position{Black: {}, Red: {}},
		kingJumps: make(map[Position][]Position),
		captures:  make(map[[2]Position]Position),
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x+y)%2 == 1 {
				b.usable[Position{x, y}] = true
			}
		}
	}
	b.initTables()
	return b
}

// NewGame returns a board of the given size set up with the standard
// American checkers starting position.
func NewGame(size int) *Board {
	b := New(size)
	rows := playerRows(size)
	for pos := range b.usable {
		switch {
		case pos.Y < rows:
			_ = b.AddPiece(&Piece{Player: Black}, pos)
		case pos.Y >= size-rows:
			_ = b.AddPiece(&Piece{Player: Red}, pos)
		}
	}
	return b
}

func playerRows(size int) int {
	return (size - neutralRows) / 2
}

func (b *Board) initTables() {
	dirs := []struct {
		player Player
		dy     int
	}{
		{Black, 1},
		{Red, -1},
	}
	for pos := range b.usable {
		for _, d := range dirs {
			for _, dx := range []int{-1, 1} {
				mv := Position{pos.X + dx, pos.Y + d.dy}
				jp := Position{pos.X + 2*dx, pos.Y + 2*d.dy}
				if b.usable[mv] {
					b.moves[d.player][pos] = append(b.moves[d.player][pos], mv)
				}
				if b.usable[jp] {
					b.jumps[d.player][pos] = append(b.jumps[d.player][pos], jp)
					b.captures[[2]Position{pos, jp}] = mv
				}
			}
		}
		b.kingMoves[pos] = union(b.moves[Black][pos], b.moves[Red][pos])
		b.kingJumps[pos] = union(b.jumps[Black][pos], b.jumps[Red][pos])
	}
}

func union(a, b []Position) []Position {
	out := make([]Position, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func contains(ps []Position, p Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

// Size returns the side length of the board.
func (b *Board) Size() int { return b.size }

// Turn returns the player currently entitled to move.
func (b *Board) Turn() Player { return b.turn }

// LastJumpTarget returns the landing square of an in-progress
// multi-jump, if one is pending.
func (b *Board) LastJumpTarget() (Position, bool) {
	if b.lastJmp == nil {
		return Position{}, false
	}
	return *b.lastJmp, true
}

// At returns the piece occupying pos, if any.
func (b *Board) At(pos Position) (*Piece, bool) {
	p, ok := b.cells[pos]
	return p, ok
}

// AddPiece places piece at pos. It fails with ErrInvalidPlacement if
// pos is not a usable square or is already occupied.
func (b *Board) AddPiece(piece *Piece, pos Position) error {
	if !b.usable[pos] {
		return ErrInvalidPlacement
	}
	if _, occupied := b.cells[pos]; occupied {
		return ErrInvalidPlacement
	}
	b.cells[pos] = piece
	b.byOwner[piece.Player][pos] = struct{}{}
	return nil
}

func (b *Board) movesFor(piece *Piece, pos Position) []Position {
	if piece.King {
		return b.kingMoves[pos]
	}
	return b.moves[piece.Player][pos]
}

func (b *Board) jumpsFor(piece *Piece, pos Position) []Position {
	if piece.King {
		return b.kingJumps[pos]
	}
	return b.jumps[piece.Player][pos]
}

// ValidJump reports whether src->dst is a legal capturing move,
// irrespective of whose turn it is.
func (b *Board) ValidJump(src, dst Position) bool {
	piece, ok := b.At(src)
	if !ok {
		return false
	}
	if _, occ := b.At(dst); occ {
		return false
	}
	if !contains(b.jumpsFor(piece, src), dst) {
		return false
	}
	mid, ok := b.captures[[2]Position{src, dst}]
	if !ok {
		return false
	}
	midPiece, ok := b.At(mid)
	if !ok {
		return false
	}
	return midPiece.Player == piece.Player.Opponent()
}

// PossibleJumpFrom reports whether the piece at src has any legal
// jump available.
func (b *Board) PossibleJumpFrom(src Position) bool {
	piece, ok := b.At(src)
	if !ok {
		return false
	}
	for _, target := range b.jumpsFor(piece, src) {
		if b.ValidJump(src, target) {
			return true
		}
	}
	return false
}

// PossibleJump reports whether player has any legal jump anywhere on
// the board.
func (b *Board) PossibleJump(player Player) bool {
	for pos := range b.byOwner[player] {
		if b.PossibleJumpFrom(pos) {
			return true
		}
	}
	return false
}

// ValidMove reports whether moving the piece at src to dst is legal
// for the side whose turn it currently is. Mandatory capture is
// enforced: a non-jump move is rejected whenever the mover has any
// jump available anywhere on the board.
func (b *Board) ValidMove(src, dst Position) bool {
	piece, ok := b.At(src)
	if !ok {
		return false
	}
	if _, occ := b.At(dst); occ {
		return false
	}
	if piece.Player != b.turn {
		return false
	}
	if b.ValidJump(src, dst) {
		return true
	}
	if b.PossibleJump(b.turn) {
		return false
	}
	return contains(b.movesFor(piece, src), dst)
}

// PossibleMoveFrom reports whether the piece at src has any legal
// move (jump or simple) available, judged for the piece's own player
// whether or not it is currently that player's turn.
func (b *Board) PossibleMoveFrom(src Position) bool {
	piece, ok := b.At(src)
	if !ok {
		return false
	}
	if b.PossibleJumpFrom(src) {
		return true
	}
	if b.PossibleJump(piece.Player) {
		return false
	}
	for _, target := range b.movesFor(piece, src) {
		if _, occ := b.At(target); !occ {
			return true
		}
	}
	return false
}

// PossibleMove reports whether player has any legal move anywhere.
func (b *Board) PossibleMove(player Player) bool {
	for pos := range b.byOwner[player] {
		if b.PossibleMoveFrom(pos) {
			return true
		}
	}
	return false
}

func (b *Board) promotionRow(player Player) int {
	if player == Red {
		return 0
	}
	return b.size - 1
}

// Move validates and performs a move from src to dst, returning the
// captured piece (if any) and any error. On error, the board is left
// unchanged.
func (b *Board) Move(src, dst Position) (*Piece, error) {
	if !b.ValidMove(src, dst) {
		return nil, &InvalidMoveError{Src: src, Dst: dst}
	}
	return b.performMove(src, dst), nil
}

// performMove applies a move already validated by ValidMove. Effects
// happen in a fixed order: capture removal, relocation, turn update,
// then promotion — promotion is deliberately last so a piece crowned
// this move cannot continue jumping until its next turn.
func (b *Board) performMove(src, dst Position) *Piece {
	piece, _ := b.At(src)

	var captured *Piece
	if b.ValidJump(src, dst) {
		mid := b.captures[[2]Position{src, dst}]
		captured, _ = b.At(mid)
		delete(b.cells, mid)
		delete(b.byOwner[captured.Player], mid)
		target := dst
		b.lastJmp = &target
	} else {
		b.lastJmp = nil
	}

	delete(b.cells, src)
	delete(b.byOwner[piece.Player], src)
	b.cells[dst] = piece
	b.byOwner[piece.Player][dst] = struct{}{}

	b.updateTurn()

	if !piece.King && dst.Y == b.promotionRow(piece.Player) {
		piece.King = true
	}

	return captured
}

// updateTurn flips the turn unless the mover still has a pending
// multi-jump, and only if the opponent actually has a move to make.
func (b *Board) updateTurn() {
	continuing := b.lastJmp != nil && b.PossibleJumpFrom(*b.lastJmp)
	if !continuing && b.PossibleMove(b.turn.Opponent()) {
		b.turn = b.turn.Opponent()
	}
}

// Winner returns the player with all opposing pieces captured, if
// any.
func (b *Board) Winner() (Player, bool) {
	black, red := len(b.byOwner[Black]), len(b.byOwner[Red])
	switch {
	case black > 0 && red == 0:
		return Black, true
	case red > 0 && black == 0:
		return Red, true
	default:
		return Player(0), false
	}
}

// String renders the board in human-readable, newline-separated form,
// top row first, with a trailing newline.
func (b *Board) String() string {
	return b.render("\n") + "\n"
}

// WireString renders the board in the pipe-separated form used on the
// wire protocol.
func (b *Board) WireString() string {
	return b.render("|")
}

func (b *Board) render(sep string) string {
	out := make([]byte, 0, b.size*(b.size+1))
	for y := 0; y < b.size; y++ {
		if y > 0 {
			out = append(out, sep...)
		}
		for x := 0; x < b.size; x++ {
			if p, ok := b.At(Position{x, y}); ok {
				out = append(out, byte(p.rune()))
			} else {
				out = append(out, '*')
			}
		}
	}
	return string(out)
}

// FromString parses the human-readable, newline-separated board form
// produced by String. The resulting board starts with turn=Black and
// no pending multi-jump; only piece placement and king flags round-trip.
func FromString(s string) (*Board, error) {
	return parseBoard(s, "\n")
}

// FromWireString parses the pipe-separated board form produced by
// WireString.
func FromWireString(s string) (*Board, error) {
	return parseBoard(s, "|")
}

func parseBoard(s, sep string) (*Board, error) {
	var lines []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || string(s[i]) == sep {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + len(sep)
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("board: empty serialization")
	}
	dim := len(lines[0])
	if dim != len(lines) {
		return nil, fmt.Errorf("board: dimension mismatch: %d columns, %d rows", dim, len(lines))
	}
	b := New(dim)
	for row, line := range lines {
		if len(line) != dim {
			return nil, fmt.Errorf("board: row %d has %d columns, want %d", row, len(line), dim)
		}
		for col, c := range line {
			if c == '*' {
				continue
			}
			piece, err := pieceFromRune(c)
			if err != nil {
				return nil, err
			}
			if err := b.AddPiece(piece, Position{col, row}); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

func pieceFromRune(c rune) (*Piece, error) {
	switch c {
	case 'b':
		return &Piece{Player: Black}, nil
	case 'B':
		return &Piece{Player: Black, King: true}, nil
	case 'r':
		return &Piece{Player: Red}, nil
	case 'R':
		return &Piece{Player: Red, King: true}, nil
	default:
		return nil, fmt.Errorf("board: unrecognised cell %q", c)
	}
}
