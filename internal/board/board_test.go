// Rules engine tests
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

package board

import "testing"

func countPieces(b *Board) int {
	n := 0
	for range b.cells {
		n++
	}
	return n
}

func TestNewGamePieceCount(t *testing.T) {
	b := NewGame(8)
	if got := countPieces(b); got != 24 {
		t.Errorf("expected 24 pieces on a fresh board, got %d", got)
	}
	if b.Turn() != Black {
		t.Errorf("expected black to move first, got %s", b.Turn())
	}
}

func TestOpeningMoveNoCapture(t *testing.T) {
	b := NewGame(8)
	src, dst := Position{1, 2}, Position{0, 3}
	if !b.ValidMove(src, dst) {
		t.Fatal("expected opening move to be legal")
	}
	captured, err := b.Move(src, dst)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if captured != nil {
		t.Error("opening move must not capture")
	}
	if b.Turn() != Red {
		t.Errorf("expected turn to flip to red, got %s", b.Turn())
	}
}

func TestMandatoryCapture(t *testing.T) {
	b := New(8)
	mustPlace(t, b, &Piece{Player: Black}, Position{1, 2})
	mustPlace(t, b, &Piece{Player: Red}, Position{2, 3})

	if b.ValidMove(Position{1, 2}, Position{0, 3}) {
		t.Error("a non-jump move must be illegal when a jump is available")
	}
	if !b.ValidMove(Position{1, 2}, Position{3, 4}) {
		t.Error("the forced jump itself must be legal")
	}

	captured, err := b.Move(Position{1, 2}, Position{3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if captured == nil || captured.Player != Red {
		t.Error("expected the red man at (2,3) to be captured")
	}
	// Red has no pieces left on this minimal board, so it has no
	// legal move and the turn does not flip to it.
	if b.Turn() != Black {
		t.Errorf("expected turn to stay black, got %s", b.Turn())
	}
}

func TestMultiJumpKeepsTurn(t *testing.T) {
	b := New(8)
	mustPlace(t, b, &Piece{Player: Black}, Position{1, 2})
	mustPlace(t, b, &Piece{Player: Red}, Position{2, 3})
	mustPlace(t, b, &Piece{Player: Red}, Position{4, 5})
	// A third, untouched red man so red retains a legal move after
	// losing the two pieces above, and the turn actually flips once
	// the multi-jump ends.
	mustPlace(t, b, &Piece{Player: Red}, Position{0, 5})

	if _, err := b.Move(Position{1, 2}, Position{3, 4}); err != nil {
		t.Fatalf("first jump failed: %s", err)
	}
	if b.Turn() != Black {
		t.Fatalf("expected black to retain the turn mid multi-jump, got %s", b.Turn())
	}

	if _, err := b.Move(Position{3, 4}, Position{5, 6}); err != nil {
		t.Fatalf("second jump failed: %s", err)
	}
	if b.Turn() != Red {
		t.Errorf("expected turn to flip once the multi-jump ends, got %s", b.Turn())
	}
}

func TestPromotionAfterTurnUpdate(t *testing.T) {
	b := New(8)
	mustPlace(t, b, &Piece{Player: Black}, Position{4, 5})
	mustPlace(t, b, &Piece{Player: Red}, Position{5, 6})
	// A second red man elsewhere on the board so red has a move to
	// make once its piece at (5,6) is captured; otherwise the turn
	// would not flip at all and this test would not exercise the
	// promotion-after-turn-update ordering.
	mustPlace(t, b, &Piece{Player: Red}, Position{0, 5})

	captured, err := b.Move(Position{4, 5}, Position{6, 7})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if captured == nil {
		t.Fatal("expected a capture")
	}
	if b.Turn() != Red {
		t.Errorf("expected turn red after the jump, got %s", b.Turn())
	}
	piece, ok := b.At(Position{6, 7})
	if !ok || !piece.King {
		t.Error("expected the piece at (6,7) to be crowned")
	}
}

func TestWinnerOnPieceExhaustion(t *testing.T) {
	b := New(8)
	mustPlace(t, b, &Piece{Player: Black}, Position{1, 2})
	mustPlace(t, b, &Piece{Player: Red}, Position{2, 3})

	if _, won := b.Winner(); won {
		t.Fatal("no winner expected before the capture")
	}
	if _, err := b.Move(Position{1, 2}, Position{3, 4}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	winner, won := b.Winner()
	if !won || winner != Black {
		t.Errorf("expected black to win once red has no pieces left, got %v %v", winner, won)
	}
	// Turn is not required to flip once the opponent has been wiped
	// out; Winner() is the authoritative signal, not Turn().
}

func TestStringRoundTrip(t *testing.T) {
	b := NewGame(8)
	parsed, err := FromString(b.String())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if parsed.String() != b.String() {
		t.Error("expected round-tripped board to render identically")
	}
}

func TestWireStringRoundTrip(t *testing.T) {
	b := NewGame(8)
	parsed, err := FromWireString(b.WireString())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if parsed.WireString() != b.WireString() {
		t.Error("expected round-tripped wire board to render identically")
	}
}

func TestAddPieceRejectsOccupiedOrUnusable(t *testing.T) {
	b := New(8)
	mustPlace(t, b, &Piece{Player: Black}, Position{0, 1})
	if err := b.AddPiece(&Piece{Player: Red}, Position{0, 1}); err != ErrInvalidPlacement {
		t.Errorf("expected ErrInvalidPlacement on an occupied square, got %v", err)
	}
	if err := b.AddPiece(&Piece{Player: Red}, Position{0, 0}); err != ErrInvalidPlacement {
		t.Errorf("expected ErrInvalidPlacement on a light square, got %v", err)
	}
}

func mustPlace(t *testing.T, b *Board, p *Piece, pos Position) {
	t.Helper()
	if err := b.AddPiece(p, pos); err != nil {
		t.Fatalf("failed to place piece at %s: %s", pos, err)
	}
}
