// Package board implements a 7x6 Connect Four bitboard.
//
// Columns are contiguous in the bitboard. Picture a normal Connect Four board
// rotated 90 degrees to the right, from least to most significant bit:
//
//	a0 a1 a2 a3 a4 a5 0
//	b0 b1 b2 b3 b4 b5 0
//	...
//	g0 g1 g2 g3 g4 g5 0
//
// Each column has one always-zero sentinel bit above its top row, so shifts
// used for win detection never carry bits from one column into the next.
// Total board size with sentinels is 7*7=49 bits.
package board

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/domino14/connectfour/zobrist"
)

const (
	NumRows = 6
	NumCols = 7
	// Stride includes the extra sentinel bit.
	Stride   = NumRows + 1
	NumCells = NumRows * NumCols
)

var (
	// ColumnMasks covers each column, not including the sentinel bit.
	ColumnMasks [NumCols]uint64
	// BottomMasks has only the bottom bit of each column. Adding it to a
	// column lets the bit carry into the first empty cell.
	BottomMasks [NumCols]uint64
	// TopMasks has the top playable bit of each column; used to find full
	// columns.
	TopMasks [NumCols]uint64
	// BoardMask has every playable cell.
	BoardMask uint64
)

func init() {
	for c := 0; c < NumCols; c++ {
		ColumnMasks[c] = ((1 << (Stride - 1)) - 1) << (Stride * c)
		BottomMasks[c] = 1 << (Stride * c)
		TopMasks[c] = 1 << (Stride*c + Stride - 2)
		BoardMask |= ColumnMasks[c]
	}
}

var (
	ErrIllegalMove = errors.New("illegal move")
	// ErrEmptyHistory is the panic value of UnapplyMove on a board with no
	// moves. Search code pairs every apply with an unapply, so this is a
	// bug in the caller.
	ErrEmptyHistory = errors.New("no move to unapply")
)

// IllegalMoveError is returned when a column is out of bounds or full.
type IllegalMoveError struct {
	Column int
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move in column %d: %s", e.Column, e.Reason)
}

func (e *IllegalMoveError) Unwrap() error {
	return ErrIllegalMove
}

// Board is a Connect Four position. It keeps two masks: player has a 1
// everywhere the side to move has a piece, occupied has a 1 everywhere either
// side has one. player ^ occupied gives the opponent's pieces.
type Board struct {
	player   uint64
	occupied uint64

	// Stack of move masks so we can unapply moves.
	history []uint64
	hash    uint64

	zobrist *zobrist.Zobrist
}

// New creates an empty board that hashes with z.
func New(z *zobrist.Zobrist) *Board {
	return &Board{
		history: make([]uint64, 0, NumCells),
		zobrist: z,
	}
}

// Copy returns an independent board at the same position. The Zobrist table
// is shared; it is never mutated after creation.
func (b *Board) Copy() *Board {
	nb := &Board{
		player:   b.player,
		occupied: b.occupied,
		history:  make([]uint64, len(b.history), NumCells),
		hash:     b.hash,
		zobrist:  b.zobrist,
	}
	copy(nb.history, b.history)
	return nb
}

// Reset empties the board.
func (b *Board) Reset() {
	b.player = 0
	b.occupied = 0
	b.history = b.history[:0]
	b.hash = 0
}

// LegalMoves gets the column indices which aren't already full, in ascending
// order.
func (b *Board) LegalMoves() []int {
	moves := make([]int, 0, NumCols)
	for c := 0; c < NumCols; c++ {
		if TopMasks[c]&b.occupied == 0 {
			moves = append(moves, c)
		}
	}
	return moves
}

// ApplyMove drops a piece for the side to move into column c. The board is
// left untouched if the move is illegal.
func (b *Board) ApplyMove(c int) error {
	if c < 0 || c >= NumCols {
		return &IllegalMoveError{Column: c, Reason: "column out of bounds"}
	}
	// The 1 carries over to the lowest empty cell of the column. A full
	// column carries into the sentinel, which the column mask removes.
	drop := (b.occupied + BottomMasks[c]) & ColumnMasks[c]
	if drop == 0 {
		return &IllegalMoveError{Column: c, Reason: "column is full"}
	}

	// Switch the player mask first; the new piece belongs to the mover, who
	// is not on the next player's mask.
	b.player ^= b.occupied
	b.occupied ^= drop

	b.hash ^= b.zobrist.SideToMove()
	b.hash ^= b.zobrist.Square(len(b.history)&1, bits.TrailingZeros64(drop))

	b.history = append(b.history, drop)
	return nil
}

// UnapplyMove reverts the most recent move. It panics with ErrEmptyHistory
// if there is none.
func (b *Board) UnapplyMove() {
	n := len(b.history)
	if n == 0 {
		panic(ErrEmptyHistory)
	}
	drop := b.history[n-1]
	b.history = b.history[:n-1]

	b.hash ^= b.zobrist.SideToMove()
	b.hash ^= b.zobrist.Square(len(b.history)&1, bits.TrailingZeros64(drop))

	// The last move was made by the opponent; it isn't on this player's
	// mask. Clear it from occupied and then swap the player.
	b.occupied ^= drop
	b.player ^= b.occupied
}

// HasFour checks if a single side's mask has 4 in a row, column, or diagonal.
func HasFour(m uint64) bool {
	// Each 1 in a pair mask marks the lowest bit of a 2-in-a-row; 4 in a row
	// is 2 pairs of 2 spaced by twice the stride.
	for _, s := range [...]uint{1, Stride, Stride - 1, Stride + 1} {
		pair := m & (m >> s)
		if pair&(pair>>(2*s)) != 0 {
			return true
		}
	}
	return false
}

// LastMoveWon checks if the side that just moved connected four. The player
// mask was already flipped to the next mover, so the previous mover's pieces
// are the opponent mask.
func (b *Board) LastMoveWon() bool {
	return HasFour(b.occupied ^ b.player)
}

// IsFull checks if every playable cell is occupied; if so, the game is a draw
// unless the last move won.
func (b *Board) IsFull() bool {
	return b.occupied&BoardMask == BoardMask
}

func (b *Board) PlayerMask() uint64 {
	return b.player
}

func (b *Board) OccupiedMask() uint64 {
	return b.occupied
}

// OpponentMask returns the pieces of the side that is not to move.
func (b *Board) OpponentMask() uint64 {
	return b.occupied ^ b.player
}

func (b *Board) Hash() uint64 {
	return b.hash
}

func (b *Board) Zobrist() *zobrist.Zobrist {
	return b.zobrist
}

// MoveCount is the number of moves applied since the board was empty.
func (b *Board) MoveCount() int {
	return len(b.history)
}

// LastMove returns the column of the most recent move.
func (b *Board) LastMove() (int, bool) {
	if len(b.history) == 0 {
		return 0, false
	}
	return bits.TrailingZeros64(b.history[len(b.history)-1]) / Stride, true
}

// FirstMoverMasks returns the pieces of the player who moved first and of the
// player who moved second.
func (b *Board) FirstMoverMasks() (uint64, uint64) {
	if len(b.history)&1 == 0 {
		return b.player, b.OpponentMask()
	}
	return b.OpponentMask(), b.player
}

// ComputeHash recomputes the Zobrist key from the masks alone. It always
// equals Hash for boards built through ApplyMove.
func (b *Board) ComputeHash() uint64 {
	first, second := b.FirstMoverMasks()
	return b.zobrist.Hash(first, second, len(b.history))
}
