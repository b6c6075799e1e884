package board

import (
	"fmt"
	"math/bits"
	"strings"
)

// ApplyMoves plays a sequence of 1-based column digits, e.g. "4453". If any
// move is illegal the board is restored to where it was and the error names
// the offending column.
func (b *Board) ApplyMoves(seq string) error {
	played := 0
	for i, ch := range seq {
		if ch < '1' || ch > '0'+NumCols {
			b.unwind(played)
			return &IllegalMoveError{Column: -1,
				Reason: fmt.Sprintf("bad character %q at index %d", ch, i)}
		}
		if err := b.ApplyMove(int(ch - '1')); err != nil {
			b.unwind(played)
			return fmt.Errorf("move %d of %q: %w", i+1, seq, err)
		}
		played++
	}
	return nil
}

func (b *Board) unwind(n int) {
	for ; n > 0; n-- {
		b.UnapplyMove()
	}
}

// MoveString returns the applied moves as 1-based column digits.
func (b *Board) MoveString() string {
	var sb strings.Builder
	for _, m := range b.history {
		sb.WriteByte(byte('1' + bits.TrailingZeros64(m)/Stride))
	}
	return sb.String()
}

// ToDisplayText draws the board with the top row first. X is the player who
// moved first, O the other one.
func (b *Board) ToDisplayText() string {
	first, second := b.FirstMoverMasks()
	var str string
	row := " "
	for c := 0; c < NumCols; c++ {
		row = row + fmt.Sprintf("%d", c+1) + " "
	}
	str = str + row + "\n"
	for r := NumRows - 1; r >= 0; r-- {
		row := "|"
		for c := 0; c < NumCols; c++ {
			bit := uint64(1) << (c*Stride + r)
			switch {
			case first&bit != 0:
				row += "X"
			case second&bit != 0:
				row += "O"
			default:
				row += "."
			}
			if c < NumCols-1 {
				row += " "
			}
		}
		str = str + row + "|\n"
	}
	str = str + "+" + strings.Repeat("-", NumCols*2-1) + "+\n"
	toMove := "X"
	if len(b.history)&1 == 1 {
		toMove = "O"
	}
	str = str + fmt.Sprintf("%s to move, %d plies played\n", toMove, len(b.history))
	return str
}
