package common

import (
	"fmt"
	"strings"
)

// PVLine is a principal variation: the line of best play from a position,
// as 0-based columns.
type PVLine struct {
	Moves []int
	score int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = nil
	pvLine.score = 0
}

// Update the principal variation line with a new best move,
// and a new line of best play after the best move.
func (pvLine *PVLine) Update(move int, newPVLine PVLine, score int) {
	pvLine.Clear()
	pvLine.Moves = append(pvLine.Moves, move)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
	pvLine.score = score
}

// GetPVMove returns the first move of the line, or -1 if it is empty.
func (pvLine *PVLine) GetPVMove() int {
	if len(pvLine.Moves) == 0 {
		return -1
	}
	return pvLine.Moves[0]
}

func (pvLine *PVLine) Score() int {
	return pvLine.score
}

// MoveString returns the line as 1-based column digits.
func (pvLine PVLine) MoveString() string {
	var sb strings.Builder
	for _, m := range pvLine.Moves {
		sb.WriteByte(byte('1' + m))
	}
	return sb.String()
}

// Convert the principal variation line to a string.
func (pvLine PVLine) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "PV; val %d\n", pvLine.score)
	for i, m := range pvLine.Moves {
		fmt.Fprintf(&s, "%d: column %d\n", i+1, m+1)
	}
	return s.String()
}

// NLBString is String without line breaks.
func (pvLine PVLine) NLBString() string {
	return fmt.Sprintf("PV; val %d; %s", pvLine.score, pvLine.MoveString())
}
