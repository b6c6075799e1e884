package common

import (
	"testing"

	"github.com/matryer/is"
)

func TestPVLine(t *testing.T) {
	is := is.New(t)
	var child PVLine
	child.Update(4, PVLine{Moves: []int{2}}, -7)
	is.Equal(child.Moves, []int{4, 2})

	var root PVLine
	is.Equal(root.GetPVMove(), -1)
	root.Update(3, child, 7)
	is.Equal(root.Moves, []int{3, 4, 2})
	is.Equal(root.GetPVMove(), 3)
	is.Equal(root.Score(), 7)
	is.Equal(root.MoveString(), "453")
	is.Equal(root.NLBString(), "PV; val 7; 453")
	is.Equal(root.String(), "PV; val 7\n1: column 4\n2: column 5\n3: column 3\n")

	root.Clear()
	is.Equal(len(root.Moves), 0)
}
