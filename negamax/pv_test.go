package negamax

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestPrincipalVariation(t *testing.T) {
	is := is.New(t)
	s, b := setUpSolver("121212")
	pv, err := s.PrincipalVariation(b, 5)
	is.NoErr(err)
	is.Equal(pv.Moves, []int{0})
	is.Equal(pv.Score(), WinScore+4)

	// O blocks on the left, X wins on the right.
	s, b = setUpSolver("26364")
	pv, err = s.PrincipalVariation(b, 4)
	is.NoErr(err)
	is.Equal(pv.Moves, []int{0, 4})
	is.Equal(pv.Score(), LossScore-2)
	is.Equal(b.MoveString(), "26364")
}

func TestPrincipalVariationMatchesBestMove(t *testing.T) {
	is := is.New(t)
	s, b := setUpSolver("44")
	col, score, err := s.BestMove(b, 5)
	is.NoErr(err)

	fresh, fb := setUpSolver("44")
	pv, err := fresh.PrincipalVariation(fb, 5)
	is.NoErr(err)
	is.Equal(pv.GetPVMove(), col)
	is.Equal(pv.Score(), score)
	is.Equal(len(pv.Moves), 5)
}

func TestPrincipalVariationGameOver(t *testing.T) {
	is := is.New(t)
	s, b := setUpSolver("1212121")
	_, err := s.PrincipalVariation(b, 3)
	is.True(errors.Is(err, ErrGameOver))
}
