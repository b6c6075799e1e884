package zobrist

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

const bignum = 1<<63 - 2

// NumSquares is the size of the bit address space of a board, sentinel bits
// included. Sentinels never receive a piece, but indexing by raw bit index
// keeps the hash update a single table lookup.
const NumSquares = 49

// DefaultSeed is used by callers that do not care which table they get, as
// long as it is the same one every run.
const DefaultSeed = 0x6d61636f6e646f

// generate a zobrist hash for a connect four position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// A piece's constant is keyed by the parity of the ply that dropped it. The
// first player always drops on even plies, so parity stands in for color.
type Zobrist struct {
	secondToMove uint64
	posTable     [2][NumSquares]uint64
	seed         uint64
}

// New builds the table deterministically from seed; equal seeds give equal
// tables.
func New(seed uint64) *Zobrist {
	z := &Zobrist{}
	z.Initialize(seed)
	return z
}

func (z *Zobrist) Initialize(seed uint64) {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	rng := frand.NewCustom(key[:], 1024, 12)

	z.seed = seed
	for p := 0; p < 2; p++ {
		for i := 0; i < NumSquares; i++ {
			z.posTable[p][i] = rng.Uint64n(bignum) + 1
		}
	}
	z.secondToMove = rng.Uint64n(bignum) + 1
}

func (z *Zobrist) Seed() uint64 {
	return z.seed
}

// Square returns the constant for a piece dropped on bit index sq during a
// ply of the given parity (0 or 1).
func (z *Zobrist) Square(parity, sq int) uint64 {
	return z.posTable[parity&1][sq]
}

func (z *Zobrist) SideToMove() uint64 {
	return z.secondToMove
}

// Hash computes the key of a position from scratch. firstMask holds the pieces
// of the player who moved first, secondMask the other player's, and plies is
// the number of moves made so far.
func (z *Zobrist) Hash(firstMask, secondMask uint64, plies int) uint64 {
	key := uint64(0)
	for sq := 0; sq < NumSquares; sq++ {
		bit := uint64(1) << sq
		if firstMask&bit != 0 {
			key ^= z.posTable[0][sq]
		} else if secondMask&bit != 0 {
			key ^= z.posTable[1][sq]
		}
	}
	if plies&1 == 1 {
		key ^= z.secondToMove
	}
	return key
}
