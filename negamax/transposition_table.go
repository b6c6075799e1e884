package negamax

import (
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

// Go map overhead included; only used to pre-size the table.
const entrySize = 48

// Never pre-allocate more than this many entries, whatever the memory
// fraction says. The map grows on demand past it.
const maxPreallocEntries = 1 << 22

const depthMask = (1 << 6) - 1

// TableEntry stores the masks of the position alongside the result, so a
// lookup can tell a genuine hit from two positions sharing a hash.
type TableEntry struct {
	player       uint64
	occupied     uint64
	score        int16
	flagAndDepth uint8
}

// NewTableEntry packs a search result. depth must fit in 6 bits; a Connect
// Four search never goes past 42 plies.
func NewTableEntry(player, occupied uint64, score, depth int, flag uint8) TableEntry {
	return TableEntry{
		player:       player,
		occupied:     occupied,
		score:        int16(score),
		flagAndDepth: flag<<6 + uint8(depth&depthMask),
	}
}

func (t TableEntry) flag() uint8 {
	return t.flagAndDepth >> 6
}

func (t TableEntry) depth() uint8 {
	return t.flagAndDepth & depthMask
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag() != 0
}

func (t TableEntry) Score() int {
	return int(t.score)
}

func (t TableEntry) Depth() int {
	return int(t.depth())
}

func (t TableEntry) Flag() uint8 {
	return t.flag()
}

func (t TableEntry) Player() uint64 {
	return t.player
}

func (t TableEntry) Occupied() uint64 {
	return t.occupied
}

type TableLock interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type FakeLock struct{}

func (f FakeLock) Lock()    {}
func (f FakeLock) Unlock()  {}
func (f FakeLock) RLock()   {}
func (f FakeLock) RUnlock() {}

// TranspositionTable maps a Zobrist key to the best result found for that
// position. It belongs to one Solver and survives across searches until
// Reset.
type TranspositionTable struct {
	TableLock
	table   map[uint64]TableEntry
	created atomic.Uint64
	lookups atomic.Uint64
	hits    atomic.Uint64
	// A collision is a lookup whose key matches a stored entry for a
	// different position.
	collisions atomic.Uint64

	fractionOfMemory float64
}

func NewTranspositionTable(fractionOfMemory float64) *TranspositionTable {
	t := &TranspositionTable{}
	t.SetSingleThreadedMode()
	t.Reset(fractionOfMemory)
	return t
}

func (t *TranspositionTable) SetSingleThreadedMode() {
	t.TableLock = &FakeLock{}
}

func (t *TranspositionTable) SetMultiThreadedMode() {
	t.TableLock = new(sync.RWMutex)
}

func (t *TranspositionTable) lookup(zval, player, occupied uint64) TableEntry {
	t.RLock()
	defer t.RUnlock()
	t.lookups.Add(1)
	entry, ok := t.table[zval]
	if !ok {
		return TableEntry{}
	}
	if entry.player != player || entry.occupied != occupied {
		t.collisions.Add(1)
		return TableEntry{}
	}
	t.hits.Add(1)
	return entry
}

// store writes tentry unless the table already has a deeper result under
// this key. It reports whether the entry was written.
func (t *TranspositionTable) store(zval uint64, tentry TableEntry) bool {
	t.Lock()
	defer t.Unlock()
	if old, ok := t.table[zval]; ok && old.depth() > tentry.depth() {
		return false
	}
	t.table[zval] = tentry
	t.created.Add(1)
	return true
}

// Restore puts an entry back verbatim, e.g. when loading a saved table. The
// depth rule still applies.
func (t *TranspositionTable) Restore(zval uint64, tentry TableEntry) bool {
	return t.store(zval, tentry)
}

// Range calls f for every entry until f returns false.
func (t *TranspositionTable) Range(f func(zval uint64, tentry TableEntry) bool) {
	t.RLock()
	defer t.RUnlock()
	for k, v := range t.table {
		if !f(k, v) {
			return
		}
	}
}

func (t *TranspositionTable) Len() int {
	t.RLock()
	defer t.RUnlock()
	return len(t.table)
}

// Reset empties the table. A non-zero fractionOfMemory pre-sizes the map
// for that share of system memory.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	t.Lock()
	defer t.Unlock()
	t.fractionOfMemory = fractionOfMemory
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	numElems := int(desiredNElems)
	if numElems > maxPreallocEntries {
		numElems = maxPreallocEntries
	}
	if numElems < 0 {
		numElems = 0
	}
	t.table = make(map[uint64]TableEntry, numElems)

	log.Debug().Int("prealloc-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.collisions.Store(0)
}

func (t *TranspositionTable) Created() uint64 {
	return t.created.Load()
}

func (t *TranspositionTable) Lookups() uint64 {
	return t.lookups.Load()
}

func (t *TranspositionTable) Hits() uint64 {
	return t.hits.Load()
}

func (t *TranspositionTable) Collisions() uint64 {
	return t.collisions.Load()
}
