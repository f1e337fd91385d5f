package engine

import (
	"strings"

	"github.com/pkg/errors"
)

type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLower
	TTUpper
)

func (f TTFlag) String() string {
	switch f {
	case TTExact:
		return "exact"
	case TTLower:
		return "lower"
	case TTUpper:
		return "upper"
	default:
		return "unknown"
	}
}

type ReplacePolicy uint8

const (
	ReplaceAlways ReplacePolicy = iota
	ReplaceDepthPreferred
)

func (p ReplacePolicy) String() string {
	if p == ReplaceDepthPreferred {
		return "depth"
	}
	return "always"
}

func ParseReplacePolicy(s string) (ReplacePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "always":
		return ReplaceAlways, nil
	case "depth", "depth_preferred":
		return ReplaceDepthPreferred, nil
	default:
		return ReplaceAlways, errors.Errorf("unknown tt replace policy %q", s)
	}
}

func (p ReplacePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *ReplacePolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseReplacePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

type TTEntry struct {
	Key      uint64
	Score    int64
	Depth    int32
	BestMove int16
	Flag     TTFlag
	Valid    bool
	Gen      uint32
}

// TranspositionTable is a direct-mapped table indexed by key & mask. It
// belongs to one SearchContext and is not safe for concurrent use.
type TranspositionTable struct {
	mask    uint64
	entries []TTEntry
	policy  ReplacePolicy
	gen     uint32
}

func NewTranspositionTable(size uint64, policy ReplacePolicy) *TranspositionTable {
	if size < 1 {
		size = 1
	}
	if (size & (size - 1)) != 0 {
		size = nextPowerOfTwo(size)
	}
	return &TranspositionTable{
		mask:    size - 1,
		entries: make([]TTEntry, size),
		policy:  policy,
		gen:     1,
	}
}

// NextGeneration marks every stored entry as older than anything written
// from now on. Depth-preferred replacement evicts older generations first.
func (tt *TranspositionTable) NextGeneration() {
	tt.gen++
	if tt.gen == 0 {
		tt.gen = 1
	}
}

func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.gen = 1
}

func (tt *TranspositionTable) index(key uint64) int {
	return int(key & tt.mask)
}

func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	entry := tt.entries[tt.index(key)]
	if !entry.Valid || entry.Key != key {
		return TTEntry{}, false
	}
	return entry, true
}

// Store writes an entry and reports whether the slot was written.
func (tt *TranspositionTable) Store(key uint64, depth int, score int64, flag TTFlag, best int) bool {
	idx := tt.index(key)
	if tt.policy == ReplaceDepthPreferred && !tt.shouldReplace(tt.entries[idx], key, depth) {
		return false
	}
	tt.entries[idx] = TTEntry{
		Key:      key,
		Score:    score,
		Depth:    int32(depth),
		BestMove: int16(best),
		Flag:     flag,
		Valid:    true,
		Gen:      tt.gen,
	}
	return true
}

func (tt *TranspositionTable) shouldReplace(entry TTEntry, key uint64, depth int) bool {
	if !entry.Valid || entry.Key == key {
		return true
	}
	if depth >= int(entry.Depth) {
		return true
	}
	return entry.Gen != tt.gen
}

func (tt *TranspositionTable) Count() int {
	count := 0
	for i := range tt.entries {
		if tt.entries[i].Valid {
			count++
		}
	}
	return count
}

func (tt *TranspositionTable) Capacity() int {
	if tt == nil {
		return 0
	}
	return len(tt.entries)
}

func (tt *TranspositionTable) Policy() ReplacePolicy {
	return tt.policy
}

func nextPowerOfTwo(v uint64) uint64 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}
