package poker

import (
	"iter"
	"math/bits"
	"slices"
)

// KeepMask selects hand cards to keep; bit i set keeps Hand[i].
type KeepMask uint8

const (
	KeepNone KeepMask = 0
	KeepAll  KeepMask = 1<<HandSize - 1
)

// CandidateCount is the number of keep-subsets of a hand.
const CandidateCount = 1 << HandSize

func (m KeepMask) Kept() int {
	return bits.OnesCount8(uint8(m))
}

// Drawn is the number of deck cards the mask draws.
func (m KeepMask) Drawn() int {
	return HandSize - m.Kept()
}

func (m KeepMask) Keeps(i int) bool {
	return m&(1<<i) != 0
}

// keepOrder visits larger keep-subsets first, ascending mask within a size.
var keepOrder = func() [CandidateCount]KeepMask {
	var order [CandidateCount]KeepMask
	for i := range order {
		order[i] = KeepMask(i)
	}
	slices.SortStableFunc(order[:], func(a, b KeepMask) int {
		return b.Kept() - a.Kept()
	})
	return order
}()

// Candidate builds the hand obtained by keeping the masked cards and
// drawing the rest from the front of the deck.
func (d Deal) Candidate(m KeepMask) Hand {
	var h Hand
	n := 0
	for i, c := range d.Hand {
		if m.Keeps(i) {
			h[n] = c
			n++
		}
	}
	for _, c := range d.Deck[:HandSize-n] {
		h[n] = c
		n++
	}
	return h
}

// Candidates yields every legal discard/draw outcome of the deal exactly once.
func Candidates(d Deal) iter.Seq2[KeepMask, Hand] {
	return func(yield func(KeepMask, Hand) bool) {
		for _, m := range keepOrder {
			if !yield(m, d.Candidate(m)) {
				return
			}
		}
	}
}

// Solve returns the best category reachable from the deal.
func Solve(d Deal) Category {
	best := Category(0)
	for _, h := range Candidates(d) {
		if c := Classify(h); c > best {
			best = c
		}
	}
	return best
}

// Analysis describes the whole search space of a deal.
type Analysis struct {
	Best Category
	// Keep is the first best candidate in enumeration order, which is the
	// one discarding the fewest cards.
	Keep      KeepMask
	Breakdown [StraightFlush + 1]int
}

func Analyze(d Deal) Analysis {
	var a Analysis
	for m, h := range Candidates(d) {
		c := Classify(h)
		a.Breakdown[c]++
		if c > a.Best {
			a.Best = c
			a.Keep = m
		}
	}
	return a
}

// Kept returns the hand cards retained by the best play.
func (a Analysis) Kept(d Deal) []Card {
	kept := make([]Card, 0, HandSize)
	for i, c := range d.Hand {
		if a.Keep.Keeps(i) {
			kept = append(kept, c)
		}
	}
	return kept
}

// Drawn returns the deck prefix drawn by the best play.
func (a Analysis) Drawn(d Deal) []Card {
	return slices.Clone(d.Deck[:a.Keep.Drawn()])
}

// Counts returns the number of candidates reaching each category, keyed by
// category name. Categories no candidate reaches are omitted.
func (a Analysis) Counts() map[string]int {
	counts := make(map[string]int)
	for _, c := range Categories() {
		if a.Breakdown[c] > 0 {
			counts[c.String()] = a.Breakdown[c]
		}
	}
	return counts
}
