// Package poker classifies five-card hands and searches the discard/draw
// space of a psychic poker deal.
package poker

import "slices"

const HandSize = 5

type Hand [HandSize]Card

func (h Hand) String() string {
	return joinCards(h[:])
}

// rankCounts maps rank to occurrences; index 0 and 1 are unused.
type rankCounts [Ace + 1]uint8

func countRanks(h Hand) rankCounts {
	var counts rankCounts
	for _, c := range h {
		counts[c.Rank]++
	}
	return counts
}

// has reports whether some rank occurs exactly n times.
func (rc *rankCounts) has(n uint8) bool {
	return rc.ranksWith(n) > 0
}

// ranksWith returns how many distinct ranks occur exactly n times.
func (rc *rankCounts) ranksWith(n uint8) int {
	found := 0
	for r := Two; r <= Ace; r++ {
		if rc[r] == n {
			found++
		}
	}
	return found
}

// Classify returns the highest category the hand satisfies. Checks run in
// descending priority and stop at the first match.
func Classify(h Hand) Category {
	counts := countRanks(h)
	flush := isFlush(h)
	straight := isStraight(h)

	switch {
	case straight && flush:
		return StraightFlush
	case counts.has(4):
		return FourOfAKind
	case counts.has(3) && counts.has(2):
		return FullHouse
	case flush:
		return Flush
	case straight:
		return Straight
	case counts.has(3):
		return ThreeOfAKind
	case counts.ranksWith(2) == 2:
		return TwoPair
	case counts.has(2):
		return OnePair
	default:
		return HighCard
	}
}

func isFlush(h Hand) bool {
	for _, c := range h[1:] {
		if c.Suit != h[0].Suit {
			return false
		}
	}
	return true
}

// isStraight tries the ranks with the ace high and again with the ace
// counted as one.
func isStraight(h Hand) bool {
	var ranks [HandSize]int
	for i, c := range h {
		ranks[i] = int(c.Rank)
	}
	if consecutive(ranks) {
		return true
	}
	for i, r := range ranks {
		if r == int(Ace) {
			ranks[i] = 1
		}
	}
	return consecutive(ranks)
}

func consecutive(ranks [HandSize]int) bool {
	slices.Sort(ranks[:])
	for i := 1; i < len(ranks); i++ {
		if ranks[i] != ranks[i-1]+1 {
			return false
		}
	}
	return true
}
