package poker

import (
	"fmt"
	"strings"

	appErr "psychic-poker/pkg/errors"
)

type Deck [HandSize]Card

func (d Deck) String() string {
	return joinCards(d[:])
}

// Deal pairs a dealt hand with the ordered replacement deck.
type Deal struct {
	Hand Hand `json:"hand"`
	Deck Deck `json:"deck"`
}

// ParseDeal reads one record of ten space-separated tokens: five hand
// cards followed by five deck cards.
func ParseDeal(line string) (Deal, error) {
	fields := strings.Fields(line)
	if len(fields) != 2*HandSize {
		return Deal{}, fmt.Errorf("%w: expected %d cards, got %d", appErr.ErrInvalidDeal, 2*HandSize, len(fields))
	}

	cards := make([]Card, len(fields))
	for i, token := range fields {
		card, err := ParseCard(token)
		if err != nil {
			return Deal{}, fmt.Errorf("%w: card %d: %w", appErr.ErrInvalidDeal, i+1, err)
		}
		cards[i] = card
	}
	return NewDeal(cards[:HandSize], cards[HandSize:])
}

// NewDeal validates sizes and distinctness of already decoded cards.
func NewDeal(hand, deck []Card) (Deal, error) {
	if len(hand) != HandSize || len(deck) != HandSize {
		return Deal{}, fmt.Errorf("%w: expected %d hand and %d deck cards, got %d and %d",
			appErr.ErrInvalidDeal, HandSize, HandSize, len(hand), len(deck))
	}

	var d Deal
	copy(d.Hand[:], hand)
	copy(d.Deck[:], deck)
	if err := d.Validate(); err != nil {
		return Deal{}, err
	}
	return d, nil
}

// Validate checks that every card is well formed and that no card appears
// twice across hand and deck.
func (d Deal) Validate() error {
	seen := make(map[Card]struct{}, 2*HandSize)
	for _, c := range d.Cards() {
		if c.Rank < Two || c.Rank > Ace || c.Suit > Spade {
			return fmt.Errorf("%w: %w: rank=%d suit=%d", appErr.ErrInvalidDeal, appErr.ErrInvalidCard, c.Rank, c.Suit)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: %w: %s", appErr.ErrInvalidDeal, appErr.ErrDuplicateCard, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// Cards returns hand then deck.
func (d Deal) Cards() []Card {
	cards := make([]Card, 0, 2*HandSize)
	cards = append(cards, d.Hand[:]...)
	return append(cards, d.Deck[:]...)
}

// Key identifies a deal for caching; it is the canonical input record.
func (d Deal) Key() string {
	return d.Hand.String() + " " + d.Deck.String()
}

// FormatLine renders the classic one-line report.
func FormatLine(d Deal, best Category) string {
	return fmt.Sprintf("Hand: %s Deck: %s Best hand: %s", d.Hand, d.Deck, best)
}
