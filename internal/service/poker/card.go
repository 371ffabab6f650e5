package poker

import (
	"fmt"
	"strings"

	appErr "psychic-poker/pkg/errors"
)

// Card represents a playing card.
// Token format: Rank + Suit (e.g., "AS", "TD", "2C").
// Ranks: 2, 3, 4, 5, 6, 7, 8, 9, T, J, Q, K, A
// Suits: C (clubs), D (diamonds), H (hearts), S (spades)

type Rank uint8

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

type Suit uint8

const (
	Club Suit = iota
	Diamond
	Heart
	Spade
)

const rankSymbols = "??23456789TJQKA"

const suitSymbols = "CDHS"

type Card struct {
	Rank Rank
	Suit Suit
}

func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// ParseCard decodes a two-character token. Letters are case-insensitive.
func ParseCard(token string) (Card, error) {
	if len(token) != 2 {
		return Card{}, fmt.Errorf("%w: %q", appErr.ErrInvalidCard, token)
	}
	r := strings.IndexByte(rankSymbols[Two:], upperASCII(token[0]))
	s := strings.IndexByte(suitSymbols, upperASCII(token[1]))
	if r < 0 || s < 0 {
		return Card{}, fmt.Errorf("%w: %q", appErr.ErrInvalidCard, token)
	}
	return Card{Rank: Two + Rank(r), Suit: Suit(s)}, nil
}

func upperASCII(b byte) byte {
	if 'a' <= b && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankSymbols[r])
}

func (s Suit) String() string {
	if s > Spade {
		return "?"
	}
	return string(suitSymbols[s])
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(b []byte) error {
	card, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

func joinCards(cards []Card) string {
	tokens := make([]string, len(cards))
	for i, c := range cards {
		tokens[i] = c.String()
	}
	return strings.Join(tokens, " ")
}

// NewPack returns the 52 distinct cards, clubs first, twos first.
func NewPack() []Card {
	pack := make([]Card, 0, 52)
	for s := Club; s <= Spade; s++ {
		for r := Two; r <= Ace; r++ {
			pack = append(pack, Card{Rank: r, Suit: s})
		}
	}
	return pack
}
