package poker

import "fmt"

// Category is a standard poker hand ranking. Higher values beat lower ones.
type Category uint8

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// Names are part of the output contract; "two-pairs" and "highest-card"
// are kept as-is.
var categoryNames = [...]string{
	HighCard:      "highest-card",
	OnePair:       "one-pair",
	TwoPair:       "two-pairs",
	ThreeOfAKind:  "three-of-a-kind",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full-house",
	FourOfAKind:   "four-of-a-kind",
	StraightFlush: "straight-flush",
}

// Categories lists every category from highest to lowest.
func Categories() []Category {
	return []Category{
		StraightFlush, FourOfAKind, FullHouse, Flush, Straight,
		ThreeOfAKind, TwoPair, OnePair, HighCard,
	}
}

func (c Category) Valid() bool {
	return c >= HighCard && c <= StraightFlush
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryNames[c]
}

func ParseCategory(name string) (Category, error) {
	for c := HighCard; c <= StraightFlush; c++ {
		if categoryNames[c] == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", uint8(c))
	}
	return []byte(categoryNames[c]), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
