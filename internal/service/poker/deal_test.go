package poker

import (
	"encoding/json"
	"errors"
	"testing"

	appErr "psychic-poker/pkg/errors"

	"github.com/stretchr/testify/require"
)

func TestParseCard(t *testing.T) {
	tests := []struct {
		token string
		rank  Rank
		suit  Suit
	}{
		{"2C", Two, Club},
		{"9D", Nine, Diamond},
		{"TH", Ten, Heart},
		{"JS", Jack, Spade},
		{"QC", Queen, Club},
		{"KD", King, Diamond},
		{"AH", Ace, Heart},
		{"as", Ace, Spade},
		{"tD", Ten, Diamond},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			c, err := ParseCard(tt.token)
			require.NoError(t, err)
			require.Equal(t, NewCard(tt.rank, tt.suit), c)
		})
	}
}

func TestParseCardInvalid(t *testing.T) {
	for _, token := range []string{"", "A", "10H", "1H", "AX", "ZH", "??", "AHS"} {
		t.Run(token, func(t *testing.T) {
			_, err := ParseCard(token)
			require.ErrorIs(t, err, appErr.ErrInvalidCard)
		})
	}
}

func TestCardString(t *testing.T) {
	for _, token := range []string{"2C", "TD", "JH", "QS", "KC", "AD"} {
		c, err := ParseCard(token)
		require.NoError(t, err)
		require.Equal(t, token, c.String())
	}
	require.Equal(t, "AS", mustCard(t, "as").String())
	require.Equal(t, "??", Card{Rank: 1, Suit: 7}.String())
}

func TestCardJSON(t *testing.T) {
	var body struct {
		Cards []Card   `json:"cards"`
		Best  Category `json:"best"`
	}
	err := json.Unmarshal([]byte(`{"cards":["TH","as"],"best":"two-pairs"}`), &body)
	require.NoError(t, err)
	require.Equal(t, []Card{NewCard(Ten, Heart), NewCard(Ace, Spade)}, body.Cards)
	require.Equal(t, TwoPair, body.Best)

	out, err := json.Marshal(body)
	require.NoError(t, err)
	require.JSONEq(t, `{"cards":["TH","AS"],"best":"two-pairs"}`, string(out))

	err = json.Unmarshal([]byte(`{"cards":["XX"]}`), &body)
	require.Error(t, err)
}

func TestParseDeal(t *testing.T) {
	d, err := ParseDeal("  TH JH QC QD QS\tQH KH AH 2S 6S \r")
	require.NoError(t, err)
	require.Equal(t, "TH JH QC QD QS", d.Hand.String())
	require.Equal(t, "QH KH AH 2S 6S", d.Deck.String())
	require.Equal(t, "TH JH QC QD QS QH KH AH 2S 6S", d.Key())
	require.Len(t, d.Cards(), 10)
}

func TestParseDealInvalid(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{"empty", "", appErr.ErrInvalidDeal},
		{"too few cards", "TH JH QC QD QS QH KH AH 2S", appErr.ErrInvalidDeal},
		{"too many cards", "TH JH QC QD QS QH KH AH 2S 6S 7S", appErr.ErrInvalidDeal},
		{"bad token", "TH JH QC QD QS QH KH AH 2S 6X", appErr.ErrInvalidCard},
		{"duplicate in hand", "TH TH QC QD QS QH KH AH 2S 6S", appErr.ErrDuplicateCard},
		{"duplicate across hand and deck", "TH JH QC QD QS QH KH AH 2S TH", appErr.ErrDuplicateCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDeal(tt.line)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			require.ErrorIs(t, err, appErr.ErrInvalidDeal)
		})
	}
}

func TestNewDeal(t *testing.T) {
	hand := []Card{mustCard(t, "2H"), mustCard(t, "2S"), mustCard(t, "3H"), mustCard(t, "3S"), mustCard(t, "3C")}
	deck := []Card{mustCard(t, "2D"), mustCard(t, "3D"), mustCard(t, "6C"), mustCard(t, "9C"), mustCard(t, "TH")}

	d, err := NewDeal(hand, deck)
	require.NoError(t, err)
	require.Equal(t, FourOfAKind, Solve(d))

	_, err = NewDeal(hand[:4], deck)
	require.ErrorIs(t, err, appErr.ErrInvalidDeal)

	_, err = NewDeal(hand, []Card{{}, {}, {}, {}, {}})
	require.ErrorIs(t, err, appErr.ErrInvalidCard)
}

func TestNewPack(t *testing.T) {
	pack := NewPack()
	require.Len(t, pack, 52)

	seen := make(map[Card]bool, len(pack))
	for _, c := range pack {
		require.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
	require.Equal(t, "2C", pack[0].String())
	require.Equal(t, "AS", pack[51].String())
}
