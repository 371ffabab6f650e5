package main

import (
	"bufio"
	"fmt"
	"io"

	"psychic-poker/internal/service/poker"
	"psychic-poker/pkg/utils/random"

	"github.com/spf13/cobra"
)

func newDealCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Print random deals in solve input format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("count must be positive, got %d", count)
			}
			return writeDeals(cmd.OutOrStdout(), count)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of deals")
	return cmd
}

func randomDeal() poker.Deal {
	pack := poker.NewPack()
	random.Shuffle(len(pack), func(i, j int) { pack[i], pack[j] = pack[j], pack[i] })

	var d poker.Deal
	copy(d.Hand[:], pack[:poker.HandSize])
	copy(d.Deck[:], pack[poker.HandSize:2*poker.HandSize])
	return d
}

func writeDeals(out io.Writer, count int) error {
	w := bufio.NewWriter(out)
	for i := 0; i < count; i++ {
		fmt.Fprintln(w, randomDeal().Key())
	}
	return w.Flush()
}
