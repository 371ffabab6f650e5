package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"psychic-poker/internal/service/poker"
	"psychic-poker/internal/service/solver"
	"psychic-poker/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type solveOptions struct {
	workers int
	strict  bool
}

func newSolveCmd() *cobra.Command {
	opts := solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Solve every deal in file (default input.txt, - for stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "input.txt"
			if len(args) == 1 {
				path = args[0]
			}

			var in io.Reader = cmd.InOrStdin()
			if path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runSolve(cmd.Context(), in, cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "deals solved concurrently")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on the first malformed line")
	return cmd
}

// runSolve writes one result line per well-formed deal, in input order.
func runSolve(ctx context.Context, in io.Reader, out io.Writer, opts solveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var deals []poker.Deal
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		d, err := poker.ParseDeal(line)
		if err != nil {
			if opts.strict {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			logger.Log.Warn("skipping malformed line", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		deals = append(deals, d)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if len(deals) == 0 {
		return nil
	}

	svc := solver.NewService(nil, nil, solver.Config{Workers: opts.workers})
	batch, err := svc.SolveBatch(ctx, deals)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	for _, res := range batch.Results {
		fmt.Fprintln(w, res.Line)
	}
	return w.Flush()
}
