package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func NewEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [TEXT...]",
		Short: "Encode text into token ids",
		Long:  "Encode each TEXT argument and each --file into token ids, one line per input. Standard input is encoded when neither is given.",
		RunE:  encodeHandler,
	}

	addTrainingFlags(cmd)
	cmd.Flags().StringSliceP("file", "f", nil, "File to encode, may be repeated")
	return cmd
}

func encodeHandler(cmd *cobra.Command, args []string) error {
	files, _ := cmd.Flags().GetStringSlice("file")

	inputs := args
	if len(args) == 0 && len(files) == 0 {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}

		inputs = []string{string(b)}
	}

	tok, _, err := trainFromFlags(cmd)
	if err != nil {
		return err
	}

	results := make([][]int, len(inputs)+len(files))
	for i, text := range inputs {
		if results[i], err = tok.Encode(text); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			ids, err := tok.Encode(string(b))
			if err != nil {
				return fmt.Errorf("encode %s: %w", path, err)
			}

			slog.Debug("encoded", "file", path, "bytes", len(b), "tokens", len(ids))
			results[len(inputs)+i] = ids
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, ids := range results {
		fields := make([]string, len(ids))
		for i, id := range ids {
			fields[i] = strconv.Itoa(id)
		}

		fmt.Fprintln(w, strings.Join(fields, " "))
	}

	return nil
}
