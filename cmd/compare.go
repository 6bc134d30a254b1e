package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
	"github.com/spf13/cobra"

	"github.com/Danpythonman/llm-tokenizer/envconfig"
	"github.com/Danpythonman/llm-tokenizer/format"
)

func init() {
	// reference encodings are embedded, never downloaded
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare FILE...",
		Short: "Compare compression against a reference tiktoken encoding",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareHandler,
	}

	addTrainingFlags(cmd)
	cmd.Flags().StringP("encoding", "e", envconfig.Encoding, "Reference tiktoken encoding")
	return cmd
}

func compareHandler(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("encoding")
	ref, err := tiktoken.GetEncoding(name)
	if err != nil {
		return fmt.Errorf("reference encoding %q: %w", name, err)
	}

	tok, _, err := trainFromFlags(cmd)
	if err != nil {
		return err
	}

	var data [][]string
	for _, path := range args {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		ids, err := tok.Encode(string(b))
		if err != nil {
			return err
		}

		refIDs := ref.Encode(string(b), nil, nil)
		data = append(data, []string{
			filepath.Base(path),
			format.HumanBytes(int64(len(b))),
			format.HumanNumber(uint64(len(ids))),
			format.Ratio(len(b), len(ids)),
			format.HumanNumber(uint64(len(refIDs))),
			format.Ratio(len(b), len(refIDs)),
		})
	}

	table := newTable(cmd.OutOrStdout(), "FILE", "SIZE", "TOKENS", "BYTES/TOKEN", name, "BYTES/TOKEN")
	table.AppendBulk(data)
	table.Render()
	return nil
}
