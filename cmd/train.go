package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Danpythonman/llm-tokenizer/envconfig"
	"github.com/Danpythonman/llm-tokenizer/format"
	"github.com/Danpythonman/llm-tokenizer/progress"
	"github.com/Danpythonman/llm-tokenizer/tokenizer"
)

// vocabularyTokenizer is implemented by every tokenizer New returns.
type vocabularyTokenizer interface {
	tokenizer.Tokenizer
	Vocabulary() *tokenizer.Vocabulary
}

func NewTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a tokenizer and show the merges it learned",
		Args:  cobra.NoArgs,
		RunE:  trainHandler,
	}

	addTrainingFlags(cmd)
	cmd.Flags().Int("top", 20, "Number of merges to show, 0 for all")
	return cmd
}

// addTrainingFlags registers the flags trainFromFlags reads. Every command
// that needs a vocabulary trains one from a corpus first.
func addTrainingFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("corpus", "c", "", "Text file to train on")
	cmd.Flags().IntP("vocab-size", "n", envconfig.VocabSize, "Vocabulary size, including the 256 byte tokens")
	cmd.Flags().StringP("tokenizer", "t", envconfig.Tokenizer, "Tokenizer to train, basic or regex")
	cmd.MarkFlagRequired("corpus")
}

func trainFromFlags(cmd *cobra.Command) (vocabularyTokenizer, string, error) {
	path, _ := cmd.Flags().GetString("corpus")
	vocabSize, _ := cmd.Flags().GetInt("vocab-size")
	kind, _ := cmd.Flags().GetString("tokenizer")

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	var opts []tokenizer.Option
	if !envconfig.NoProgress {
		p := progress.NewProgress(cmd.ErrOrStderr())
		defer p.StopAndClear()

		bar := progress.NewBar(fmt.Sprintf("training %s", kind), int64(max(vocabSize-tokenizer.NumBytes, 0)), 0)
		p.Add(bar)
		opts = append(opts, tokenizer.WithProgress(func(done, _ int) {
			bar.Set(int64(done))
		}))
	}

	t, err := tokenizer.New(kind, opts...)
	if err != nil {
		return nil, "", err
	}

	tok, ok := t.(vocabularyTokenizer)
	if !ok {
		return nil, "", fmt.Errorf("tokenizer %q does not expose its vocabulary", kind)
	}

	slog.Debug("training", "corpus", path, "size", format.HumanBytes(int64(len(b))), "tokenizer", kind, "vocab_size", vocabSize)
	if err := tok.Train(string(b), vocabSize); err != nil {
		return nil, "", fmt.Errorf("train on %s: %w", path, err)
	}

	return tok, string(b), nil
}

func trainHandler(cmd *cobra.Command, args []string) error {
	tok, corpus, err := trainFromFlags(cmd)
	if err != nil {
		return err
	}

	top, _ := cmd.Flags().GetInt("top")
	vocab := tok.Vocabulary()

	var data [][]string
	for pair, id := range vocab.Merges() {
		if top > 0 && len(data) >= top {
			break
		}

		b, _ := vocab.Bytes(id)
		data = append(data, []string{strconv.Itoa(id), pair.String(), strconv.Quote(string(b))})
	}

	w := cmd.OutOrStdout()
	if len(data) > 0 {
		table := newTable(w, "ID", "PAIR", "TOKEN")
		table.AppendBulk(data)
		table.Render()
		fmt.Fprintln(w)
	}

	ids, err := tok.Encode(corpus)
	if err != nil {
		return err
	}

	kind, _ := cmd.Flags().GetString("tokenizer")
	fmt.Fprintf(w, "%s tokenizer: %s tokens, %s merges, %s corpus encodes to %s tokens (%s bytes/token)\n",
		kind,
		format.HumanNumber(uint64(vocab.Size())),
		format.HumanNumber(uint64(vocab.NumMerges())),
		format.HumanBytes(int64(len(corpus))),
		format.HumanNumber(uint64(len(ids))),
		format.Ratio(len(corpus), len(ids)),
	)

	return nil
}
