package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Danpythonman/llm-tokenizer/tokenizer"
)

func NewSplitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split [TEXT...]",
		Short: "Show how the regex tokenizer splits text into chunks",
		Long:  "Print every chunk of each TEXT argument, or of standard input, quoted on its own line. Merges never cross chunk boundaries.",
		RunE:  splitHandler,
	}
}

func splitHandler(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}

		args = []string{string(b)}
	}

	w := cmd.OutOrStdout()
	for _, text := range args {
		chunks, err := tokenizer.Split(text)
		if err != nil {
			return err
		}

		for _, chunk := range chunks {
			fmt.Fprintln(w, strconv.Quote(chunk))
		}
	}

	return nil
}
