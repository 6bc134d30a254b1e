package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func NewDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode ID...",
		Short: "Decode token ids back into text",
		Args:  cobra.MinimumNArgs(1),
		RunE:  decodeHandler,
	}

	addTrainingFlags(cmd)
	return cmd
}

func decodeHandler(cmd *cobra.Command, args []string) error {
	ids := make([]int, len(args))
	for i, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid token id %q", arg)
		}

		ids[i] = id
	}

	tok, _, err := trainFromFlags(cmd)
	if err != nil {
		return err
	}

	text, err := tok.Decode(ids)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
