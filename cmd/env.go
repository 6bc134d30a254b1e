package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Danpythonman/llm-tokenizer/envconfig"
)

func NewEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Show configuration settings",
		Long:  "Show the settings read from the environment, ~/.bpe/.env and the config file. Environment variables take precedence.",
		Args:  cobra.NoArgs,
		RunE:  envHandler,
	}

	cmd.Flags().Bool("example", false, "Print an example config file instead")
	return cmd
}

func envHandler(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	if example, _ := cmd.Flags().GetBool("example"); example {
		fmt.Fprint(w, envconfig.GenerateExampleConfig())
		return nil
	}

	vars := envconfig.AsMap()

	var data [][]string
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		v := vars[k]
		data = append(data, []string{v.Name, fmt.Sprintf("%v", v.Value), v.Description})
	}

	table := newTable(w, "NAME", "VALUE", "DESCRIPTION")
	table.AppendBulk(data)
	table.Render()
	return nil
}
