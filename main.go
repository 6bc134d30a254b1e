package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Danpythonman/llm-tokenizer/cmd"
	"github.com/Danpythonman/llm-tokenizer/envconfig"
	"github.com/Danpythonman/llm-tokenizer/logutil"
)

func main() {
	if err := cmd.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	envconfig.LoadConfig()
	logutil.SetDefault(os.Stderr, envconfig.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cobra.CheckErr(cmd.NewCLI().ExecuteContext(ctx))
}
