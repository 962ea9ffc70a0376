package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lr1gen",
	Short: "Generate a canonical LR(1) parsing table from a grammar",
	Long: `lr1gen builds a canonical LR(1) item-set automaton from a grammar
and emits the resulting action/goto tables, both as a dense array and
as a yacc-style compacted table (yyr1/yyr2/yytable/yycheck).`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
