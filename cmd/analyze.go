package cmd

import (
	"fmt"
	"os"

	"frafos.com/kbsearch/es"
	"github.com/spf13/cobra"
)

var (
	Tokenizer  string
	Analyzer   string
	Explain    bool
	analyzeCmd = &cobra.Command{
		Use:   "analyze [TEXT]",
		Short: "Show the tokens produced by an analysis chain",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyze,
	}
)

func init() {
	analyzeCmd.Flags().StringVar(&Tokenizer, "tokenizer", "standard",
		"tokenizer of the default filter chain")
	analyzeCmd.Flags().StringVar(&Analyzer, "analyzer", "",
		"named analyzer, replaces the tokenizer and filter chain")
	analyzeCmd.Flags().BoolVar(&Explain, "explain", false,
		"print the detail of every analysis step")
}

// analyzers defined in the index mapping need the index, builtins do not
func analyzeIndex(cmd *cobra.Command) string {
	flags := cmd.Flags()
	if flags.Changed("index") || flags.Changed("zoid") {
		return targetIndex(nil)
	}
	return ""
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text := es.DefaultAnalyzeText
	if len(args) > 0 {
		text = args[0]
	}

	client, _, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	req := es.NewAnalyzeRequest(text, Tokenizer, Analyzer, Explain)
	index := analyzeIndex(cmd)
	if index != "" {
		fmt.Printf("======> analyze(%s)\n", index)
	}

	resp, err := client.Analyze(cmd.Context(), index, req)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n", text)
	es.PrintTokens(os.Stdout, resp)
	return nil
}
