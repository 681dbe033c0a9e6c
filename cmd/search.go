package cmd

import (
	"fmt"
	"os"

	"frafos.com/kbsearch/es"
	"github.com/spf13/cobra"
)

const defaultQuery = "IT"

var (
	QueryType string
	Fields    []string
	Offset    int
	Size      int
	MinScore  float64
	searchCmd = &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search the bot index",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}
)

func init() {
	searchCmd.Flags().StringVarP(&QueryType, "type", "t", string(es.MostFieldsQuery),
		"query type: match, most_fields, phrase_prefix, query_string, wildcard")
	searchCmd.Flags().StringSliceVarP(&Fields, "fields", "f", nil,
		"fields to search (default content,content.raw)")
	searchCmd.Flags().IntVarP(&Offset, "offset", "o", 0, "offset into results list")
	searchCmd.Flags().IntVarP(&Size, "size", "s", 6, "maximum number of results")
	searchCmd.Flags().Float64VarP(&MinScore, "min-score", "m", 0.0,
		"minimum score for result hits")
}

func runSearch(cmd *cobra.Command, args []string) error {
	qstring := defaultQuery
	if len(args) > 0 {
		qstring = args[0]
	}

	kind, err := es.ParseQueryKind(QueryType)
	if err != nil {
		return err
	}
	body, err := es.BuildQuery(kind, qstring, Fields)
	if err != nil {
		return err
	}

	client, _, err := newClient(cmd.Context())
	if err != nil {
		return err
	}

	index := targetIndex(nil)
	fmt.Printf("Searching index %s, type %s (offset %d, max_size %d) for: \"%s\"\n",
		index, es.DocType, Offset, Size, qstring)

	resp, err := client.Search(cmd.Context(), index, body, Offset, Size)
	if err != nil {
		return err
	}

	es.PrintHits(os.Stdout, resp, MinScore, es.MaxLen, Verbose)
	if Verbose > 1 {
		es.PrintScores(os.Stdout, resp, MinScore)
	}
	return nil
}
