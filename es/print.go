package es

import (
	"fmt"
	"io"
	"strings"
)

// MaxLen is the default width of printed reports.
const MaxLen = 80

// Truncate flattens newlines and cuts s to maxLen runes, adding an
// ellipsis when something was cut.
func Truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) > maxLen {
		return string(r[:maxLen]) + "..."
	}
	return s
}

// PrintSearchStats writes the header of a report: total, type, index and
// latency taken from the first hit.
func PrintSearchStats(w io.Writer, resp *SearchResponse, maxLen int) {
	if resp == nil || len(resp.Hits.Hits) == 0 {
		return
	}
	hit := resp.Hits.Hits[0]
	fmt.Fprintln(w, strings.Repeat("=", maxLen))
	fmt.Fprintf(w, "Found %d total hits of type %s in index %s in %d ms\n",
		resp.Hits.Total.Value, hit.Type, hit.Index, resp.Took)
	fmt.Fprintln(w, strings.Repeat("-", maxLen))
}

// PrintHits writes one line per hit scoring at least minScore: score,
// score normalized by 1+max score, and truncated content. A verbose
// level above 1 adds the document and entry ids.
func PrintHits(w io.Writer, resp *SearchResponse, minScore float64, maxLen int, verbose int) {
	if resp == nil || len(resp.Hits.Hits) == 0 {
		fmt.Fprintln(w, "---- NO RESULTS ----")
		return
	}

	PrintSearchStats(w, resp, maxLen)
	maxScore := resp.Hits.MaxScore
	for _, hit := range FilterHits(resp, minScore) {
		norm := hit.Score / (1.0 + maxScore)
		text := Truncate(hit.Source.Content, maxLen)
		if verbose > 1 {
			fmt.Fprintf(w, "%7.3f\t%8.4f\t%s\t%36s\t%36s\n",
				hit.Score, norm, text, hit.Source.DocumentID, hit.ID)
		} else {
			fmt.Fprintf(w, "%7.3f\t%8.4f\t%s\n", hit.Score, norm, text)
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", maxLen))
}

// PrintScores writes the count, max and sum of the scores kept by minScore.
func PrintScores(w io.Writer, resp *SearchResponse, minScore float64) {
	results, maxScore, sum := ExtractScores(resp, minScore)
	fmt.Fprintf(w, "Kept %d hits (min score %.3f), max score %.3f, score sum %.3f\n",
		len(results), minScore, maxScore, sum)
}
