package es

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultAnalyzeText exercises case folding, accents, stemming overrides
// and stop words.
const DefaultAnalyzeText = "The YeLLoWing café beLLows MiCe were sleeping FURIOUSly."

// AnalyzeRequest is the body of an _analyze call. Either Analyzer or
// Tokenizer with Filter is set.
type AnalyzeRequest struct {
	Analyzer  string        `json:"analyzer,omitempty"`
	Tokenizer string        `json:"tokenizer,omitempty"`
	Filter    []interface{} `json:"filter,omitempty"`
	Text      string        `json:"text"`
	Explain   bool          `json:"explain,omitempty"`
}

// DefaultFilterChain runs in order: keyword markers and overrides before
// the stemmer, overrides producing stop words before the stop filter.
func DefaultFilterChain() []interface{} {
	return []interface{}{
		"lowercase",
		"asciifolding",
		map[string]interface{}{"type": "keyword_marker", "keywords": []string{"sleeping"}},
		map[string]interface{}{"type": "stemmer_override", "rules": []string{"mice=>mouse", "were=>was"}},
		map[string]interface{}{"type": "stop", "stopwords": []string{"a", "is", "the", "was"}},
		"porter_stem",
	}
}

// NewAnalyzeRequest builds a request for text. A named analyzer replaces
// the tokenizer and the default filter chain.
func NewAnalyzeRequest(text, tokenizer, analyzer string, explain bool) AnalyzeRequest {
	if text == "" {
		text = DefaultAnalyzeText
	}
	if analyzer != "" {
		return AnalyzeRequest{Analyzer: analyzer, Text: text, Explain: explain}
	}
	if tokenizer == "" {
		tokenizer = "standard"
	}
	return AnalyzeRequest{
		Tokenizer: tokenizer,
		Filter:    DefaultFilterChain(),
		Text:      text,
		Explain:   explain,
	}
}

type Token struct {
	Token       string `json:"token"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Type        string `json:"type"`
	Position    int    `json:"position"`
}

type AnalyzeResponse struct {
	Tokens []Token `json:"tokens"`

	// explain output, kept raw
	Detail jsoniter.RawMessage `json:"detail,omitempty"`
}

// Analyze runs req through the analysis chain, against index when set so
// the index analyzers are available.
func (c *EsClient) Analyze(ctx context.Context, index string, req AnalyzeRequest) (*AnalyzeResponse, error) {
	data, err := jsoniter.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encode analyze request")
	}
	c.log.Debug("analyze", zap.String("index", index), zap.ByteString("body", data))

	opts := []func(*esapi.IndicesAnalyzeRequest){
		c.es.Indices.Analyze.WithContext(ctx),
		c.es.Indices.Analyze.WithBody(bytes.NewReader(data)),
	}
	if index != "" {
		opts = append(opts, c.es.Indices.Analyze.WithIndex(index))
	}

	res, err := c.es.Indices.Analyze(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "analyze")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, parseError(res)
	}

	var resp AnalyzeResponse
	if err := jsoniter.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, errors.Wrap(err, "decode analyze response")
	}
	return &resp, nil
}

// PrintTokens writes one line per token, or the indented explain detail.
func PrintTokens(w io.Writer, resp *AnalyzeResponse) {
	if len(resp.Detail) > 0 {
		var pretty bytes.Buffer
		if err := jsonIndent(&pretty, resp.Detail); err != nil {
			w.Write(resp.Detail)
		} else {
			w.Write(pretty.Bytes())
		}
		fmt.Fprintln(w)
		return
	}
	for _, t := range resp.Tokens {
		fmt.Fprintf(w, "%3d  %-20s  [%d:%d]  %s\n",
			t.Position, t.Token, t.StartOffset, t.EndOffset, t.Type)
	}
}

func jsonIndent(dst *bytes.Buffer, src []byte) error {
	var v interface{}
	if err := jsoniter.Unmarshal(src, &v); err != nil {
		return err
	}
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	dst.Write(out)
	return nil
}
