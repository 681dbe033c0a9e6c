package es

import (
	"bytes"
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Source document of a knowledge-base entry
type Source struct {
	DocumentID string `json:"kb_document_id"`
	Content    string `json:"content"`
}

// Entry is a source document with its _id.
type Entry struct {
	ID string `json:"_id"`
	Source
}

type Hit struct {
	Index  string  `json:"_index"`
	Type   string  `json:"_type"`
	ID     string  `json:"_id"`
	Score  float64 `json:"_score"`
	Source Source  `json:"_source"`
}

// TotalHits decodes both the ES 7 object and the older plain number.
type TotalHits struct {
	Value    int64
	Relation string
}

func (t *TotalHits) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Value    int64  `json:"value"`
			Relation string `json:"relation"`
		}
		if err := jsoniter.Unmarshal(data, &obj); err != nil {
			return err
		}
		t.Value, t.Relation = obj.Value, obj.Relation
		return nil
	}
	t.Relation = "eq"
	return jsoniter.Unmarshal(data, &t.Value)
}

type Hits struct {
	Total    TotalHits `json:"total"`
	MaxScore float64   `json:"max_score"`
	Hits     []Hit     `json:"hits"`
}

type SearchResponse struct {
	Took     int64  `json:"took"`
	TimedOut bool   `json:"timed_out"`
	ScrollID string `json:"_scroll_id,omitempty"`
	Hits     Hits   `json:"hits"`
}

// Search runs body against index. A missing index is reported and gives
// a nil response without error.
func (c *EsClient) Search(ctx context.Context, index string, body Body,
	offset int, size int) (*SearchResponse, error) {

	data, err := jsoniter.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "encode query")
	}
	c.log.Debug("search", zap.String("index", index), zap.ByteString("body", data),
		zap.Int("from", offset), zap.Int("size", size))

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithFrom(offset),
		c.es.Search.WithSize(size),
		c.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "search")
	}
	defer res.Body.Close()

	if res.IsError() {
		err := parseError(res)
		if IsErrorType(err, IndexNotFound) {
			fmt.Fprintln(c.out, "EsClient.Search: Ignoring "+IndexNotFound)
			return nil, nil
		}
		return nil, err
	}

	var resp SearchResponse
	if err := jsoniter.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, errors.Wrap(err, "decode search response")
	}
	c.log.Info("search done", zap.Int64("took", resp.Took),
		zap.Int64("total", resp.Hits.Total.Value), zap.Int("hits", len(resp.Hits.Hits)))
	return &resp, nil
}

// FilterHits keeps the hits scoring at least minScore, in order.
func FilterHits(resp *SearchResponse, minScore float64) []Hit {
	if resp == nil {
		return nil
	}
	hits := make([]Hit, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Score >= minScore {
			hits = append(hits, hit)
		}
	}
	return hits
}

// Result is a hit reduced to its score and identifiers.
type Result struct {
	Score      float64
	DocumentID string
	EntryID    string
}

// ExtractScores reduces the hits scoring at least minScore to results,
// along with the max score of the response and the sum of kept scores.
func ExtractScores(resp *SearchResponse, minScore float64) ([]Result, float64, float64) {
	if resp == nil {
		return nil, 0, 0
	}
	var sum float64
	hits := FilterHits(resp, minScore)
	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		sum += hit.Score
		results = append(results, Result{
			Score:      hit.Score,
			DocumentID: hit.Source.DocumentID,
			EntryID:    hit.ID,
		})
	}
	return results, resp.Hits.MaxScore, sum
}
