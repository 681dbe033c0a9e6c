package es

import (
	"context"
	"io"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	mpb "github.com/vbauerster/mpb/v8"
	"go.uber.org/zap"
)

const (
	scrollKeepAlive = time.Minute
	scrollPageSize  = 1000
)

type fetchState struct {
	iter    *jsoniter.Iterator
	onMeta  func(fetchMeta)
	onEntry func(Entry)
	fetched int
}

type fetchMeta struct {
	nbDocs   int64
	scrollID string
}

// min between two number
func min(a int, b int) int {
	if a < b {
		return a
	}
	return b
}

// fetch all entries from an index and write them in the dump format,
// at most limit of them
func (c *EsClient) FetchEntries(ctx context.Context, writer io.Writer,
	bar *mpb.Bar, index string, limit int) (int, error) {

	w := NewDumpWriter(writer)
	defer w.WriteEnd()
	w.WriteIndexName(index)

	var scrollID string
	var nbEntries int
	begun := false
	fetched := 0
	onEntry := func(e Entry) {
		if fetched >= nbEntries {
			return
		}
		fetched += 1
		w.WriteEntry(e)
		if bar != nil {
			bar.Increment()
		}
	}

	// fetch initial entries
	first := &fetchState{
		onMeta: func(meta fetchMeta) {
			begun = true
			nbEntries = min(int(meta.nbDocs), limit)
			if bar != nil {
				bar.SetTotal(int64(nbEntries), false)
				bar.EnableTriggerComplete()
			}
			scrollID = meta.scrollID

			w.WriteEntriesNb(int64(nbEntries))
			w.WriteEntriesArrayBegin()
		},
		onEntry: onEntry,
	}
	if err := c.fetchFirstEntries(ctx, index, min(limit, scrollPageSize), first); err != nil {
		return fetched, err
	}
	defer func() { c.clearScroll(scrollID) }()
	if !begun {
		return 0, errors.New("no hits in search response")
	}

	// scroll fetch till no entries left
	for fetched < nbEntries {
		next := &fetchState{
			onMeta: func(meta fetchMeta) {
				scrollID = meta.scrollID
			},
			onEntry: onEntry,
		}
		if err := c.fetchScrollEntries(ctx, scrollID, next); err != nil {
			return fetched, err
		}
		if next.fetched == 0 {
			c.log.Warn("scroll ended early", zap.String("index", index),
				zap.Int("fetched", fetched), zap.Int("expected", nbEntries))
			break
		}
	}

	w.WriteEntriesArrayEnd()

	// total drops to what was fetched when the scroll ended early
	if bar != nil {
		bar.SetTotal(-1, true)
	}
	return fetched, w.Error()
}

// original query to fetch entries
func (c *EsClient) fetchFirstEntries(ctx context.Context, index string,
	size int, state *fetchState) error {

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(strings.NewReader(`{"query":{"match_all":{}}}`)),
		c.es.Search.WithSort("_doc"),
		c.es.Search.WithScroll(scrollKeepAlive),
		c.es.Search.WithSize(size),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return errors.Wrap(err, "search")
	}
	defer res.Body.Close()

	if res.IsError() {
		return parseError(res)
	}

	state.iter = jsoniter.Parse(jsoniter.ConfigFastest, res.Body, _buflen)
	return state.consumeResponse()
}

// from scrollID, fetch next entries
func (c *EsClient) fetchScrollEntries(ctx context.Context, scrollID string,
	state *fetchState) error {

	res, err := c.es.Scroll(
		c.es.Scroll.WithContext(ctx),
		c.es.Scroll.WithScroll(scrollKeepAlive),
		c.es.Scroll.WithScrollID(scrollID),
	)
	if err != nil {
		return errors.Wrap(err, "scroll")
	}
	defer res.Body.Close()

	if res.IsError() {
		return parseError(res)
	}

	state.iter = jsoniter.Parse(jsoniter.ConfigFastest, res.Body, _buflen)
	return state.consumeResponse()
}

func (c *EsClient) clearScroll(scrollID string) {
	if scrollID == "" {
		return
	}
	res, err := c.es.ClearScroll(c.es.ClearScroll.WithScrollID(scrollID))
	if err != nil {
		c.log.Debug("clear scroll", zap.Error(err))
		return
	}
	res.Body.Close()
}

// push error to jsoniter iterator
func (s *fetchState) error(context string, msg string) bool {
	s.iter.ReportError(context, msg)
	return false
}

// consume response body stream, extract metadata and entries
func (s *fetchState) consumeResponse() error {
	var meta fetchMeta

	s.iter.ReadMapCB(func(_ *jsoniter.Iterator, field string) bool {
		switch field {
		case "_scroll_id":
			meta.scrollID = s.iter.ReadString()
		case "hits":
			return s.iter.ReadMapCB(func(_ *jsoniter.Iterator, field string) bool {
				switch field {
				case "total":
					meta.nbDocs = s.consumeTotal()
					if s.iter.Error != nil {
						return s.error("response", "could not parse total")
					}
				case "hits":
					s.onMeta(meta)
					s.consumeEntries()
					if s.iter.Error != nil {
						return s.error("response", "could not parse entry")
					}
				default:
					s.iter.Skip()
				}
				return true
			})
		default:
			s.iter.Skip()
		}
		return true
	})

	return s.iter.Error
}

// consume total number of entries, an object since ES 7
func (s *fetchState) consumeTotal() int64 {
	if s.iter.WhatIsNext() == jsoniter.NumberValue {
		return s.iter.ReadInt64()
	}
	var total int64
	s.iter.ReadMapCB(func(_ *jsoniter.Iterator, field string) bool {
		switch field {
		case "value":
			total = s.iter.ReadInt64()
		default:
			s.iter.Skip()
		}
		return true
	})
	return total
}

// consume all entries in response
func (s *fetchState) consumeEntries() {
	s.iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
		var e Entry
		ok := s.iter.ReadMapCB(func(_ *jsoniter.Iterator, field string) bool {
			switch field {
			case "_id":
				e.ID = s.iter.ReadString()
			case "_source":
				s.iter.ReadVal(&e.Source)
			default:
				s.iter.Skip()
			}
			return true
		})
		if ok {
			s.fetched += 1
			s.onEntry(e)
		}
		return ok
	})
}
