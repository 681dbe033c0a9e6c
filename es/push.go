package es

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/elastic/go-elasticsearch/v7/esutil"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vbauerster/mpb/v8"
	"go.uber.org/zap"
)

type PushOptions struct {
	// Index to fill, the dump index name when empty, then Fallback
	Index    string
	Fallback string

	// Keep the existing index and its entries instead of wiping it
	Keep bool

	// Progress bar, may be nil
	Bar *mpb.Bar

	FlushBytes int
}

type PushStats struct {
	Index   string
	Added   uint64
	Indexed uint64
	Failed  uint64
}

type pushState struct {
	opts    PushOptions
	reader  *DumpReader
	bi      esutil.BulkIndexer
	index   string
	mu      sync.Mutex
	failure error
}

func (s *pushState) onEntry(nb int) {
	if s.opts.Bar != nil {
		s.opts.Bar.SetCurrent(int64(nb))
	}
}

// the announced entriesNb may be missing or wrong, the total becomes
// the number of entries actually read
func (s *pushState) onFinished() {
	if s.opts.Bar != nil {
		s.opts.Bar.SetTotal(-1, true)
	}
}

func (s *pushState) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure == nil {
		s.failure = err
	}
}

// IndexEntries recreates the target index and bulk-indexes every entry of
// the dump read from reader.
func (c *EsClient) IndexEntries(ctx context.Context, reader io.Reader,
	opts PushOptions) (PushStats, error) {

	s := &pushState{
		opts:   opts,
		reader: NewDumpReader(reader),
	}
	if opts.Bar != nil {
		opts.Bar.SetTotal(100000, false)
	}

	err := s.reader.ReadEntries(
		func() error { return c.beginPush(ctx, s) },
		func(e Entry) error { return c.pushEntry(ctx, s, e) },
	)

	// nothing was started, the dump had no entries array
	if s.bi == nil {
		if err == nil {
			err = errors.New("no entries found in dump")
		}
		return PushStats{}, err
	}

	if cerr := s.bi.Close(ctx); cerr != nil && err == nil {
		err = errors.Wrap(cerr, "close bulk indexer")
	}
	s.onFinished()

	stats := s.bi.Stats()
	res := PushStats{
		Index:   s.index,
		Added:   stats.NumAdded,
		Indexed: stats.NumIndexed,
		Failed:  stats.NumFailed,
	}
	if err != nil {
		return res, err
	}
	if s.failure != nil {
		return res, s.failure
	}
	if stats.NumFailed > 0 {
		return res, errors.Errorf("bulk index failed for %d entries", stats.NumFailed)
	}
	return res, nil
}

// pick the index, wipe and create it, then start the bulk indexer
func (c *EsClient) beginPush(ctx context.Context, s *pushState) error {
	s.index = s.opts.Index
	if s.index == "" {
		s.index = s.reader.IndexName
	}
	if s.index == "" {
		s.index = s.opts.Fallback
	}
	if s.index == "" {
		return errors.New("no index name for the entries")
	}
	if s.opts.Bar != nil && s.reader.EntriesNb > 0 {
		s.opts.Bar.SetTotal(s.reader.EntriesNb, false)
	}

	if !s.opts.Keep {
		if err := c.WipeIndices(ctx, []string{s.index}); err != nil {
			return err
		}
	}
	if _, err := c.CreateIndex(ctx, s.index); err != nil {
		return err
	}

	flush := s.opts.FlushBytes
	if flush <= 0 {
		flush = 1024 * 1024 * 5
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      s.index,
		Client:     c.es,
		NumWorkers: 1,
		FlushBytes: flush,
		OnError: func(_ context.Context, err error) {
			s.fail(errors.Wrap(err, "bulk request"))
		},
	})
	if err != nil {
		return errors.Wrap(err, "create bulk indexer")
	}
	s.bi = bi
	c.log.Info("pushing entries", zap.String("index", s.index),
		zap.Int64("entries", s.reader.EntriesNb))
	return nil
}

// push one entry to es index
func (c *EsClient) pushEntry(ctx context.Context, s *pushState, e Entry) error {
	data, err := jsoniter.Marshal(e.Source)
	if err != nil {
		return errors.Wrap(err, "encode entry")
	}

	err = s.bi.Add(
		ctx,
		esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: e.ID,
			Body:       bytes.NewReader(data),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem,
				res esutil.BulkIndexerResponseItem, err error) {
				if err == nil {
					err = errors.Errorf("%s: %s", res.Error.Type, res.Error.Reason)
				}
				c.log.Warn("entry failed", zap.String("id", item.DocumentID), zap.Error(err))
			},
		},
	)
	if err != nil {
		return errors.Wrap(err, "add entry")
	}

	s.onEntry(int(s.bi.Stats().NumAdded))
	return nil
}
