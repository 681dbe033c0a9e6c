package es

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/magiconair/properties/assert"
)

func TestDummyRead(t *testing.T) {
	r := NewDumpReader(strings.NewReader(DUMMY_DUMP_DATA))

	began := false
	i := 0
	err := r.ReadEntries(
		func() error {
			began = true
			assert.Equal(t, r.IndexName, "bot2", "unexpected index name")
			assert.Equal(t, r.EntriesNb, int64(100), "unexpected entries nb")
			return nil
		},
		func(e Entry) error {
			assert.Equal(t, e, dummyEntries[i], fmt.Sprint("unexpected entry at ", i))
			i += 1
			return nil
		},
	)
	assert.Equal(t, err, nil)
	assert.Equal(t, began, true)
	assert.Equal(t, i, len(dummyEntries))
}

func TestReadStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	r := NewDumpReader(strings.NewReader(DUMMY_DUMP_DATA))

	n := 0
	err := r.ReadEntries(nil, func(e Entry) error {
		n += 1
		return stop
	})
	assert.Equal(t, err, stop)
	assert.Equal(t, n, 1)
}

func TestReadMalformed(t *testing.T) {
	r := NewDumpReader(strings.NewReader(`{"indexName":"bot2","entries":[{"_id":`))
	err := r.ReadEntries(nil, func(e Entry) error { return nil })
	if err == nil {
		t.Error("expected error on truncated dump")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var b strings.Builder
	w := NewDumpWriter(&b)
	w.WriteIndexName("bot7")
	w.WriteEntriesNb(1)
	w.WriteEntriesArrayBegin()
	w.WriteEntry(Entry{ID: "x", Source: Source{DocumentID: "y", Content: `quote " and café`}})
	w.WriteEntriesArrayEnd()
	w.WriteEnd()

	var got []Entry
	r := NewDumpReader(strings.NewReader(b.String()))
	err := r.ReadEntries(nil, func(e Entry) error {
		got = append(got, e)
		return nil
	})
	assert.Equal(t, err, nil)
	assert.Equal(t, r.IndexName, "bot7")
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].Content, `quote " and café`)
}
