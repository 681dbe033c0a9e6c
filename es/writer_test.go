package es

import (
	"bytes"
	"io"
	"testing"
)

const DUMMY_DUMP_DATA = `{` +
	`"indexName":"bot2",` +
	`"entriesNb":100,` +
	`"entries":[` +
	`{"_id":"e1","kb_document_id":"d1","content":"Boston office"},` +
	`{"_id":"e2","kb_document_id":"d1","content":"IT help desk"},` +
	`{"_id":"e3","kb_document_id":"d2","content":"line\nbreak"}` +
	`]` +
	`}`

var dummyEntries = []Entry{
	{ID: "e1", Source: Source{DocumentID: "d1", Content: "Boston office"}},
	{ID: "e2", Source: Source{DocumentID: "d1", Content: "IT help desk"}},
	{ID: "e3", Source: Source{DocumentID: "d2", Content: "line\nbreak"}},
}

func TestDummyWrite(t *testing.T) {
	var b bytes.Buffer
	func() {
		w := NewDumpWriter(io.Writer(&b))
		defer w.WriteEnd()
		w.WriteIndexName("bot2")
		w.WriteEntriesNb(100)
		w.WriteEntriesArrayBegin()
		for _, e := range dummyEntries {
			w.WriteEntry(e)
		}
		w.WriteEntriesArrayEnd()
	}()

	if b.String() != DUMMY_DUMP_DATA {
		t.Error("String not matching. \nleft:", b.String(), "\nright:", DUMMY_DUMP_DATA)
	}
}
