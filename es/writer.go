package es

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

const (
	// Index name
	INDEX_NAME_FIELD = "indexName"

	// Actual number of entries in index
	ENTRIES_NB = "entriesNb"

	// array of the entries
	ENTRIES_ARRAY = "entries"
)

// DumpWriter is an io.Writer like object with write functions for the
// knowledge-base dump format.
type DumpWriter struct {
	s       *jsoniter.Stream
	written int64
}

// Create a DumpWriter object
func NewDumpWriter(writer io.Writer) *DumpWriter {
	s := jsoniter.NewStream(jsoniter.ConfigFastest, writer, _buflen)
	s.WriteObjectStart()
	return &DumpWriter{
		s: s,
	}
}

// Underlying stream error
func (w *DumpWriter) Error() error {
	return w.s.Error
}

// Writes any buffered data to the underlying io.Writer and close object
func (w *DumpWriter) WriteEnd() {
	w.s.WriteObjectEnd()
	w.s.Flush()
}

// Name of the index
func (w *DumpWriter) WriteIndexName(indexName string) {
	w.s.WriteObjectField(INDEX_NAME_FIELD)
	w.s.WriteString(indexName)
}

// Actual number of entries in the index
func (w *DumpWriter) WriteEntriesNb(entriesNb int64) {
	w.s.WriteMore()
	w.s.WriteObjectField(ENTRIES_NB)
	w.s.WriteInt64(entriesNb)
}

// Beginning of the entries array
func (w *DumpWriter) WriteEntriesArrayBegin() {
	w.s.WriteMore()
	w.s.WriteObjectField(ENTRIES_ARRAY)
	w.s.WriteArrayStart()
}

// Entry data, WriteEntriesArrayBegin shall be call before.
// Entries are separated as they come, the array may end after any of them.
func (w *DumpWriter) WriteEntry(entry Entry) {
	if w.written > 0 {
		w.s.WriteMore()
	}
	w.written += 1
	w.s.WriteObjectStart()
	w.s.WriteObjectField("_id")
	w.s.WriteString(entry.ID)
	w.s.WriteMore()
	w.s.WriteObjectField(DocumentIDField)
	w.s.WriteString(entry.DocumentID)
	w.s.WriteMore()
	w.s.WriteObjectField(ContentField)
	w.s.WriteString(entry.Content)
	w.s.WriteObjectEnd()
}

// Number of entries written so far
func (w *DumpWriter) Written() int64 {
	return w.written
}

// End of the entries array
func (w *DumpWriter) WriteEntriesArrayEnd() {
	w.s.WriteArrayEnd()
}
