package es

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

// DumpReader is a io.Reader like object with read functions for the
// knowledge-base dump format.
type DumpReader struct {
	iter *jsoniter.Iterator

	// Filled in as the fields are met
	IndexName string
	EntriesNb int64
}

// Create a DumpReader object
func NewDumpReader(reader io.Reader) *DumpReader {
	iter := jsoniter.Parse(jsoniter.ConfigFastest, reader, _buflen)
	return &DumpReader{
		iter: iter,
	}
}

// Report error to underlying stream
func (r *DumpReader) ReportError(op string, error string) bool {
	r.iter.ReportError(op, error)
	return false
}

// Underlying stream error
func (r *DumpReader) Error() error {
	return r.iter.Error
}

// ReadEntries walks the dump. begin is called once the entries array is
// reached, then each entry is given to callback. An error from either
// stops the walk and is returned.
func (r *DumpReader) ReadEntries(begin func() error, callback func(Entry) error) error {
	var cbErr error

	r.iter.ReadMapCB(func(_ *jsoniter.Iterator, field string) bool {
		switch field {
		case INDEX_NAME_FIELD:
			r.IndexName = r.iter.ReadString()
		case ENTRIES_NB:
			r.EntriesNb = r.iter.ReadInt64()
		case ENTRIES_ARRAY:
			if begin != nil {
				if cbErr = begin(); cbErr != nil {
					return false
				}
			}
			return r.iter.ReadArrayCB(func(_ *jsoniter.Iterator) bool {
				var e Entry
				r.iter.ReadVal(&e)
				if r.iter.Error != nil {
					return false
				}
				if cbErr = callback(e); cbErr != nil {
					return false
				}
				return true
			})
		default:
			r.iter.Skip()
		}
		return true
	})

	if cbErr != nil {
		return cbErr
	}
	return r.Error()
}
