package es

import (
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	jsoniter "github.com/json-iterator/go"
	pkgerrors "github.com/pkg/errors"
)

const (
	IndexNotFound      = "index_not_found_exception"
	IndexAlreadyExists = "index_already_exists_exception"

	// ES 6+ spelling of IndexAlreadyExists
	ResourceAlreadyExists = "resource_already_exists_exception"
)

// Error is an error answer of Elasticsearch.
type Error struct {
	Status int
	Type   string
	Reason string
}

func (e *Error) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("[%d] %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("[%d] type: %s, reason: %s", e.Status, e.Type, e.Reason)
}

type errorCause struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type errorBody struct {
	Error struct {
		errorCause
		RootCause []errorCause `json:"root_cause"`
	} `json:"error"`
}

// decode the body of an error response
func parseError(res *esapi.Response) error {
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return pkgerrors.Wrap(err, "read error response")
	}

	e := &Error{Status: res.StatusCode}
	var body errorBody
	if err := jsoniter.Unmarshal(data, &body); err != nil || body.Error.Type == "" {
		e.Reason = string(data)
		return e
	}

	e.Type = body.Error.Type
	e.Reason = body.Error.Reason
	if e.Reason == "" && len(body.Error.RootCause) > 0 {
		e.Reason = body.Error.RootCause[0].Reason
	}
	return e
}

// IsErrorType reports whether err is an Elasticsearch error of one of types.
func IsErrorType(err error, types ...string) bool {
	var e *Error
	if !pkgerrors.As(err, &e) {
		return false
	}
	for _, t := range types {
		if e.Type == t {
			return true
		}
	}
	return false
}
