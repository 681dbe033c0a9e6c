package es

import (
	"io"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	jsoniter "github.com/json-iterator/go"
	"github.com/magiconair/properties/assert"
)

func TestIndexName(t *testing.T) {
	assert.Equal(t, IndexName(2), "bot2")
	assert.Equal(t, IndexName(7777777), "bot7777777")
}

func TestKBDocumentIndex(t *testing.T) {
	assertJSON(t, KBDocumentIndex(), `{
		"settings": {
			"analysis": {
				"analyzer": {
					"case_sensitive_text": {
						"type": "custom",
						"tokenizer": "standard",
						"filter": ["my_english_stemmer"]
					}
				},
				"normalizer": {
					"lower_ascii_normalizer": {
						"type": "custom",
						"filter": ["lowercase", "asciifolding"]
					}
				},
				"filter": {
					"my_english_stemmer": {"type": "stemmer", "name": "light_english"}
				}
			}
		},
		"mappings": {
			"properties": {
				"content": {
					"type": "text",
					"analyzer": "standard",
					"store": true,
					"term_vector": "yes",
					"fields": {
						"raw": {"type": "text", "analyzer": "case_sensitive_text", "store": true}
					}
				},
				"kb_document_id": {"type": "keyword", "store": true}
			}
		}
	}`)
}

func TestTotalHits(t *testing.T) {
	var h Hits
	err := jsoniter.Unmarshal([]byte(`{"total":{"value":42,"relation":"gte"},"max_score":1.5}`), &h)
	assert.Equal(t, err, nil)
	assert.Equal(t, h.Total, TotalHits{Value: 42, Relation: "gte"})

	h = Hits{}
	err = jsoniter.Unmarshal([]byte(`{"total":17,"max_score":null,"hits":[]}`), &h)
	assert.Equal(t, err, nil)
	assert.Equal(t, h.Total, TotalHits{Value: 17, Relation: "eq"})
	assert.Equal(t, h.MaxScore, 0.0)
}

func TestErrorString(t *testing.T) {
	e := &Error{Status: 404, Type: IndexNotFound, Reason: "no such index [bot2]"}
	assert.Equal(t, e.Error(), "[404] type: index_not_found_exception, reason: no such index [bot2]")
	assert.Equal(t, (&Error{Status: 502, Reason: "Bad Gateway"}).Error(), "[502] Bad Gateway")
	assert.Equal(t, IsErrorType(nil, IndexNotFound), false)
}

func errorResponse(status int, body string) *esapi.Response {
	return &esapi.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestParseError(t *testing.T) {
	err := parseError(errorResponse(404, `{"error":{"root_cause":[{"type":"index_not_found_exception","reason":"no such index [bot2]"}],`+
		`"type":"index_not_found_exception","reason":"no such index [bot2]"},"status":404}`))
	assert.Equal(t, err, error(&Error{Status: 404, Type: IndexNotFound, Reason: "no such index [bot2]"}))
	assert.Equal(t, IsErrorType(err, ResourceAlreadyExists, IndexNotFound), true)

	err = parseError(errorResponse(400, `{"error":{"root_cause":[{"type":"x","reason":"from root cause"}],"type":"parse_exception"}}`))
	assert.Equal(t, err, error(&Error{Status: 400, Type: "parse_exception", Reason: "from root cause"}))

	err = parseError(errorResponse(502, "Bad Gateway"))
	assert.Equal(t, err.Error(), "[502] Bad Gateway")
	assert.Equal(t, IsErrorType(err, IndexNotFound), false)
}
