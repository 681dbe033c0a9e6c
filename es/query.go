package es

import (
	"strings"

	"github.com/pkg/errors"
)

// Body of a search request
type Body map[string]interface{}

// QueryKind selects one of the query body shapes.
type QueryKind string

const (
	MatchQuery        QueryKind = "match"
	MostFieldsQuery   QueryKind = "most_fields"
	PhrasePrefixQuery QueryKind = "phrase_prefix"
	QueryStringQuery  QueryKind = "query_string"
	WildcardQuery     QueryKind = "wildcard"

	ContentField    = "content"
	ContentRawField = "content.raw"
	DocumentIDField = "kb_document_id"
)

var QueryKinds = []QueryKind{
	MatchQuery,
	MostFieldsQuery,
	PhrasePrefixQuery,
	QueryStringQuery,
	WildcardQuery,
}

// ParseQueryKind accepts a kind name, with or without a _query suffix.
func ParseQueryKind(s string) (QueryKind, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "_query")
	if name == "match_phrase" {
		return PhrasePrefixQuery, nil
	}
	for _, k := range QueryKinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", errors.Errorf("unknown query type %q", s)
}

// BuildQuery dispatches to the builder of kind. Single field kinds use
// the first of fields.
func BuildQuery(kind QueryKind, qstring string, fields []string) (Body, error) {
	switch kind {
	case MatchQuery:
		return Match(qstring), nil
	case MostFieldsQuery:
		return MostFields(qstring, fields...), nil
	case PhrasePrefixQuery:
		return PhrasePrefix(qstring, fields...), nil
	case QueryStringQuery:
		return QueryString(qstring, firstField(fields)), nil
	case WildcardQuery:
		return Wildcard(qstring, firstField(fields)), nil
	}
	return nil, errors.Errorf("unknown query type %q", kind)
}

func defaultFields(fields []string) []string {
	if len(fields) == 0 {
		return []string{ContentField, ContentRawField}
	}
	return fields
}

func firstField(fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Match is a simple match on content.
func Match(qstring string) Body {
	return Body{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				ContentField: qstring,
			},
		},
	}
}

func multiMatch(kind, qstring string, fields []string) Body {
	return Body{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"type":   kind,
				"query":  qstring,
				"fields": defaultFields(fields),
			},
		},
	}
}

// MostFields sums the scores of every matching field, content and
// content.raw by default.
func MostFields(qstring string, fields ...string) Body {
	return multiMatch("most_fields", qstring, fields)
}

// PhrasePrefix matches the whole phrase, the last term as a prefix.
func PhrasePrefix(qstring string, fields ...string) Body {
	return multiMatch("phrase_prefix", qstring, fields)
}

// QueryString runs the Lucene query syntax against one field. It may
// turn on fuzzy matching, and needs at least one whole word to match.
func QueryString(qstring string, field string) Body {
	if field == "" {
		field = ContentField
	}
	return Body{
		"from": 0,
		"size": 6,
		"query": map[string]interface{}{
			"query_string": map[string]interface{}{
				"query":  qstring,
				"fields": []string{field},
			},
		},
	}
}

// Wildcard matches *qstring* on one field. Index terms are lowercased so
// qstring has to be lowercase too, and bigrams never match.
func Wildcard(qstring string, field string) Body {
	if field == "" {
		field = ContentField
	}
	return Body{
		"query": map[string]interface{}{
			"wildcard": map[string]interface{}{
				field: "*" + qstring + "*",
			},
		},
	}
}
