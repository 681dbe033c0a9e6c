package es

import "fmt"

const (
	CaseSensitiveAnalyzer = "case_sensitive_text"
	LowerASCIINormalizer  = "lower_ascii_normalizer"
	EnglishStemmerFilter  = "my_english_stemmer"
)

// IndexName of the knowledge base of a bot
func IndexName(zoid int) string {
	return fmt.Sprintf("bot%d", zoid)
}

// KBDocumentMappings of the knowledge-base entries: content analyzed
// with the standard analyzer, plus a content.raw sub field keeping case.
func KBDocumentMappings() map[string]interface{} {
	return map[string]interface{}{
		"properties": map[string]interface{}{
			ContentField: map[string]interface{}{
				"type":        "text",
				"analyzer":    "standard",
				"store":       true,
				"term_vector": "yes",
				"fields": map[string]interface{}{
					"raw": map[string]interface{}{
						"type":     "text",
						"analyzer": CaseSensitiveAnalyzer,
						"store":    true,
					},
				},
			},
			DocumentIDField: map[string]interface{}{
				"type":  "keyword",
				"store": true,
			},
		},
	}
}

// KBDocumentSettings declares the analysis chain used by the mappings.
func KBDocumentSettings() map[string]interface{} {
	return map[string]interface{}{
		"analysis": map[string]interface{}{
			"analyzer": map[string]interface{}{
				CaseSensitiveAnalyzer: map[string]interface{}{
					"type":      "custom",
					"tokenizer": "standard",
					"filter":    []string{EnglishStemmerFilter},
				},
			},
			"normalizer": map[string]interface{}{
				LowerASCIINormalizer: map[string]interface{}{
					"type":   "custom",
					"filter": []string{"lowercase", "asciifolding"},
				},
			},
			"filter": map[string]interface{}{
				EnglishStemmerFilter: map[string]interface{}{
					"type": "stemmer",
					"name": "light_english",
				},
			},
		},
	}
}

// KBDocumentIndex is the body of an index creation request.
func KBDocumentIndex() map[string]interface{} {
	return map[string]interface{}{
		"settings": KBDocumentSettings(),
		"mappings": KBDocumentMappings(),
	}
}
