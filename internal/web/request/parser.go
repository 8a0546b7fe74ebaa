// Package request parses HTTP request bodies for the cookbook API.
package request

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Parser handles parsing of JSON request bodies
type Parser struct {
	maxBodySize int64 // Maximum size for request bodies (in bytes)
}

// NewParser creates a new request parser with default settings
func NewParser() *Parser {
	return &Parser{
		maxBodySize: 1 << 20, // 1MB is generous for a cookbook entry
	}
}

// NewParserWithMaxSize creates a parser with a custom max body size
func NewParserWithMaxSize(maxBytes int64) *Parser {
	return &Parser{
		maxBodySize: maxBytes,
	}
}

// ParseJSON parses a JSON request body into target.
// The body size is capped to keep oversized payloads from exhausting
// memory, and trailing garbage after the JSON document is rejected.
func (p *Parser) ParseJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, p.maxBodySize)
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)

	if err := decoder.Decode(target); err != nil {
		if err == io.EOF {
			return fmt.Errorf("request body is empty")
		}
		if strings.Contains(err.Error(), "cannot unmarshal") {
			return fmt.Errorf("invalid JSON format: %w", err)
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if decoder.More() {
		return fmt.Errorf("request body contains multiple JSON objects")
	}

	return nil
}
