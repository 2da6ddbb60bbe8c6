// Package catalog loads and validates word dictionaries. Loading is a thin
// fetch-and-validate step; the practice core only ever sees the resulting
// word entries.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"spellingbee/internal/models"
)

//go:embed schema.json
var dictionarySchema []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// compileSchema compiles the embedded dictionary schema once.
func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(dictionarySchema))
		if err != nil {
			schemaErr = fmt.Errorf("parse dictionary schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://dictionary.json"
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// LoadFile reads a dictionary JSON file from disk and validates it.
func LoadFile(path string) (*models.WordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return Load(data)
}

// Load parses and validates dictionary JSON.
func Load(data []byte) (*models.WordSet, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid dictionary JSON: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("dictionary schema validation failed: %w", err)
	}

	var set models.WordSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}

	// The schema already constrains words; this guards against values the
	// schema cannot express, like whitespace-only entries.
	for i, word := range set.Words {
		if word.Word == "" {
			return nil, fmt.Errorf("dictionary word %d is empty", i)
		}
		if !word.Difficulty.Valid() {
			return nil, fmt.Errorf("dictionary word %q has unknown difficulty %q", word.Word, word.Difficulty)
		}
	}

	return &set, nil
}

// WordsForGradeBand returns the subset of words matching a grade band, or
// every word when the band is empty.
func WordsForGradeBand(set *models.WordSet, band models.GradeBand) []models.WordEntry {
	if band == "" {
		return set.Words
	}

	var words []models.WordEntry
	for _, word := range set.Words {
		if word.GradeBand == band {
			words = append(words, word)
		}
	}
	return words
}
