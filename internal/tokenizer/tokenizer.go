// Package tokenizer provides deterministic BPE token counting shared with
// the target model's vocabulary.
package tokenizer

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkoukk/tiktoken-go"
)

const (
	// DefaultModel is the model whose vocabulary the counter approximates.
	DefaultModel = "gpt-4-turbo"

	// FallbackEncoding is used when the model has no registered vocabulary.
	FallbackEncoding = "cl100k_base"

	// defaultCacheSize bounds the memo cache. Line-level splitting counts
	// one fragment per line, so repeated fragments are common.
	defaultCacheSize = 8192
)

// Tokenizer is a deterministic text -> token count function backed by a
// fixed BPE vocabulary. Safe to call at high volume on small fragments;
// counts are memoized in an LRU cache.
type Tokenizer struct {
	enc   *tiktoken.Tiktoken
	cache *lru.Cache[string, int]
}

// New creates a Tokenizer for the given model name. When the model's exact
// vocabulary is unavailable it falls back to cl100k_base, the generic
// modern-GPT-family encoding.
func New(model string) (*Tokenizer, error) {
	if model == "" {
		model = DefaultModel
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(FallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("tokenizer: load encoding: %w", err)
		}
	}
	cache, err := lru.New[string, int](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: create cache: %w", err)
	}
	return &Tokenizer{enc: enc, cache: cache}, nil
}

// Count returns the number of tokens in text. Deterministic and
// side-effect free apart from the memo cache.
func (t *Tokenizer) Count(text string) int {
	if n, ok := t.cache.Get(text); ok {
		return n
	}
	n := len(t.enc.Encode(text, nil, nil))
	t.cache.Add(text, n)
	return n
}

// CountFramed counts content under the "File: path\n\ncontent" framing
// used for every unit handed to the model.
func (t *Tokenizer) CountFramed(path, content string) int {
	return t.Count(Frame(path, content))
}

// Frame applies the standard per-unit framing.
func Frame(path, content string) string {
	return fmt.Sprintf("File: %s\n\n%s", path, content)
}
