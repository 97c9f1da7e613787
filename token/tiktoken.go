package token

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TiktokenCounter counts tokens exactly using a tiktoken encoding.
// The encoding is initialized lazily (the first use may download encoding
// data); on initialization failure the counter degrades to the character
// estimator and logs a warning once.
type TiktokenCounter struct {
	encoding string
	enc      *tiktoken.Tiktoken
	once     sync.Once
	initErr  error
	fallback *Estimator
	logger   *slog.Logger
}

// NewTiktokenCounter creates a counter for the given tiktoken encoding
// ("cl100k_base", "o200k_base", ...). An empty encoding selects cl100k_base.
func NewTiktokenCounter(encoding string, logger *slog.Logger) *TiktokenCounter {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TiktokenCounter{
		encoding: encoding,
		fallback: NewEstimator(),
		logger:   logger.With("component", "tiktoken-counter"),
	}
}

func (t *TiktokenCounter) init() error {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.initErr = fmt.Errorf("init tiktoken encoding %s: %w", t.encoding, err)
			t.logger.Warn("tiktoken unavailable, falling back to character estimate",
				"encoding", t.encoding, "err", err)
			return
		}
		t.enc = enc
	})
	return t.initErr
}

// Count returns the exact token count of text, or the estimator's count
// when the encoding could not be initialized.
func (t *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	if err := t.init(); err != nil {
		return t.fallback.Count(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}
