package server

import (
	"github.com/nodepulse/nodepulse/internal/errors"
)

// MaxRequestSize bounds the body of an ingest request. The guard runs
// before JSON parsing so a hostile or buggy client cannot make the
// collector parse an arbitrarily large document.
const MaxRequestSize = 10 * 1024 * 1024 // 10 MiB

// ValidateRequestSize checks the actual body size after it has been read.
// A body of exactly MaxRequestSize is accepted; one byte more is not.
func ValidateRequestSize(bodySize int) error {
	if bodySize > MaxRequestSize {
		return errors.NewRequestTooLarge(bodySize, MaxRequestSize)
	}
	return nil
}
