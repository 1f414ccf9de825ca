// Package errors defines the sentinel error kinds the engine and its
// callers branch on, per the error handling design in SPEC_FULL.md §7.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInputMissing indicates the input directory is absent or unreadable. Fatal.
	ErrInputMissing = errors.New("input directory missing or unreadable")

	// ErrEmptyCorpus indicates no documents matched under the input directory.
	// Non-fatal: the caller should emit an empty summary and exit successfully.
	ErrEmptyCorpus = errors.New("no documents found")

	// ErrDocumentParse indicates a single document failed text extraction.
	// Non-fatal: the document is skipped and the run continues.
	ErrDocumentParse = errors.New("document parse failed")

	// ErrEmbedderUnavailable indicates the embedding service could not be
	// constructed or queried. Non-fatal: C6 is disabled for the run.
	ErrEmbedderUnavailable = errors.New("embedding service unavailable")

	// ErrOutputWrite indicates a failure writing an output artifact. Fatal.
	ErrOutputWrite = errors.New("failed to write output")
)

// Wrap wraps an error with a context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsInputMissing reports whether err is (or wraps) ErrInputMissing.
func IsInputMissing(err error) bool { return errors.Is(err, ErrInputMissing) }

// IsEmptyCorpus reports whether err is (or wraps) ErrEmptyCorpus.
func IsEmptyCorpus(err error) bool { return errors.Is(err, ErrEmptyCorpus) }

// IsDocumentParse reports whether err is (or wraps) ErrDocumentParse.
func IsDocumentParse(err error) bool { return errors.Is(err, ErrDocumentParse) }

// IsEmbedderUnavailable reports whether err is (or wraps) ErrEmbedderUnavailable.
func IsEmbedderUnavailable(err error) bool { return errors.Is(err, ErrEmbedderUnavailable) }

// IsOutputWrite reports whether err is (or wraps) ErrOutputWrite.
func IsOutputWrite(err error) bool { return errors.Is(err, ErrOutputWrite) }
