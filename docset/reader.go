// Package docset is the C0 document reader: the concrete, in-scope stand-in
// for the "byte-stream -> plain-text" extractor spec.md treats as an
// external collaborator (SPEC_FULL.md §4.0). It discovers corpus files and
// extracts their raw text, nothing more; sentence splitting and
// normalization happen downstream in package dedup.
package docset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"corpusdedup/errors"
)

// Doc is one discovered corpus file paired with its extracted text.
type Doc struct {
	Name string // path relative to the input directory, used as the stable document identifier
	Path string
	Text string
}

// Discover recursively walks dir for files whose extension is in exts, per
// spec.md §6's "recursively discovers all files ... under it and processes
// them in sorted path order." A file that fails text extraction is a
// Document-parse-failure (spec.md §7 kind 3): it is logged as a warning and
// skipped, and the rest of the corpus still proceeds.
//
// DocID assignment (SPEC_FULL.md §3) is the caller's responsibility: it is
// simply the index into the returned, already-sorted slice.
func Discover(dir string, exts []string, logger *zap.Logger) ([]Doc, error) {
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = true
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if allowed[strings.ToLower(filepath.Ext(d.Name()))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInputMissing, "walk input directory %s: %v", dir, err)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, errors.ErrEmptyCorpus
	}

	docs := make([]Doc, 0, len(paths))
	for _, path := range paths {
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}

		text, err := extractText(path)
		if err != nil {
			parseErr := errors.Wrapf(errors.ErrDocumentParse, "extract text from %s: %v", rel, err)
			if errors.IsDocumentParse(parseErr) && logger != nil {
				logger.Warn("skipping document that failed text extraction",
					zap.String("path", rel), zap.Error(parseErr))
			}
			continue
		}
		docs = append(docs, Doc{Name: rel, Path: path, Text: text})
	}

	if len(docs) == 0 {
		return nil, errors.ErrEmptyCorpus
	}
	return docs, nil
}

func extractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return readDocxText(path)
	case ".pdf":
		return readPDFText(path)
	case ".txt", ".md":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("unsupported extension: %s", filepath.Ext(path))
	}
}
