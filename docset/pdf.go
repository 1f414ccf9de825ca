package docset

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// readPDFText extracts the plain text of every page of a .pdf file,
// joined with newlines. Null or unreadable pages are skipped rather than
// failing the whole document, matching this package's lenient-extraction
// stance toward malformed corpus files.
//
// Grounded in the teacher's web/services/pdf_service.go ExtractText,
// trimmed of its page-marker and truncation logic (not needed here: the
// downstream sentence splitter only cares about running text).
func readPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
