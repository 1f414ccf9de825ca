package docset

import (
	"archive/zip"
	"io"
	"regexp"
	"strings"
)

var (
	runTextRe = regexp.MustCompile(`(?s)<w:t[^>]*>(.*?)</w:t>`)
	wsRunRe   = regexp.MustCompile(`\s+`)
)

// readDocxText extracts the visible text of a .docx file by scanning
// word/document.xml for <w:t> runs, joined one per line.
//
// Grounded in original_source/corpus_dedup_runner.py's read_docx_text：a
// lenient regex scan rather than a full OOXML parser, since the
// specification only needs run text, not styling or structure.
func readDocxText(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	var xml []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		xml, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		break
	}
	if xml == nil {
		return "", nil
	}

	matches := runTextRe.FindAllSubmatch(xml, -1)
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, wsRunRe.ReplaceAllString(string(m[1]), " "))
	}
	return strings.Join(lines, "\n"), nil
}
