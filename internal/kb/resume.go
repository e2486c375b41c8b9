package kb

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var whitespaceRun = regexp.MustCompile(`[ \t]+`)

// LoadResume extracts plain text from a resume PDF. The result is meant
// to be assigned to KnowledgeBase.ResumeText before the knowledge base
// is shared; nothing is written back to disk.
func LoadResume(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening resume %s: %w", path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting resume text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("reading resume text: %w", err)
	}

	text := normalizeResumeText(buf.String())
	if text == "" {
		return "", fmt.Errorf("resume %s contains no extractable text", path)
	}
	return text, nil
}

// normalizeResumeText collapses the ragged whitespace PDF extraction
// produces into single spaces and blank-line separated paragraphs.
func normalizeResumeText(raw string) string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(whitespaceRun.ReplaceAllString(line, " "))
		if line == "" {
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
