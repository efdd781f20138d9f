package render

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
)

// VersionToken is replaced by the page's version in every non-section line.
const VersionToken = "{ID-VERSION}"

// Section placeholders recognised in templates.
const (
	SectionCVETable      = "SECTION-CVETABLE"
	SectionSupported     = "SECTION-SUPPORTED"
	SectionUnsupported   = "SECTION-UNSUPPORTED"
	SectionRelease       = "SECTION-RELEASE"
	SectionMarkdownFiles = "SECTION-MARKDOWNFILES"
)

// Section produces the lines that replace a placeholder line.
type Section func(ctx context.Context) ([]string, error)

// ReadTemplate loads a template file as lines.
func ReadTemplate(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits content on newlines, accepting CRLF, and drops the empty
// element a trailing newline would produce.
func SplitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// Render expands a template. vars maps tokens such as VersionToken to their
// replacement. Placeholder lines without a registered section are copied.
func Render(ctx context.Context, lines []string, vars map[string]string, sections map[string]Section) ([]string, error) {
	placeholders := make([]string, 0, len(sections))
	for key := range sections {
		placeholders = append(placeholders, key)
	}
	// Longest first so a placeholder never shadows a longer one sharing its prefix.
	slices.SortFunc(placeholders, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = substitute(line, vars)
		placeholder, ok := matchPlaceholder(line, placeholders)
		if !ok {
			out = append(out, line)
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		generated, err := sections[placeholder](ctx)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", placeholder, err)
		}
		out = append(out, generated...)
	}
	return out, nil
}

// Join turns rendered lines back into file content with a trailing newline.
func Join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func substitute(line string, vars map[string]string) string {
	for token, value := range vars {
		line = strings.ReplaceAll(line, token, value)
	}
	return line
}

func matchPlaceholder(line string, placeholders []string) (string, bool) {
	for _, placeholder := range placeholders {
		if strings.HasPrefix(line, placeholder) {
			return placeholder, true
		}
	}
	return "", false
}
