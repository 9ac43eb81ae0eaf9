package skills

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

const metadataDelimiter = "---"

// ExtractMetadata reads the file at path and returns the name and description
// from its header block. A missing or unterminated block yields empty metadata.
func ExtractMetadata(path string) (Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, errors.Wrapf(err, "failed to read skill file %s", path)
	}
	return ParseMetadata(string(content)), nil
}

// ParseMetadata returns the name and description from the header block of content
func ParseMetadata(content string) Metadata {
	var md Metadata

	header, _, ok := splitHeader(content)
	if !ok {
		return md
	}

	for _, line := range strings.Split(header, "\n") {
		key, value, ok := parseMetadataLine(line)
		if !ok {
			continue
		}
		switch key {
		case "name":
			md.Name = value
		case "description":
			md.Description = value
		}
	}

	return md
}

// StripMetadata removes the leading header block from content and returns the
// body verbatim. Content without a terminated block is returned unchanged.
func StripMetadata(content string) string {
	_, body, ok := splitHeader(content)
	if !ok {
		return content
	}
	return body
}

// splitHeader splits content into the lines between the opening and closing
// delimiters and everything after the closing delimiter line. The opening
// delimiter has to be the first line of the document.
func splitHeader(content string) (header, body string, ok bool) {
	first, rest, found := strings.Cut(content, "\n")
	if !found || !isDelimiter(first) {
		return "", "", false
	}

	offset := 0
	for offset <= len(rest) {
		line, next := rest[offset:], len(rest)
		hasNewline := false
		if idx := strings.IndexByte(line, '\n'); idx >= 0 {
			line = line[:idx]
			next = offset + idx + 1
			hasNewline = true
		}

		if isDelimiter(line) {
			header = strings.TrimSuffix(rest[:offset], "\n")
			if hasNewline {
				return header, rest[next:], true
			}
			return header, "", true
		}

		if !hasNewline {
			break
		}
		offset = next
	}

	return "", "", false
}

func isDelimiter(line string) bool {
	return strings.TrimSpace(line) == metadataDelimiter
}

// parseMetadataLine accepts `key: value` lines where key is a single word
func parseMetadataLine(line string) (string, string, bool) {
	line = strings.TrimRight(line, " \t\r")
	key, value, found := strings.Cut(line, ":")
	if !found || key == "" {
		return "", "", false
	}
	for _, r := range key {
		if !isWordRune(r) {
			return "", "", false
		}
	}
	return key, strings.TrimLeft(value, " \t"), true
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
