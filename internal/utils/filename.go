package utils

import (
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
)

// SanitizeFilename removes characters that are invalid in filenames or
// would break a quoted Content-Disposition header.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = strings.TrimSpace(filename)

	// Limit length (most filesystems support 255, but leave room for extension)
	if len(filename) > 200 {
		filename = strings.TrimSpace(filename[:200])
	}

	return filename
}

// ExportFilename builds the attachment name of a project export: the
// project name lower-cased, split on whitespace and joined with
// underscores, followed by the format extension.
func ExportFilename(projectName, extension string) string {
	words := make([]string, 0, 4)
	for _, word := range strings.Fields(strings.ToLower(projectName)) {
		if word = SanitizeFilename(word); word != "" {
			words = append(words, word)
		}
	}
	base := strings.Join(words, "_")
	if base == "" {
		base = "dataset"
	}
	return base + "." + extension
}
