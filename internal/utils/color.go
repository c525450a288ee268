package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// NormalizeHexColor converts "#abc", "abc" or "#AABBCC" to the "#aabbcc"
// form stored on labels.
func NormalizeHexColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	m := hexColorPattern.FindStringSubmatch(color)
	if m == nil {
		return "", fmt.Errorf("invalid hex color %q", color)
	}

	hex := strings.ToLower(m[1])
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return "#" + hex, nil
}

// ContrastTextColor picks black or white text for a normalized background
// color using the YIQ brightness formula.
func ContrastTextColor(background string) string {
	value, err := strconv.ParseUint(strings.TrimPrefix(background, "#"), 16, 32)
	if err != nil {
		return "#ffffff"
	}

	r := (value >> 16) & 0xff
	g := (value >> 8) & 0xff
	b := value & 0xff
	if (r*299+g*587+b*114)/1000 >= 128 {
		return "#000000"
	}
	return "#ffffff"
}
