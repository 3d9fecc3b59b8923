package pipeline

import (
	"strconv"
	"strings"
)

// parseID coerces an identifier field to an integer. The source files
// sometimes render identifiers as floats ("12345.0"); those are accepted
// when the fractional part is zero. ok=false means the row carrying the
// field should be dropped.
func parseID(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int(f), true
}

// parseFloatOk parses a string as a float64.
func parseFloatOk(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseFloatPtr parses a string as a float64, returning nil if parsing
// fails or the string is empty.
func parseFloatPtr(s string) *float64 {
	v, ok := parseFloatOk(s)
	if !ok {
		return nil
	}
	return &v
}

// parseIntPtr parses a string as an integer, returning nil if parsing
// fails. Float renderings with a zero fractional part are accepted.
func parseIntPtr(s string) *int {
	v, ok := parseID(s)
	if !ok {
		return nil
	}
	return &v
}

// formatFloat renders a float with the shortest representation that
// round-trips, matching the precision of the source text.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatFloatPtr renders a nullable float, "" for nil.
func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// formatIntPtr renders a nullable integer, "" for nil.
func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// normalizeDropback maps the boolean-like isDropback encodings to
// canonical "TRUE"/"FALSE" text. Only a textual boolean true counts;
// missing or unrecognized values are "FALSE".
func normalizeDropback(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "TRUE") {
		return "TRUE"
	}
	return "FALSE"
}

// isDropback reports whether a raw isDropback value marks a pass play.
func isDropback(s string) bool {
	return normalizeDropback(s) == "TRUE"
}
