package blocklist

import "strings"

// Normalize trims every line and drops blanks and '#' comments. Order and
// duplicates are kept as-is.
func Normalize(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func splitLines(body string) []string {
	return Normalize(strings.Split(body, "\n"))
}
