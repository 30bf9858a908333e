package hosts

import (
	"strings"
	"unicode"
)

const (
	StartMarker = "# BEGIN GAMBLEGUARD"
	EndMarker   = "# END GAMBLEGUARD"
)

// RenderBlock builds the managed block for domains, markers included. Each
// domain maps to both loopback addresses, bare and with a www. prefix.
func RenderBlock(domains []string) string {
	return renderBlock(domains, "\n")
}

func renderBlock(domains []string, eol string) string {
	var b strings.Builder
	b.WriteString(StartMarker + eol)
	for _, d := range domains {
		b.WriteString("127.0.0.1 " + d + eol)
		b.WriteString("127.0.0.1 www." + d + eol)
		b.WriteString("::1 " + d + eol)
		b.WriteString("::1 www." + d + eol)
	}
	b.WriteString(EndMarker + eol)
	return b.String()
}

// lineEnding returns "\r\n" when the first line of content ends that way.
func lineEnding(content string) string {
	if i := strings.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// span is an inclusive range of line indexes from a start marker to its end marker.
type span struct{ start, end int }

// scan pairs every start marker with the next end marker. Markers that cannot
// be paired are reported as strays: an end with no open start, a start that
// is reopened before it closes, or a start never closed.
func scan(lines []string) (spans []span, strays []int) {
	open := -1
	for i, line := range lines {
		switch strings.TrimSpace(line) {
		case StartMarker:
			if open >= 0 {
				strays = append(strays, open)
			}
			open = i
		case EndMarker:
			if open < 0 {
				strays = append(strays, i)
				continue
			}
			spans = append(spans, span{start: open, end: i})
			open = -1
		}
	}
	if open >= 0 {
		strays = append(strays, open)
	}
	return spans, strays
}

// excise removes every managed span plus any stray marker line and returns
// the remaining content with all other lines untouched.
func excise(content string) (string, int) {
	lines := strings.Split(content, "\n")
	spans, strays := scan(lines)
	if len(spans) == 0 && len(strays) == 0 {
		return content, 0
	}

	drop := make([]bool, len(lines))
	for _, s := range spans {
		for i := s.start; i <= s.end; i++ {
			drop[i] = true
		}
	}
	for _, i := range strays {
		drop[i] = true
	}

	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if !drop[i] {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), len(strays)
}

// patch returns content with its managed block replaced by one for domains,
// appended after the trimmed remainder. The block follows the file's own
// line endings.
func patch(content string, domains []string) (string, int) {
	eol := lineEnding(content)
	rest, strays := excise(content)
	rest = strings.TrimRightFunc(rest, unicode.IsSpace)
	if rest != "" {
		rest += eol
	}
	return rest + renderBlock(domains, eol), strays
}
