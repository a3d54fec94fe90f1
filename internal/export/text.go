package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// maxNameLen is the target schema's limit on name attributes.
const maxNameLen = 50

func truncateName(s string) string {
	if len(s) > maxNameLen {
		return s[:maxNameLen]
	}
	return s
}

var blankLine = regexp.MustCompile(`\r?\n[ \t]*\r?\n+`)

// formatContents shapes free text the way the target system expects:
// split on blank-line boundaries, each paragraph HTML-escaped and wrapped
// in the schema's paragraph and span classes. The result is HTML source;
// the document writer escapes it again when embedding it as element text.
func formatContents(text string) string {
	var sb strings.Builder
	for _, para := range blankLine.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		sb.WriteString(`<p class="RWDefault"><span class="RWSnippet">`)
		sb.WriteString(html.EscapeString(para))
		sb.WriteString(`</span></p>`)
	}
	return sb.String()
}

// normalizeDate canonicalizes a date string to "[Y]YYYY-MM-DD HH:MM:SS".
// Input already carrying a full timestamp (19 or more characters) passes
// through unchanged; a missing time defaults to midnight and short month,
// day or time components are zero-padded. Years may run to five digits.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || len(s) >= 19 {
		return s
	}
	datePart := s
	timePart := ""
	if i := strings.IndexByte(s, ' '); i >= 0 {
		datePart, timePart = s[:i], strings.TrimSpace(s[i+1:])
	}

	fields := strings.Split(datePart, "-")
	for len(fields) < 3 {
		fields = append(fields, "1")
	}
	year := fields[0]
	for len(year) < 4 {
		year = "0" + year
	}
	date := fmt.Sprintf("%s-%s-%s", year, pad2(fields[1]), pad2(fields[2]))

	clock := strings.Split(timePart, ":")
	for len(clock) < 3 {
		clock = append(clock, "")
	}
	return fmt.Sprintf("%s %s:%s:%s", date, pad2(clock[0]), pad2(clock[1]), pad2(clock[2]))
}

func pad2(s string) string {
	switch len(s) {
	case 0:
		return "00"
	case 1:
		return "0" + s
	default:
		return s
	}
}
