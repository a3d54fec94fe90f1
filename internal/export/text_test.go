package export

import (
	"strings"
	"testing"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"date only", "2020-01-01", "2020-01-01 00:00:00"},
		{"full timestamp passes through", "2020-01-01 12:34:56", "2020-01-01 12:34:56"},
		{"long input untouched", "2020-01-01T12:34:56Z", "2020-01-01T12:34:56Z"},
		{"short month and day", "2020-1-5", "2020-01-05 00:00:00"},
		{"partial time", "2020-01-01 7:30", "2020-01-01 07:30:00"},
		{"short year pads", "476-9-4", "0476-09-04 00:00:00"},
		{"five digit year kept", "10191-03-07", "10191-03-07 00:00:00"},
		{"year only", "2020", "2020-01-01 00:00:00"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeDate(tt.in); got != tt.want {
				t.Errorf("normalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatContents_ParagraphSplitting(t *testing.T) {
	got := formatContents("para1\n\npara2")
	wantFirst := `<p class="RWDefault"><span class="RWSnippet">para1</span></p>`
	wantSecond := `<p class="RWDefault"><span class="RWSnippet">para2</span></p>`
	if got != wantFirst+wantSecond {
		t.Errorf("formatContents = %q", got)
	}
}

func TestFormatContents_EscapesHTML(t *testing.T) {
	got := formatContents("a <b> & c")
	if !strings.Contains(got, "a &lt;b&gt; &amp; c") {
		t.Errorf("content not escaped: %q", got)
	}
}

func TestFormatContents_SkipsBlankParagraphs(t *testing.T) {
	got := formatContents("one\n\n   \n\ntwo")
	if n := strings.Count(got, "<p "); n != 2 {
		t.Errorf("paragraph count = %d, want 2 (got %q)", n, got)
	}
}

func TestFormatContents_WindowsLineEndings(t *testing.T) {
	got := formatContents("one\r\n\r\ntwo")
	if n := strings.Count(got, "<p "); n != 2 {
		t.Errorf("paragraph count = %d, want 2 (got %q)", n, got)
	}
}

func TestTruncateName(t *testing.T) {
	long := strings.Repeat("x", 60)
	if got := truncateName(long); len(got) != 50 {
		t.Errorf("truncated length = %d, want 50", len(got))
	}
	if got := truncateName("short"); got != "short" {
		t.Errorf("short name changed: %q", got)
	}
}
