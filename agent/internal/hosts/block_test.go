package hosts

import (
	"strings"
	"testing"
)

func TestRenderBlock(t *testing.T) {
	got := RenderBlock([]string{"example.com"})
	want := "# BEGIN GAMBLEGUARD\n" +
		"127.0.0.1 example.com\n" +
		"127.0.0.1 www.example.com\n" +
		"::1 example.com\n" +
		"::1 www.example.com\n" +
		"# END GAMBLEGUARD\n"
	if got != want {
		t.Fatalf("RenderBlock:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderBlockEmpty(t *testing.T) {
	if got := RenderBlock(nil); got != StartMarker+"\n"+EndMarker+"\n" {
		t.Fatalf("RenderBlock(nil) = %q", got)
	}
}

func TestRenderBlockKeepsDuplicates(t *testing.T) {
	got := RenderBlock([]string{"a.com", "a.com"})
	if n := strings.Count(got, "127.0.0.1 a.com\n"); n != 2 {
		t.Fatalf("duplicate domain rendered %d times, want 2", n)
	}
}

func TestPatch(t *testing.T) {
	block := RenderBlock([]string{"x.com"})
	tests := []struct {
		name   string
		in     string
		want   string
		strays int
	}{
		{
			name: "empty file",
			in:   "",
			want: block,
		},
		{
			name: "fresh file",
			in:   "127.0.0.1 localhost\n::1 localhost\n",
			want: "127.0.0.1 localhost\n::1 localhost\n" + block,
		},
		{
			name: "trailing blank lines trimmed",
			in:   "127.0.0.1 localhost\n\n\n  \n",
			want: "127.0.0.1 localhost\n" + block,
		},
		{
			name: "existing block replaced",
			in:   "127.0.0.1 localhost\n" + RenderBlock([]string{"old.com"}),
			want: "127.0.0.1 localhost\n" + block,
		},
		{
			name: "block in the middle moves to the end",
			in:   "a\n" + RenderBlock([]string{"old.com"}) + "b\n",
			want: "a\nb\n" + block,
		},
		{
			name: "markers with surrounding whitespace",
			in:   "a\n  # BEGIN GAMBLEGUARD \r\n127.0.0.1 old.com\r\n# END GAMBLEGUARD\r\n",
			want: "a\n" + block,
		},
		{
			name: "two blocks collapse into one",
			in:   "a\n" + RenderBlock([]string{"one.com"}) + "b\n" + RenderBlock([]string{"two.com"}),
			want: "a\nb\n" + block,
		},
		{
			name:   "end marker without start",
			in:     "a\n# END GAMBLEGUARD\nb\n",
			want:   "a\nb\n" + block,
			strays: 1,
		},
		{
			name:   "start marker without end keeps following lines",
			in:     "a\n# BEGIN GAMBLEGUARD\nb\nc\n",
			want:   "a\nb\nc\n" + block,
			strays: 1,
		},
		{
			name:   "reopened start pairs with the inner one",
			in:     "a\n# BEGIN GAMBLEGUARD\nb\n# BEGIN GAMBLEGUARD\n127.0.0.1 old.com\n# END GAMBLEGUARD\nc\n",
			want:   "a\nb\nc\n" + block,
			strays: 1,
		},
		{
			name: "crlf file gets a crlf block",
			in:   "127.0.0.1 localhost\r\n::1 localhost\r\n",
			want: "127.0.0.1 localhost\r\n::1 localhost\r\n" + strings.ReplaceAll(block, "\n", "\r\n"),
		},
		{
			name: "crlf block moves to the end",
			in:   "l1\r\n# BEGIN GAMBLEGUARD\r\n127.0.0.1 old.com\r\n# END GAMBLEGUARD\r\nl2\r\n",
			want: "l1\r\nl2\r\n" + strings.ReplaceAll(block, "\n", "\r\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strays := patch(tt.in, []string{"x.com"})
			if got != tt.want {
				t.Fatalf("patch:\n%q\nwant:\n%q", got, tt.want)
			}
			if strays != tt.strays {
				t.Fatalf("strays = %d, want %d", strays, tt.strays)
			}
		})
	}
}

func TestExcise(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no block",
			in:   "127.0.0.1 localhost\n",
			want: "127.0.0.1 localhost\n",
		},
		{
			name: "block at the end",
			in:   "127.0.0.1 localhost\n::1 localhost\n" + RenderBlock([]string{"a.com", "b.com"}),
			want: "127.0.0.1 localhost\n::1 localhost\n",
		},
		{
			name: "block in the middle",
			in:   "l1\n" + RenderBlock([]string{"a.com"}) + "l2\n",
			want: "l1\nl2\n",
		},
		{
			name: "crlf lines kept verbatim",
			in:   "l1\r\n# BEGIN GAMBLEGUARD\r\n127.0.0.1 a.com\r\n# END GAMBLEGUARD\r\nl2\r\n",
			want: "l1\r\nl2\r\n",
		},
		{
			name: "lone start does not truncate",
			in:   "a\n# BEGIN GAMBLEGUARD\nb\nc\n",
			want: "a\nb\nc\n",
		},
		{
			name: "lone end",
			in:   "a\n# END GAMBLEGUARD\nb",
			want: "a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := excise(tt.in); got != tt.want {
				t.Fatalf("excise:\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}
