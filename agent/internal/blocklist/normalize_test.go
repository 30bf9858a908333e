package blocklist

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "drops blanks and comments",
			in:   []string{"", "#note", "foo.com", "bar.com"},
			want: []string{"foo.com", "bar.com"},
		},
		{
			name: "trims surrounding whitespace",
			in:   []string{"  foo.com\t", "\r", "   # indented comment", "bar.com\r"},
			want: []string{"foo.com", "bar.com"},
		},
		{
			name: "keeps duplicates and order",
			in:   []string{"b.com", "a.com", "b.com"},
			want: []string{"b.com", "a.com", "b.com"},
		},
		{
			name: "no case folding",
			in:   []string{"Example.COM"},
			want: []string{"Example.COM"},
		},
		{
			name: "hash inside a line is kept",
			in:   []string{"foo.com#frag"},
			want: []string{"foo.com#frag"},
		},
		{
			name: "empty input",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	in := []string{" a.com ", "", "#x", "b.com"}
	once := Normalize(in)
	twice := Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second pass changed output: %q -> %q", once, twice)
	}
}
