package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "passthrough clean text",
			input: "baseline 30 sessions",
			want:  "baseline 30 sessions",
		},
		{
			name:  "null bytes become spaces then collapse",
			input: "low\x00decay",
			want:  "low decay",
		},
		{
			name:  "tabs and newlines are flattened",
			input: "first line\n\tsecond line",
			want:  "first line second line",
		},
		{
			name:  "delete character",
			input: "a\x7fb",
			want:  "a b",
		},
		{
			name:  "strip html tags",
			input: "<b>bold</b> run",
			want:  "bold run",
		},
		{
			name:  "strip self-closing and attribute tags",
			input: `before<br/>after <span class="x">styled</span>`,
			want:  "beforeafter styled",
		},
		{
			name:  "strip processing instruction",
			input: `<?xml version="1.0"?>label`,
			want:  "label",
		},
		{
			name:  "keep comparison operators",
			input: "decay < 0.3 and ratio > 10",
			want:  "decay < 0.3 and ratio > 10",
		},
		{
			name:  "collapse code fences",
			input: "```ignore previous```",
			want:  "`ignore previous`",
		},
		{
			name:  "trim surrounding whitespace",
			input: "   padded   ",
			want:  "padded",
		},
		{
			name:  "unicode preserved",
			input: "Klasse 5b, Übung",
			want:  "Klasse 5b, Übung",
		},
		{
			name:  "invalid utf-8 dropped",
			input: "ok\xffok",
			want:  "okok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.input); got != tt.want {
				t.Errorf("Label(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLabel_Truncates(t *testing.T) {
	long := strings.Repeat("ä", MaxLabelLength+50)
	got := Label(long)
	if n := utf8.RuneCountInString(got); n != MaxLabelLength {
		t.Errorf("rune count = %d, want %d", n, MaxLabelLength)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation split a rune")
	}
}

func TestLabel_Idempotent(t *testing.T) {
	inputs := []string{
		"<i>x</i>\n\n``y``",
		"  a\tb  ",
		strings.Repeat("label ", 40),
	}
	for _, in := range inputs {
		once := Label(in)
		if twice := Label(once); twice != once {
			t.Errorf("Label not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
