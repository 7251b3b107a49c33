package markdown_test

import (
	"testing"

	"chat2md/internal/markdown"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "a\n\n\n\nb", want: "a\n\nb"},
		{in: "\n\n\na\n\nb\n\n\n", want: "a\n\nb"},
		{in: "a\nb", want: "a\nb"},
		{in: "  \n# T\n\n\n\n\n## U\n", want: "# T\n\n## U"},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		if got := markdown.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"a\n\n\n\nb",
		"\n\n## User 1\n\n\n\nhi\n\n\n",
		"x\n \n\n\ny",
		"```\ncode\n\n\n\nmore\n```",
		"\t\tindented\n\n\n",
	}
	for _, in := range inputs {
		once := markdown.Normalize(in)
		if twice := markdown.Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{in: "hello", n: 10, want: "hello"},
		{in: "hello", n: 3, want: "hel"},
		{in: "標題測試", n: 2, want: "標題"},
		{in: "x", n: 0, want: ""},
	}
	for _, tc := range cases {
		if got := markdown.Truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
