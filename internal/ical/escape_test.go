package ical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestUnescapeText тестирует отдельные последовательности
func TestUnescapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `a\,b`, want: "a,b"},
		{in: `a\;b`, want: "a;b"},
		{in: `a\nb`, want: "a\nb"},
		{in: `a\Nb`, want: "a\nb"},
		{in: `a\\b`, want: `a\b`},
		{in: `\\n`, want: `\n`},
		{in: `\x`, want: `\x`},
		{in: `trailing\`, want: `trailing\`},
		{in: `plain`, want: "plain"},
		{in: `\,\;\\\n`, want: ",;\\\n"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, unescapeText(tt.in))
		})
	}
}

func escapeText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, ",", `\,`, ";", `\;`, "\n", `\n`)
	return r.Replace(s)
}

// TestProperty_UnescapeInvertsEscape проверяет, что снятие экранирования
// возвращает исходные символы и не трогает остальные
func TestProperty_UnescapeInvertsEscape(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		parts := rapid.SliceOf(rapid.SampledFrom([]string{
			",", ";", `\`, "\n", "a", "Z", " ", "é", ":", "N", "n",
		})).Draw(t, "parts")
		original := strings.Join(parts, "")

		got := unescapeText(escapeText(original))
		if got != original {
			t.Fatalf("unescape(escape(%q)) = %q", original, got)
		}
	})
}

// TestProperty_UnescapeWithoutBackslashIsIdentity проверяет, что строки без
// обратного слеша не меняются
func TestProperty_UnescapeWithoutBackslashIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[^\\]{0,40}`).Draw(t, "s")
		if got := unescapeText(s); got != s {
			t.Fatalf("unescape(%q) = %q", s, got)
		}
	})
}
