package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsLeakedFields(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "setor field",
			in:   `Vou te ajudar. setor: "Financeiro" Um momento.`,
			want: "Vou te ajudar. Um momento.",
		},
		{
			name: "especialista field",
			in:   `especialista: "Ana" Olá!`,
			want: "Olá!",
		},
		{
			name: "tag field",
			in:   `Perfeito! tag: "VIP" anotado.`,
			want: "Perfeito! anotado.",
		},
		{
			name: "tags array",
			in:   `Certo. tags: ["VIP", "Urgente"] concluído.`,
			want: "Certo. concluído.",
		},
		{
			name: "bare quoted line",
			in:   "Olá!\n- \"Cancelamentos\" -\nComo posso ajudar?",
			want: "Olá!\n\nComo posso ajudar?",
		},
		{
			name: "blank line runs collapse",
			in:   "a\n\n\n\nb",
			want: "a\n\nb",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  olá  \n",
			want: "olá",
		},
		{
			name: "clean text untouched",
			in:   "Tudo certo, posso ajudar em algo mais?",
			want: "Tudo certo, posso ajudar em algo mais?",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}

func TestSanitizeRemovesTagPrefixCaseInsensitively(t *testing.T) {
	out := Sanitize(`Obrigado! TAG: "VIP" até logo.`)
	assert.NotContains(t, strings.ToLower(out), "tag:")
}

func TestSanitizeRemovesLeaksFormedByEarlierRemovals(t *testing.T) {
	// removing the inner tag field joins "se" and "tor" into a setor field
	assert.Equal(t, "", Sanitize(`setag: "q" tor: "x"`))
	assert.Equal(t, "Olá!", Sanitize(`Olá! setag: "q" tor: "x"`))
}

func TestSanitizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"texto simples",
		`setor: "X" especialista: "Y" tags: ["A"]`,
		"a\n\n\n\nb\n\n\nc",
		"- \"quoted\" -\n\nmais texto",
		`setag: "q" tor: "x"`,
		`mistura tag: "V" e

texto`,
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestSanitizeNeverPanicsOnOddInput(t *testing.T) {
	inputs := []string{
		"\x00\x01\x02",
		strings.Repeat(`"`, 100),
		"tags: [unclosed",
		"setor: \"aberta",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Sanitize(in) })
	}
}
