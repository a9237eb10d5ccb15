package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPatternActions(t *testing.T) {
	text := "Entendi o seu caso.\n" +
		"Fila: Suporte Técnico\n" +
		"Tags: VIP, Urgente\n" +
		"Usuário: Ana\n" +
		"Observação: Cliente pediu retorno amanhã\n" +
		"Até logo!"

	pa := ExtractPatternActions(text)
	assert.Equal(t, "Suporte Técnico", pa.Queue)
	assert.Equal(t, []string{"VIP", "Urgente"}, pa.Tags)
	assert.Equal(t, "Ana", pa.User)
	assert.Equal(t, "Cliente pediu retorno amanhã", pa.Note)
}

func TestExtractPatternActionsCaseAndAccentVariants(t *testing.T) {
	pa := ExtractPatternActions("fila: Financeiro\ntag: VIP\nusuario: Bruno\nobservacao: sem acento")
	assert.Equal(t, "Financeiro", pa.Queue)
	assert.Equal(t, []string{"VIP"}, pa.Tags)
	assert.Equal(t, "Bruno", pa.User)
	assert.Equal(t, "sem acento", pa.Note)
}

func TestExtractPatternActionsEmptyAndMalformed(t *testing.T) {
	assert.Equal(t, PatternActions{}, ExtractPatternActions(""))
	assert.Equal(t, PatternActions{}, ExtractPatternActions("resposta comum sem padrões"))

	pa := ExtractPatternActions("Tags: , , ")
	assert.Empty(t, pa.Tags, "separator-only tag list yields no candidates")
}
