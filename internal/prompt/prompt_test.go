package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"legis-pro/backend/internal/model"
)

func TestAssemble(t *testing.T) {
	history := []model.Message{
		{Role: model.RoleUser, Content: "Cosa dice l'articolo 3?", CreatedAt: time.Now()},
		{Role: model.RoleAssistant, Content: "Stabilisce l'uguaglianza."},
		{Role: model.RoleUser, Content: "E il 4?"},
	}

	testCases := []struct {
		name     string
		document string
		tone     string
		history  []model.Message
		expected []model.Message
	}{
		{
			name:     "Document, tone and history",
			document: "Art. 3 Tutti i cittadini...",
			tone:     "Sii breve.",
			history:  history,
			expected: []model.Message{
				{Role: model.RoleSystem, Content: "Utilizza il seguente testo del PDF come contesto per rispondere alle domande:\n\nArt. 3 Tutti i cittadini...\n\n"},
				{Role: model.RoleSystem, Content: "ISTRUZIONE PRIORITARIA: Sii breve."},
				{Role: model.RoleUser, Content: "Cosa dice l'articolo 3?"},
				{Role: model.RoleAssistant, Content: "Stabilisce l'uguaglianza."},
				{Role: model.RoleUser, Content: "E il 4?"},
			},
		},
		{
			name:    "No document",
			tone:    "Sii breve.",
			history: history[:1],
			expected: []model.Message{
				{Role: model.RoleSystem, Content: "ISTRUZIONE PRIORITARIA: Sii breve."},
				{Role: model.RoleUser, Content: "Cosa dice l'articolo 3?"},
			},
		},
		{
			name:     "Empty tone is omitted",
			document: "testo",
			history:  history[:1],
			expected: []model.Message{
				{Role: model.RoleSystem, Content: "Utilizza il seguente testo del PDF come contesto per rispondere alle domande:\n\ntesto\n\n"},
				{Role: model.RoleUser, Content: "Cosa dice l'articolo 3?"},
			},
		},
		{
			name:     "Nothing at all",
			expected: []model.Message{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Assemble(tc.document, tc.tone, tc.history))
		})
	}

	t.Run("History is left untouched", func(t *testing.T) {
		before := append([]model.Message(nil), history...)
		_ = Assemble("doc", "tone", history)
		assert.Equal(t, before, history)
	})
}
