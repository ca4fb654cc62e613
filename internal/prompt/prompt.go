// Package prompt assembles the ordered message list sent to the completion API.
package prompt

import (
	"legis-pro/backend/internal/model"
)

const (
	documentPreamble = "Utilizza il seguente testo del PDF come contesto per rispondere alle domande:\n\n"
	tonePrefix       = "ISTRUZIONE PRIORITARIA: "
)

// DocumentMessage wraps the extracted document text in its system instruction.
func DocumentMessage(document string) model.Message {
	return model.Message{Role: model.RoleSystem, Content: documentPreamble + document + "\n\n"}
}

// ToneMessage turns the tone directive into a priority system instruction.
func ToneMessage(tone string) model.Message {
	return model.Message{Role: model.RoleSystem, Content: tonePrefix + tone}
}

// Assemble builds the request messages: the document instruction when a
// document is loaded, then the tone instruction when one is set, then the
// conversation history in order. The history slice is not modified.
//
// Nothing is truncated; a large document is sent whole.
func Assemble(document, tone string, history []model.Message) []model.Message {
	messages := make([]model.Message, 0, len(history)+2)
	if document != "" {
		messages = append(messages, DocumentMessage(document))
	}
	if tone != "" {
		messages = append(messages, ToneMessage(tone))
	}
	for _, m := range history {
		messages = append(messages, model.Message{Role: m.Role, Content: m.Content})
	}
	return messages
}
