package ai

import (
	"fmt"
	"strings"

	"github.com/D1992S/budzet/internal/finance"
)

// Prompts are versioned as a whole; PROMPT_VERSION in the environment
// names the revision deployed here.
const (
	advisorSystemPrompt = "Jesteś doświadczonym doradcą finansowym dla użytkowników w Polsce. Odpowiadaj po polsku, zwięźle i konkretnie, używając Markdown."

	documentParserSystemPrompt = "Wyodrębnij transakcje z dokumentu finansowego. Zwróć wyłącznie JSON zgodny ze schematem."
)

func documentUserPrompt(mimeType, fileBase64 string) string {
	return fmt.Sprintf(
		"Przeanalizuj dokument finansowy. Kategorie dozwolone: %s.\n\nMime type: %s\nBase64: %s",
		strings.Join(finance.Categories, ", "), mimeType, fileBase64,
	)
}
