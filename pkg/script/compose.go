package script

import (
	"fmt"
	"strings"

	"flash-actu/pkg/domain"
)

const (
	// Opening and closing sentences are fixed; the generation prompt pins
	// them and the fallback composer emits them verbatim.
	openingTemplate = "Bonjour, voici l'essentiel de l'actualité du %s."
	closingPhrase   = "Bonne journée."

	promptTemplate = `À partir des brèves ci-dessous, écris un flash d'actualité (~280 mots, ~2 minutes à l'oral).
Contraintes :
- Ton neutre et factuel, phrases courtes, chiffres clairs.
- Commence par : "Bonjour, voici l'essentiel de l'actualité du %s."
- 5 à 7 points thématiques max.
- Utilise uniquement les infos présentes.
- Termine par "Bonne journée."

Brèves :
%s
`
)

// BuildPrompt renders the instruction block sent to the generation
// service: the fixed template plus one "- title: summary" line per item.
// Pure function of its inputs; the item list is never modified.
func BuildPrompt(items []domain.NewsItem, dateLabel string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("- %s: %s", it.Title, it.Summary))
	}
	return fmt.Sprintf(promptTemplate, dateLabel, strings.Join(lines, "\n"))
}

// Fallback composes a script without any external call: the fixed opening
// line, up to maxItems bulleted headlines and the fixed closing phrase.
// It always succeeds given a non-empty item list and is byte-for-byte
// deterministic for identical inputs.
func Fallback(items []domain.NewsItem, dateLabel string, maxItems int) string {
	if maxItems <= 0 {
		maxItems = 6
	}

	lines := make([]string, 0, maxItems+2)
	lines = append(lines, fmt.Sprintf(openingTemplate, dateLabel))
	for i, it := range items {
		if i >= maxItems {
			break
		}
		lines = append(lines, fmt.Sprintf("• %s.", it.Title))
	}
	lines = append(lines, closingPhrase)

	return strings.Join(lines, "\n")
}
