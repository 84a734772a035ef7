package services

import (
	"strings"
)

const (
	markerFlashcard = "**Flashcard"
	markerFCQuest   = "question:"
	markerFCAnswer  = "answer:"

	maxFlashcards = 5
)

type FlashcardDraft struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ParseFlashcards đọc output dạng **Flashcard X / Question: / Answer:, giữ tối đa 5 thẻ đầy đủ
func ParseFlashcards(raw string) []FlashcardDraft {
	var out []FlashcardDraft
	var current *FlashcardDraft

	flush := func() {
		if current != nil && current.Question != "" && current.Answer != "" {
			out = append(out, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, markerFlashcard) {
			flush()
			current = &FlashcardDraft{}
			continue
		}
		if current == nil {
			continue
		}
		field := normalizeFieldLine(trimmed)
		lower := strings.ToLower(field)
		switch {
		case strings.HasPrefix(lower, markerFCQuest):
			current.Question = fieldValue(field, len(markerFCQuest))
		case strings.HasPrefix(lower, markerFCAnswer):
			current.Answer = fieldValue(field, len(markerFCAnswer))
		}
	}
	flush()

	if len(out) > maxFlashcards {
		out = out[:maxFlashcards]
	}
	return out
}
