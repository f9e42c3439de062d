package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanupSystemPromptDistinctPerType(t *testing.T) {
	types := []string{CleanupGrammar, CleanupStructure, CleanupClarity, CleanupFull}

	seen := make(map[string]string)
	for _, cleanupType := range types {
		prompt := CleanupSystemPrompt(cleanupType)
		assert.NotEmpty(t, prompt, "cleanup type %q", cleanupType)
		if prev, dup := seen[prompt]; dup {
			t.Errorf("cleanup types %q and %q share an instruction", prev, cleanupType)
		}
		seen[prompt] = cleanupType
	}
}

func TestCleanupSystemPromptFallsBackToFull(t *testing.T) {
	assert.Equal(t, CleanupSystemPrompt(CleanupFull), CleanupSystemPrompt("typofix"))
	assert.Equal(t, CleanupSystemPrompt(CleanupFull), CleanupSystemPrompt(""))
}

func TestRephraseSystemPromptDistinctPerStyle(t *testing.T) {
	styles := []string{StyleAcademic, StyleProfessional, StyleFormal, StyleCasual, StyleCreative}

	seen := make(map[string]string)
	for _, style := range styles {
		prompt := RephraseSystemPrompt(style)
		assert.NotEmpty(t, prompt, "style %q", style)
		if prev, dup := seen[prompt]; dup {
			t.Errorf("styles %q and %q share an instruction", prev, style)
		}
		seen[prompt] = style
	}
}

func TestRephraseSystemPromptFallbackIsDeterministic(t *testing.T) {
	first := RephraseSystemPrompt("piratespeak")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, RephraseSystemPrompt("piratespeak"))
	}
	assert.Equal(t, RephraseSystemPrompt(StyleProfessional), first)
}

func TestChatUserPromptOmitsContextWithoutNotes(t *testing.T) {
	prompt := ChatUserPrompt("what is Go?", nil, nil, 5)

	assert.Equal(t, "Question: what is Go?", prompt)
	assert.NotContains(t, prompt, "Context from notes")
}

func TestChatUserPromptLabelsNotesInOrder(t *testing.T) {
	prompt := ChatUserPrompt("q", []string{"first", "second"}, nil, 5)

	assert.Contains(t, prompt, "Note 1: first")
	assert.Contains(t, prompt, "Note 2: second")
	assert.Less(t, strings.Index(prompt, "Note 1"), strings.Index(prompt, "Note 2"))
	assert.Less(t, strings.Index(prompt, "Note 2"), strings.Index(prompt, "Question: q"))
}

func TestChatUserPromptKeepsOnlyRecentHistory(t *testing.T) {
	history := []string{"h1", "h2", "h3", "h4", "h5", "h6", "h7"}
	prompt := ChatUserPrompt("q", nil, history, 5)

	assert.NotContains(t, prompt, "h1")
	assert.NotContains(t, prompt, "h2")
	for _, entry := range history[2:] {
		assert.Contains(t, prompt, entry)
	}
	assert.Less(t, strings.Index(prompt, "h7"), strings.Index(prompt, "Question: q"))
}

func TestSearchUserPromptUsesZeroBasedLabels(t *testing.T) {
	prompt := SearchUserPrompt("query", []string{"a", "b"})

	assert.Contains(t, prompt, "Note 0: a")
	assert.Contains(t, prompt, "Note 1: b")
	assert.Contains(t, prompt, "Query: query")
}
