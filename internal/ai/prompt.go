package ai

import (
	"fmt"
	"strings"
)

// Cleanup types.
const (
	CleanupGrammar   = "grammar"
	CleanupStructure = "structure"
	CleanupClarity   = "clarity"
	CleanupFull      = "full"
)

// Rephrase styles.
const (
	StyleAcademic     = "academic"
	StyleProfessional = "professional"
	StyleFormal       = "formal"
	StyleCasual       = "casual"
	StyleCreative     = "creative"
)

var cleanupSystemPrompts = map[string]string{
	CleanupGrammar:   "You are a grammar expert. Fix only grammar and spelling errors in the following text. Keep the original meaning and style intact.",
	CleanupStructure: "You are a writing expert. Improve the structure and flow of the following text while keeping the original meaning.",
	CleanupClarity:   "You are a clarity expert. Make the following text clearer and more concise while preserving all important information.",
	CleanupFull:      "You are a writing expert. Improve the grammar, structure, and clarity of the following text while preserving the original meaning.",
}

var rephraseSystemPrompts = map[string]string{
	StyleAcademic:     "Rephrase the following text in a formal, academic style suitable for research papers.",
	StyleProfessional: "Rephrase the following text in a clear, professional style suitable for business communication.",
	StyleFormal:       "Rephrase the following text in a formal, professional style.",
	StyleCasual:       "Rephrase the following text in a casual, conversational style.",
	StyleCreative:     "Rephrase the following text in a creative, engaging style.",
}

const chatSystemPrompt = "You are a helpful assistant that can answer questions about the user's notes. " +
	"Use the provided note contents as context to answer questions accurately. " +
	"If the answer isn't in the notes, say so clearly."

const searchSystemPrompt = "You are a search expert. Given a query and a list of note contents, " +
	"rank them by relevance to the query. Return a JSON array of objects with:\n" +
	"- index: the index of the note in the input list\n" +
	"- relevance_score: a float between 0 and 1\n" +
	"- snippet: a brief excerpt that matches the query\n\n" +
	"Only include notes with relevance_score > 0.1"

// CleanupSystemPrompt maps a cleanup type to its system instruction.
// Unknown types fall back to the full instruction.
func CleanupSystemPrompt(cleanupType string) string {
	if prompt, ok := cleanupSystemPrompts[cleanupType]; ok {
		return prompt
	}
	return cleanupSystemPrompts[CleanupFull]
}

// RephraseSystemPrompt maps a rephrase style to its system instruction.
// Unknown styles fall back to the professional instruction.
func RephraseSystemPrompt(style string) string {
	if prompt, ok := rephraseSystemPrompts[style]; ok {
		return prompt
	}
	return rephraseSystemPrompts[StyleProfessional]
}

// ChatSystemPrompt returns the system instruction for chat-with-notes.
func ChatSystemPrompt() string {
	return chatSystemPrompt
}

// SearchSystemPrompt returns the system instruction for note ranking.
func SearchSystemPrompt() string {
	return searchSystemPrompt
}

// CleanupUserPrompt wraps the text to improve.
func CleanupUserPrompt(text string) string {
	return "Please improve the following text:\n\n" + text
}

// RephraseUserPrompt wraps the text to rephrase.
func RephraseUserPrompt(text string) string {
	return "Please rephrase this text:\n\n" + text
}

// ChatUserPrompt assembles the chat prompt. Note contents are labelled
// with 1-based indices; with no contents the context framing is omitted
// entirely. History keeps only the most recent maxHistory entries,
// placed before the question.
func ChatUserPrompt(message string, noteContents []string, history []string, maxHistory int) string {
	prompt := "Question: " + message
	if len(noteContents) > 0 {
		labelled := make([]string, len(noteContents))
		for i, content := range noteContents {
			labelled[i] = fmt.Sprintf("Note %d: %s", i+1, content)
		}
		prompt = "Context from notes:\n" + strings.Join(labelled, "\n\n") + "\n\n" + prompt
	}
	if len(history) > 0 {
		if maxHistory > 0 && len(history) > maxHistory {
			history = history[len(history)-maxHistory:]
		}
		prompt = "Previous conversation:\n" + strings.Join(history, "\n") + "\n\n" + prompt
	}
	return prompt
}

// SearchUserPrompt assembles the ranking prompt with 0-based note labels,
// matching the indices the model is asked to return.
func SearchUserPrompt(query string, noteContents []string) string {
	labelled := make([]string, len(noteContents))
	for i, content := range noteContents {
		labelled[i] = fmt.Sprintf("Note %d: %s", i, content)
	}
	return "Query: " + query + "\n\nNotes:\n" + strings.Join(labelled, "\n\n")
}
