package app

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"pkm-backend/internal/model"
	"pkm-backend/internal/repository"
)

// Simple-search snippet window around the first match.
const (
	snippetBefore = 50
	snippetAfter  = 150
)

// SearchResult is one ranked note in a search response.
type SearchResult struct {
	NoteID         uint    `json:"note_id"`
	NoteTitle      string  `json:"note_title"`
	RelevanceScore float64 `json:"relevance_score"`
	Snippet        string  `json:"snippet"`
	WorkspaceName  string  `json:"workspace_name"`
}

type SearchService struct {
	noteRepo *repository.NoteRepository
	ai       *AIService
}

func NewSearchService(noteRepo *repository.NoteRepository, aiService *AIService) *SearchService {
	return &SearchService{noteRepo: noteRepo, ai: aiService}
}

// AISearch ranks notes against the query via the model. The ranking is
// taken as the model returns it; entries with out-of-range indices or
// relevance at or below 0.1 are dropped, and the list is capped at
// maxResults. A generation failure propagates as an error.
func (s *SearchService) AISearch(ctx context.Context, query string, workspaceIDs []uint, maxResults int) ([]SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	notes, err := s.noteRepo.ListForSearch(workspaceIDs)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return []SearchResult{}, nil
	}

	contents := make([]string, len(notes))
	for i, note := range notes {
		contents[i] = note.Title + "\n\n" + note.Content
	}

	rankings, err := s.ai.SearchNotes(ctx, query, contents)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, maxResults)
	for _, ranking := range rankings {
		if len(results) >= maxResults {
			break
		}
		if ranking.RelevanceScore <= 0.1 {
			continue
		}
		if ranking.Index < 0 || ranking.Index >= len(notes) {
			continue
		}
		note := notes[ranking.Index]
		snippet := ranking.Snippet
		if snippet == "" {
			snippet = truncateContent(note.Content, 200)
		}
		results = append(results, SearchResult{
			NoteID:         note.ID,
			NoteTitle:      note.Title,
			RelevanceScore: ranking.RelevanceScore,
			Snippet:        snippet,
			WorkspaceName:  workspaceName(note),
		})
	}
	return results, nil
}

// SimpleSearch matches the term case-insensitively against title and
// content. No model involved; relevance is fixed at 1.0.
func (s *SearchService) SimpleSearch(term string, workspaceID uint, limit int) ([]SearchResult, error) {
	notes, err := s.noteRepo.SearchLike(term, workspaceID, limit)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(notes))
	for _, note := range notes {
		results = append(results, SearchResult{
			NoteID:         note.ID,
			NoteTitle:      note.Title,
			RelevanceScore: 1.0,
			Snippet:        matchSnippet(note.Content, term),
			WorkspaceName:  workspaceName(note),
		})
	}
	return results, nil
}

// matchSnippet windows the content around the first case-insensitive
// match; falls back to a plain prefix when the match is only in the title.
func matchSnippet(content, term string) string {
	pos := foldIndex(content, term)
	if pos < 0 {
		return truncateContent(content, 200)
	}

	start := pos - snippetBefore
	if start < 0 {
		start = 0
	}
	for start > 0 && !utf8.RuneStart(content[start]) {
		start--
	}
	end := pos + snippetAfter
	if end > len(content) {
		end = len(content)
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end++
	}
	return "..." + content[start:end] + "..."
}

// foldIndex returns the byte offset in s of the first case-insensitive
// match of term, or -1. Lowercasing can change a rune's UTF-8 length, so
// offsets into the lowered copy are mapped back to offsets in s.
func foldIndex(s, term string) int {
	var lowered strings.Builder
	lowered.Grow(len(s))
	backRefs := make([]int, 0, len(s)+1)
	for i, r := range s {
		lr := unicode.ToLower(r)
		for j := 0; j < utf8.RuneLen(lr); j++ {
			backRefs = append(backRefs, i)
		}
		lowered.WriteRune(lr)
	}
	pos := strings.Index(lowered.String(), strings.ToLower(term))
	if pos < 0 || pos >= len(backRefs) {
		return -1
	}
	return backRefs[pos]
}

func truncateContent(content string, max int) string {
	if len(content) <= max {
		return content
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + "..."
}

func workspaceName(note model.Note) string {
	if note.Workspace != nil {
		return note.Workspace.Name
	}
	return ""
}
