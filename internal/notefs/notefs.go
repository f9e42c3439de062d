package notefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"pkm-backend/internal/model"
)

// Store persists note content as markdown files under a root directory,
// one subdirectory per workspace.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Save writes the note as a markdown file and returns the path relative
// to the storage root.
func (s *Store) Save(note *model.Note) (string, error) {
	workspaceDir := filepath.Join(s.root, fmt.Sprintf("workspace_%d", note.WorkspaceID))
	if err := os.MkdirAll(workspaceDir, 0o755); err != nil {
		return "", fmt.Errorf("create workspace dir failed: %w", err)
	}

	filename := fmt.Sprintf("%d_%s.md", note.ID, safeTitle(note.Title))
	fullPath := filepath.Join(workspaceDir, filename)

	content := "# " + note.Title + "\n\n" + note.Content
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write note file failed: %w", err)
	}

	rel, err := filepath.Rel(s.root, fullPath)
	if err != nil {
		return "", fmt.Errorf("relativize note path failed: %w", err)
	}
	return rel, nil
}

// Remove deletes the note's file; a missing file is not an error.
func (s *Store) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	fullPath := filepath.Join(s.root, relPath)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove note file failed: %w", err)
	}
	return nil
}

// safeTitle keeps letters, digits, dashes and underscores; spaces become
// underscores.
func safeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}
