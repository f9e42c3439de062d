package app

import (
	"log"
	"strings"

	"pkm-backend/internal/model"
	"pkm-backend/internal/notefs"
	"pkm-backend/internal/repository"
)

type NoteService struct {
	noteRepo      *repository.NoteRepository
	workspaceRepo *repository.WorkspaceRepository
	tagRepo       *repository.TagRepository
	files         *notefs.Store
	logger        *log.Logger
}

func NewNoteService(
	noteRepo *repository.NoteRepository,
	workspaceRepo *repository.WorkspaceRepository,
	tagRepo *repository.TagRepository,
	files *notefs.Store,
	logger *log.Logger,
) *NoteService {
	if logger == nil {
		logger = log.Default()
	}
	return &NoteService{
		noteRepo:      noteRepo,
		workspaceRepo: workspaceRepo,
		tagRepo:       tagRepo,
		files:         files,
		logger:        logger,
	}
}

type CreateNoteInput struct {
	Title       string
	Content     string
	WorkspaceID uint
	TagIDs      []uint
}

type UpdateNoteInput struct {
	Title       *string
	Content     *string
	WorkspaceID *uint
	TagIDs      *[]uint
}

func (s *NoteService) Create(input CreateNoteInput) (*model.Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.Content == "" || input.WorkspaceID == 0 {
		return nil, ErrInvalidInput
	}

	workspace, err := s.workspaceRepo.GetByID(input.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}

	note := &model.Note{
		Title:       title,
		Content:     input.Content,
		WorkspaceID: input.WorkspaceID,
	}
	if err := s.noteRepo.Create(note); err != nil {
		return nil, err
	}

	s.writeFile(note)

	if len(input.TagIDs) > 0 {
		tags, err := s.tagRepo.GetByIDs(input.TagIDs)
		if err != nil {
			return nil, err
		}
		if err := s.noteRepo.ReplaceTags(note, tags); err != nil {
			return nil, err
		}
		note.Tags = tags
	}
	return note, nil
}

func (s *NoteService) List(workspaceID uint, offset, limit int) ([]model.Note, error) {
	return s.noteRepo.List(workspaceID, offset, limit)
}

func (s *NoteService) Get(noteID uint) (*model.Note, error) {
	note, err := s.noteRepo.GetByID(noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

func (s *NoteService) Update(noteID uint, input UpdateNoteInput) (*model.Note, error) {
	note, err := s.noteRepo.GetByID(noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	if input.WorkspaceID != nil && *input.WorkspaceID != note.WorkspaceID {
		workspace, err := s.workspaceRepo.GetByID(*input.WorkspaceID)
		if err != nil {
			return nil, err
		}
		if workspace == nil {
			return nil, ErrWorkspaceNotFound
		}
		note.WorkspaceID = *input.WorkspaceID
		note.Workspace = workspace
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrInvalidInput
		}
		note.Title = title
	}
	if input.Content != nil {
		if *input.Content == "" {
			return nil, ErrInvalidInput
		}
		note.Content = *input.Content
	}

	if err := s.noteRepo.Save(note); err != nil {
		return nil, err
	}

	if input.TagIDs != nil {
		tags, err := s.tagRepo.GetByIDs(*input.TagIDs)
		if err != nil {
			return nil, err
		}
		if err := s.noteRepo.ReplaceTags(note, tags); err != nil {
			return nil, err
		}
		note.Tags = tags
	}

	s.writeFile(note)
	return note, nil
}

func (s *NoteService) Delete(noteID uint) error {
	note, err := s.noteRepo.GetByID(noteID)
	if err != nil {
		return err
	}
	if note == nil {
		return ErrNoteNotFound
	}

	if s.files != nil && note.FilePath != "" {
		if err := s.files.Remove(note.FilePath); err != nil {
			s.logger.Printf("warn: remove note file failed: %v", err)
		}
	}
	return s.noteRepo.Delete(noteID)
}

// GetByIDs returns the notes found for the given IDs in request order;
// missing IDs are skipped.
func (s *NoteService) GetByIDs(noteIDs []uint) ([]model.Note, error) {
	return s.noteRepo.GetByIDs(noteIDs)
}

// ImportDocument creates a note from extracted document text, titling it
// after the source file when no title is given.
func (s *NoteService) ImportDocument(title, text string, workspaceID uint) (*model.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyDocument
	}
	return s.Create(CreateNoteInput{
		Title:       title,
		Content:     text,
		WorkspaceID: workspaceID,
	})
}

// writeFile persists the markdown copy; the note survives in the DB even
// if the file write fails.
func (s *NoteService) writeFile(note *model.Note) {
	if s.files == nil {
		return
	}
	relPath, err := s.files.Save(note)
	if err != nil {
		s.logger.Printf("warn: save note file failed: %v", err)
		return
	}
	if relPath != note.FilePath {
		note.FilePath = relPath
		if err := s.noteRepo.Save(note); err != nil {
			s.logger.Printf("warn: persist note file path failed: %v", err)
		}
	}
}
