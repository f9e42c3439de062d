package app

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pkm-backend/internal/model"
	"pkm-backend/internal/notefs"
	"pkm-backend/internal/repository"
)

type testEnv struct {
	db         *gorm.DB
	workspaces *WorkspaceService
	tags       *TagService
	notes      *NoteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Workspace{},
		&model.Tag{},
		&model.Note{},
		&model.AISession{},
	))

	workspaceRepo := repository.NewWorkspaceRepository(db)
	tagRepo := repository.NewTagRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	return &testEnv{
		db:         db,
		workspaces: NewWorkspaceService(workspaceRepo),
		tags:       NewTagService(tagRepo),
		notes: NewNoteService(
			noteRepo,
			workspaceRepo,
			tagRepo,
			notefs.NewStore(t.TempDir()),
			nil,
		),
	}
}

func TestWorkspaceServiceCreateRejectsDuplicateName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.workspaces.Create(CreateWorkspaceInput{Name: "Research"})
	require.NoError(t, err)

	_, err = env.workspaces.Create(CreateWorkspaceInput{Name: "Research"})
	assert.ErrorIs(t, err, ErrWorkspaceNameExists)
}

func TestWorkspaceServiceCreateRejectsBlankName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.workspaces.Create(CreateWorkspaceInput{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWorkspaceServiceUpdatePartialFields(t *testing.T) {
	env := newTestEnv(t)

	workspace, err := env.workspaces.Create(CreateWorkspaceInput{Name: "Old", Description: "desc"})
	require.NoError(t, err)

	newName := "New"
	updated, err := env.workspaces.Update(workspace.ID, UpdateWorkspaceInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "desc", updated.Description, "untouched fields stay")

	_, err = env.workspaces.Update(9999, UpdateWorkspaceInput{Name: &newName})
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestWorkspaceServiceUpdateRejectsNameCollision(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.workspaces.Create(CreateWorkspaceInput{Name: "Taken"})
	require.NoError(t, err)
	workspace, err := env.workspaces.Create(CreateWorkspaceInput{Name: "Mine"})
	require.NoError(t, err)

	taken := "Taken"
	_, err = env.workspaces.Update(workspace.ID, UpdateWorkspaceInput{Name: &taken})
	assert.ErrorIs(t, err, ErrWorkspaceNameExists)

	same := "Mine"
	_, err = env.workspaces.Update(workspace.ID, UpdateWorkspaceInput{Name: &same})
	assert.NoError(t, err, "keeping the current name is not a collision")
}

func TestWorkspaceServiceDeleteRemovesNotes(t *testing.T) {
	env := newTestEnv(t)

	workspace, err := env.workspaces.Create(CreateWorkspaceInput{Name: "Doomed"})
	require.NoError(t, err)
	note, err := env.notes.Create(CreateNoteInput{Title: "n", Content: "c", WorkspaceID: workspace.ID})
	require.NoError(t, err)

	require.NoError(t, env.workspaces.Delete(workspace.ID))

	_, err = env.notes.Get(note.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	assert.ErrorIs(t, env.workspaces.Delete(workspace.ID), ErrWorkspaceNotFound)
}

func TestTagServiceNameUniqueness(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tags.Create(CreateTagInput{Name: "golang", Color: "#00ADD8"})
	require.NoError(t, err)

	_, err = env.tags.Create(CreateTagInput{Name: "golang"})
	assert.ErrorIs(t, err, ErrTagNameExists)

	_, err = env.tags.Get(9999)
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestNoteServiceCreateRequiresExistingWorkspace(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.notes.Create(CreateNoteInput{Title: "n", Content: "c", WorkspaceID: 9999})
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)

	_, err = env.notes.Create(CreateNoteInput{Title: "", Content: "c", WorkspaceID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNoteServiceCreateAttachesTagsAndWritesFile(t *testing.T) {
	env := newTestEnv(t)

	workspace, err := env.workspaces.Create(CreateWorkspaceInput{Name: "Main"})
	require.NoError(t, err)
	tag, err := env.tags.Create(CreateTagInput{Name: "ideas"})
	require.NoError(t, err)

	note, err := env.notes.Create(CreateNoteInput{
		Title:       "My Note",
		Content:     "body",
		WorkspaceID: workspace.ID,
		TagIDs:      []uint{tag.ID},
	})
	require.NoError(t, err)
	require.Len(t, note.Tags, 1)
	assert.Equal(t, "ideas", note.Tags[0].Name)

	stored, err := env.notes.Get(note.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.FilePath)
	require.Len(t, stored.Tags, 1)
}

func TestNoteServiceUpdateReplacesTagSet(t *testing.T) {
	env := newTestEnv(t)

	workspace, err := env.workspaces.Create(CreateWorkspaceInput{Name: "Main"})
	require.NoError(t, err)
	first, err := env.tags.Create(CreateTagInput{Name: "first"})
	require.NoError(t, err)
	second, err := env.tags.Create(CreateTagInput{Name: "second"})
	require.NoError(t, err)

	note, err := env.notes.Create(CreateNoteInput{
		Title: "n", Content: "c", WorkspaceID: workspace.ID, TagIDs: []uint{first.ID},
	})
	require.NoError(t, err)

	newTags := []uint{second.ID}
	updated, err := env.notes.Update(note.ID, UpdateNoteInput{TagIDs: &newTags})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "second", updated.Tags[0].Name)
}

func TestNoteServiceUpdateMoveToMissingWorkspaceFails(t *testing.T) {
	env := newTestEnv(t)

	workspace, err := env.workspaces.Create(CreateWorkspaceInput{Name: "Main"})
	require.NoError(t, err)
	note, err := env.notes.Create(CreateNoteInput{Title: "n", Content: "c", WorkspaceID: workspace.ID})
	require.NoError(t, err)

	missing := uint(9999)
	_, err = env.notes.Update(note.ID, UpdateNoteInput{WorkspaceID: &missing})
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestNoteServiceImportDocument(t *testing.T) {
	env := newTestEnv(t)

	workspace, err := env.workspaces.Create(CreateWorkspaceInput{Name: "Main"})
	require.NoError(t, err)

	note, err := env.notes.ImportDocument("report", "  extracted text  ", workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, "report", note.Title)
	assert.Equal(t, "extracted text", note.Content)

	_, err = env.notes.ImportDocument("empty", "   ", workspace.ID)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}
