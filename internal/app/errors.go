package app

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrWorkspaceNotFound   = errors.New("workspace not found")
	ErrWorkspaceNameExists = errors.New("workspace with this name already exists")
	ErrNoteNotFound        = errors.New("note not found")
	ErrTagNotFound         = errors.New("tag not found")
	ErrTagNameExists       = errors.New("tag with this name already exists")
	ErrEmptyDocument       = errors.New("document has no extractable text")
)
