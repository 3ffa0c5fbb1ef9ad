package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "tempus/internal/errors"
	"tempus/internal/model"
	"tempus/internal/repository"
)

// NoteService handles owner-scoped note operations.
type NoteService interface {
	List(ctx context.Context, userID uint) ([]model.Note, error)
	Create(ctx context.Context, userID uint, content string) (*model.Note, error)
	Delete(ctx context.Context, userID, noteID uint) error
}

type noteService struct {
	noteRepo repository.NoteRepository
}

// NewNoteService creates a new note service.
func NewNoteService(noteRepo repository.NoteRepository) NoteService {
	return &noteService{noteRepo: noteRepo}
}

func (s *noteService) List(ctx context.Context, userID uint) ([]model.Note, error) {
	notes, err := s.noteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Create stores the note with surrounding whitespace trimmed; content
// that is empty after trimming is rejected.
func (s *noteService) Create(ctx context.Context, userID uint, content string) (*model.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.ErrContentRequired
	}

	note := &model.Note{
		UserID:  userID,
		Content: content,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

func (s *noteService) Delete(ctx context.Context, userID, noteID uint) error {
	if err := s.noteRepo.Delete(ctx, noteID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNoteNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
