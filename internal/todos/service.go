// Package todos manages learning todos: user-authored CRUD and the
// reconciliation of enrichment-suggested todos into the user's list.
package todos

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/noteforge/noteforge/pkg/models"
)

// Store is the persistence surface the todo service needs.
type Store interface {
	CreateTodo(ctx context.Context, todo *models.LearningTodo) error
	CreateTodos(ctx context.Context, todos []*models.LearningTodo) error
	GetTodo(ctx context.Context, id, userID int64) (*models.LearningTodo, error)
	ListTodos(ctx context.Context, userID int64) ([]*models.LearningTodo, error)
	ListContents(ctx context.Context, userID int64) ([]string, error)
	UpdateTodo(ctx context.Context, id, userID int64, updates map[string]interface{}) (*models.LearningTodo, error)
	DeleteTodo(ctx context.Context, id, userID int64) error
}

// NoteChecker verifies note ownership. Satisfied by the note store.
type NoteChecker interface {
	NoteExists(ctx context.Context, id, userID int64) (bool, error)
}

// Service provides learning-todo operations.
type Service struct {
	store Store
	notes NoteChecker
}

// NewService creates a todo service.
func NewService(store Store, notes NoteChecker) *Service {
	return &Service{store: store, notes: notes}
}

// CreateRequest is the payload for authoring a todo.
type CreateRequest struct {
	NoteID       *int64              `json:"noteId"`
	Content      string              `json:"content"`
	DueDate      *string             `json:"dueDate"`
	Status       models.TodoStatus   `json:"status"`
	Reason       *string             `json:"reason"`
	DeadlineType models.DeadlineType `json:"deadlineType"`
}

// Create authors a new todo. A linked note must belong to the caller.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*models.LearningTodo, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("%w: content is required", models.ErrInvalidInput)
	}
	if req.Status != "" && !models.ValidTodoStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, req.Status)
	}
	if !models.ValidDeadlineType(req.DeadlineType) {
		return nil, fmt.Errorf("%w: unknown deadline type %q", models.ErrInvalidInput, req.DeadlineType)
	}
	if req.NoteID != nil {
		owned, err := s.notes.NoteExists(ctx, *req.NoteID, userID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, fmt.Errorf("%w: note %d", models.ErrNotFound, *req.NoteID)
		}
	}

	todo := &models.LearningTodo{
		UserID:       userID,
		NoteID:       req.NoteID,
		Content:      req.Content,
		DueDate:      req.DueDate,
		Status:       req.Status,
		Reason:       req.Reason,
		DeadlineType: req.DeadlineType,
	}
	if err := s.store.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// List returns all of the caller's todos, newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]*models.LearningTodo, error) {
	list, err := s.store.ListTodos(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.LearningTodo{}
	}
	return list, nil
}

// UpdateRequest is the payload for a partial todo update. All fields
// are optional; an empty update returns the todo unchanged.
type UpdateRequest struct {
	Content      *string              `json:"content"`
	DueDate      *string              `json:"dueDate"`
	Status       *models.TodoStatus   `json:"status"`
	Reason       *string              `json:"reason"`
	DeadlineType *models.DeadlineType `json:"deadlineType"`
	IsChecked    *bool                `json:"isChecked"`
}

// Update applies a partial edit to a todo scoped by owner.
func (s *Service) Update(ctx context.Context, userID, todoID int64, req UpdateRequest) (*models.LearningTodo, error) {
	updates := map[string]interface{}{}
	if req.Content != nil {
		if *req.Content == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", models.ErrInvalidInput)
		}
		updates["content"] = *req.Content
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Status != nil {
		if !models.ValidTodoStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, *req.Status)
		}
		updates["status"] = string(*req.Status)
	}
	if req.Reason != nil {
		updates["reason"] = *req.Reason
	}
	if req.DeadlineType != nil {
		if !models.ValidDeadlineType(*req.DeadlineType) {
			return nil, fmt.Errorf("%w: unknown deadline type %q", models.ErrInvalidInput, *req.DeadlineType)
		}
		updates["deadline_type"] = string(*req.DeadlineType)
	}
	if req.IsChecked != nil {
		updates["is_checked"] = *req.IsChecked
	}

	if len(updates) == 0 {
		todo, err := s.store.GetTodo(ctx, todoID, userID)
		if err != nil {
			return nil, err
		}
		if todo == nil {
			return nil, fmt.Errorf("%w: todo %d", models.ErrNotFound, todoID)
		}
		return todo, nil
	}

	todo, err := s.store.UpdateTodo(ctx, todoID, userID, updates)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, fmt.Errorf("%w: todo %d", models.ErrNotFound, todoID)
	}
	return todo, nil
}

// Delete removes a todo scoped by owner. Deleting an absent todo
// succeeds.
func (s *Service) Delete(ctx context.Context, userID, todoID int64) error {
	return s.store.DeleteTodo(ctx, todoID, userID)
}

// Reconcile accepts enrichment-suggested todos for a note. Suggestions
// whose content exactly matches any existing todo of the user are
// dropped; the survivors are persisted as PENDING, linked to the note,
// and flagged as accepted suggestions. Accepting zero new todos is a
// valid outcome.
func (s *Service) Reconcile(ctx context.Context, userID, noteID int64, proposed []models.SuggestedTodo) ([]*models.LearningTodo, error) {
	owned, err := s.notes.NoteExists(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, fmt.Errorf("%w: note %d", models.ErrNotFound, noteID)
	}

	existing, err := s.store.ListContents(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, content := range existing {
		seen[content] = struct{}{}
	}

	var accepted []*models.LearningTodo
	for _, suggestion := range proposed {
		if suggestion.Content == "" {
			continue
		}
		if _, dup := seen[suggestion.Content]; dup {
			continue
		}
		// Guards against duplicates inside the proposal itself.
		seen[suggestion.Content] = struct{}{}

		todo := &models.LearningTodo{
			UserID:       userID,
			NoteID:       &noteID,
			Content:      suggestion.Content,
			Status:       models.TodoPending,
			DeadlineType: suggestion.DeadlineType,
			IsChecked:    true,
		}
		if suggestion.Reason != "" {
			reason := suggestion.Reason
			todo.Reason = &reason
		}
		accepted = append(accepted, todo)
	}

	if len(accepted) == 0 {
		log.Debug().Int64("note_id", noteID).Msg("No new todos accepted from suggestions")
		return []*models.LearningTodo{}, nil
	}

	if err := s.store.CreateTodos(ctx, accepted); err != nil {
		return nil, err
	}
	return accepted, nil
}
