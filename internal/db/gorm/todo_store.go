package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/noteforge/noteforge/pkg/models"
)

// TodoStore provides learning-todo database operations.
type TodoStore struct {
	db *gorm.DB
}

// NewTodoStore creates a new todo store.
func NewTodoStore(store *Store) *TodoStore {
	return &TodoStore{db: store.DB}
}

func todoToRow(todo *models.LearningTodo) *LearningTodo {
	status := todo.Status
	if status == "" {
		status = models.TodoPending
	}
	return &LearningTodo{
		UserID:       todo.UserID,
		NoteID:       sqlNullInt64Ptr(todo.NoteID),
		Content:      todo.Content,
		DueDate:      sqlNullStringPtr(todo.DueDate),
		Status:       string(status),
		Reason:       sqlNullStringPtr(todo.Reason),
		DeadlineType: sqlNullString(string(todo.DeadlineType)),
		IsChecked:    todo.IsChecked,
	}
}

// CreateTodo inserts a single todo row and fills in the generated id
// and creation timestamp.
func (s *TodoStore) CreateTodo(ctx context.Context, todo *models.LearningTodo) error {
	row := todoToRow(todo)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	todo.ID = row.ID
	todo.Status = models.TodoStatus(row.Status)
	todo.CreatedAt = row.CreatedAt
	return nil
}

// CreateTodos inserts a batch of todo rows in one statement.
func (s *TodoStore) CreateTodos(ctx context.Context, todos []*models.LearningTodo) error {
	if len(todos) == 0 {
		return nil
	}
	rows := make([]*LearningTodo, len(todos))
	for i, todo := range todos {
		rows[i] = todoToRow(todo)
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("create todos: %w", err)
	}
	for i, row := range rows {
		todos[i].ID = row.ID
		todos[i].Status = models.TodoStatus(row.Status)
		todos[i].CreatedAt = row.CreatedAt
	}
	return nil
}

// GetTodo retrieves a todo scoped by owner. Returns nil, nil when no
// row matches.
func (s *TodoStore) GetTodo(ctx context.Context, id, userID int64) (*models.LearningTodo, error) {
	var row LearningTodo
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toModelTodo(&row), nil
}

// ListTodos returns all of the owner's todos, newest first.
func (s *TodoStore) ListTodos(ctx context.Context, userID int64) ([]*models.LearningTodo, error) {
	var rows []LearningTodo
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	todos := make([]*models.LearningTodo, len(rows))
	for i := range rows {
		todos[i] = toModelTodo(&rows[i])
	}
	return todos, nil
}

// ListContents returns the distinct content strings of the owner's
// existing todos. Used by reconciliation for exact-match dedupe.
func (s *TodoStore) ListContents(ctx context.Context, userID int64) ([]string, error) {
	var contents []string
	err := s.db.WithContext(ctx).
		Model(&LearningTodo{}).
		Distinct("content").
		Where("user_id = ?", userID).
		Pluck("content", &contents).Error
	return contents, err
}

// UpdateTodo applies a partial update scoped by owner and returns the
// updated row. Returns nil, nil when no row matches.
func (s *TodoStore) UpdateTodo(ctx context.Context, id, userID int64, updates map[string]interface{}) (*models.LearningTodo, error) {
	result := s.db.WithContext(ctx).
		Model(&LearningTodo{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("update todo %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetTodo(ctx, id, userID)
}

// DeleteTodo removes a todo scoped by owner. Absent rows are not an
// error.
func (s *TodoStore) DeleteTodo(ctx context.Context, id, userID int64) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&LearningTodo{}).Error
}

// DeleteTodosByNote removes all todos referencing a note. Used by the
// best-effort cascade on note deletion.
func (s *TodoStore) DeleteTodosByNote(ctx context.Context, noteID int64) error {
	return s.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Delete(&LearningTodo{}).Error
}
