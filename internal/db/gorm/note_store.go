package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/noteforge/noteforge/pkg/models"
)

// NoteStore provides note and note-analysis database operations.
type NoteStore struct {
	db    *gorm.DB
	store *Store
}

// NewNoteStore creates a new note store.
func NewNoteStore(store *Store) *NoteStore {
	return &NoteStore{db: store.DB, store: store}
}

// CreateNote inserts a note row and fills in the generated id and
// creation timestamp.
func (s *NoteStore) CreateNote(ctx context.Context, note *models.Note) error {
	row := &Note{
		UserID:     note.UserID,
		Title:      note.Title,
		RawContent: note.RawContent,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	note.ID = row.ID
	note.CreatedAt = row.CreatedAt
	return nil
}

// GetNote retrieves a note scoped by owner. Returns nil, nil when no
// row matches.
func (s *NoteStore) GetNote(ctx context.Context, id, userID int64) (*models.Note, error) {
	var row Note
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toModelNote(&row), nil
}

// NoteExists reports whether a note with the given id is owned by the
// given user.
func (s *NoteStore) NoteExists(ctx context.Context, id, userID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&Note{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	return count > 0, err
}

// UpdateNote applies a partial update scoped by owner and returns the
// updated row. Returns nil, nil when no row matches.
func (s *NoteStore) UpdateNote(ctx context.Context, id, userID int64, updates map[string]interface{}) (*models.Note, error) {
	result := s.db.WithContext(ctx).
		Model(&Note{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("update note %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetNote(ctx, id, userID)
}

// SetAnalysisOutcome writes the enrichment result of the background
// task: refined content and, when the title was auto-assigned at
// creation, the generated title. Unscoped by owner — the task carries
// the note id it was dispatched for.
func (s *NoteStore) SetAnalysisOutcome(ctx context.Context, noteID int64, refinedContent string, title string) error {
	updates := map[string]interface{}{
		"refined_content": refinedContent,
	}
	if title != "" {
		updates["title"] = title
	}
	return s.db.WithContext(ctx).
		Model(&Note{}).
		Where("id = ?", noteID).
		Updates(updates).Error
}

// DeleteNote removes a note scoped by owner. Deleting an absent row is
// not an error; deletion is idempotent from the caller's perspective.
func (s *NoteStore) DeleteNote(ctx context.Context, id, userID int64) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Note{}).Error
}

// ListNotes returns a page of the owner's notes, newest first, along
// with the total note count.
func (s *NoteStore) ListNotes(ctx context.Context, userID int64, limit, offset int) ([]*models.Note, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&Note{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Note
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	notes := make([]*models.Note, len(rows))
	for i := range rows {
		notes[i] = toModelNote(&rows[i])
	}
	return notes, total, nil
}

// CountNotes returns the owner's all-time note count.
func (s *NoteStore) CountNotes(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := s.store.WithTimeout(ctx, DefaultQueryTimeout, "count notes")
	defer cancel()

	var count int64
	err := s.db.WithContext(ctx).
		Model(&Note{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountNotesBetween counts the owner's notes created in [from, to).
func (s *NoteStore) CountNotesBetween(ctx context.Context, userID int64, from, to time.Time) (int64, error) {
	ctx, cancel := s.store.WithTimeout(ctx, DefaultQueryTimeout, "count notes in range")
	defer cancel()

	var count int64
	err := s.db.WithContext(ctx).
		Model(&Note{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Count(&count).Error
	return count, err
}

// ListCreationTimes returns all creation timestamps for the owner's
// notes in ascending order. These drive the activity aggregation and
// scan the owner's full history, so they get the slow-query budget.
func (s *NoteStore) ListCreationTimes(ctx context.Context, userID int64) ([]time.Time, error) {
	ctx, cancel := s.store.WithTimeout(ctx, SlowQueryTimeout, "list note creation times")
	defer cancel()

	var times []time.Time
	err := s.db.WithContext(ctx).
		Model(&Note{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("created_at", &times).Error
	return times, err
}

// InsertAnalysis writes the one-to-one analysis row for a note.
// Called exactly once per note by the background enrichment task.
func (s *NoteStore) InsertAnalysis(ctx context.Context, analysis *models.NoteAnalysis) error {
	row := &NoteAnalysis{
		NoteID:         analysis.NoteID,
		SummaryJSON:    analysis.Summary,
		SkillJSON:      analysis.SkillProposal,
		FeedbackJSON:   analysis.Feedback,
		TodosJSON:      analysis.SuggestedTodos,
		FactChecksJSON: analysis.FactChecks,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert analysis for note %d: %w", analysis.NoteID, err)
	}
	analysis.ID = row.ID
	analysis.AnalyzedAt = row.AnalyzedAt
	return nil
}

// GetAnalysis retrieves the analysis row for a note. Returns nil, nil
// when analysis has not completed.
func (s *NoteStore) GetAnalysis(ctx context.Context, noteID int64) (*models.NoteAnalysis, error) {
	var row NoteAnalysis
	err := s.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toModelAnalysis(&row), nil
}

// DeleteAnalysisByNote removes the analysis row for a note, if any.
func (s *NoteStore) DeleteAnalysisByNote(ctx context.Context, noteID int64) error {
	return s.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Delete(&NoteAnalysis{}).Error
}
