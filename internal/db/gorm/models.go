package gorm

import (
	"database/sql"
	"time"

	"github.com/noteforge/noteforge/pkg/models"
)

// GORM models. The JSON column types (models.JSONObject and friends)
// implement sql.Scanner and driver.Valuer, so the blobs round-trip
// through text columns without interpretation.

// User represents an account row.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"type:text;uniqueIndex;not null"`
	Name         string    `gorm:"type:text;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string { return "users" }

// Note represents a user-submitted note row. RawContent and CreatedAt
// are immutable after creation; RefinedContent and Title may be set by
// the background enrichment task or by an explicit user edit.
type Note struct {
	ID             int64          `gorm:"primaryKey;autoIncrement"`
	UserID         int64          `gorm:"index:idx_notes_user;index:idx_notes_user_created,priority:1;not null"`
	Title          string         `gorm:"type:text;not null"`
	RawContent     string         `gorm:"type:text;not null"`
	RefinedContent sql.NullString `gorm:"type:text"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index:idx_notes_user_created,priority:2,sort:desc"`
}

func (Note) TableName() string { return "notes" }

// NoteAnalysis represents the one-to-one enrichment result for a note.
// Absence of a row means analysis has not completed.
type NoteAnalysis struct {
	ID             int64                    `gorm:"primaryKey;autoIncrement"`
	NoteID         int64                    `gorm:"uniqueIndex:idx_analyses_note;not null"`
	SummaryJSON    models.JSONObject        `gorm:"column:summary_json;type:text"`
	SkillJSON      models.JSONObject        `gorm:"column:skill_proposal_json;type:text"`
	FeedbackJSON   models.JSONObject        `gorm:"column:feedback_json;type:text"`
	TodosJSON      models.SuggestedTodoList `gorm:"column:suggested_todos_json;type:text"`
	FactChecksJSON models.FactCheckList     `gorm:"column:fact_checks_json;type:text"`
	AnalyzedAt     time.Time                `gorm:"autoCreateTime"`
}

func (NoteAnalysis) TableName() string { return "note_analyses" }

// LearningTodo represents a follow-up task row.
type LearningTodo struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	UserID       int64          `gorm:"index:idx_todos_user;index:idx_todos_user_created,priority:1;not null"`
	NoteID       sql.NullInt64  `gorm:"index:idx_todos_note"`
	Content      string         `gorm:"type:text;not null"`
	DueDate      sql.NullString `gorm:"type:text"`
	Status       string         `gorm:"type:text;check:status IN ('PENDING', 'COMPLETED');default:'PENDING';index"`
	Reason       sql.NullString `gorm:"type:text"`
	DeadlineType sql.NullString `gorm:"type:text;check:deadline_type IS NULL OR deadline_type IN ('SHORT_TERM', 'LONG_TERM')"`
	IsChecked    bool           `gorm:"default:false"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index:idx_todos_user_created,priority:2,sort:desc"`
}

func (LearningTodo) TableName() string { return "learning_todos" }

// Model conversions between GORM rows and pkg/models domain types.

func toModelUser(u *User) *models.User {
	return &models.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func toModelNote(n *Note) *models.Note {
	return &models.Note{
		ID:             n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		RawContent:     n.RawContent,
		RefinedContent: nullStringPtr(n.RefinedContent),
		CreatedAt:      n.CreatedAt,
	}
}

func toModelAnalysis(a *NoteAnalysis) *models.NoteAnalysis {
	return &models.NoteAnalysis{
		ID:             a.ID,
		NoteID:         a.NoteID,
		Summary:        a.SummaryJSON,
		SkillProposal:  a.SkillJSON,
		Feedback:       a.FeedbackJSON,
		SuggestedTodos: a.TodosJSON,
		FactChecks:     a.FactChecksJSON,
		AnalyzedAt:     a.AnalyzedAt,
	}
}

func toModelTodo(t *LearningTodo) *models.LearningTodo {
	return &models.LearningTodo{
		ID:           t.ID,
		UserID:       t.UserID,
		NoteID:       nullInt64Ptr(t.NoteID),
		Content:      t.Content,
		DueDate:      nullStringPtr(t.DueDate),
		Status:       models.TodoStatus(t.Status),
		Reason:       nullStringPtr(t.Reason),
		DeadlineType: models.DeadlineType(t.DeadlineType.String),
		IsChecked:    t.IsChecked,
		CreatedAt:    t.CreatedAt,
	}
}
