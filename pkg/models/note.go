// Package models defines the shared domain types for noteforge.
package models

import "time"

// DefaultNoteTitle is assigned when a note is created without a title.
// Notes carrying this placeholder may have their title replaced by the
// enrichment result.
const DefaultNoteTitle = "Untitled Note"

// AnalysisStatus is the externally observable state of a note's enrichment.
type AnalysisStatus string

const (
	// StatusAnalyzing means the note is persisted but no analysis row
	// exists yet. A note whose enrichment failed stays in this state.
	StatusAnalyzing AnalysisStatus = "ANALYZING"
	// StatusCompleted means the analysis row has been written.
	StatusCompleted AnalysisStatus = "COMPLETED"
)

// FactCheckVerdict classifies a fact-checked statement.
type FactCheckVerdict string

const (
	VerdictTrue          FactCheckVerdict = "TRUE"
	VerdictFalse         FactCheckVerdict = "FALSE"
	VerdictPartiallyTrue FactCheckVerdict = "PARTIALLY_TRUE"
)

// Note is a user-submitted piece of raw text awaiting or having
// undergone enrichment.
type Note struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	Title          string    `json:"title"`
	RawContent     string    `json:"rawContent"`
	RefinedContent *string   `json:"refinedContent"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NoteAnalysis holds the structured result of a note's enrichment.
// One-to-one with Note; created exactly once by the background task
// and never updated thereafter.
type NoteAnalysis struct {
	ID             int64             `json:"id"`
	NoteID         int64             `json:"noteId"`
	Summary        JSONObject        `json:"summary"`
	SkillProposal  JSONObject        `json:"skillProposal"`
	Feedback       JSONObject        `json:"feedback"`
	SuggestedTodos SuggestedTodoList `json:"suggestedTodos"`
	FactChecks     FactCheckList     `json:"factChecks"`
	AnalyzedAt     time.Time         `json:"analyzedAt"`
}

// FactCheck is a single verified statement from the enrichment result.
type FactCheck struct {
	OriginalText string           `json:"originalText"`
	Verdict      FactCheckVerdict `json:"verdict"`
	Comment      string           `json:"comment,omitempty"`
	Correction   string           `json:"correction,omitempty"`
}

// SuggestedTodo is a follow-up task proposed by the enrichment provider.
type SuggestedTodo struct {
	Content      string       `json:"content"`
	DeadlineType DeadlineType `json:"deadlineType,omitempty"`
	Reason       string       `json:"reason,omitempty"`
}

// AnalysisResult is the enrichment provider's response contract.
// A response missing RefinedNote is treated as a provider failure.
type AnalysisResult struct {
	GeneratedTitle      string            `json:"generatedTitle,omitempty"`
	RefinedNote         string            `json:"refinedNote"`
	Summary             JSONObject        `json:"summary"`
	FactChecks          FactCheckList     `json:"factChecks"`
	Feedback            JSONObject        `json:"feedback"`
	SkillUpdateProposal JSONObject        `json:"skillUpdateProposal"`
	SuggestedTodos      SuggestedTodoList `json:"suggestedTodos"`
}
