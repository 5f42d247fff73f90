// Package notes implements the note lifecycle: creation, asynchronous
// enrichment, analysis retrieval, and edits.
package notes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/noteforge/noteforge/pkg/models"
)

// enrichTimeout bounds a single background enrichment attempt,
// including the provider call and both result writes.
const enrichTimeout = 90 * time.Second

// analyzingMessage is returned from analysis reads while no analysis
// row exists yet.
const analyzingMessage = "Analysis in progress. Please check back shortly."

// Store is the persistence surface the note service needs.
type Store interface {
	CreateNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, id, userID int64) (*models.Note, error)
	UpdateNote(ctx context.Context, id, userID int64, updates map[string]interface{}) (*models.Note, error)
	SetAnalysisOutcome(ctx context.Context, noteID int64, refinedContent string, title string) error
	DeleteNote(ctx context.Context, id, userID int64) error
	ListNotes(ctx context.Context, userID int64, limit, offset int) ([]*models.Note, int64, error)
	InsertAnalysis(ctx context.Context, analysis *models.NoteAnalysis) error
	GetAnalysis(ctx context.Context, noteID int64) (*models.NoteAnalysis, error)
	DeleteAnalysisByNote(ctx context.Context, noteID int64) error
}

// TodoDeleter removes todos that reference a note. Satisfied by the
// todo store; used by the best-effort cascade on note deletion.
type TodoDeleter interface {
	DeleteTodosByNote(ctx context.Context, noteID int64) error
}

// Enricher produces a structured analysis of raw note content.
type Enricher interface {
	Analyze(ctx context.Context, rawContent string) (*models.AnalysisResult, error)
}

// Service orchestrates note persistence and enrichment dispatch.
type Service struct {
	store    Store
	todos    TodoDeleter
	enricher Enricher

	wg sync.WaitGroup
}

// NewService creates a note service.
func NewService(store Store, todos TodoDeleter, enricher Enricher) *Service {
	return &Service{
		store:    store,
		todos:    todos,
		enricher: enricher,
	}
}

// Wait blocks until all in-flight enrichment tasks have finished.
// Called during graceful shutdown.
func (s *Service) Wait() {
	s.wg.Wait()
}

// CreateRequest is the payload for creating a note.
type CreateRequest struct {
	Title      string `json:"title"`
	RawContent string `json:"rawContent"`
}

// CreateResponse acknowledges a created note before enrichment runs.
type CreateResponse struct {
	NoteID     int64                 `json:"noteId"`
	Status     models.AnalysisStatus `json:"status"`
	RawContent string                `json:"rawContent"`
}

// Create persists a note and dispatches its enrichment in the
// background. The response reflects the pre-enrichment state; the
// caller polls GetAnalysis for the outcome.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*CreateResponse, error) {
	if req.RawContent == "" {
		return nil, fmt.Errorf("%w: rawContent is required", models.ErrInvalidInput)
	}

	title := req.Title
	autoTitle := title == ""
	if autoTitle {
		title = models.DefaultNoteTitle
	}

	note := &models.Note{
		UserID:     userID,
		Title:      title,
		RawContent: req.RawContent,
	}
	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.enrich(note.ID, note.RawContent, autoTitle)

	return &CreateResponse{
		NoteID:     note.ID,
		Status:     models.StatusAnalyzing,
		RawContent: note.RawContent,
	}, nil
}

// enrich runs the one-shot background enrichment for a note. It never
// retries: any failure is logged and the note simply stays without an
// analysis row. Runs detached from the request context so an early
// client disconnect cannot cancel it.
func (s *Service) enrich(noteID int64, rawContent string, autoTitle bool) {
	defer s.wg.Done()

	taskID := uuid.NewString()
	logger := log.With().Str("task_id", taskID).Int64("note_id", noteID).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
	defer cancel()

	result, err := s.enricher.Analyze(ctx, rawContent)
	if err != nil {
		logger.Error().Err(err).Msg("Enrichment failed")
		return
	}

	analysis := &models.NoteAnalysis{
		NoteID:         noteID,
		Summary:        result.Summary,
		SkillProposal:  result.SkillUpdateProposal,
		Feedback:       result.Feedback,
		SuggestedTodos: result.SuggestedTodos,
		FactChecks:     result.FactChecks,
	}
	if err := s.store.InsertAnalysis(ctx, analysis); err != nil {
		logger.Error().Err(err).Msg("Failed to persist analysis")
		return
	}

	// The generated title only replaces a placeholder; a user-chosen
	// title is never overwritten.
	title := ""
	if autoTitle && result.GeneratedTitle != "" {
		title = result.GeneratedTitle
	}
	if err := s.store.SetAnalysisOutcome(ctx, noteID, result.RefinedNote, title); err != nil {
		logger.Error().Err(err).Msg("Failed to update note with enrichment outcome")
		return
	}

	logger.Info().Msg("Note enrichment completed")
}

// AnalysisView is the status-dependent read model for a note's
// enrichment state. The note's title and raw content are present in
// both states; the analysis payload only once COMPLETED.
type AnalysisView struct {
	NoteID         int64                    `json:"noteId"`
	Status         models.AnalysisStatus    `json:"status"`
	Title          string                   `json:"title"`
	RawContent     string                   `json:"rawContent"`
	Message        string                   `json:"message,omitempty"`
	RefinedContent string                   `json:"refinedContent,omitempty"`
	Summary        models.JSONObject        `json:"summary,omitempty"`
	FactChecks     models.FactCheckList     `json:"factChecks,omitempty"`
	Feedback       models.JSONObject        `json:"feedback,omitempty"`
	SkillProposal  models.JSONObject        `json:"skillProposal,omitempty"`
	SuggestedTodos models.SuggestedTodoList `json:"suggestedTodos,omitempty"`
	AnalyzedAt     *time.Time               `json:"analyzedAt,omitempty"`
}

// GetAnalysis reports a note's enrichment state. While no analysis row
// exists (including after a failed enrichment) the view stays
// ANALYZING; once the row exists the view is COMPLETED with the full
// payload. Reading never mutates state.
func (s *Service) GetAnalysis(ctx context.Context, userID, noteID int64) (*AnalysisView, error) {
	note, err := s.store.GetNote(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("%w: note %d", models.ErrNotFound, noteID)
	}

	analysis, err := s.store.GetAnalysis(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return &AnalysisView{
			NoteID:     noteID,
			Status:     models.StatusAnalyzing,
			Title:      note.Title,
			RawContent: note.RawContent,
			Message:    analyzingMessage,
		}, nil
	}

	refined := ""
	if note.RefinedContent != nil {
		refined = *note.RefinedContent
	}
	analyzedAt := analysis.AnalyzedAt
	return &AnalysisView{
		NoteID:         noteID,
		Status:         models.StatusCompleted,
		Title:          note.Title,
		RawContent:     note.RawContent,
		RefinedContent: refined,
		Summary:        analysis.Summary,
		FactChecks:     analysis.FactChecks,
		Feedback:       analysis.Feedback,
		SkillProposal:  analysis.SkillProposal,
		SuggestedTodos: analysis.SuggestedTodos,
		AnalyzedAt:     &analyzedAt,
	}, nil
}

// Get retrieves a single note scoped by owner.
func (s *Service) Get(ctx context.Context, userID, noteID int64) (*models.Note, error) {
	note, err := s.store.GetNote(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("%w: note %d", models.ErrNotFound, noteID)
	}
	return note, nil
}

// UpdateRequest is the payload for a partial note update. At least one
// field must be present. The raw content and creation time are
// immutable after creation; only the title and the refined content can
// be edited.
type UpdateRequest struct {
	Title          *string `json:"title"`
	RefinedContent *string `json:"refinedContent"`
}

// Update applies a partial edit to a note. Edits never re-trigger
// enrichment.
func (s *Service) Update(ctx context.Context, userID, noteID int64, req UpdateRequest) (*models.Note, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", models.ErrInvalidInput)
		}
		updates["title"] = *req.Title
	}
	if req.RefinedContent != nil {
		if *req.RefinedContent == "" {
			return nil, fmt.Errorf("%w: refinedContent cannot be empty", models.ErrInvalidInput)
		}
		updates["refined_content"] = *req.RefinedContent
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrInvalidInput)
	}

	note, err := s.store.UpdateNote(ctx, noteID, userID, updates)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("%w: note %d", models.ErrNotFound, noteID)
	}
	return note, nil
}

// Delete removes a note along with its analysis and linked todos.
// Deleting an absent note succeeds; the dependent deletes are
// best-effort and failures only log.
func (s *Service) Delete(ctx context.Context, userID, noteID int64) error {
	note, err := s.store.GetNote(ctx, noteID, userID)
	if err != nil {
		return err
	}
	if note == nil {
		return nil
	}

	if err := s.store.DeleteNote(ctx, noteID, userID); err != nil {
		return err
	}
	if err := s.store.DeleteAnalysisByNote(ctx, noteID); err != nil {
		log.Warn().Err(err).Int64("note_id", noteID).Msg("Failed to delete analysis for note")
	}
	if err := s.todos.DeleteTodosByNote(ctx, noteID); err != nil {
		log.Warn().Err(err).Int64("note_id", noteID).Msg("Failed to delete todos for note")
	}
	return nil
}

// ListResponse is a page of notes with pagination metadata.
type ListResponse struct {
	Notes    []*models.Note `json:"notes"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// List returns a page of the user's notes, newest first. The limit
// must be positive; callers translate page-number parameters to an
// offset before calling.
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) (*ListResponse, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive", models.ErrInvalidInput)
	}
	list, total, err := s.store.ListNotes(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.Note{}
	}
	return &ListResponse{
		Notes:    list,
		Total:    total,
		Page:     offset/limit + 1,
		PageSize: limit,
	}, nil
}
