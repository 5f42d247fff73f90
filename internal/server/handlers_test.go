package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteforge/noteforge/internal/auth"
	"github.com/noteforge/noteforge/internal/config"
	"github.com/noteforge/noteforge/internal/dashboard"
	"github.com/noteforge/noteforge/internal/notes"
	"github.com/noteforge/noteforge/internal/todos"
	"github.com/noteforge/noteforge/pkg/models"
)

// memBackend is a single in-memory store backing every domain service
// in handler tests.
type memBackend struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	notes    map[int64]*models.Note
	analyses map[int64]*models.NoteAnalysis
	todos    map[int64]*models.LearningTodo
	nextID   int64
}

func newMemBackend() *memBackend {
	return &memBackend{
		users:    map[int64]*models.User{},
		notes:    map[int64]*models.Note{},
		analyses: map[int64]*models.NoteAnalysis{},
		todos:    map[int64]*models.LearningTodo{},
	}
}

func (m *memBackend) id() int64 { m.nextID++; return m.nextID }

func (m *memBackend) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return models.ErrConflict
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now().UTC()
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memBackend) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memBackend) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (m *memBackend) CreateNote(_ context.Context, note *models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	note.ID = m.id()
	note.CreatedAt = time.Now().UTC()
	clone := *note
	m.notes[note.ID] = &clone
	return nil
}

func (m *memBackend) GetNote(_ context.Context, id, userID int64) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	note, ok := m.notes[id]
	if !ok || note.UserID != userID {
		return nil, nil
	}
	clone := *note
	return &clone, nil
}

func (m *memBackend) NoteExists(_ context.Context, id, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	note, ok := m.notes[id]
	return ok && note.UserID == userID, nil
}

func (m *memBackend) UpdateNote(_ context.Context, id, userID int64, updates map[string]interface{}) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	note, ok := m.notes[id]
	if !ok || note.UserID != userID {
		return nil, nil
	}
	if v, ok := updates["title"]; ok {
		note.Title = v.(string)
	}
	if v, ok := updates["refined_content"]; ok {
		rc := v.(string)
		note.RefinedContent = &rc
	}
	clone := *note
	return &clone, nil
}

func (m *memBackend) SetAnalysisOutcome(_ context.Context, noteID int64, refinedContent, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if note, ok := m.notes[noteID]; ok {
		note.RefinedContent = &refinedContent
		if title != "" {
			note.Title = title
		}
	}
	return nil
}

func (m *memBackend) DeleteNote(_ context.Context, id, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if note, ok := m.notes[id]; ok && note.UserID == userID {
		delete(m.notes, id)
	}
	return nil
}

func (m *memBackend) ListNotes(_ context.Context, userID int64, limit, offset int) ([]*models.Note, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*models.Note
	for _, note := range m.notes {
		if note.UserID == userID {
			clone := *note
			all = append(all, &clone)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []*models.Note{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *memBackend) CountNotes(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, note := range m.notes {
		if note.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memBackend) CountNotesBetween(_ context.Context, userID int64, from, to time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, note := range m.notes {
		if note.UserID == userID && !note.CreatedAt.Before(from) && note.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (m *memBackend) ListCreationTimes(_ context.Context, userID int64) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var times []time.Time
	for _, note := range m.notes {
		if note.UserID == userID {
			times = append(times, note.CreatedAt)
		}
	}
	return times, nil
}

func (m *memBackend) InsertAnalysis(_ context.Context, analysis *models.NoteAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	analysis.ID = m.id()
	analysis.AnalyzedAt = time.Now().UTC()
	clone := *analysis
	m.analyses[analysis.NoteID] = &clone
	return nil
}

func (m *memBackend) GetAnalysis(_ context.Context, noteID int64) (*models.NoteAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	analysis, ok := m.analyses[noteID]
	if !ok {
		return nil, nil
	}
	clone := *analysis
	return &clone, nil
}

func (m *memBackend) DeleteAnalysisByNote(_ context.Context, noteID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.analyses, noteID)
	return nil
}

func (m *memBackend) CreateTodo(_ context.Context, todo *models.LearningTodo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo.ID = m.id()
	if todo.Status == "" {
		todo.Status = models.TodoPending
	}
	todo.CreatedAt = time.Now().UTC()
	clone := *todo
	m.todos[todo.ID] = &clone
	return nil
}

func (m *memBackend) CreateTodos(ctx context.Context, list []*models.LearningTodo) error {
	for _, todo := range list {
		if err := m.CreateTodo(ctx, todo); err != nil {
			return err
		}
	}
	return nil
}

func (m *memBackend) GetTodo(_ context.Context, id, userID int64) (*models.LearningTodo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo, ok := m.todos[id]
	if !ok || todo.UserID != userID {
		return nil, nil
	}
	clone := *todo
	return &clone, nil
}

func (m *memBackend) ListTodos(_ context.Context, userID int64) ([]*models.LearningTodo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []*models.LearningTodo
	for _, todo := range m.todos {
		if todo.UserID == userID {
			clone := *todo
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *memBackend) ListContents(_ context.Context, userID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var contents []string
	for _, todo := range m.todos {
		if todo.UserID == userID {
			contents = append(contents, todo.Content)
		}
	}
	return contents, nil
}

func (m *memBackend) UpdateTodo(_ context.Context, id, userID int64, updates map[string]interface{}) (*models.LearningTodo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo, ok := m.todos[id]
	if !ok || todo.UserID != userID {
		return nil, nil
	}
	if v, ok := updates["content"]; ok {
		todo.Content = v.(string)
	}
	if v, ok := updates["status"]; ok {
		todo.Status = models.TodoStatus(v.(string))
	}
	if v, ok := updates["is_checked"]; ok {
		todo.IsChecked = v.(bool)
	}
	clone := *todo
	return &clone, nil
}

func (m *memBackend) DeleteTodo(_ context.Context, id, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if todo, ok := m.todos[id]; ok && todo.UserID == userID {
		delete(m.todos, id)
	}
	return nil
}

func (m *memBackend) DeleteTodosByNote(_ context.Context, noteID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, todo := range m.todos {
		if todo.NoteID != nil && *todo.NoteID == noteID {
			delete(m.todos, id)
		}
	}
	return nil
}

type stubEnricher struct {
	result *models.AnalysisResult
	err    error
}

func (s *stubEnricher) Analyze(_ context.Context, _ string) (*models.AnalysisResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func stubResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		GeneratedTitle:      "Generated Title",
		RefinedNote:         "refined text",
		Summary:             models.JSONObject{"oneLineSummary": "short"},
		Feedback:            models.JSONObject{"overall": "good"},
		SkillUpdateProposal: models.JSONObject{"skill": "Go"},
		SuggestedTodos: models.SuggestedTodoList{
			{Content: "Follow up", DeadlineType: models.DeadlineShortTerm},
		},
		FactChecks: models.FactCheckList{
			{OriginalText: "claim", Verdict: models.VerdictTrue},
		},
	}
}

// newTestService wires a Service over the in-memory backend with all
// routes registered and initialization already complete.
func newTestService(t *testing.T, enricher notes.Enricher) (*Service, *memBackend) {
	t.Helper()
	backend := newMemBackend()

	authSvc, err := auth.NewService(backend, auth.Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)

	svc := &Service{
		version:   "test",
		config:    config.Default(),
		router:    chi.NewRouter(),
		startTime: time.Now(),
		authSvc:   authSvc,
		noteSvc:   notes.NewService(backend, backend, enricher),
		todoSvc:   todos.NewService(backend, backend),
		dashSvc:   dashboard.NewService(backend),
	}
	svc.setupMiddleware()
	svc.setupRoutes()
	svc.ready.Store(true)
	return svc, backend
}

func doJSON(t *testing.T, svc *Service, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	svc.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

// signupAndLogin creates an account and returns a usable access token.
func signupAndLogin(t *testing.T, svc *Service, email string) string {
	t.Helper()
	rec := doJSON(t, svc, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    email,
		"name":     "Tester",
		"password": "longenough",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, svc, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "longenough",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair struct {
		AccessToken string `json:"accessToken"`
	}
	decode(t, rec, &pair)
	require.NotEmpty(t, pair.AccessToken)
	return pair.AccessToken
}

func TestHealth_AvailableDuringInit(t *testing.T) {
	svc := &Service{version: "test", config: config.Default(), router: chi.NewRouter(), startTime: time.Now()}
	svc.setupMiddleware()
	svc.setupRoutes()

	rec := doJSON(t, svc, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "starting", body["status"])

	rec = doJSON(t, svc, http.MethodGet, "/api/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequireReady_BlocksAPIRoutesDuringInit(t *testing.T) {
	svc := &Service{version: "test", config: config.Default(), router: chi.NewRouter(), startTime: time.Now()}
	svc.setupMiddleware()
	svc.setupRoutes()

	rec := doJSON(t, svc, http.MethodPost, "/api/auth/login", "", map[string]string{})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequireReady_ReportsInitFailure(t *testing.T) {
	svc := &Service{version: "test", config: config.Default(), router: chi.NewRouter(), startTime: time.Now()}
	svc.setupMiddleware()
	svc.setupRoutes()
	svc.setInitError(fmt.Errorf("db unreachable"))

	rec := doJSON(t, svc, http.MethodPost, "/api/auth/login", "", map[string]string{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "db unreachable")
}

func TestAuth_RequiredForNotes(t *testing.T) {
	svc, _ := newTestService(t, &stubEnricher{result: stubResult()})

	rec := doJSON(t, svc, http.MethodGet, "/api/notes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, svc, http.MethodGet, "/api/notes", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignup_DuplicateEmailIsConflict(t *testing.T) {
	svc, _ := newTestService(t, &stubEnricher{result: stubResult()})
	signupAndLogin(t, svc, "dup@example.com")

	rec := doJSON(t, svc, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    "dup@example.com",
		"password": "longenough",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestNoteLifecycle_EndToEnd(t *testing.T) {
	svc, _ := newTestService(t, &stubEnricher{result: stubResult()})
	token := signupAndLogin(t, svc, "writer@example.com")

	// Create returns 202 with the pre-enrichment state.
	rec := doJSON(t, svc, http.MethodPost, "/api/notes", token, map[string]string{
		"rawContent": "today I learned about channels",
	})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var created struct {
		NoteID int64  `json:"noteId"`
		Status string `json:"status"`
	}
	decode(t, rec, &created)
	assert.Equal(t, "ANALYZING", created.Status)
	require.Greater(t, created.NoteID, int64(0))

	// Let the background enrichment finish.
	svc.noteSvc.Wait()

	rec = doJSON(t, svc, http.MethodGet, fmt.Sprintf("/api/notes/%d/analysis", created.NoteID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Status         string `json:"status"`
		Title          string `json:"title"`
		RefinedContent string `json:"refinedContent"`
	}
	decode(t, rec, &view)
	assert.Equal(t, "COMPLETED", view.Status)
	assert.Equal(t, "Generated Title", view.Title)
	assert.Equal(t, "refined text", view.RefinedContent)

	// Accept the suggested todos, then a duplicate acceptance is a no-op.
	rec = doJSON(t, svc, http.MethodPost, fmt.Sprintf("/api/notes/%d/todos", created.NoteID), token, map[string]interface{}{
		"todos": []map[string]string{{"content": "Follow up", "deadlineType": "SHORT_TERM"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var acceptResp struct {
		Count int `json:"count"`
	}
	decode(t, rec, &acceptResp)
	assert.Equal(t, 1, acceptResp.Count)

	rec = doJSON(t, svc, http.MethodPost, fmt.Sprintf("/api/notes/%d/todos", created.NoteID), token, map[string]interface{}{
		"todos": []map[string]string{{"content": "Follow up"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &acceptResp)
	assert.Equal(t, 0, acceptResp.Count)

	// Dashboard reflects the new note.
	rec = doJSON(t, svc, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		TotalNotes        int64 `json:"totalNotes"`
		CurrentStreakDays int   `json:"currentStreakDays"`
	}
	decode(t, rec, &summary)
	assert.Equal(t, int64(1), summary.TotalNotes)
	assert.Equal(t, 1, summary.CurrentStreakDays)

	// Delete cascades to the accepted todo.
	rec = doJSON(t, svc, http.MethodDelete, fmt.Sprintf("/api/notes/%d", created.NoteID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, svc, http.MethodGet, "/api/dashboard/todos", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var todoList []interface{}
	decode(t, rec, &todoList)
	assert.Empty(t, todoList)
}

func TestCreateNote_MissingContentIs400(t *testing.T) {
	svc, _ := newTestService(t, &stubEnricher{result: stubResult()})
	token := signupAndLogin(t, svc, "empty@example.com")

	rec := doJSON(t, svc, http.MethodPost, "/api/notes", token, map[string]string{"title": "no body"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateNote_CannotTouchRawContent(t *testing.T) {
	svc, backend := newTestService(t, &stubEnricher{result: stubResult()})
	token := signupAndLogin(t, svc, "editor@example.com")

	rec := doJSON(t, svc, http.MethodPost, "/api/notes", token, map[string]string{
		"rawContent": "immutable original",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	var created struct {
		NoteID int64 `json:"noteId"`
	}
	decode(t, rec, &created)
	svc.noteSvc.Wait()

	// rawContent is not part of the update contract; a request carrying
	// nothing else has no recognized fields.
	rec = doJSON(t, svc, http.MethodPatch, fmt.Sprintf("/api/notes/%d", created.NoteID), token, map[string]string{
		"rawContent": "attempted rewrite",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, svc, http.MethodPatch, fmt.Sprintf("/api/notes/%d", created.NoteID), token, map[string]string{
		"title":          "Edited Title",
		"refinedContent": "edited refinement",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated struct {
		Title          string  `json:"title"`
		RawContent     string  `json:"rawContent"`
		RefinedContent *string `json:"refinedContent"`
	}
	decode(t, rec, &updated)
	assert.Equal(t, "Edited Title", updated.Title)
	assert.Equal(t, "immutable original", updated.RawContent)
	require.NotNil(t, updated.RefinedContent)
	assert.Equal(t, "edited refinement", *updated.RefinedContent)

	stored, err := backend.GetNote(context.Background(), created.NoteID, 1)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "immutable original", stored.RawContent)
}

func TestGetAnalysis_ForeignNoteIs404(t *testing.T) {
	svc, _ := newTestService(t, &stubEnricher{result: stubResult()})
	owner := signupAndLogin(t, svc, "owner@example.com")
	other := signupAndLogin(t, svc, "other@example.com")

	rec := doJSON(t, svc, http.MethodPost, "/api/notes", owner, map[string]string{"rawContent": "secret"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	var created struct {
		NoteID int64 `json:"noteId"`
	}
	decode(t, rec, &created)
	svc.noteSvc.Wait()

	rec = doJSON(t, svc, http.MethodGet, fmt.Sprintf("/api/notes/%d/analysis", created.NoteID), other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAnalysis_FailedEnrichmentStaysAnalyzing(t *testing.T) {
	svc, _ := newTestService(t, &stubEnricher{err: fmt.Errorf("%w: provider down", models.ErrUpstream)})
	token := signupAndLogin(t, svc, "unlucky@example.com")

	rec := doJSON(t, svc, http.MethodPost, "/api/notes", token, map[string]string{"rawContent": "raw"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	var created struct {
		NoteID int64 `json:"noteId"`
	}
	decode(t, rec, &created)
	svc.noteSvc.Wait()

	rec = doJSON(t, svc, http.MethodGet, fmt.Sprintf("/api/notes/%d/analysis", created.NoteID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Status     string `json:"status"`
		Title      string `json:"title"`
		RawContent string `json:"rawContent"`
		Message    string `json:"message"`
	}
	decode(t, rec, &view)
	assert.Equal(t, "ANALYZING", view.Status)
	assert.Equal(t, models.DefaultNoteTitle, view.Title)
	assert.Equal(t, "raw", view.RawContent)
	assert.NotEmpty(t, view.Message)
}

func TestPathID_Invalid(t *testing.T) {
	svc, _ := newTestService(t, &stubEnricher{result: stubResult()})
	token := signupAndLogin(t, svc, "pathid@example.com")

	rec := doJSON(t, svc, http.MethodGet, "/api/notes/banana/analysis", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTodoCRUD_OverHTTP(t *testing.T) {
	svc, _ := newTestService(t, &stubEnricher{result: stubResult()})
	token := signupAndLogin(t, svc, "todos@example.com")

	rec := doJSON(t, svc, http.MethodPost, "/api/dashboard/todos", token, map[string]string{
		"content": "Read the gc guide",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var todo struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	decode(t, rec, &todo)
	assert.Equal(t, "PENDING", todo.Status)

	rec = doJSON(t, svc, http.MethodPatch, fmt.Sprintf("/api/dashboard/todos/%d", todo.ID), token, map[string]string{
		"status": "COMPLETED",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &todo)
	assert.Equal(t, "COMPLETED", todo.Status)

	rec = doJSON(t, svc, http.MethodDelete, fmt.Sprintf("/api/dashboard/todos/%d", todo.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, svc, http.MethodGet, "/api/dashboard/todos", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []interface{}
	decode(t, rec, &list)
	assert.Empty(t, list)
}

func TestDashboard_RejectsBogusYear(t *testing.T) {
	svc, _ := newTestService(t, &stubEnricher{result: stubResult()})
	token := signupAndLogin(t, svc, "year@example.com")

	rec := doJSON(t, svc, http.MethodGet, "/api/dashboard?year=banana", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefresh_OverHTTP(t *testing.T) {
	svc, _ := newTestService(t, &stubEnricher{result: stubResult()})
	signupAndLogin(t, svc, "refresh@example.com")

	rec := doJSON(t, svc, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "refresh@example.com",
		"password": "longenough",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var pair struct {
		RefreshToken string `json:"refreshToken"`
	}
	decode(t, rec, &pair)

	rec = doJSON(t, svc, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refreshToken": pair.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, svc, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refreshToken": "bogus",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
