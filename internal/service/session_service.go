package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"spatialboard/internal/cache"
	"spatialboard/internal/catalog"
	"spatialboard/internal/model"
)

// SessionService owns the dashboard session lifecycle: creation, student
// selection (with history context capture) and the chat transcript.
type SessionService struct {
	store      cache.SessionStore
	history    *HistoryService
	reflection *ReflectionService
	catalog    *catalog.Catalog
}

func NewSessionService(
	store cache.SessionStore,
	history *HistoryService,
	reflection *ReflectionService,
	cat *catalog.Catalog,
) *SessionService {
	return &SessionService{
		store:      store,
		history:    history,
		reflection: reflection,
		catalog:    cat,
	}
}

// Create starts a fresh session with form instance 1 and no student
// selected.
func (s *SessionService) Create(ctx context.Context) (*model.Session, error) {
	now := time.Now()
	sess := &model.Session{
		ID:           uuid.NewString(),
		FormInstance: 1,
		ChatHistory:  []model.ChatTurn{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// SelectStudent records a student change: it loads the student's recent
// history into the session context and clears the chat transcript.
// Re-selecting the currently selected student is a no-op, so a page
// re-render never wipes an in-progress chat.
func (s *SessionService) SelectStudent(ctx context.Context, id, studentName string) (*model.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.catalog.HasStudent(studentName) {
		return nil, validationErrorf(fmt.Sprintf("student %q is not on the roster", studentName))
	}
	if model.Canonical(studentName) == model.Canonical(sess.LastSelectedStudent) {
		return sess, nil
	}

	historyContext, hasHistory, err := s.history.RecentFor(studentName)
	if err != nil {
		return nil, err
	}

	sess.LastSelectedStudent = studentName
	sess.StudentContext = historyContext
	sess.ShowHistoryBanner = hasHistory
	sess.ChatHistory = []model.ChatTurn{}
	sess.UpdatedAt = time.Now()

	if err := s.store.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Chat answers one question against the cached student context and appends
// the turn to the transcript. A provider failure leaves the transcript
// unchanged.
func (s *SessionService) Chat(ctx context.Context, id, question string) (*model.Session, string, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(question) == "" {
		return nil, "", validationErrorf("question must not be empty")
	}
	if sess.LastSelectedStudent == "" {
		return nil, "", validationErrorf("select a student before asking questions")
	}

	answer, err := s.reflection.Ask(ctx, sess.StudentContext, question)
	if err != nil {
		return nil, "", fmt.Errorf("chat generation: %w", err)
	}

	sess.ChatHistory = append(sess.ChatHistory, model.ChatTurn{Question: question, Answer: answer})
	sess.UpdatedAt = time.Now()
	if err := s.store.Set(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}
	return sess, answer, nil
}
