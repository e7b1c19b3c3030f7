package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"examprep-service/internal/adaptive"
	"examprep-service/internal/models"
	"examprep-service/internal/scoring"
)

// SessionStore persists quiz sessions. Save must only apply when the stored
// version equals expectedVersion, reporting models.ErrVersionConflict
// otherwise.
type SessionStore interface {
	Create(ctx context.Context, session *models.QuizSession) error
	FindByID(ctx context.Context, id string) (*models.QuizSession, error)
	Save(ctx context.Context, session *models.QuizSession, expectedVersion int64) error
	FindActiveByUser(ctx context.Context, userID string) ([]models.QuizSession, error)
}

// QuestionCatalog is the read side of the question corpus. FindOne returns
// (nil, nil) when the scope is exhausted at the given difficulty.
type QuestionCatalog interface {
	FindOne(ctx context.Context, difficulty string, subjectIDs, excludeIDs []string) (*models.Question, error)
	FindByID(ctx context.Context, id string) (*models.Question, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Question, error)
	Sample(ctx context.Context, subjectIDs []string, n int) ([]models.Question, error)
	CountByScope(ctx context.Context, subjectIDs []string) (int64, error)
}

// SubjectDirectory resolves a category into its subjects for mixed-scope
// sessions.
type SubjectDirectory interface {
	FindByCategory(ctx context.Context, categoryID string) ([]models.Subject, error)
}

type ResultStore interface {
	Create(ctx context.Context, result *models.QuizResult) error
}

// ActivityRecorder receives the completion summary for a user's history.
// Failures are logged, never propagated.
type ActivityRecorder interface {
	Append(ctx context.Context, userID string, entry models.ActivityEntry) error
}

// ScoreRecorder feeds the leaderboard on completion. Same fire-and-forget
// contract as ActivityRecorder.
type ScoreRecorder interface {
	Record(ctx context.Context, categoryID, userID string, points int) error
}

type EventSink interface {
	Publish(eventType string, payload any) error
}

// SessionService drives the adaptive quiz lifecycle: start, serve next
// question, record answers, finalize.
type SessionService struct {
	Store    SessionStore
	Catalog  QuestionCatalog
	Subjects SubjectDirectory
	Results  ResultStore

	// Optional collaborators, nil-safe.
	Activity ActivityRecorder
	Scores   ScoreRecorder
	Events   EventSink

	BatchBudgetSeconds int
	BatchSize          int

	controller *adaptive.Controller
}

func NewSessionService(store SessionStore, catalog QuestionCatalog, subjects SubjectDirectory, results ResultStore, policy *adaptive.Policy) *SessionService {
	return &SessionService{
		Store:              store,
		Catalog:            catalog,
		Subjects:           subjects,
		Results:            results,
		BatchBudgetSeconds: 1800,
		BatchSize:          25,
		controller:         adaptive.NewController(policy),
	}
}

// NextQuestionOutcome is the engine's answer to "what happens next": exactly
// one of Question, LevelUp or Completed is set.
type NextQuestionOutcome struct {
	Question  *models.Question    `json:"question,omitempty"`
	Tier      adaptive.Tier       `json:"current_tier"`
	LevelUp   bool                `json:"level_up,omitempty"`
	Message   string              `json:"message,omitempty"`
	Completed bool                `json:"completed,omitempty"`
	Session   *models.QuizSession `json:"session,omitempty"`
	Result    *models.QuizResult  `json:"result,omitempty"`
}

// AnswerFeedback reveals correctness after a submission; this is the only
// point at which the correct answer leaves the engine for an open question.
type AnswerFeedback struct {
	Correct       bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	PointsEarned  int    `json:"points_earned"`
}

// SessionReview joins a session with the text of the questions it served.
type SessionReview struct {
	Session   *models.QuizSession        `json:"session"`
	Questions map[string]models.Question `json:"questions"`
}

// StartSession creates a session at the easy tier after verifying the scope
// has at least one question. A subject of "all" or "mixed" expands to every
// subject in the category.
func (s *SessionService) StartSession(ctx context.Context, userID, categoryID, subjectID string) (*models.QuizSession, error) {
	if userID == "" || subjectID == "" {
		return nil, fmt.Errorf("user and subject are required")
	}

	subjectLabel := subjectID
	subjectIDs := []string{subjectID}
	if subjectID == "all" || subjectID == models.MixedSubject {
		subjects, err := s.Subjects.FindByCategory(ctx, categoryID)
		if err != nil {
			return nil, fmt.Errorf("resolve category subjects: %w", err)
		}
		if len(subjects) == 0 {
			return nil, models.ErrNoQuestionsAvailable
		}
		subjectLabel = models.MixedSubject
		subjectIDs = subjectIDs[:0]
		for _, subject := range subjects {
			subjectIDs = append(subjectIDs, subject.ID)
		}
	}

	available, err := s.Catalog.CountByScope(ctx, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if available == 0 {
		return nil, models.ErrNoQuestionsAvailable
	}

	session := &models.QuizSession{
		UserID:      userID,
		CategoryID:  categoryID,
		Subject:     subjectLabel,
		SubjectIDs:  subjectIDs,
		CurrentTier: string(adaptive.TierEasy),
		History:     []models.AnswerRecord{},
		StartedAt:   time.Now(),
	}
	if err := s.Store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.publish("quiz.session.started", map[string]any{
		"session_id": session.ID,
		"user_id":    userID,
		"subject":    subjectLabel,
	})
	return session, nil
}

// NextQuestion serves an unseen question at the current tier. When the tier
// is exhausted it either promotes the session (level-up signal) or, with no
// promotion left to give, finalizes it. An exhausted catalog on a session
// that never answered anything is a configuration error, not a completed
// quiz.
func (s *SessionService) NextQuestion(ctx context.Context, sessionID, userID string) (*NextQuestionOutcome, error) {
	session, err := s.loadOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Completed {
		return nil, models.ErrAlreadyCompleted
	}

	question, err := s.Catalog.FindOne(ctx, session.CurrentTier, session.SubjectIDs, session.AnsweredIDs())
	if err != nil {
		return nil, fmt.Errorf("find question: %w", err)
	}
	if question != nil {
		served := question.Sanitized()
		return &NextQuestionOutcome{
			Question: &served,
			Tier:     adaptive.Tier(session.CurrentTier),
		}, nil
	}

	if len(session.History) == 0 {
		return nil, models.ErrNoQuestionsAvailable
	}

	decision := s.controller.Decide(adaptive.Tier(session.CurrentTier), session.History)
	if decision.Promote {
		session, err = s.mutate(ctx, session, func(cur *models.QuizSession) error {
			if cur.Completed {
				return models.ErrAlreadyCompleted
			}
			cur.CurrentTier = string(decision.NextTier)
			return nil
		})
		if err != nil {
			return nil, err
		}
		s.publish("quiz.session.level_up", map[string]any{
			"session_id": session.ID,
			"user_id":    userID,
			"new_tier":   decision.NextTier,
		})
		return &NextQuestionOutcome{
			Tier:    decision.NextTier,
			LevelUp: true,
			Message: adaptive.LevelUpMessage(decision.NextTier),
		}, nil
	}

	result, session, err := s.finalize(ctx, session)
	if err != nil {
		return nil, err
	}
	return &NextQuestionOutcome{
		Tier:      adaptive.Tier(session.CurrentTier),
		Completed: true,
		Session:   session,
		Result:    result,
	}, nil
}

// SubmitAnswer grades the answer against the catalog, appends the record at
// the current tier and credits tier-weighted points for a correct answer.
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID, userID, questionID, userAnswer string, timeSpentSeconds int) (*AnswerFeedback, error) {
	session, err := s.loadOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Completed {
		return nil, models.ErrAlreadyCompleted
	}

	question, err := s.Catalog.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, models.ErrQuestionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load question: %w", err)
	}

	correct := question.CorrectAnswer == userAnswer
	points := 0
	session, err = s.mutate(ctx, session, func(cur *models.QuizSession) error {
		if cur.Completed {
			return models.ErrAlreadyCompleted
		}
		if cur.HasAnswered(questionID) {
			return models.ErrDuplicateAnswer
		}
		points = 0
		if correct {
			points = adaptive.Points(adaptive.Tier(cur.CurrentTier))
			cur.Score += points
		}
		cur.History = append(cur.History, models.AnswerRecord{
			QuestionID:       questionID,
			UserAnswer:       userAnswer,
			IsCorrect:        correct,
			TimeSpentSeconds: timeSpentSeconds,
			Tier:             cur.CurrentTier,
			AnsweredAt:       time.Now(),
		})
		cur.TotalDurationSeconds += timeSpentSeconds
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("quiz.answer.submitted", map[string]any{
		"session_id":  session.ID,
		"user_id":     userID,
		"question_id": questionID,
		"is_correct":  correct,
	})
	return &AnswerFeedback{
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		PointsEarned:  points,
	}, nil
}

// Complete finalizes a session explicitly, e.g. when the caller's quiz clock
// ran out.
func (s *SessionService) Complete(ctx context.Context, sessionID, userID string) (*models.QuizResult, error) {
	session, err := s.loadOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	result, _, err := s.finalize(ctx, session)
	return result, err
}

// SampleQuestions draws the fixed-size question set for batch mode, answers
// withheld.
func (s *SessionService) SampleQuestions(ctx context.Context, sessionID, userID string) ([]models.Question, error) {
	session, err := s.loadOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Completed {
		return nil, models.ErrAlreadyCompleted
	}

	questions, err := s.Catalog.Sample(ctx, session.SubjectIDs, s.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, models.ErrNoQuestionsAvailable
	}
	sanitized := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		sanitized = append(sanitized, q.Sanitized())
	}
	return sanitized, nil
}

// SubmitBatch scores a fixed-length quiz in one pass and completes the
// session.
func (s *SessionService) SubmitBatch(ctx context.Context, sessionID, userID string, answers map[string]string, timeLeftSeconds int) (*models.QuizResult, error) {
	session, err := s.loadOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Completed {
		return nil, models.ErrAlreadyCompleted
	}

	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	questions, err := s.Catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	result, err := scoring.CompileBatch(session, questions, answers, s.BatchBudgetSeconds, timeLeftSeconds)
	if err != nil {
		return nil, err
	}

	session, err = s.mutate(ctx, session, func(cur *models.QuizSession) error {
		if cur.Completed {
			return models.ErrAlreadyCompleted
		}
		now := time.Now()
		cur.Score = result.Score
		cur.Accuracy = scoring.Accuracy(result.CorrectAnswers, result.TotalQuestions)
		cur.TotalDurationSeconds = result.TimeTakenSeconds
		cur.Completed = true
		cur.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.Results.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("persist result: %w", err)
	}
	s.recordCompletion(ctx, session, result)
	return result, nil
}

// ActiveSessions lists the user's unfinished sessions so a client can offer
// to resume them.
func (s *SessionService) ActiveSessions(ctx context.Context, userID string) ([]models.QuizSession, error) {
	return s.Store.FindActiveByUser(ctx, userID)
}

// GetSession returns the session joined with the questions it served. The
// correct answers are only included once the session is completed.
func (s *SessionService) GetSession(ctx context.Context, sessionID, userID string) (*SessionReview, error) {
	session, err := s.loadOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	questions, err := s.Catalog.FindByIDs(ctx, session.AnsweredIDs())
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	joined := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		if !session.Completed {
			q = q.Sanitized()
		}
		joined[q.ID] = q
	}
	return &SessionReview{Session: session, Questions: joined}, nil
}

// finalize marks the session completed, compiles the result and fans out the
// completion side effects. A session that never accepted an answer is not a
// valid completed quiz and is left untouched.
func (s *SessionService) finalize(ctx context.Context, session *models.QuizSession) (*models.QuizResult, *models.QuizSession, error) {
	if session.Completed {
		return nil, nil, models.ErrAlreadyCompleted
	}
	if len(session.History) == 0 {
		return nil, nil, models.ErrInvalidResult
	}

	session, err := s.mutate(ctx, session, func(cur *models.QuizSession) error {
		if cur.Completed {
			return models.ErrAlreadyCompleted
		}
		if len(cur.History) == 0 {
			return models.ErrInvalidResult
		}
		now := time.Now()
		cur.Accuracy = scoring.Accuracy(cur.CorrectCount(), len(cur.History))
		cur.Completed = true
		cur.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	result, err := scoring.Compile(session)
	if err != nil {
		return nil, nil, err
	}
	if err := s.Results.Create(ctx, result); err != nil {
		return nil, nil, fmt.Errorf("persist result: %w", err)
	}
	s.recordCompletion(ctx, session, result)
	return result, session, nil
}

// recordCompletion notifies the activity record, the leaderboard and the
// event bus. None of these may fail the completion.
func (s *SessionService) recordCompletion(ctx context.Context, session *models.QuizSession, result *models.QuizResult) {
	if s.Activity != nil {
		entry := models.ActivityEntry{
			SessionID:       session.ID,
			Score:           session.Score,
			Accuracy:        session.Accuracy,
			DurationSeconds: session.TotalDurationSeconds,
			CompletedAt:     *session.CompletedAt,
		}
		if err := s.Activity.Append(ctx, session.UserID, entry); err != nil {
			log.Warn().Err(err).Str("session_id", session.ID).Msg("activity append failed")
		}
	}
	if s.Scores != nil {
		if err := s.Scores.Record(ctx, session.CategoryID, session.UserID, session.Score); err != nil {
			log.Warn().Err(err).Str("session_id", session.ID).Msg("leaderboard record failed")
		}
	}
	s.publish("quiz.session.completed", map[string]any{
		"session_id": session.ID,
		"user_id":    session.UserID,
		"score":      result.Score,
		"accuracy":   result.Accuracy,
	})
}

// loadOwned fetches the session and hides other users' sessions behind
// not-found.
func (s *SessionService) loadOwned(ctx context.Context, sessionID, userID string) (*models.QuizSession, error) {
	session, err := s.Store.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, models.ErrSessionNotFound
	}
	return session, nil
}

// mutate runs apply on the session and saves it with a version check. On a
// conflict the session is reloaded, apply re-validated against the fresh
// state and the save retried once; a second conflict surfaces as
// ErrConcurrentModification.
func (s *SessionService) mutate(ctx context.Context, session *models.QuizSession, apply func(*models.QuizSession) error) (*models.QuizSession, error) {
	for attempt := 0; attempt < 2; attempt++ {
		if err := apply(session); err != nil {
			return nil, err
		}
		err := s.Store.Save(ctx, session, session.Version)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return nil, fmt.Errorf("save session: %w", err)
		}
		if attempt == 0 {
			reloaded, lerr := s.Store.FindByID(ctx, session.ID)
			if lerr != nil {
				return nil, lerr
			}
			session = reloaded
		}
	}
	return nil, models.ErrConcurrentModification
}

func (s *SessionService) publish(eventType string, payload map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(eventType, payload); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("event publish failed")
	}
}
