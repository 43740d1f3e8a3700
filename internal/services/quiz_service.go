package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/events"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/quiz"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

// QuestionCatalog is the read side of the question bank used by the service and handlers
type QuestionCatalog interface {
	ListUnits() []string
	ListModules(unit string) ([]string, error)
	ListCourses(unit, module string) ([]string, error)
	GetQuestions(unit, module, course string) ([]models.Question, error)
}

// QuizService drives quiz sessions on behalf of the HTTP layer
type QuizService interface {
	Start(ctx context.Context, req *models.QuizConfig) (*SessionView, error)
	Get(ctx context.Context, id string) (*SessionView, error)
	SelectOption(ctx context.Context, id string, optionID int) (*SessionView, error)
	Confirm(ctx context.Context, id string) (*SessionView, error)
	ToggleFlag(ctx context.Context, id string) (*SessionView, error)
	Next(ctx context.Context, id string) (*SessionView, error)
	Previous(ctx context.Context, id string) (*SessionView, error)
	GoTo(ctx context.Context, id string, index int) (*SessionView, error)
	Submit(ctx context.Context, id string) (*models.ScoreReport, error)
	Retry(ctx context.Context, id string) (*SessionView, error)
	Abandon(ctx context.Context, id string) error
	Report(ctx context.Context, id string) (*models.ScoreReport, error)
	ExportReport(ctx context.Context, id string) ([]byte, error)
	Close()
}

// QuizServiceConfig carries the tunables of the quiz service
type QuizServiceConfig struct {
	// DefaultTimeLimit applies when a start request has no time limit. Zero disables the countdown.
	DefaultTimeLimit time.Duration
	PassThreshold    float64
	// CountdownTick is the countdown resolution; one second when zero.
	CountdownTick time.Duration
}

// sessionEntry serializes access to one active session
type sessionEntry struct {
	mu        sync.Mutex
	id        string
	session   *quiz.Session
	countdown *quiz.Countdown
	timeLimit time.Duration
	// abandoned is set once the entry left the registry; later holders must not touch the session.
	abandoned bool
}

// lock takes e.mu. It fails when the entry was abandoned while the caller waited.
func (e *sessionEntry) lock() error {
	e.mu.Lock()
	if e.abandoned {
		e.mu.Unlock()
		return ErrSessionNotFound
	}
	return nil
}

type quizService struct {
	catalog     QuestionCatalog
	persistence *quiz.Persistence
	publisher   events.EventPublisher
	validator   *validator.Validator
	logger      *slog.Logger
	opLogger    *ServiceLogger
	config      QuizServiceConfig

	mu       sync.Mutex
	sessions map[string]*sessionEntry

	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewQuizService creates the quiz service. publisher may be nil.
func NewQuizService(catalog QuestionCatalog, persistence *quiz.Persistence, publisher events.EventPublisher, validator *validator.Validator, logger *slog.Logger, config QuizServiceConfig) QuizService {
	if config.PassThreshold <= 0 {
		config.PassThreshold = models.DefaultPassThreshold
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &quizService{
		catalog:     catalog,
		persistence: persistence,
		publisher:   publisher,
		validator:   validator,
		logger:      logger,
		opLogger:    NewServiceLogger(logger, "quiz"),
		config:      config,
		sessions:    make(map[string]*sessionEntry),
		baseCtx:     ctx,
		cancel:      cancel,
	}
}

// ===== SESSION LIFECYCLE =====

func (s *quizService) Start(ctx context.Context, req *models.QuizConfig) (view *SessionView, err error) {
	op := s.opLogger.WithOperation(ctx, "start", "")
	defer func() {
		id := ""
		if view != nil {
			id = view.ID
		}
		op.LogResult(id, err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	questions, err := s.catalog.GetQuestions(req.Unit, req.Module, req.Course)
	if err != nil {
		return nil, err
	}
	if len(questions) > req.QuestionCount {
		questions = questions[:req.QuestionCount]
	}
	if len(questions) == 0 {
		return nil, ErrInvalidSessionInput
	}

	key := quiz.SessionKey{
		Unit:          req.Unit,
		Module:        req.Module,
		Course:        req.Course,
		QuestionCount: req.QuestionCount,
	}
	id := key.ID()

	timeLimit := s.config.DefaultTimeLimit
	if req.TimeLimitSeconds > 0 {
		timeLimit = time.Duration(req.TimeLimitSeconds) * time.Second
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[id]; ok {
		entry.mu.Lock()
		defer entry.mu.Unlock()
		if !entry.session.Completed() {
			view := s.view(entry)
			view.Resumed = true
			return view, nil
		}
		entry.stopCountdown()
		entry.abandoned = true
		delete(s.sessions, id)
	}

	entry, err := s.newEntry(ctx, id, key, questions, timeLimit)
	if err != nil {
		return nil, err
	}
	s.sessions[id] = entry

	eventType := events.EventQuizStarted
	if entry.session.Restored() {
		eventType = events.EventQuizResumed
	}
	s.publish(ctx, eventType, sessionEventData(entry.session))

	entry.mu.Lock()
	defer entry.mu.Unlock()
	view = s.view(entry)
	view.Resumed = entry.session.Restored()
	return view, nil
}

func (s *quizService) newEntry(ctx context.Context, id string, key quiz.SessionKey, questions []models.Question, timeLimit time.Duration) (*sessionEntry, error) {
	session, err := quiz.NewSession(ctx, questions, key, s.persistence,
		quiz.WithLogger(s.logger.With("session_key", key.String())),
		quiz.WithPassThreshold(s.config.PassThreshold))
	if err != nil {
		if errors.Is(err, quiz.ErrEmptySession) {
			return nil, ErrInvalidSessionInput
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	entry := &sessionEntry{id: id, session: session, timeLimit: timeLimit}
	s.startCountdown(entry)
	return entry, nil
}

// startCountdown arms the entry countdown. Callers hold entry.mu or own the entry exclusively.
func (s *quizService) startCountdown(entry *sessionEntry) {
	if entry.timeLimit <= 0 {
		return
	}
	var cd *quiz.Countdown
	cd = quiz.NewCountdown(entry.timeLimit, s.config.CountdownTick, func() {
		s.expire(entry, cd)
	})
	entry.countdown = cd
	cd.Start(s.baseCtx)
}

// expire submits the session when cd is still the entry's countdown. A countdown replaced by
// Retry while it was waiting for the lock is ignored.
func (s *quizService) expire(entry *sessionEntry, cd *quiz.Countdown) {
	if err := entry.lock(); err != nil {
		return
	}
	defer entry.mu.Unlock()

	if entry.countdown != cd || !entry.session.Submit(s.baseCtx) {
		return
	}
	s.logger.InfoContext(s.baseCtx, "Quiz time limit reached", "session_id", entry.id)
	s.publish(s.baseCtx, events.EventQuizTimedOut, completedEventData(entry.session))
}

func (e *sessionEntry) stopCountdown() {
	if e.countdown != nil {
		e.countdown.Stop()
	}
}

// lookup returns the active entry for id. When the process restarted, the session is rebuilt
// from the catalog if a persisted record still exists for its key.
func (s *quizService) lookup(ctx context.Context, id string) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[id]; ok {
		return entry, nil
	}

	key, err := quiz.ParseSessionID(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if s.persistence == nil {
		return nil, ErrSessionNotFound
	}
	if _, ok := s.persistence.Load(ctx, key); !ok {
		return nil, ErrSessionNotFound
	}

	questions, err := s.catalog.GetQuestions(key.Unit, key.Module, key.Course)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if len(questions) > key.QuestionCount {
		questions = questions[:key.QuestionCount]
	}

	// The remaining time of a countdown is not persisted, so a rebuilt session runs untimed.
	entry, err := s.newEntry(ctx, id, key, questions, 0)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	s.sessions[id] = entry
	s.logger.InfoContext(ctx, "Rebuilt quiz session from persisted state", "session_id", id)
	s.publish(ctx, events.EventQuizResumed, sessionEventData(entry.session))
	return entry, nil
}

// acquire returns the entry for id with entry.mu held. Callers unlock it.
func (s *quizService) acquire(ctx context.Context, id string) (*sessionEntry, error) {
	entry, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.lock(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *quizService) Get(ctx context.Context, id string) (*SessionView, error) {
	entry, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()
	return s.view(entry), nil
}

// mutate runs fn on the session under the entry lock and returns the resulting view.
func (s *quizService) mutate(ctx context.Context, operation, id string, fn func(*sessionEntry) error) (view *SessionView, err error) {
	op := s.opLogger.WithOperation(ctx, operation, id)
	defer func() { op.LogResult(id, err) }()

	entry, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	if err := fn(entry); err != nil {
		return nil, err
	}
	return s.view(entry), nil
}

// ===== ANSWERING AND NAVIGATION =====

func (s *quizService) SelectOption(ctx context.Context, id string, optionID int) (*SessionView, error) {
	return s.mutate(ctx, "select_option", id, func(e *sessionEntry) error {
		if e.session.Completed() {
			return nil
		}
		current := e.session.Current()
		if !current.HasOption(optionID) {
			return fmt.Errorf("%w: option %d on question %d", ErrOptionNotFound, optionID, current.ID)
		}
		e.session.SelectOption(ctx, optionID)
		return nil
	})
}

func (s *quizService) Confirm(ctx context.Context, id string) (*SessionView, error) {
	return s.mutate(ctx, "confirm", id, func(e *sessionEntry) error {
		if !e.session.ConfirmCurrent(ctx) {
			return nil
		}
		current := e.session.Current()
		selected := e.session.Selected(current.ID)
		s.publish(ctx, events.EventAnswerConfirmed, events.AnswerConfirmedEvent{
			SessionKey: e.session.Key().String(),
			QuestionID: current.ID,
			Selected:   selected,
			Correct:    current.IsCorrect(selected),
		})
		return nil
	})
}

func (s *quizService) ToggleFlag(ctx context.Context, id string) (*SessionView, error) {
	return s.mutate(ctx, "toggle_flag", id, func(e *sessionEntry) error {
		e.session.ToggleFlag(ctx)
		return nil
	})
}

func (s *quizService) Next(ctx context.Context, id string) (*SessionView, error) {
	return s.mutate(ctx, "next", id, func(e *sessionEntry) error {
		e.session.GoNext(ctx)
		return nil
	})
}

func (s *quizService) Previous(ctx context.Context, id string) (*SessionView, error) {
	return s.mutate(ctx, "previous", id, func(e *sessionEntry) error {
		e.session.GoPrevious(ctx)
		return nil
	})
}

func (s *quizService) GoTo(ctx context.Context, id string, index int) (*SessionView, error) {
	return s.mutate(ctx, "goto", id, func(e *sessionEntry) error {
		if index < 0 || index >= e.session.Len() {
			return NewValidationError("index", fmt.Sprintf("must be between 0 and %d", e.session.Len()-1), index)
		}
		e.session.GoTo(ctx, index)
		return nil
	})
}

// ===== COMPLETION =====

func (s *quizService) Submit(ctx context.Context, id string) (report *models.ScoreReport, err error) {
	op := s.opLogger.WithOperation(ctx, "submit", id)
	defer func() { op.LogResult(id, err) }()

	entry, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	if entry.session.Submit(ctx) {
		entry.stopCountdown()
		s.publish(ctx, events.EventQuizSubmitted, completedEventData(entry.session))
	}

	r := entry.session.Report()
	return &r, nil
}

func (s *quizService) Retry(ctx context.Context, id string) (*SessionView, error) {
	return s.mutate(ctx, "retry", id, func(e *sessionEntry) error {
		e.stopCountdown()
		e.session.Reset(ctx)
		s.startCountdown(e)
		s.publish(ctx, events.EventQuizRetried, sessionEventData(e.session))
		return nil
	})
}

func (s *quizService) Abandon(ctx context.Context, id string) (err error) {
	op := s.opLogger.WithOperation(ctx, "abandon", id)
	defer func() { op.LogResult(id, err) }()

	entry, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := entry.lock(); err != nil {
		s.mu.Unlock()
		return err
	}
	defer entry.mu.Unlock()
	if s.sessions[id] == entry {
		delete(s.sessions, id)
	}
	entry.abandoned = true
	s.mu.Unlock()

	entry.stopCountdown()
	if s.persistence != nil {
		s.persistence.Remove(ctx, entry.session.Key())
	}
	s.publish(ctx, events.EventQuizAbandoned, sessionEventData(entry.session))
	return nil
}

func (s *quizService) Report(ctx context.Context, id string) (*models.ScoreReport, error) {
	entry, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	r := entry.session.Report()
	return &r, nil
}

// Close stops every countdown and the event publisher
func (s *quizService) Close() {
	s.cancel()
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Warn("Failed to close event publisher", "error", err)
		}
	}
}

// ===== HELPERS =====

func (s *quizService) view(entry *sessionEntry) *SessionView {
	var remaining *int
	if entry.countdown != nil && !entry.session.Completed() {
		secs := int(entry.countdown.Remaining().Seconds())
		remaining = &secs
	}
	return newSessionView(entry.id, entry.session, remaining)
}

func (s *quizService) publish(ctx context.Context, eventType events.EventType, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewQuizEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish quiz event", "event_type", eventType, "error", err)
	}
}

func sessionEventData(session *quiz.Session) events.SessionEvent {
	key := session.Key()
	return events.SessionEvent{
		SessionKey:    key.String(),
		Unit:          key.Unit,
		Module:        key.Module,
		Course:        key.Course,
		QuestionCount: key.QuestionCount,
	}
}

func completedEventData(session *quiz.Session) events.SessionCompletedEvent {
	key := session.Key()
	report := session.Report()
	return events.SessionCompletedEvent{
		SessionKey: key.String(),
		Unit:       key.Unit,
		Module:     key.Module,
		Correct:    report.Score.Correct,
		Total:      report.Score.Total,
		Percentage: report.Score.Percentage,
		Passed:     report.Passed,
	}
}
