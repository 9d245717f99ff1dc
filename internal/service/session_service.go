package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gyandeep/internal/config"
	"gyandeep/internal/domain"
	"gyandeep/internal/dto"
	"gyandeep/internal/event"
	"gyandeep/internal/metrics"
	"gyandeep/internal/quiz"
	"gyandeep/internal/util"
	"gyandeep/internal/validation"

	"go.uber.org/zap"
)

// EventPublisher is satisfied by *event.Bus.
type EventPublisher interface {
	Publish(ctx context.Context, e event.Event)
}

// SessionService hosts the live quiz engines of authenticated users.
type SessionService interface {
	Start(ctx context.Context, userID string, req dto.StartSessionRequest) (*dto.SessionResponse, error)
	Get(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	Answer(ctx context.Context, userID, sessionID string, option *int) (*dto.SessionResponse, error)
	Next(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	Previous(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	ToggleReview(ctx context.Context, userID, sessionID string) (*dto.ToggleReviewResponse, error)
	Submit(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	Exit(ctx context.Context, userID, sessionID string) error
	// Run sweeps expired sessions until ctx is done.
	Run(ctx context.Context)
	// Shutdown exits every live session.
	Shutdown()
	ActiveSessions() int
}

type liveSession struct {
	id        string
	userID    string
	engine    *quiz.Engine
	startedAt time.Time
}

type finishedSession struct {
	userID     string
	result     domain.QuizResult
	finishedAt time.Time
}

type sessionService struct {
	mu       sync.Mutex
	live     map[string]*liveSession
	finished map[string]*finishedSession

	questions  domain.QuestionRepository
	categories CategoryService
	users      UserService
	publisher  EventPublisher
	metrics    *metrics.Metrics
	cfg        config.QuizConfig
	validator  *validation.Validator
	logger     *zap.Logger

	baseCtx context.Context
	cancel  context.CancelFunc

	newTicker quiz.NewTickerFunc
	shuffle   quiz.ShuffleFunc
	now       func() time.Time
}

// SessionOption customises a SessionService; used by tests to drive time.
type SessionOption func(*sessionService)

func WithTickerFunc(f quiz.NewTickerFunc) SessionOption {
	return func(s *sessionService) { s.newTicker = f }
}

func WithShuffle(f quiz.ShuffleFunc) SessionOption {
	return func(s *sessionService) { s.shuffle = f }
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *sessionService) { s.now = now }
}

func NewSessionService(
	questions domain.QuestionRepository,
	categories CategoryService,
	users UserService,
	publisher EventPublisher,
	m *metrics.Metrics,
	cfg config.QuizConfig,
	logger *zap.Logger,
	opts ...SessionOption,
) SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &sessionService{
		live:       make(map[string]*liveSession),
		finished:   make(map[string]*finishedSession),
		questions:  questions,
		categories: categories,
		users:      users,
		publisher:  publisher,
		metrics:    m,
		cfg:        cfg,
		validator:  validation.NewValidator(),
		logger:     logger,
		baseCtx:    ctx,
		cancel:     cancel,
		newTicker:  quiz.NewRealTicker,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sessionService) defaultSettings() domain.QuizSettings {
	settings := domain.QuizSettings{
		QuestionsPerQuiz: s.cfg.DefaultQuestions,
		TimerMode:        domain.TimerMode(s.cfg.DefaultTimerMode),
		TimerValue:       s.cfg.DefaultTimerValue,
	}
	if len(settings.Validate()) > 0 {
		return domain.DefaultQuizSettings()
	}
	return settings
}

// resolveSettings picks the request settings, then the saved preferences, then the defaults.
func (s *sessionService) resolveSettings(req dto.StartSessionRequest, user *domain.UserProfile) domain.QuizSettings {
	if req.Settings != nil {
		return *req.Settings
	}
	if len(s.validator.ValidateQuizSettings(user.Preferences)) == 0 {
		return user.Preferences
	}
	return s.defaultSettings()
}

func (s *sessionService) Start(ctx context.Context, userID string, req dto.StartSessionRequest) (*dto.SessionResponse, error) {
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	req.Topic = strings.TrimSpace(req.Topic)
	if errs := s.validator.ValidateStartSession(req); len(errs) > 0 {
		return nil, errs
	}

	category, err := s.categories.Resolve(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := s.resolveSettings(req, user)

	effective := settings
	if category != nil && category.MaxQuestions > 0 && category.MaxQuestions < effective.QuestionsPerQuiz {
		effective.QuestionsPerQuiz = category.MaxQuestions
	}

	catalog, err := s.questions.List(ctx, domain.QuestionFilter{Category: req.Category, Type: req.Topic})
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}

	sessionID := util.NewULID()
	engine, err := quiz.NewEngine(catalog, quiz.Config{
		Category:        req.Category,
		Topic:           req.Topic,
		Settings:        effective,
		HonorTimeLimits: s.cfg.HonorQuestionTimeLimits,
		NewTickerFunc:   s.newTicker,
		Shuffle:         s.shuffle,
		Now:             s.now,
		OnComplete: func(res domain.QuizResult) {
			s.complete(sessionID, userID, res)
		},
		Logger: s.logger.With(zap.String("sessionID", sessionID)),
	})
	if err != nil {
		return nil, err
	}
	// Request settings become the stored defaults only once a session can run.
	if req.Settings != nil && *req.Settings != user.Preferences {
		if _, err := s.users.UpdatePreferences(ctx, userID, settings); err != nil {
			s.logger.Warn("Failed to save quiz preferences", zap.String("userID", userID), zap.Error(err))
		}
	}

	s.mu.Lock()
	s.live[sessionID] = &liveSession{id: sessionID, userID: userID, engine: engine, startedAt: s.now()}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SessionStarted(req.Category)
	}
	engine.Start(s.baseCtx)

	s.logger.Info("Quiz session started",
		zap.String("sessionID", sessionID),
		zap.String("userID", userID),
		zap.String("category", req.Category),
		zap.String("topic", req.Topic),
		zap.Int("questions", len(engine.Questions())),
		zap.String("timerMode", string(effective.TimerMode)),
	)
	return sessionView(sessionID, engine.Snapshot()), nil
}

// complete runs once per submitted session, possibly on a ticker goroutine.
func (s *sessionService) complete(sessionID, userID string, res domain.QuizResult) {
	res.SessionID = sessionID
	res.UserID = userID

	s.mu.Lock()
	delete(s.live, sessionID)
	s.finished[sessionID] = &finishedSession{userID: userID, result: res, finishedAt: s.now()}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SessionEnded(res.Category, res.AutoSubmitted, res.Accuracy())
	}
	if s.publisher != nil {
		s.publisher.Publish(s.baseCtx, domain.EventQuizCompleted{Result: res})
	}
}

// lookup returns the caller's live session. Sessions of other users are reported as missing.
func (s *sessionService) lookup(userID, sessionID string) (*liveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.live[sessionID]; ok && l.userID == userID {
		return l, nil
	}
	if f, ok := s.finished[sessionID]; ok && f.userID == userID {
		return nil, domain.ErrSessionClosed
	}
	return nil, domain.NewSessionNotFoundError(sessionID)
}

func (s *sessionService) Get(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	l, err := s.lookup(userID, sessionID)
	if err == nil {
		return sessionView(sessionID, l.engine.Snapshot()), nil
	}
	if errors.Is(err, domain.ErrSessionClosed) {
		if view := s.finishedView(sessionID); view != nil {
			return view, nil
		}
	}
	return nil, err
}

func (s *sessionService) finishedView(sessionID string) *dto.SessionResponse {
	s.mu.Lock()
	f, ok := s.finished[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	res := f.result
	return &dto.SessionResponse{
		SessionID: sessionID,
		Status:    string(quiz.StatusSubmitted),
		Category:  res.Category,
		Topic:     res.Topic,
		Settings:  res.Settings,
		Total:     res.TotalQuestions,
		Answered:  []int{},
		Review:    []int{},
		Elapsed:   res.TimeSpent,
		Result:    dto.NewResultSummary(&res),
	}
}

func (s *sessionService) Answer(ctx context.Context, userID, sessionID string, option *int) (*dto.SessionResponse, error) {
	l, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := l.engine.RecordAnswer(option); err != nil {
		return nil, err
	}
	return sessionView(sessionID, l.engine.Snapshot()), nil
}

func (s *sessionService) Next(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	l, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	ready, err := l.engine.Advance()
	if err != nil {
		return nil, err
	}
	view := sessionView(sessionID, l.engine.Snapshot())
	view.ReadyToSubmit = ready
	return view, nil
}

func (s *sessionService) Previous(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	l, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := l.engine.Retreat(); err != nil {
		return nil, err
	}
	return sessionView(sessionID, l.engine.Snapshot()), nil
}

func (s *sessionService) ToggleReview(ctx context.Context, userID, sessionID string) (*dto.ToggleReviewResponse, error) {
	l, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	flagged, err := l.engine.ToggleReview()
	if err != nil {
		return nil, err
	}
	return &dto.ToggleReviewResponse{Flagged: flagged, Session: sessionView(sessionID, l.engine.Snapshot())}, nil
}

// Submit finalizes the session. The returned view carries the result summary.
func (s *sessionService) Submit(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	l, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := l.engine.Submit(); err != nil {
		return nil, err
	}
	if view := s.finishedView(sessionID); view != nil {
		return view, nil
	}
	return nil, domain.NewSessionNotFoundError(sessionID)
}

// Exit abandons the session without a result.
func (s *sessionService) Exit(ctx context.Context, userID, sessionID string) error {
	l, err := s.lookup(userID, sessionID)
	if err != nil {
		return err
	}
	return s.exit(l, "user")
}

func (s *sessionService) exit(l *liveSession, reason string) error {
	if err := l.engine.Exit(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.live, l.id)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SessionEnded(l.engine.Snapshot().Category, false, -1)
	}
	s.logger.Info("Quiz session exited", zap.String("sessionID", l.id), zap.String("reason", reason))
	return nil
}

func (s *sessionService) Run(ctx context.Context) {
	interval := s.cfg.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep exits sessions older than the session TTL and forgets finished
// sessions past their retention.
func (s *sessionService) sweep() {
	now := s.now()

	s.mu.Lock()
	var expired []*liveSession
	for _, l := range s.live {
		if s.cfg.SessionTTL > 0 && now.Sub(l.startedAt) > s.cfg.SessionTTL {
			expired = append(expired, l)
		}
	}
	for id, f := range s.finished {
		if now.Sub(f.finishedAt) > s.cfg.FinishedRetention {
			delete(s.finished, id)
		}
	}
	s.mu.Unlock()

	for _, l := range expired {
		if err := s.exit(l, "expired"); err != nil && !errors.Is(err, domain.ErrSessionClosed) {
			s.logger.Warn("Failed to exit expired session", zap.String("sessionID", l.id), zap.Error(err))
		}
	}
}

func (s *sessionService) Shutdown() {
	s.mu.Lock()
	sessions := make([]*liveSession, 0, len(s.live))
	for _, l := range s.live {
		sessions = append(sessions, l)
	}
	s.mu.Unlock()

	for _, l := range sessions {
		_ = s.exit(l, "shutdown")
	}
	s.cancel()
}

func (s *sessionService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

func sessionView(sessionID string, snap quiz.Snapshot) *dto.SessionResponse {
	view := &dto.SessionResponse{
		SessionID: sessionID,
		Status:    string(snap.Status),
		Category:  snap.Category,
		Topic:     snap.Topic,
		Settings:  snap.Settings,
		Position:  snap.Position,
		Total:     snap.Total,
		Question:  dto.NewQuestionView(snap.Current),
		Answered:  append([]int{}, snap.Answered...),
		Review:    append([]int{}, snap.Review...),
		Elapsed:   snap.Elapsed,
		Countdown: snap.Countdown,
		Result:    dto.NewResultSummary(snap.Result),
	}
	if snap.CurrentAnswer != nil {
		view.SelectedOption = snap.CurrentAnswer.SelectedOption
	}
	return view
}
