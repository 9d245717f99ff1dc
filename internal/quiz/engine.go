package quiz

import (
	"context"
	"sort"
	"sync"
	"time"

	"gyandeep/internal/domain"
	"gyandeep/internal/util"

	"go.uber.org/zap"
)

const tickInterval = time.Second

// Status is the lifecycle state of an engine.
type Status string

const (
	StatusActive    Status = "active"
	StatusSubmitted Status = "submitted"
	StatusExited    Status = "exited"
)

// Config carries everything a session needs besides the catalog.
type Config struct {
	Category string
	Topic    string
	Settings domain.QuizSettings

	// HonorTimeLimits makes a question's own TimeLimit its per-question countdown.
	HonorTimeLimits bool

	NewTickerFunc NewTickerFunc
	Shuffle       ShuffleFunc
	Now           func() time.Time
	NewID         func() string

	// OnComplete receives the result exactly once, outside the engine lock.
	// It may run on a ticker goroutine and must not call back into the engine synchronously.
	OnComplete func(domain.QuizResult)

	Logger *zap.Logger
}

// Snapshot is a read-only copy of the live session state.
type Snapshot struct {
	Status        Status
	Position      int
	Total         int
	Current       *domain.Question
	CurrentAnswer *domain.UserAnswer
	Answers       []domain.UserAnswer
	Answered      []int
	Review        []int
	Elapsed       int
	Countdown     int
	Category      string
	Topic         string
	Settings      domain.QuizSettings
	Result        *domain.QuizResult
}

// Engine runs one quiz session: a fixed question sequence, navigation, answer
// recording, the elapsed and countdown tickers, and the final tally.
type Engine struct {
	mu sync.Mutex

	category        string
	topic           string
	settings        domain.QuizSettings
	honorTimeLimits bool
	questions       []*domain.Question

	position  int
	answers   []domain.UserAnswer
	answerIdx map[string]int
	review    map[int]struct{}
	elapsed   int
	countdown int
	status    Status
	result    *domain.QuizResult

	startOnce sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	done      chan struct{}

	newTicker  NewTickerFunc
	now        func() time.Time
	newID      func() string
	onComplete func(domain.QuizResult)
	logger     *zap.Logger
}

// NewEngine selects the session's questions from catalog. It returns
// domain.ErrEmptySelection when nothing matches; no session exists then.
func NewEngine(catalog []*domain.Question, cfg Config) (*Engine, error) {
	if errs := cfg.Settings.Validate(); len(errs) > 0 {
		return nil, errs
	}

	category := cfg.Category
	if category == "" {
		category = domain.AllCategories
	}

	questions := SelectQuestions(catalog, category, cfg.Topic, cfg.Settings.QuestionsPerQuiz, cfg.Shuffle)
	if len(questions) == 0 {
		return nil, domain.ErrEmptySelection
	}

	e := &Engine{
		category:        category,
		topic:           cfg.Topic,
		settings:        cfg.Settings,
		honorTimeLimits: cfg.HonorTimeLimits,
		questions:       questions,
		answerIdx:       make(map[string]int),
		review:          make(map[int]struct{}),
		status:          StatusActive,
		done:            make(chan struct{}),
		newTicker:       cfg.NewTickerFunc,
		now:             cfg.Now,
		newID:           cfg.NewID,
		onComplete:      cfg.OnComplete,
		logger:          cfg.Logger,
	}
	if e.newTicker == nil {
		e.newTicker = NewRealTicker
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = util.NewULID
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}

	e.countdown = cfg.Settings.InitialCountdown()
	if e.settings.TimerMode == domain.TimerPerQuestion {
		e.countdown = e.questionCountdownLocked()
	}
	return e, nil
}

// Start launches the elapsed ticker and, unless the timer mode is none, the
// countdown ticker. Cancelling ctx exits the session.
func (e *Engine) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.status != StatusActive {
			return
		}

		runCtx, cancel := context.WithCancel(ctx)
		e.cancel = cancel

		e.wg.Add(1)
		go e.run(runCtx, e.newTicker(tickInterval), e.tickElapsed)

		if e.settings.TimerMode != domain.TimerNone {
			e.wg.Add(1)
			go e.run(runCtx, e.newTicker(tickInterval), e.tickCountdown)
		}
	})
}

func (e *Engine) run(ctx context.Context, t Ticker, tick func()) {
	defer e.wg.Done()
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			e.abandon()
			return
		case <-t.C():
			tick()
		}
	}
}

func (e *Engine) tickElapsed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusActive {
		return
	}
	e.elapsed++
}

func (e *Engine) tickCountdown() {
	e.mu.Lock()
	if e.status != StatusActive || e.settings.TimerMode == domain.TimerNone {
		e.mu.Unlock()
		return
	}

	if e.countdown > 0 {
		e.countdown--
	}
	if e.countdown > 0 {
		e.mu.Unlock()
		return
	}

	if e.settings.TimerMode == domain.TimerPerQuestion && e.position < len(e.questions)-1 {
		e.moveLocked(e.position + 1)
		e.logger.Debug("Countdown expired, advancing", zap.Int("position", e.position))
		e.mu.Unlock()
		return
	}

	res := e.finalizeLocked(true)
	e.mu.Unlock()

	e.deliver(res)
}

// abandon ends the session without a result when the run context is cancelled.
func (e *Engine) abandon() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusActive {
		return
	}
	e.status = StatusExited
	close(e.done)
	e.logger.Debug("Quiz session abandoned", zap.String("category", e.category))
}

// RecordAnswer stores option (nil for "no selection") for the current
// question, replacing any earlier answer.
func (e *Engine) RecordAnswer(option *int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusActive {
		return domain.ErrSessionClosed
	}

	var selected *int
	if option != nil {
		if *option < 0 || *option >= domain.OptionCount {
			return domain.ErrInvalidOption
		}
		v := *option
		selected = &v
	}

	q := e.questions[e.position]
	answer := domain.UserAnswer{QuestionID: q.ID, SelectedOption: selected}
	if idx, ok := e.answerIdx[q.ID]; ok {
		e.answers[idx] = answer
		return nil
	}
	e.answerIdx[q.ID] = len(e.answers)
	e.answers = append(e.answers, answer)
	return nil
}

// Advance moves to the next question. On the last question it reports
// readyToSubmit and leaves the position unchanged.
func (e *Engine) Advance() (readyToSubmit bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusActive {
		return false, domain.ErrSessionClosed
	}
	if e.position >= len(e.questions)-1 {
		return true, nil
	}
	e.moveLocked(e.position + 1)
	return false, nil
}

// Retreat moves to the previous question; at the first question it does nothing.
func (e *Engine) Retreat() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusActive {
		return domain.ErrSessionClosed
	}
	if e.position > 0 {
		e.moveLocked(e.position - 1)
	}
	return nil
}

// ToggleReview flips the review flag of the current position and returns the new value.
func (e *Engine) ToggleReview() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusActive {
		return false, domain.ErrSessionClosed
	}
	if _, ok := e.review[e.position]; ok {
		delete(e.review, e.position)
		return false, nil
	}
	e.review[e.position] = struct{}{}
	return true, nil
}

// Submit finalizes the session, stops both tickers and returns the result.
func (e *Engine) Submit() (domain.QuizResult, error) {
	e.mu.Lock()
	if e.status != StatusActive {
		e.mu.Unlock()
		return domain.QuizResult{}, domain.ErrSessionClosed
	}
	res := e.finalizeLocked(false)
	e.mu.Unlock()

	e.wg.Wait()
	e.deliver(res)
	return res, nil
}

// Exit ends the session without producing a result.
func (e *Engine) Exit() error {
	e.mu.Lock()
	if e.status != StatusActive {
		e.mu.Unlock()
		return domain.ErrSessionClosed
	}
	e.status = StatusExited
	e.stopLocked()
	e.mu.Unlock()

	e.wg.Wait()
	return nil
}

// Done is closed when the session terminates for any reason.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Result returns the summary once the session has been submitted.
func (e *Engine) Result() (domain.QuizResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return domain.QuizResult{}, false
	}
	return *e.result, true
}

// Questions returns the selected sequence in session order.
func (e *Engine) Questions() []*domain.Question {
	out := make([]*domain.Question, len(e.questions))
	copy(out, e.questions)
	return out
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Status:    e.status,
		Position:  e.position,
		Total:     len(e.questions),
		Current:   e.questions[e.position],
		Answers:   copyAnswers(e.answers),
		Elapsed:   e.elapsed,
		Countdown: e.countdown,
		Category:  e.category,
		Topic:     e.topic,
		Settings:  e.settings,
	}
	if idx, ok := e.answerIdx[s.Current.ID]; ok {
		a := s.Answers[idx]
		s.CurrentAnswer = &a
	}
	for pos, q := range e.questions {
		if idx, ok := e.answerIdx[q.ID]; ok && e.answers[idx].SelectedOption != nil {
			s.Answered = append(s.Answered, pos)
		}
	}
	for pos := range e.review {
		s.Review = append(s.Review, pos)
	}
	sort.Ints(s.Review)
	if e.result != nil {
		res := *e.result
		s.Result = &res
	}
	return s
}

func (e *Engine) moveLocked(position int) {
	e.position = position
	if e.settings.TimerMode == domain.TimerPerQuestion {
		e.countdown = e.questionCountdownLocked()
	}
}

func (e *Engine) questionCountdownLocked() int {
	if e.honorTimeLimits {
		if limit := e.questions[e.position].TimeLimit; limit > 0 {
			return limit
		}
	}
	return e.settings.TimerValue
}

func (e *Engine) finalizeLocked(auto bool) domain.QuizResult {
	var correct, wrong, skipped int
	for _, q := range e.questions {
		idx, ok := e.answerIdx[q.ID]
		if !ok || e.answers[idx].SelectedOption == nil {
			skipped++
			continue
		}
		if *e.answers[idx].SelectedOption == q.CorrectAnswer {
			correct++
		} else {
			wrong++
		}
	}

	ids := make([]string, len(e.questions))
	for i, q := range e.questions {
		ids[i] = q.ID
	}

	res := domain.QuizResult{
		ID:             e.newID(),
		QuizID:         e.category,
		Category:       e.category,
		Topic:          e.topic,
		Score:          correct * domain.PointsPerCorrect,
		TotalQuestions: len(e.questions),
		CorrectCount:   correct,
		WrongCount:     wrong,
		SkippedCount:   skipped,
		TimeSpent:      e.elapsed,
		Date:           e.now(),
		Answers:        copyAnswers(e.answers),
		Settings:       e.settings,
		QuestionIDs:    ids,
		AutoSubmitted:  auto,
	}

	e.status = StatusSubmitted
	e.result = &res
	e.stopLocked()
	return res
}

func (e *Engine) stopLocked() {
	if e.cancel != nil {
		e.cancel()
	}
	close(e.done)
}

func (e *Engine) deliver(res domain.QuizResult) {
	e.logger.Info("Quiz session completed",
		zap.String("result_id", res.ID),
		zap.String("category", res.Category),
		zap.Int("score", res.Score),
		zap.Bool("auto_submitted", res.AutoSubmitted),
	)
	if e.onComplete != nil {
		e.onComplete(res)
	}
}

func copyAnswers(in []domain.UserAnswer) []domain.UserAnswer {
	out := make([]domain.UserAnswer, len(in))
	for i, a := range in {
		out[i] = a
		if a.SelectedOption != nil {
			v := *a.SelectedOption
			out[i].SelectedOption = &v
		}
	}
	return out
}
