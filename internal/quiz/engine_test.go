package quiz

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gyandeep/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

// fakeClock hands out tickers in creation order: elapsed first, countdown second.
type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (c *fakeClock) NewTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) ticker(i int) *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[i]
}

func (c *fakeClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func noShuffle(int, func(i, j int)) {}

type completions struct {
	mu      sync.Mutex
	results []domain.QuizResult
}

func (c *completions) record(r domain.QuizResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *completions) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

func newTestEngine(t *testing.T, n int, settings domain.QuizSettings, done *completions) *Engine {
	t.Helper()
	cfg := Config{
		Category: "gk",
		Settings: settings,
		Shuffle:  noShuffle,
		NewID:    func() string { return "result-1" },
		Now:      func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
	if done != nil {
		cfg.OnComplete = done.record
	}
	e, err := NewEngine(makeCatalog(n, "gk", ""), cfg)
	require.NoError(t, err)
	return e
}

func intPtr(v int) *int { return &v }

func TestNewEngine_EmptySelection(t *testing.T) {
	e, err := NewEngine(makeCatalog(3, "gk", ""), Config{
		Category: "banking",
		Settings: domain.DefaultQuizSettings(),
	})

	assert.Nil(t, e)
	assert.True(t, errors.Is(err, domain.ErrEmptySelection))
}

func TestNewEngine_RejectsInvalidSettings(t *testing.T) {
	_, err := NewEngine(makeCatalog(3, "gk", ""), Config{
		Category: "gk",
		Settings: domain.QuizSettings{QuestionsPerQuiz: 0, TimerMode: domain.TimerNone},
	})

	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "questionsPerQuiz", verrs[0].Field)
}

func TestNewEngine_InitialState(t *testing.T) {
	tests := map[string]struct {
		settings      domain.QuizSettings
		wantCountdown int
	}{
		"no timer":      {settings: domain.QuizSettings{QuestionsPerQuiz: 5, TimerMode: domain.TimerNone}, wantCountdown: 0},
		"per question":  {settings: domain.QuizSettings{QuestionsPerQuiz: 5, TimerMode: domain.TimerPerQuestion, TimerValue: 30}, wantCountdown: 30},
		"whole session": {settings: domain.QuizSettings{QuestionsPerQuiz: 5, TimerMode: domain.TimerTotalQuiz, TimerValue: 5}, wantCountdown: 300},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e := newTestEngine(t, 8, tc.settings, nil)
			s := e.Snapshot()

			assert.Equal(t, StatusActive, s.Status)
			assert.Equal(t, 0, s.Position)
			assert.Equal(t, 5, s.Total)
			assert.Empty(t, s.Answers)
			assert.Empty(t, s.Review)
			assert.Equal(t, 0, s.Elapsed)
			assert.Equal(t, tc.wantCountdown, s.Countdown)
		})
	}
}

func TestEngine_RecordAnswerReplacesExisting(t *testing.T) {
	e := newTestEngine(t, 3, domain.DefaultQuizSettings(), nil)

	require.NoError(t, e.RecordAnswer(intPtr(1)))
	require.NoError(t, e.RecordAnswer(intPtr(3)))

	s := e.Snapshot()
	require.Len(t, s.Answers, 1)
	assert.Equal(t, s.Current.ID, s.Answers[0].QuestionID)
	assert.Equal(t, 3, *s.Answers[0].SelectedOption)
	assert.Equal(t, 0, s.Answers[0].TimeTaken)

	require.NoError(t, e.RecordAnswer(nil))
	s = e.Snapshot()
	require.Len(t, s.Answers, 1)
	assert.Nil(t, s.Answers[0].SelectedOption)
}

func TestEngine_AnsweredListsOnlySelections(t *testing.T) {
	e := newTestEngine(t, 3, domain.DefaultQuizSettings(), nil)

	require.NoError(t, e.RecordAnswer(nil))
	s := e.Snapshot()
	require.Len(t, s.Answers, 1)
	assert.Empty(t, s.Answered)

	_, err := e.Advance()
	require.NoError(t, err)
	require.NoError(t, e.RecordAnswer(intPtr(0)))
	assert.Equal(t, []int{1}, e.Snapshot().Answered)

	require.NoError(t, e.RecordAnswer(nil))
	assert.Empty(t, e.Snapshot().Answered)
}

func TestEngine_RecordAnswerRejectsOutOfRange(t *testing.T) {
	e := newTestEngine(t, 3, domain.DefaultQuizSettings(), nil)
	require.NoError(t, e.RecordAnswer(intPtr(2)))

	for _, option := range []int{-1, domain.OptionCount, 42} {
		err := e.RecordAnswer(intPtr(option))
		assert.ErrorIs(t, err, domain.ErrInvalidOption, "option %d", option)
	}

	s := e.Snapshot()
	require.Len(t, s.Answers, 1)
	assert.Equal(t, 2, *s.Answers[0].SelectedOption)
}

func TestEngine_RecordAnswerCopiesOption(t *testing.T) {
	e := newTestEngine(t, 3, domain.DefaultQuizSettings(), nil)
	option := 1
	require.NoError(t, e.RecordAnswer(&option))
	option = 3

	assert.Equal(t, 1, *e.Snapshot().Answers[0].SelectedOption)
}

func TestEngine_ToggleReviewTwiceRestoresFlag(t *testing.T) {
	e := newTestEngine(t, 3, domain.DefaultQuizSettings(), nil)
	_, err := e.Advance()
	require.NoError(t, err)

	flagged, err := e.ToggleReview()
	require.NoError(t, err)
	assert.True(t, flagged)
	assert.Equal(t, []int{1}, e.Snapshot().Review)

	flagged, err = e.ToggleReview()
	require.NoError(t, err)
	assert.False(t, flagged)
	assert.Empty(t, e.Snapshot().Review)
}

func TestEngine_RetreatAtFirstQuestionIsNoop(t *testing.T) {
	e := newTestEngine(t, 3, domain.DefaultQuizSettings(), nil)

	require.NoError(t, e.Retreat())
	assert.Equal(t, 0, e.Snapshot().Position)

	_, err := e.Advance()
	require.NoError(t, err)
	require.NoError(t, e.Retreat())
	assert.Equal(t, 0, e.Snapshot().Position)
}

func TestEngine_AdvanceOnLastQuestionSignalsReadyToSubmit(t *testing.T) {
	e := newTestEngine(t, 2, domain.DefaultQuizSettings(), nil)

	ready, err := e.Advance()
	require.NoError(t, err)
	assert.False(t, ready)
	assert.Equal(t, 1, e.Snapshot().Position)

	ready, err = e.Advance()
	require.NoError(t, err)
	assert.True(t, ready)

	s := e.Snapshot()
	assert.Equal(t, 1, s.Position)
	assert.Equal(t, StatusActive, s.Status)
}

func TestEngine_NavigationResetsPerQuestionCountdown(t *testing.T) {
	settings := domain.QuizSettings{QuestionsPerQuiz: 5, TimerMode: domain.TimerPerQuestion, TimerValue: 30}
	e := newTestEngine(t, 5, settings, nil)

	for i := 0; i < 12; i++ {
		e.tickCountdown()
	}
	assert.Equal(t, 18, e.Snapshot().Countdown)

	_, err := e.Advance()
	require.NoError(t, err)
	assert.Equal(t, 30, e.Snapshot().Countdown)

	e.tickCountdown()
	require.NoError(t, e.Retreat())
	assert.Equal(t, 30, e.Snapshot().Countdown)
}

func TestEngine_NavigationKeepsWholeSessionCountdown(t *testing.T) {
	settings := domain.QuizSettings{QuestionsPerQuiz: 5, TimerMode: domain.TimerTotalQuiz, TimerValue: 1}
	e := newTestEngine(t, 5, settings, nil)

	for i := 0; i < 10; i++ {
		e.tickCountdown()
	}
	_, err := e.Advance()
	require.NoError(t, err)

	assert.Equal(t, 50, e.Snapshot().Countdown)
}

func TestEngine_PerQuestionCountdownAdvances(t *testing.T) {
	settings := domain.QuizSettings{QuestionsPerQuiz: 10, TimerMode: domain.TimerPerQuestion, TimerValue: 30}
	done := &completions{}
	e := newTestEngine(t, 10, settings, done)

	for i := 0; i < 2; i++ {
		_, err := e.Advance()
		require.NoError(t, err)
	}
	require.Equal(t, 2, e.Snapshot().Position)

	for i := 0; i < 30; i++ {
		e.tickCountdown()
	}

	s := e.Snapshot()
	assert.Equal(t, 3, s.Position)
	assert.Equal(t, 30, s.Countdown)
	assert.Equal(t, StatusActive, s.Status)
	assert.Zero(t, done.len())
}

func TestEngine_PerQuestionCountdownSubmitsOnLastQuestion(t *testing.T) {
	settings := domain.QuizSettings{QuestionsPerQuiz: 10, TimerMode: domain.TimerPerQuestion, TimerValue: 30}
	done := &completions{}
	e := newTestEngine(t, 10, settings, done)

	for i := 0; i < 9; i++ {
		_, err := e.Advance()
		require.NoError(t, err)
	}
	for i := 0; i < 29; i++ {
		e.tickCountdown()
	}
	require.Equal(t, StatusActive, e.Status())

	e.tickCountdown()

	res, ok := e.Result()
	require.True(t, ok)
	assert.Equal(t, StatusSubmitted, e.Status())
	assert.True(t, res.AutoSubmitted)
	assert.Equal(t, 10, res.TotalQuestions)
	assert.Equal(t, 9, e.Snapshot().Position)
	assert.Equal(t, 0, e.Snapshot().Countdown)
	assert.Equal(t, 1, done.len())
}

func TestEngine_WholeSessionCountdownSubmits(t *testing.T) {
	settings := domain.QuizSettings{QuestionsPerQuiz: 10, TimerMode: domain.TimerTotalQuiz, TimerValue: 5}
	done := &completions{}
	e := newTestEngine(t, 10, settings, done)

	for i := 0; i < 4; i++ {
		if i < 2 {
			require.NoError(t, e.RecordAnswer(intPtr(0)))
		}
		_, err := e.Advance()
		require.NoError(t, err)
	}
	require.Equal(t, 4, e.Snapshot().Position)

	for i := 0; i < 300; i++ {
		e.tickCountdown()
	}

	res, ok := e.Result()
	require.True(t, ok)
	assert.True(t, res.AutoSubmitted)
	assert.Equal(t, 8, res.SkippedCount)
	assert.Equal(t, 2, res.CorrectCount+res.WrongCount)
	assert.Equal(t, 1, done.len())

	e.tickCountdown()
	assert.Equal(t, 0, e.Snapshot().Countdown)
}

func TestEngine_SubmitScoring(t *testing.T) {
	settings := domain.QuizSettings{QuestionsPerQuiz: 10, TimerMode: domain.TimerNone}
	done := &completions{}
	e := newTestEngine(t, 10, settings, done)

	// positions 0-5 correct, 6-7 wrong, 8 explicitly none, 9 untouched
	for pos := 0; pos < 10; pos++ {
		q := e.Snapshot().Current
		switch {
		case pos < 6:
			require.NoError(t, e.RecordAnswer(intPtr(q.CorrectAnswer)))
		case pos < 8:
			require.NoError(t, e.RecordAnswer(intPtr((q.CorrectAnswer+1)%domain.OptionCount)))
		case pos == 8:
			require.NoError(t, e.RecordAnswer(nil))
		}
		_, err := e.Advance()
		require.NoError(t, err)
	}

	for i := 0; i < 7; i++ {
		e.tickElapsed()
	}

	res, err := e.Submit()
	require.NoError(t, err)

	assert.Equal(t, "result-1", res.ID)
	assert.Equal(t, "gk", res.QuizID)
	assert.Equal(t, "gk", res.Category)
	assert.Equal(t, 12, res.Score)
	assert.Equal(t, 10, res.TotalQuestions)
	assert.Equal(t, 6, res.CorrectCount)
	assert.Equal(t, 2, res.WrongCount)
	assert.Equal(t, 2, res.SkippedCount)
	assert.Equal(t, res.TotalQuestions, res.CorrectCount+res.WrongCount+res.SkippedCount)
	assert.Equal(t, 7, res.TimeSpent)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), res.Date)
	assert.Len(t, res.Answers, 9)
	assert.Len(t, res.QuestionIDs, 10)
	assert.Equal(t, settings, res.Settings)
	assert.False(t, res.AutoSubmitted)
	assert.Equal(t, 60, res.Accuracy())

	require.Equal(t, 1, done.len())
	assert.Equal(t, res, done.results[0])
}

func TestEngine_OperationsRejectedAfterSubmit(t *testing.T) {
	settings := domain.QuizSettings{QuestionsPerQuiz: 3, TimerMode: domain.TimerPerQuestion, TimerValue: 10}
	done := &completions{}
	e := newTestEngine(t, 3, settings, done)
	e.tickElapsed()

	_, err := e.Submit()
	require.NoError(t, err)
	before := e.Snapshot()

	assert.ErrorIs(t, e.RecordAnswer(intPtr(1)), domain.ErrSessionClosed)
	_, err = e.Advance()
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.ErrorIs(t, e.Retreat(), domain.ErrSessionClosed)
	_, err = e.ToggleReview()
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	_, err = e.Submit()
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.ErrorIs(t, e.Exit(), domain.ErrSessionClosed)

	e.tickElapsed()
	e.tickCountdown()

	after := e.Snapshot()
	assert.Equal(t, before.Elapsed, after.Elapsed)
	assert.Equal(t, before.Countdown, after.Countdown)
	assert.Equal(t, before.Position, after.Position)
	assert.Equal(t, 1, done.len())

	select {
	case <-e.Done():
	default:
		t.Fatal("done channel should be closed after submit")
	}
}

func TestEngine_TickersDriveElapsedAndStopOnSubmit(t *testing.T) {
	clock := &fakeClock{}
	e, err := NewEngine(makeCatalog(3, "gk", ""), Config{
		Category:      "gk",
		Settings:      domain.QuizSettings{QuestionsPerQuiz: 3, TimerMode: domain.TimerPerQuestion, TimerValue: 20},
		NewTickerFunc: clock.NewTicker,
	})
	require.NoError(t, err)

	e.Start(context.Background())
	require.Equal(t, 2, clock.count())
	elapsed, countdown := clock.ticker(0), clock.ticker(1)

	for i := 0; i < 3; i++ {
		elapsed.ch <- time.Now()
	}
	countdown.ch <- time.Now()

	require.Eventually(t, func() bool {
		s := e.Snapshot()
		return s.Elapsed == 3 && s.Countdown == 19
	}, time.Second, 5*time.Millisecond)

	res, err := e.Submit()
	require.NoError(t, err)
	assert.Equal(t, 3, res.TimeSpent)

	assert.True(t, elapsed.stopped.Load())
	assert.True(t, countdown.stopped.Load())

	select {
	case elapsed.ch <- time.Now():
		t.Fatal("elapsed tick consumed after submit")
	case countdown.ch <- time.Now():
		t.Fatal("countdown tick consumed after submit")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 3, e.Snapshot().Elapsed)
}

func TestEngine_NoTimerStartsOnlyElapsedTicker(t *testing.T) {
	clock := &fakeClock{}
	e, err := NewEngine(makeCatalog(3, "gk", ""), Config{
		Category:      "gk",
		Settings:      domain.QuizSettings{QuestionsPerQuiz: 3, TimerMode: domain.TimerNone},
		NewTickerFunc: clock.NewTicker,
	})
	require.NoError(t, err)

	e.Start(context.Background())
	assert.Equal(t, 1, clock.count())
	require.NoError(t, e.Exit())
	assert.True(t, clock.ticker(0).stopped.Load())
}

func TestEngine_CountdownTickerAutoSubmits(t *testing.T) {
	clock := &fakeClock{}
	done := &completions{}
	e, err := NewEngine(makeCatalog(2, "gk", ""), Config{
		Category:      "gk",
		Settings:      domain.QuizSettings{QuestionsPerQuiz: 2, TimerMode: domain.TimerPerQuestion, TimerValue: 1},
		NewTickerFunc: clock.NewTicker,
		OnComplete:    done.record,
	})
	require.NoError(t, err)

	e.Start(context.Background())
	countdown := clock.ticker(1)

	countdown.ch <- time.Now()
	require.Eventually(t, func() bool { return e.Snapshot().Position == 1 }, time.Second, 5*time.Millisecond)

	countdown.ch <- time.Now()
	select {
	case <-e.Done():
	case <-time.After(time.Second):
		t.Fatal("session did not auto-submit")
	}

	require.Eventually(t, func() bool {
		return clock.ticker(0).stopped.Load() && countdown.stopped.Load() && done.len() == 1
	}, time.Second, 5*time.Millisecond)

	res, ok := e.Result()
	require.True(t, ok)
	assert.True(t, res.AutoSubmitted)
	assert.Equal(t, 2, res.SkippedCount)
}

func TestEngine_ExitStopsTickersWithoutResult(t *testing.T) {
	clock := &fakeClock{}
	done := &completions{}
	e, err := NewEngine(makeCatalog(3, "gk", ""), Config{
		Category:      "gk",
		Settings:      domain.QuizSettings{QuestionsPerQuiz: 3, TimerMode: domain.TimerTotalQuiz, TimerValue: 1},
		NewTickerFunc: clock.NewTicker,
		OnComplete:    done.record,
	})
	require.NoError(t, err)
	e.Start(context.Background())

	require.NoError(t, e.Exit())

	assert.Equal(t, StatusExited, e.Status())
	assert.True(t, clock.ticker(0).stopped.Load())
	assert.True(t, clock.ticker(1).stopped.Load())
	_, ok := e.Result()
	assert.False(t, ok)
	assert.Zero(t, done.len())
}

func TestEngine_ContextCancellationExits(t *testing.T) {
	clock := &fakeClock{}
	e, err := NewEngine(makeCatalog(3, "gk", ""), Config{
		Category:      "gk",
		Settings:      domain.QuizSettings{QuestionsPerQuiz: 3, TimerMode: domain.TimerNone},
		NewTickerFunc: clock.NewTicker,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	e.Start(ctx)
	cancel()

	select {
	case <-e.Done():
	case <-time.After(time.Second):
		t.Fatal("session did not exit on context cancellation")
	}
	assert.Equal(t, StatusExited, e.Status())
	assert.ErrorIs(t, e.RecordAnswer(intPtr(0)), domain.ErrSessionClosed)
	require.Eventually(t, func() bool { return clock.ticker(0).stopped.Load() }, time.Second, 5*time.Millisecond)
}

func TestEngine_HonorTimeLimits(t *testing.T) {
	catalog := makeCatalog(3, "gk", "")
	catalog[0].TimeLimit = 45
	catalog[2].TimeLimit = 15

	newEngine := func(honor bool) *Engine {
		e, err := NewEngine(catalog, Config{
			Category:        "gk",
			Settings:        domain.QuizSettings{QuestionsPerQuiz: 3, TimerMode: domain.TimerPerQuestion, TimerValue: 30},
			Shuffle:         noShuffle,
			HonorTimeLimits: honor,
		})
		require.NoError(t, err)
		return e
	}

	e := newEngine(true)
	assert.Equal(t, 45, e.Snapshot().Countdown)
	_, _ = e.Advance()
	assert.Equal(t, 30, e.Snapshot().Countdown)
	_, _ = e.Advance()
	assert.Equal(t, 15, e.Snapshot().Countdown)

	e = newEngine(false)
	assert.Equal(t, 30, e.Snapshot().Countdown)
}
