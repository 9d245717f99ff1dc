package quiz

import "time"

// Ticker is the periodic source that drives the elapsed and countdown processes.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// NewTickerFunc builds a Ticker with the given period.
type NewTickerFunc func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

// NewRealTicker wraps time.Ticker.
func NewRealTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

func (r *realTicker) C() <-chan time.Time {
	return r.t.C
}

func (r *realTicker) Stop() {
	r.t.Stop()
}
