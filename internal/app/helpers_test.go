package app

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingMetrics keeps every reported outcome.
type recordingMetrics struct {
	mu          sync.Mutex
	refreshes   []string
	submissions []string
	exports     []string
}

func (m *recordingMetrics) RefreshCompleted(result string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refreshes = append(m.refreshes, result)
}

func (m *recordingMetrics) SubmissionCompleted(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.submissions = append(m.submissions, result)
}

func (m *recordingMetrics) ExportCompleted(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.exports = append(m.exports, result)
}

func (m *recordingMetrics) refreshResults() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.refreshes...)
}

// sequenceSource returns its values in order, repeating the last one.
type sequenceSource struct {
	mu     sync.Mutex
	values []uint32
}

func (s *sequenceSource) Uint32() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.values[0]
	if len(s.values) > 1 {
		s.values = s.values[1:]
	}

	return v
}

// manualTicker ticks only when the test says so.
type manualTicker struct {
	c        chan time.Time
	stopped  atomic.Bool
	interval time.Duration
}

func (t *manualTicker) C() <-chan time.Time { return t.c }
func (t *manualTicker) Stop()               { t.stopped.Store(true) }

// tickerFactory records every ticker it hands out.
type tickerFactory struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (f *tickerFactory) new(d time.Duration) *manualTicker {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &manualTicker{c: make(chan time.Time), interval: d}
	f.tickers = append(f.tickers, t)

	return t
}

func (f *tickerFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.tickers)
}

func (f *tickerFactory) last() *manualTicker {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.tickers[len(f.tickers)-1]
}
