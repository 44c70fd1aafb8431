package app

import (
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2/data/binding"
)

const logDebounceInterval = 150 * time.Millisecond

// logCapture keeps the last log lines for the log panel. It is an io.Writer so
// zerolog can write to it directly.
type logCapture struct {
	mu       sync.Mutex
	lines    []string
	limit    int
	binding  binding.String
	updateCh chan struct{}
}

func newLogCapture(b binding.String, limit int) *logCapture {
	return &logCapture{binding: b, limit: limit}
}

func (l *logCapture) Write(p []byte) (int, error) {
	text := strings.ReplaceAll(string(p), "\r\n", "\n")
	l.mu.Lock()
	for _, part := range strings.Split(text, "\n") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		l.lines = append(l.lines, part)
	}
	if len(l.lines) > l.limit {
		l.lines = l.lines[len(l.lines)-l.limit:]
	}
	ch := l.updateCh
	l.mu.Unlock()

	if ch == nil {
		l.flush()
		return len(p), nil
	}
	select {
	case ch <- struct{}{}:
	default:
	}
	return len(p), nil
}

// start batches binding updates so bursts of log lines redraw the panel once.
func (l *logCapture) start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.updateCh != nil {
		return
	}
	l.updateCh = make(chan struct{}, 1)
	go l.loop(l.updateCh)
}

func (l *logCapture) loop(updates <-chan struct{}) {
	timer := time.NewTimer(logDebounceInterval)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-updates:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(logDebounceInterval)
		case <-timer.C:
			l.flush()
		}
	}
}

func (l *logCapture) flush() {
	_ = l.binding.Set(l.text())
}

func (l *logCapture) text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}
