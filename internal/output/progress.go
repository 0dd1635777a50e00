package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if w is backed by a terminal file descriptor.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// ProgressBar displays a count-based progress bar.
// Example: [##########----------] 25/50 items seeded
type ProgressBar struct {
	mu      sync.Mutex
	total   int
	current int
	label   string
	width   int
	writer  io.Writer
}

// NewProgress creates a progress bar writing to stderr.
func NewProgress(total int, label string) *ProgressBar {
	return &ProgressBar{
		total:  total,
		label:  label,
		width:  30,
		writer: os.Stderr,
	}
}

// SetWriter sets the output writer.
func (p *ProgressBar) SetWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = w
}

// Add advances the bar by n, capped at the total.
func (p *ProgressBar) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = min(p.current+n, p.total)
	if writerIsTTY(p.writer) {
		fmt.Fprintf(p.writer, "\r%s", p.line())
	}
}

// Current returns the progress so far.
func (p *ProgressBar) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Finish draws the final state of the bar and ends the line. Non-terminal
// writers only ever see this line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writerIsTTY(p.writer) {
		fmt.Fprintf(p.writer, "\r%s\n", p.line())
		return
	}
	fmt.Fprintln(p.writer, p.line())
}

func (p *ProgressBar) line() string {
	filled := p.width
	if p.total > 0 {
		filled = p.current * p.width / p.total
	}
	return fmt.Sprintf("[%s%s] %d/%d %s",
		strings.Repeat("#", filled),
		strings.Repeat("-", p.width-filled),
		p.current, p.total, p.label)
}

// Spinner shows an animated message while waiting on something external,
// such as a server process shutting down.
type Spinner struct {
	mu      sync.Mutex
	message string
	writer  io.Writer
	running bool
	done    chan struct{}
	stopped chan struct{}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner writing to stderr.
func NewSpinner(message string) *Spinner {
	return &Spinner{message: message, writer: os.Stderr}
}

// SetWriter sets the output writer.
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the animation. On a non-terminal writer the message is
// printed once instead.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	if !writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	s.done = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.animate(s.done, s.stopped)
}

func (s *Spinner) animate(done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.writer, "\r%s %s", spinnerFrames[i%len(spinnerFrames)], s.message)
			s.mu.Unlock()
		}
	}
}

// Stop ends the animation and prints final on its own line, if non-empty.
// Stop is safe to call more than once.
func (s *Spinner) Stop(final string) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	done, stopped := s.done, s.stopped
	s.mu.Unlock()

	if done != nil {
		close(done)
		<-stopped
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len([]rune(s.message))+2))
	}
	if final != "" {
		fmt.Fprintln(s.writer, final)
	}
}
