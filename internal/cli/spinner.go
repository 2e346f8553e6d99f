package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line while a build or cycle search runs. It
// stops when stop is called or when the context it was started with ends,
// and erases its line either way.
type spinner struct {
	out      io.Writer
	parent   context.Context
	ctx      context.Context
	halt     context.CancelFunc
	finished chan struct{}

	mu    sync.Mutex
	label string
	width int // widest line drawn so far
}

// startSpinner animates label on statusOut until stopped.
func startSpinner(ctx context.Context, label string) *spinner {
	return startSpinnerOn(ctx, statusOut, label)
}

func startSpinnerOn(ctx context.Context, out io.Writer, label string) *spinner {
	sctx, halt := context.WithCancel(ctx)
	s := &spinner{
		out:      out,
		parent:   ctx,
		ctx:      sctx,
		halt:     halt,
		finished: make(chan struct{}),
		label:    label,
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.finished)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			s.erase()
			return
		case <-tick.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame rune) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pad string
	if n := s.width - (len(s.label) + 2); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	s.width = max(s.width, len(s.label)+2)
	fmt.Fprint(s.out, "\r"+styleIconSpinner.Render(string(frame))+" "+StyleDim.Render(s.label)+pad)
}

func (s *spinner) erase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprint(s.out, "\r"+strings.Repeat(" ", s.width)+"\r")
	}
}

// relabel changes the text drawn from the next frame on.
func (s *spinner) relabel(label string) {
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

// stop ends the animation and waits for the line to be erased. It may be
// called more than once.
func (s *spinner) stop() {
	s.halt()
	<-s.finished
}

// interrupted reports whether the context the spinner was started with has
// ended, as opposed to a plain stop.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}
