package form

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Mutation edits one form. It runs on the service goroutine.
type Mutation func(f *Form) error

type request struct {
	key    string
	mutate Mutation
	reply  chan result
}

type result struct {
	form Form
	err  error
}

const busyTimeout = 2 * time.Second

// Service keeps one form per session key. All reads and edits run on a single
// goroutine, so a form only ever has one mutator. A form that is closed and
// empty is dropped; the next request for its key starts a fresh one.
type Service struct {
	forms    map[string]*Form
	requests chan request
	quit     chan struct{}
}

// NewService starts the goroutine right away.
func NewService() *Service {
	svc := &Service{
		forms:    make(map[string]*Form),
		requests: make(chan request),
		quit:     make(chan struct{}),
	}
	go svc.loop()
	return svc
}

func (s *Service) loop() {
	for {
		select {
		case req := <-s.requests:
			f, ok := s.forms[req.key]
			if !ok {
				f = New()
				s.forms[req.key] = f
			}
			var err error
			if req.mutate != nil {
				err = req.mutate(f)
			}
			snap := f.Snapshot()
			if f.pristine() {
				delete(s.forms, req.key)
			}
			req.reply <- result{form: snap, err: err}
		case <-s.quit:
			return
		}
	}
}

// Get returns the current state of the form, creating a closed one for new keys.
func (s *Service) Get(ctx context.Context, key string) (Form, error) {
	return s.Apply(ctx, key, nil)
}

// Apply runs m against the form of key and returns the resulting state.
// When m fails the returned form still reflects the current state.
// With a deadline on ctx the reply is awaited until that deadline, so a
// mutation that commits elsewhere is not reported as failed after it succeeded.
func (s *Service) Apply(ctx context.Context, key string, m Mutation) (Form, error) {
	if key == "" {
		return Form{}, errors.New("form key is required")
	}
	req := request{key: key, mutate: m, reply: make(chan result, 1)}

	select {
	case s.requests <- req:
	case <-ctx.Done():
		return Form{}, ctx.Err()
	case <-time.After(busyTimeout):
		return Form{}, errors.New("form queue is busy")
	}

	var timeout <-chan time.Time
	if _, ok := ctx.Deadline(); !ok {
		timeout = time.After(busyTimeout)
	}
	select {
	case res := <-req.reply:
		return res.form, res.err
	case <-ctx.Done():
		return Form{}, ctx.Err()
	case <-timeout:
		return Form{}, errors.New("form update took too long")
	}
}

// Close stops the goroutine.
func (s *Service) Close() {
	close(s.quit)
}
