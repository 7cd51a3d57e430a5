package sale

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Repository keeps the saved sales. Implementations are only called from the Service goroutine.
type Repository interface {
	Insert(ctx context.Context, s Sale) (Sale, error)
	List(ctx context.Context) ([]Sale, error)
	Get(ctx context.Context, id string) (Sale, error)
	Delete(ctx context.Context, id string) error
}

type commandKind int

const (
	cmdRecord commandKind = iota
	cmdDelete
)

// command envelopes a mutation for the service goroutine.
type command struct {
	kind  commandKind
	sale  Sale
	id    string
	reply chan commandResult
}

type commandResult struct {
	sale Sale
	err  error
}

// query asks for the whole list or, when id is set, a single sale.
type query struct {
	id    string
	reply chan queryResult
}

type queryResult struct {
	sales []Sale
	err   error
}

// busyTimeout bounds how long a caller waits for the loop to pick up or answer a request.
const busyTimeout = 2 * time.Second

// Service owns the list of saved sales. Every read and write goes through one goroutine,
// so there is exactly one mutator at a time.
type Service struct {
	repo     Repository
	commands chan command
	queries  chan query
	quit     chan struct{}
}

// NewService starts the goroutine right away.
func NewService(repo Repository) *Service {
	svc := &Service{
		repo:     repo,
		commands: make(chan command),
		queries:  make(chan query),
		quit:     make(chan struct{}),
	}
	go svc.loop()
	return svc
}

func (s *Service) loop() {
	for {
		select {
		case cmd := <-s.commands:
			switch cmd.kind {
			case cmdRecord:
				stored, err := s.repo.Insert(context.Background(), cmd.sale)
				cmd.reply <- commandResult{sale: stored, err: err}
			case cmdDelete:
				err := s.repo.Delete(context.Background(), cmd.id)
				cmd.reply <- commandResult{err: err}
			default:
				cmd.reply <- commandResult{err: errors.Errorf("unknown sale command %d", cmd.kind)}
			}
		case q := <-s.queries:
			if q.id != "" {
				found, err := s.repo.Get(context.Background(), q.id)
				if err != nil {
					q.reply <- queryResult{err: err}
					continue
				}
				q.reply <- queryResult{sales: []Sale{found}}
				continue
			}
			sales, err := s.repo.List(context.Background())
			q.reply <- queryResult{sales: sales, err: err}
		case <-s.quit:
			return
		}
	}
}

// Record commits a built sale to the list and returns it with its id assigned.
// The commit is unconditional; nothing that happens afterwards rolls it back.
func (s *Service) Record(ctx context.Context, sale Sale) (Sale, error) {
	res, err := s.exec(ctx, command{kind: cmdRecord, sale: sale.Clone()})
	if err != nil {
		return Sale{}, err
	}
	return res.sale, res.err
}

// Delete removes exactly one sale. The remaining sales keep their order.
func (s *Service) Delete(ctx context.Context, id string) error {
	res, err := s.exec(ctx, command{kind: cmdDelete, id: id})
	if err != nil {
		return err
	}
	return res.err
}

// List returns the saved sales, newest first.
func (s *Service) List(ctx context.Context) ([]Sale, error) {
	res, err := s.ask(ctx, query{})
	if err != nil {
		return nil, err
	}
	return res.sales, res.err
}

// Get returns one sale by id.
func (s *Service) Get(ctx context.Context, id string) (Sale, error) {
	if id == "" {
		return Sale{}, ErrNotFound
	}
	res, err := s.ask(ctx, query{id: id})
	if err != nil {
		return Sale{}, err
	}
	if res.err != nil {
		return Sale{}, res.err
	}
	return res.sales[0], nil
}

// Close stops the goroutine.
func (s *Service) Close() {
	close(s.quit)
}

// replyTimeout bounds the wait for an answer. A caller with a deadline waits until
// that deadline instead, so a committed record is not reported as failed.
func replyTimeout(ctx context.Context) <-chan time.Time {
	if _, ok := ctx.Deadline(); ok {
		return nil
	}
	return time.After(busyTimeout)
}

func (s *Service) exec(ctx context.Context, cmd command) (commandResult, error) {
	cmd.reply = make(chan commandResult, 1)

	select {
	case s.commands <- cmd:
	case <-ctx.Done():
		return commandResult{}, ctx.Err()
	case <-time.After(busyTimeout):
		return commandResult{}, errors.New("sales queue is busy")
	}

	select {
	case res := <-cmd.reply:
		return res, nil
	case <-ctx.Done():
		return commandResult{}, ctx.Err()
	case <-replyTimeout(ctx):
		return commandResult{}, errors.New("sales command took too long")
	}
}

func (s *Service) ask(ctx context.Context, q query) (queryResult, error) {
	q.reply = make(chan queryResult, 1)

	select {
	case s.queries <- q:
	case <-ctx.Done():
		return queryResult{}, ctx.Err()
	case <-time.After(busyTimeout):
		return queryResult{}, errors.New("sales queue is busy")
	}

	select {
	case res := <-q.reply:
		return res, nil
	case <-ctx.Done():
		return queryResult{}, ctx.Err()
	case <-replyTimeout(ctx):
		return queryResult{}, errors.New("listing sales took too long")
	}
}
