// Package historian archives lobby action logs. It drains the queue the game
// server publishes to, writes records in batches and closes out games that went
// quiet without finishing.
package historian

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const actionEndGame = "action_end_game"

// Queue yields action records. Pop returns (nil, nil) when timeout passes with nothing queued.
type Queue interface {
	Pop(ctx context.Context, timeout time.Duration) (*cache.GameActionRecord, error)
}

// Sink stores action records.
type Sink interface {
	SaveGameActions(ctx context.Context, records []cache.GameActionRecord) error
	MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) error
}

type Config struct {
	BatchSize       int           // flush once this many records are pending
	FlushInterval   time.Duration // flush at least this often
	Inactivity      time.Duration // a game with no actions for this long is abandoned
	InactivityCheck time.Duration // how often to look for abandoned games
	PopTimeout      time.Duration // how long one Pop may block
}

// DefaultConfig matches the env defaults of cmd/historian.
func DefaultConfig() Config {
	return Config{
		BatchSize:       20,
		FlushInterval:   500 * time.Millisecond,
		Inactivity:      10 * time.Minute,
		InactivityCheck: time.Minute,
		PopTimeout:      3 * time.Second,
	}
}

type Service struct {
	queue Queue
	sink  Sink
	cfg   Config
	log   logrus.FieldLogger

	batchMu sync.Mutex
	batch   []cache.GameActionRecord

	activityMu   sync.Mutex
	lastActivity map[uuid.UUID]time.Time

	now func() time.Time
}

func New(queue Queue, sink Sink, cfg Config, logger logrus.FieldLogger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	return &Service{
		queue:        queue,
		sink:         sink,
		cfg:          cfg,
		log:          logger,
		batch:        make([]cache.GameActionRecord, 0, cfg.BatchSize),
		lastActivity: make(map[uuid.UUID]time.Time),
		now:          time.Now,
	}
}

// Run blocks until ctx is cancelled or a loop fails, then flushes what is left.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info("historian started")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.readLoop(gctx) })
	g.Go(func() error { return s.flushLoop(gctx) })
	g.Go(func() error { return s.inactivityLoop(gctx) })
	err := g.Wait()

	// The run context is gone; give the final flush its own deadline.
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.flush(flushCtx)
	s.log.Info("historian stopped")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Service) readLoop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := s.queue.Pop(ctx, s.cfg.PopTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Errorf("pop: %v", err)
			continue
		}
		if rec == nil {
			continue
		}
		s.track(*rec)
		if s.append(*rec) {
			s.flush(ctx)
		}
	}
}

func (s *Service) flushLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

func (s *Service) inactivityLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.InactivityCheck)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.markAbandoned(ctx)
		}
	}
}

// track records the game's latest activity. Finished games are no longer watched.
func (s *Service) track(rec cache.GameActionRecord) {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()
	if rec.ActionType == actionEndGame {
		delete(s.lastActivity, rec.GameID)
		return
	}
	s.lastActivity[rec.GameID] = s.now()
}

// append adds rec to the pending batch and reports whether the batch is full.
func (s *Service) append(rec cache.GameActionRecord) bool {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.batch = append(s.batch, rec)
	return len(s.batch) >= s.cfg.BatchSize
}

// flush writes the pending batch. A failed batch is put back in front of
// anything that arrived meanwhile and retried on the next flush.
func (s *Service) flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	pending := s.batch
	s.batch = make([]cache.GameActionRecord, 0, s.cfg.BatchSize)
	s.batchMu.Unlock()

	if err := s.sink.SaveGameActions(ctx, pending); err != nil {
		s.log.Errorf("flush %d actions: %v", len(pending), err)
		s.batchMu.Lock()
		s.batch = append(pending, s.batch...)
		s.batchMu.Unlock()
		return
	}
	s.log.Debugf("Flushed %d actions to DB.", len(pending))
}

// markAbandoned closes every game idle for longer than the inactivity limit.
func (s *Service) markAbandoned(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.Inactivity)
	var stale []uuid.UUID
	s.activityMu.Lock()
	for id, last := range s.lastActivity {
		if last.Before(cutoff) {
			stale = append(stale, id)
			delete(s.lastActivity, id)
		}
	}
	s.activityMu.Unlock()

	if len(stale) > 0 {
		// Actions still pending for these games must land before they are closed.
		s.flush(ctx)
	}
	for _, id := range stale {
		if err := s.sink.MarkGameAbandoned(ctx, id); err != nil {
			s.log.Errorf("failed to mark game %v abandoned: %v", id, err)
			continue
		}
		s.log.WithField("game_id", id).Info("Marked game as abandoned due to inactivity.")
	}
}
