package sync

import (
	"context"
	"time"

	"chatstage/internal/domain/entity"
	"chatstage/internal/domain/repository"
	"chatstage/internal/store"
	"chatstage/pkg/logger"
)

type state int

const (
	stateUninitialized state = iota
	stateLoading
	stateSynced
	stateWriting
	stateGuardWindow
)

// Syncer mirrors one Store to a remote document. It is a single event loop
// resolving the race between local edits and remote snapshots:
//
//	Uninitialized -subscribe-> Loading -snapshot-> Synced
//	Synced -local change-> Writing -write done-> GuardWindow -timeout-> Synced
//
// Remote snapshots arriving in Writing or GuardWindow are presumed echoes of
// our own write and discarded; the guard window exists because the listener
// may fire after the write call has already returned. Local changes landing
// inside those states set a dirty flag and the write is re-issued once the
// guard expires.
type Syncer struct {
	store      *store.Store
	repo       repository.ConversationDocumentRepository
	seed       []entity.Conversation
	guardDelay time.Duration
	saveLimit  int

	state   state
	dirty   bool
	localCh chan struct{}
}

type Options struct {
	// GuardDelay keeps the in-flight window open after a write completes.
	GuardDelay time.Duration
	// SaveLimit truncates the persisted payload to the most recent N
	// conversations (the front of the sequence).
	SaveLimit int
}

func NewSyncer(st *store.Store, repo repository.ConversationDocumentRepository, seed []entity.Conversation, opts Options) *Syncer {
	if opts.GuardDelay <= 0 {
		opts.GuardDelay = 500 * time.Millisecond
	}
	if opts.SaveLimit <= 0 {
		opts.SaveLimit = 30
	}
	return &Syncer{
		store:      st,
		repo:       repo,
		seed:       seed,
		guardDelay: opts.GuardDelay,
		saveLimit:  opts.SaveLimit,
		state:      stateUninitialized,
		localCh:    make(chan struct{}, 1),
	}
}

type remoteSnapshot struct {
	conversations []entity.Conversation
	exists        bool
}

// Run blocks until ctx is canceled. Call it in its own goroutine after the
// store is constructed but before the edit surface starts accepting writes.
func (s *Syncer) Run(ctx context.Context) {
	remoteCh := make(chan remoteSnapshot, 4)
	errCh := make(chan error, 4)
	writeDone := make(chan error, 1)
	var guardCh <-chan time.Time

	// A local change is only a wake-up; the write path re-reads the store,
	// so coalescing bursts into one pending signal is safe.
	s.store.Subscribe(func(ch store.Change) {
		if ch.Origin != store.OriginLocal {
			return
		}
		select {
		case s.localCh <- struct{}{}:
		default:
		}
	})

	s.state = stateLoading
	unsubscribe := s.repo.Subscribe(ctx,
		func(convs []entity.Conversation, exists bool) {
			select {
			case remoteCh <- remoteSnapshot{conversations: convs, exists: exists}:
			case <-ctx.Done():
			}
		},
		func(err error) {
			select {
			case errCh <- err:
			case <-ctx.Done():
			}
		},
	)
	defer unsubscribe()

	for {
		select {
		case snap := <-remoteCh:
			switch s.state {
			case stateLoading:
				if snap.exists {
					logger.Info("sync: initial load, %d conversations", len(snap.conversations))
					s.store.Replace(snap.conversations, store.OriginRemote)
					s.state = stateSynced
				} else {
					logger.Info("sync: remote document missing, seeding %d defaults", len(s.seed))
					s.store.Replace(s.seed, store.OriginRemote)
					s.startWrite(ctx, writeDone)
				}
			case stateWriting, stateGuardWindow:
				logger.Debug("sync: discarding snapshot during write window")
			case stateSynced:
				if snap.exists {
					s.store.Replace(snap.conversations, store.OriginRemote)
				}
			}

		case <-s.localCh:
			switch s.state {
			case stateLoading, stateUninitialized:
				// Nothing to push before the initial load resolves.
			case stateWriting, stateGuardWindow:
				s.dirty = true
			case stateSynced:
				s.startWrite(ctx, writeDone)
			}

		case err := <-writeDone:
			if err != nil {
				logger.Error("sync: save failed: %v", err)
			}
			s.state = stateGuardWindow
			guardCh = time.After(s.guardDelay)

		case <-guardCh:
			guardCh = nil
			s.state = stateSynced
			if s.dirty {
				s.dirty = false
				s.startWrite(ctx, writeDone)
			}

		case err := <-errCh:
			if s.state == stateLoading {
				logger.Error("sync: subscription failed, falling back to defaults: %v", err)
				s.store.Replace(s.seed, store.OriginRemote)
				s.state = stateSynced
			} else {
				logger.Error("sync: listener error: %v", err)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (s *Syncer) startWrite(ctx context.Context, done chan<- error) {
	s.state = stateWriting
	payload := truncate(s.store.Get(), s.saveLimit)
	go func() {
		done <- s.repo.Save(ctx, payload)
	}()
}

// truncate keeps the front of the sequence: insertion order is newest first,
// so the document budget drops the oldest conversations.
func truncate(convs []entity.Conversation, limit int) []entity.Conversation {
	if len(convs) <= limit {
		return convs
	}
	return convs[:limit]
}
