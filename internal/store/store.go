package store

import (
	"sync"

	"chatstage/internal/domain/entity"
)

// Origin tags a change so the sync layer can tell a local edit from its own
// remote apply and never saves what it just loaded.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
)

type Change struct {
	Origin Origin
}

// Store holds one ordered conversation collection. All writes go through its
// methods; Get returns a copied slice so callers can never mutate shared
// state through a read reference.
type Store struct {
	mu            sync.RWMutex
	conversations []entity.Conversation
	subscribers   []func(Change)
}

func New(initial []entity.Conversation) *Store {
	convs := make([]entity.Conversation, len(initial))
	copy(convs, initial)
	return &Store{conversations: convs}
}

func (s *Store) Get() []entity.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

func (s *Store) Find(id string) (entity.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Find(s.conversations, id)
}

// Subscribe registers fn to run synchronously after every change, on the
// mutating goroutine. Subscribers must not call back into the store.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Replace swaps the whole collection. The sync layer uses OriginRemote when
// applying remote snapshots; everything else is a local change.
func (s *Store) Replace(convs []entity.Conversation, origin Origin) {
	next := make([]entity.Conversation, len(convs))
	copy(next, convs)
	s.mu.Lock()
	s.conversations = next
	subs := s.subscribers
	s.mu.Unlock()
	for _, fn := range subs {
		fn(Change{Origin: origin})
	}
}

func (s *Store) apply(fn func([]entity.Conversation) []entity.Conversation) {
	s.mu.Lock()
	s.conversations = fn(s.conversations)
	subs := s.subscribers
	s.mu.Unlock()
	for _, sub := range subs {
		sub(Change{Origin: OriginLocal})
	}
}

func (s *Store) UpdateConversation(id string, p ConversationPatch) {
	s.apply(func(convs []entity.Conversation) []entity.Conversation {
		return UpdateConversation(convs, id, p)
	})
}

func (s *Store) UpdateParticipant(id string, p ParticipantPatch) {
	s.apply(func(convs []entity.Conversation) []entity.Conversation {
		return UpdateParticipant(convs, id, p)
	})
}

func (s *Store) UpdateProduct(id string, p ProductPatch) {
	s.apply(func(convs []entity.Conversation) []entity.Conversation {
		return UpdateProduct(convs, id, p)
	})
}

func (s *Store) UpdateMessage(convID, msgID string, p MessagePatch) {
	s.apply(func(convs []entity.Conversation) []entity.Conversation {
		return UpdateMessage(convs, convID, msgID, p)
	})
}

func (s *Store) AddMessage(convID string, msg entity.Message) string {
	var id string
	s.apply(func(convs []entity.Conversation) []entity.Conversation {
		next, msgID := AddMessage(convs, convID, msg)
		id = msgID
		return next
	})
	return id
}

func (s *Store) DeleteMessage(convID, msgID string) {
	s.apply(func(convs []entity.Conversation) []entity.Conversation {
		return DeleteMessage(convs, convID, msgID)
	})
}

func (s *Store) AddConversation(c entity.Conversation) string {
	var id string
	s.apply(func(convs []entity.Conversation) []entity.Conversation {
		next, convID := AddConversation(convs, c)
		id = convID
		return next
	})
	return id
}

func (s *Store) DeleteConversation(id string) {
	s.apply(func(convs []entity.Conversation) []entity.Conversation {
		return DeleteConversation(convs, id)
	})
}
