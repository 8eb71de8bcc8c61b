package usecase

import (
	"time"

	"chatstage/internal/domain/entity"
	"chatstage/internal/scheduler"
	"chatstage/internal/store"
	"chatstage/pkg/errors"
)

// ChatUseCase handles the messenger side: sending messages and the simulated
// delivery lifecycle. Status transitions are scheduled tasks keyed by
// message id, so deleting a message (or its conversation) cancels any
// pending transition instead of leaving a stale timer behind.
type ChatUseCase struct {
	marketplace *store.Store
	tasks       *scheduler.Scheduler

	deliveredDelay time.Duration
	readDelay      time.Duration
	typingDelay    time.Duration
}

func NewChatUseCase(marketplace *store.Store, tasks *scheduler.Scheduler) *ChatUseCase {
	return &ChatUseCase{
		marketplace:    marketplace,
		tasks:          tasks,
		deliveredDelay: 1 * time.Second,
		readDelay:      2 * time.Second,
		typingDelay:    3 * time.Second,
	}
}

func (uc *ChatUseCase) Conversations() []entity.Conversation {
	return uc.marketplace.Get()
}

func (uc *ChatUseCase) GetConversation(id string) (entity.Conversation, error) {
	conv, ok := uc.marketplace.Find(id)
	if !ok {
		return entity.Conversation{}, errors.NotFound("Conversation", nil)
	}
	return conv, nil
}

// SendMessage appends an outgoing message with status "sent" and schedules
// the sent→delivered→read simulation. Each transition only fires if the
// message is still in the status the transition expects.
func (uc *ChatUseCase) SendMessage(convID, text string) (string, error) {
	if _, ok := uc.marketplace.Find(convID); !ok {
		return "", errors.NotFound("Conversation", nil)
	}

	msgID := uc.marketplace.AddMessage(convID, entity.Message{
		SenderID: entity.SenderMe,
		Text:     text,
		Status:   entity.MessageStatusSent,
	})

	uc.tasks.Schedule(msgID, uc.deliveredDelay, func() {
		uc.transition(convID, msgID, entity.MessageStatusSent, entity.MessageStatusDelivered)
	})
	uc.tasks.Schedule(msgID, uc.readDelay, func() {
		uc.transition(convID, msgID, entity.MessageStatusDelivered, entity.MessageStatusRead)
	})

	return msgID, nil
}

func (uc *ChatUseCase) transition(convID, msgID, from, to string) {
	conv, ok := uc.marketplace.Find(convID)
	if !ok {
		return
	}
	for _, m := range conv.Messages {
		if m.ID == msgID && m.Status == from {
			status := to
			uc.marketplace.UpdateMessage(convID, msgID, store.MessagePatch{Status: &status})
			return
		}
	}
}

// SimulateTyping flips the typing indicator on and schedules it off again.
func (uc *ChatUseCase) SimulateTyping(convID string) error {
	if _, ok := uc.marketplace.Find(convID); !ok {
		return errors.NotFound("Conversation", nil)
	}

	on := true
	uc.marketplace.UpdateConversation(convID, store.ConversationPatch{IsTyping: &on})

	key := typingKey(convID)
	uc.tasks.Cancel(key)
	uc.tasks.Schedule(key, uc.typingDelay, func() {
		off := false
		uc.marketplace.UpdateConversation(convID, store.ConversationPatch{IsTyping: &off})
	})
	return nil
}

func typingKey(convID string) string {
	return "typing:" + convID
}
