package store

import (
	"time"

	"github.com/google/uuid"

	"chatstage/internal/domain/entity"
)

// Patch types whitelist the fields a caller may change. A nil field leaves
// the current value untouched, so unrelated fields can never leak through a
// merge.

type ConversationPatch struct {
	UnreadCount *int
	IsTyping    *bool
	TimeAgo     *string
	LastMessage *entity.LastMessage
	Offer       *entity.Offer
	RemoveOffer bool
	Transaction *entity.Transaction
}

type ParticipantPatch struct {
	Name        *string
	Avatar      *string
	AvatarColor *string
	Location    *string
	LastSeen    *string
	IsOnline    *bool
}

type ProductPatch struct {
	Title         *string
	Price         *float64
	OriginalPrice *float64
	Currency      *string
	Image         *string
	Subtotal      *float64
	Status        *string
}

type MessagePatch struct {
	SenderID  *string
	Text      *string
	Timestamp *string
	Status    *string
	Type      *string
}

// The functions below are pure: they never mutate their input and return a
// new slice with exactly the targeted conversation replaced. A patch
// referencing an unknown id is a silent no-op and returns an equal
// collection; callers that need to surface a miss check existence first.

func UpdateConversation(convs []entity.Conversation, id string, p ConversationPatch) []entity.Conversation {
	return replace(convs, id, func(c entity.Conversation) entity.Conversation {
		if p.UnreadCount != nil {
			c.UnreadCount = *p.UnreadCount
		}
		if p.IsTyping != nil {
			c.IsTyping = *p.IsTyping
		}
		if p.TimeAgo != nil {
			c.TimeAgo = *p.TimeAgo
		}
		if p.LastMessage != nil {
			c.LastMessage = *p.LastMessage
		}
		if p.Offer != nil {
			offer := *p.Offer
			c.Offer = &offer
		}
		if p.RemoveOffer {
			c.Offer = nil
		}
		if p.Transaction != nil {
			txn := *p.Transaction
			c.Transaction = &txn
		}
		return c
	})
}

func UpdateParticipant(convs []entity.Conversation, id string, p ParticipantPatch) []entity.Conversation {
	return replace(convs, id, func(c entity.Conversation) entity.Conversation {
		if p.Name != nil {
			c.Participant.Name = *p.Name
		}
		// Avatar and AvatarColor are mutually exclusive render fallbacks:
		// setting one clears the other.
		if p.Avatar != nil {
			c.Participant.Avatar = p.Avatar
			c.Participant.AvatarColor = nil
		}
		if p.AvatarColor != nil {
			c.Participant.AvatarColor = p.AvatarColor
			c.Participant.Avatar = nil
		}
		if p.Location != nil {
			c.Participant.Location = *p.Location
		}
		if p.LastSeen != nil {
			c.Participant.LastSeen = *p.LastSeen
		}
		if p.IsOnline != nil {
			c.Participant.IsOnline = *p.IsOnline
		}
		return c
	})
}

func UpdateProduct(convs []entity.Conversation, id string, p ProductPatch) []entity.Conversation {
	return replace(convs, id, func(c entity.Conversation) entity.Conversation {
		if p.Title != nil {
			c.Product.Title = *p.Title
		}
		if p.Price != nil {
			c.Product.Price = *p.Price
		}
		if p.OriginalPrice != nil {
			c.Product.OriginalPrice = *p.OriginalPrice
		}
		if p.Currency != nil {
			c.Product.Currency = *p.Currency
		}
		if p.Image != nil {
			c.Product.Image = *p.Image
		}
		if p.Subtotal != nil {
			c.Product.Subtotal = *p.Subtotal
		}
		if p.Status != nil {
			c.Product.Status = *p.Status
		}
		return c
	})
}

// UpdateMessage patches one message and recomputes the whole lastMessage
// cache from the new tail. The recompute covers every field (text,
// timestamp, isFromMe, status), so patching the tail message's status shows
// up in lastMessage.status as well.
func UpdateMessage(convs []entity.Conversation, convID, msgID string, p MessagePatch) []entity.Conversation {
	return replace(convs, convID, func(c entity.Conversation) entity.Conversation {
		msgs := make([]entity.Message, len(c.Messages))
		copy(msgs, c.Messages)
		found := false
		for i, m := range msgs {
			if m.ID != msgID {
				continue
			}
			if p.SenderID != nil {
				m.SenderID = *p.SenderID
			}
			if p.Text != nil {
				m.Text = *p.Text
			}
			if p.Timestamp != nil {
				m.Timestamp = *p.Timestamp
			}
			if p.Status != nil {
				m.Status = *p.Status
			}
			if p.Type != nil {
				m.Type = *p.Type
			}
			msgs[i] = m
			found = true
			break
		}
		if !found {
			return c
		}
		c.Messages = msgs
		c.LastMessage = deriveLastMessage(msgs)
		return c
	})
}

// AddMessage appends msg with a fresh id, filling sender/timestamp/status
// defaults, and derives lastMessage from it. Returns the new message id, or
// "" when the conversation does not exist.
func AddMessage(convs []entity.Conversation, convID string, msg entity.Message) ([]entity.Conversation, string) {
	if msg.SenderID == "" {
		msg.SenderID = entity.SenderMe
	}
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if msg.Status == "" {
		msg.Status = entity.MessageStatusRead
	}
	msg.ID = uuid.New().String()

	id := ""
	out := replace(convs, convID, func(c entity.Conversation) entity.Conversation {
		msgs := make([]entity.Message, 0, len(c.Messages)+1)
		msgs = append(msgs, c.Messages...)
		msgs = append(msgs, msg)
		c.Messages = msgs
		c.LastMessage = deriveLastMessage(msgs)
		id = msg.ID
		return c
	})
	return out, id
}

// DeleteMessage filters out msgID and re-derives lastMessage from the new
// tail, or the empty placeholder when no messages remain.
func DeleteMessage(convs []entity.Conversation, convID, msgID string) []entity.Conversation {
	return replace(convs, convID, func(c entity.Conversation) entity.Conversation {
		msgs := make([]entity.Message, 0, len(c.Messages))
		for _, m := range c.Messages {
			if m.ID != msgID {
				msgs = append(msgs, m)
			}
		}
		if len(msgs) == len(c.Messages) {
			return c
		}
		c.Messages = msgs
		c.LastMessage = deriveLastMessage(msgs)
		return c
	})
}

// AddConversation inserts c at the head, assigning fresh ids to the
// conversation, its participant and its product when the caller left them
// empty. Returns the conversation id.
func AddConversation(convs []entity.Conversation, c entity.Conversation) ([]entity.Conversation, string) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Participant.ID == "" {
		c.Participant.ID = uuid.New().String()
	}
	if c.Product.ID == "" {
		c.Product.ID = uuid.New().String()
	}
	if c.Messages == nil {
		c.Messages = []entity.Message{}
	}
	out := make([]entity.Conversation, 0, len(convs)+1)
	out = append(out, c)
	out = append(out, convs...)
	return out, c.ID
}

func DeleteConversation(convs []entity.Conversation, id string) []entity.Conversation {
	out := make([]entity.Conversation, 0, len(convs))
	for _, c := range convs {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the conversation with the given id.
func Find(convs []entity.Conversation, id string) (entity.Conversation, bool) {
	for _, c := range convs {
		if c.ID == id {
			return c, true
		}
	}
	return entity.Conversation{}, false
}

func deriveLastMessage(msgs []entity.Message) entity.LastMessage {
	if len(msgs) == 0 {
		return entity.LastMessage{}
	}
	tail := msgs[len(msgs)-1]
	return entity.LastMessage{
		Text:      tail.Text,
		Timestamp: tail.Timestamp,
		IsFromMe:  tail.SenderID == entity.SenderMe,
		Status:    tail.Status,
	}
}

func replace(convs []entity.Conversation, id string, fn func(entity.Conversation) entity.Conversation) []entity.Conversation {
	out := make([]entity.Conversation, len(convs))
	copy(out, convs)
	for i, c := range out {
		if c.ID == id {
			out[i] = fn(c)
			break
		}
	}
	return out
}
