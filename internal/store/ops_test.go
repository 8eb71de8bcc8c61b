package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatstage/internal/domain/entity"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func fixture() []entity.Conversation {
	return []entity.Conversation{
		{
			ID: "a",
			Participant: entity.Participant{
				ID:       "user_a",
				Name:     "emma_wilson",
				Location: "United Kingdom",
			},
			Product: entity.Product{
				ID:       "prod_a",
				Title:    "Nike Air Max 90",
				Price:    45,
				Currency: "GBP",
				Status:   "available",
			},
			Messages: []entity.Message{
				{ID: "m1", SenderID: "user_a", Text: "hi", Timestamp: "2026-08-01T10:00:00Z", Status: "sent"},
			},
			LastMessage: entity.LastMessage{Text: "hi", Timestamp: "2026-08-01T10:00:00Z", Status: "sent"},
		},
		{
			ID:          "b",
			Participant: entity.Participant{ID: "user_b", Name: "wilson99"},
			Product:     entity.Product{ID: "prod_b", Title: "Zara Coat", Price: 28, Currency: "GBP"},
			Messages:    []entity.Message{},
		},
	}
}

func TestAddMessageDerivesLastMessage(t *testing.T) {
	convs := fixture()

	out, id := AddMessage(convs, "a", entity.Message{
		SenderID:  "me",
		Text:      "still available?",
		Timestamp: "2026-08-02T09:00:00Z",
		Status:    "sent",
	})

	require.NotEmpty(t, id)
	conv, ok := Find(out, "a")
	require.True(t, ok)
	assert.Len(t, conv.Messages, 2)
	assert.Equal(t, "still available?", conv.LastMessage.Text)
	assert.Equal(t, "2026-08-02T09:00:00Z", conv.LastMessage.Timestamp)
	assert.True(t, conv.LastMessage.IsFromMe)
	assert.Equal(t, "sent", conv.LastMessage.Status)
}

func TestAddMessageFillsDefaults(t *testing.T) {
	out, _ := AddMessage(fixture(), "a", entity.Message{Text: "hey"})

	conv, _ := Find(out, "a")
	tail := conv.Messages[len(conv.Messages)-1]
	assert.Equal(t, entity.SenderMe, tail.SenderID)
	assert.Equal(t, entity.MessageStatusRead, tail.Status)
	assert.NotEmpty(t, tail.Timestamp)
	assert.NotEmpty(t, tail.ID)
}

func TestDeleteMessageRederivesLastMessage(t *testing.T) {
	convs := fixture()
	convs, _ = AddMessage(convs, "a", entity.Message{Text: "second", Timestamp: "2026-08-02T09:00:00Z", SenderID: "me", Status: "read"})
	conv, _ := Find(convs, "a")
	tailID := conv.Messages[1].ID

	out := DeleteMessage(convs, "a", tailID)

	conv, _ = Find(out, "a")
	assert.Len(t, conv.Messages, 1)
	assert.Equal(t, "hi", conv.LastMessage.Text)
	assert.Equal(t, "2026-08-01T10:00:00Z", conv.LastMessage.Timestamp)
	assert.False(t, conv.LastMessage.IsFromMe)
}

func TestDeleteLastRemainingMessageLeavesEmptyPlaceholder(t *testing.T) {
	out := DeleteMessage(fixture(), "a", "m1")

	conv, _ := Find(out, "a")
	assert.Empty(t, conv.Messages)
	assert.Equal(t, entity.LastMessage{}, conv.LastMessage)
}

func TestUpdateMessageRecomputesWholeLastMessage(t *testing.T) {
	// The recompute covers every field, so patching the tail message's
	// status shows up in lastMessage.status too.
	out := UpdateMessage(fixture(), "a", "m1", MessagePatch{Status: strPtr("read")})

	conv, _ := Find(out, "a")
	assert.Equal(t, "read", conv.Messages[0].Status)
	assert.Equal(t, "read", conv.LastMessage.Status)
	assert.Equal(t, "hi", conv.LastMessage.Text)
}

func TestUnknownIDIsSilentNoOp(t *testing.T) {
	convs := fixture()

	assert.Equal(t, convs, UpdateConversation(convs, "nope", ConversationPatch{UnreadCount: intPtr(3)}))
	assert.Equal(t, convs, UpdateParticipant(convs, "nope", ParticipantPatch{Name: strPtr("x")}))
	assert.Equal(t, convs, UpdateProduct(convs, "nope", ProductPatch{Title: strPtr("x")}))
	assert.Equal(t, convs, UpdateMessage(convs, "a", "no-such-message", MessagePatch{Status: strPtr("read")}))
	assert.Equal(t, convs, UpdateMessage(convs, "nope", "m1", MessagePatch{Status: strPtr("read")}))
	assert.Equal(t, convs, DeleteMessage(convs, "nope", "m1"))
	assert.Equal(t, convs, DeleteConversation(convs, "nope"))

	out, id := AddMessage(convs, "nope", entity.Message{Text: "hi"})
	assert.Equal(t, convs, out)
	assert.Empty(t, id)
}

func TestNestedMergePreservesSiblingFields(t *testing.T) {
	out := UpdateParticipant(fixture(), "a", ParticipantPatch{Name: strPtr("renamed")})

	conv, _ := Find(out, "a")
	assert.Equal(t, "renamed", conv.Participant.Name)
	assert.Equal(t, "United Kingdom", conv.Participant.Location)
	assert.Equal(t, "Nike Air Max 90", conv.Product.Title)
	assert.Len(t, conv.Messages, 1)
}

func TestAvatarAndColorAreMutuallyExclusive(t *testing.T) {
	convs := fixture()

	out := UpdateParticipant(convs, "a", ParticipantPatch{AvatarColor: strPtr("hsl(210, 50%, 50%)")})
	conv, _ := Find(out, "a")
	require.NotNil(t, conv.Participant.AvatarColor)
	assert.Nil(t, conv.Participant.Avatar)

	out = UpdateParticipant(out, "a", ParticipantPatch{Avatar: strPtr("https://i.pravatar.cc/150?img=3")})
	conv, _ = Find(out, "a")
	require.NotNil(t, conv.Participant.Avatar)
	assert.Nil(t, conv.Participant.AvatarColor)
}

func TestAddConversationInsertsAtHeadWithFreshIDs(t *testing.T) {
	convs := fixture()

	out, id := AddConversation(convs, entity.Conversation{
		Participant: entity.Participant{Name: "New User"},
		Product:     entity.Product{Title: "New Product"},
	})

	require.Len(t, out, 3)
	assert.Equal(t, id, out[0].ID)
	assert.NotEmpty(t, out[0].Participant.ID)
	assert.NotEmpty(t, out[0].Product.ID)
	assert.Equal(t, "a", out[1].ID)
	assert.Equal(t, "b", out[2].ID)
}

func TestOpsDoNotMutateInput(t *testing.T) {
	convs := fixture()
	snapshot := fixture()

	UpdateConversation(convs, "a", ConversationPatch{UnreadCount: intPtr(9)})
	UpdateParticipant(convs, "a", ParticipantPatch{Name: strPtr("x")})
	UpdateMessage(convs, "a", "m1", MessagePatch{Text: strPtr("changed")})
	AddMessage(convs, "a", entity.Message{Text: "new"})
	DeleteMessage(convs, "a", "m1")
	DeleteConversation(convs, "a")

	assert.Equal(t, snapshot, convs)
}

func TestUpdateConversationOfferLifecycle(t *testing.T) {
	convs := fixture()

	out := UpdateConversation(convs, "a", ConversationPatch{
		Offer: &entity.Offer{Amount: 35, OriginalPrice: 45, Status: entity.OfferStatusPending},
	})
	conv, _ := Find(out, "a")
	require.NotNil(t, conv.Offer)
	assert.Equal(t, 35.0, conv.Offer.Amount)

	out = UpdateConversation(out, "a", ConversationPatch{RemoveOffer: true})
	conv, _ = Find(out, "a")
	assert.Nil(t, conv.Offer)
}
