package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatstage/internal/domain/entity"
	"chatstage/internal/scheduler"
	"chatstage/internal/store"
	"chatstage/pkg/errors"
)

func testConversation(id, name string) entity.Conversation {
	return entity.Conversation{
		ID:          id,
		Participant: entity.Participant{ID: "p_" + id, Name: name},
		Product:     entity.Product{ID: "prod_" + id, Title: "Denim Jacket", Price: 30, Currency: "GBP", Status: "available"},
		Messages:    []entity.Message{},
		LastMessage: entity.LastMessage{Text: "Hi!", Timestamp: "2026-08-29T10:00:00Z"},
	}
}

type editorFixture struct {
	uc          *EditorUseCase
	marketplace *store.Store
	vinted      *store.Store
	tasks       *scheduler.Scheduler
}

func newEditorFixture() editorFixture {
	marketplace := store.New([]entity.Conversation{testConversation("m1", "alex")})
	vinted := store.New([]entity.Conversation{testConversation("v1", "sam")})
	tasks := scheduler.New()
	uc := NewEditorUseCase(marketplace, vinted, entity.User{ID: "me", Name: "Me"}, tasks, nil)
	return editorFixture{uc: uc, marketplace: marketplace, vinted: vinted, tasks: tasks}
}

func TestPanelAndModeToggles(t *testing.T) {
	f := newEditorFixture()

	assert.Equal(t, EditorState{}, f.uc.State())

	state := f.uc.OpenPanel()
	assert.True(t, state.PanelOpen)

	state = f.uc.TogglePanel()
	assert.False(t, state.PanelOpen)

	state = f.uc.ToggleEditMode()
	assert.True(t, state.EditMode)
	assert.False(t, state.PanelOpen)

	state = f.uc.ClosePanel()
	assert.True(t, state.EditMode, "closing the panel must not reset edit mode")
}

func TestMergedViewOrder(t *testing.T) {
	f := newEditorFixture()

	merged := f.uc.Conversations()
	require.Len(t, merged, 2)
	assert.Equal(t, "m1", merged[0].ID)
	assert.Equal(t, "v1", merged[1].ID)
}

func TestEditsStayInOwningCollection(t *testing.T) {
	f := newEditorFixture()

	unread := 9
	f.uc.UpdateConversation("m1", store.ConversationPatch{UnreadCount: &unread})

	m, ok := f.marketplace.Find("m1")
	require.True(t, ok)
	assert.Equal(t, 9, m.UnreadCount)
	assert.Equal(t, 1, f.vinted.Len())
	v, ok := f.vinted.Find("v1")
	require.True(t, ok)
	assert.Zero(t, v.UnreadCount)
}

func TestAddConversationLandsInResaleCollection(t *testing.T) {
	f := newEditorFixture()

	id := f.uc.AddConversation(NewConversationInput{ParticipantName: "jo"}, time.Now().UTC().Format(time.RFC3339))
	require.NotEmpty(t, id)

	assert.Equal(t, 1, f.marketplace.Len())
	require.Equal(t, 2, f.vinted.Len())

	added, ok := f.vinted.Find(id)
	require.True(t, ok)
	assert.Equal(t, "jo", added.Participant.Name)
	require.NotNil(t, added.Participant.Avatar)
	assert.Equal(t, defaultParticipantAvatar, *added.Participant.Avatar)
	assert.Equal(t, "New Product", added.Product.Title)
	assert.Equal(t, "available", added.Product.Status)
}

func TestConcurrentEditsAcrossCollections(t *testing.T) {
	// Each mutation snapshots both collections before writing both back, so
	// without serialization one edit can restore a stale copy of the other
	// collection. Both updates must survive on every trial.
	one := 1
	for trial := 0; trial < 200; trial++ {
		f := newEditorFixture()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			f.uc.UpdateConversation("m1", store.ConversationPatch{UnreadCount: &one})
		}()
		go func() {
			defer wg.Done()
			f.uc.UpdateConversation("v1", store.ConversationPatch{UnreadCount: &one})
		}()
		wg.Wait()

		m, ok := f.marketplace.Find("m1")
		require.True(t, ok)
		require.Equal(t, 1, m.UnreadCount, "trial %d lost the marketplace edit", trial)
		v, ok := f.vinted.Find("v1")
		require.True(t, ok)
		require.Equal(t, 1, v.UnreadCount, "trial %d lost the vinted edit", trial)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	f := newEditorFixture()

	exported, err := f.uc.ExportData()
	require.NoError(t, err)
	before := f.uc.Conversations()

	f.uc.DeleteConversation("v1")
	require.Len(t, f.uc.Conversations(), 1)

	require.NoError(t, f.uc.ImportData(exported))
	assert.Equal(t, before, f.uc.Conversations())
	assert.Equal(t, entity.User{ID: "me", Name: "Me"}, f.uc.CurrentUser())
}

func TestImportReplacesCurrentUser(t *testing.T) {
	f := newEditorFixture()

	payload := []byte(`{"currentUser":{"id":"u2","name":"Alex"},"conversations":[]}`)
	require.NoError(t, f.uc.ImportData(payload))

	assert.Equal(t, entity.User{ID: "u2", Name: "Alex"}, f.uc.CurrentUser())
	assert.Empty(t, f.uc.Conversations())
}

func TestImportMalformedLeavesStateUnchanged(t *testing.T) {
	f := newEditorFixture()
	before := f.uc.Conversations()

	err := f.uc.ImportData([]byte("{not json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, "IMPORT_MALFORMED"))

	err = f.uc.ImportData([]byte(`{"currentUser":{"id":"x","name":"X"}}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, "IMPORT_MALFORMED"))

	assert.Equal(t, before, f.uc.Conversations())
	assert.Equal(t, entity.User{ID: "me", Name: "Me"}, f.uc.CurrentUser())
}

func TestDeleteMessageCancelsPendingTasks(t *testing.T) {
	f := newEditorFixture()

	msgID := f.uc.AddMessage("m1", entity.Message{Text: "hello"})
	require.NotEmpty(t, msgID)
	f.tasks.Schedule(msgID, time.Minute, func() {})

	f.uc.DeleteMessage("m1", msgID)

	assert.Zero(t, f.tasks.Pending(msgID))
	m, ok := f.marketplace.Find("m1")
	require.True(t, ok)
	assert.Empty(t, m.Messages)
}

func TestDeleteConversationCancelsItsTasks(t *testing.T) {
	f := newEditorFixture()

	msgID := f.uc.AddMessage("v1", entity.Message{Text: "hello"})
	require.NotEmpty(t, msgID)
	f.tasks.Schedule(msgID, time.Minute, func() {})
	f.tasks.Schedule(typingKey("v1"), time.Minute, func() {})

	f.uc.DeleteConversation("v1")

	assert.Zero(t, f.tasks.Pending(msgID))
	assert.Zero(t, f.tasks.Pending(typingKey("v1")))
	assert.Zero(t, f.vinted.Len())
}
