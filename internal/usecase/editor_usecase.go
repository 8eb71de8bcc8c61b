package usecase

import (
	"encoding/json"
	"sync"

	"chatstage/internal/domain/entity"
	"chatstage/internal/infrastructure/websocket"
	"chatstage/internal/scheduler"
	"chatstage/internal/store"
	"chatstage/pkg/errors"
)

// EditorUseCase is the single mutation path for the edit surface. It
// operates over a merged view of the marketplace and resale collections so
// shared editing UI (add conversation, export) works uniformly, and
// partitions every write-back by pre-edit marketplace id membership. New
// ids are never in the marketplace set, so editor-created conversations
// land in the resale collection. The two id spaces are disjoint by
// construction (uuid); the partition relies on that.
type EditorUseCase struct {
	// mu serializes session state and the merged write path; the
	// controller is the single writer over both collections.
	mu          sync.Mutex
	panelOpen   bool
	editMode    bool
	currentUser entity.User

	marketplace *store.Store
	vinted      *store.Store
	tasks       *scheduler.Scheduler
	wsManager   *websocket.Manager
}

func NewEditorUseCase(marketplace, vinted *store.Store, currentUser entity.User, tasks *scheduler.Scheduler, wsManager *websocket.Manager) *EditorUseCase {
	return &EditorUseCase{
		currentUser: currentUser,
		marketplace: marketplace,
		vinted:      vinted,
		tasks:       tasks,
		wsManager:   wsManager,
	}
}

// EditorState is the transient session state, not part of any export.
type EditorState struct {
	PanelOpen bool `json:"panelOpen"`
	EditMode  bool `json:"editMode"`
}

func (uc *EditorUseCase) State() EditorState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return EditorState{PanelOpen: uc.panelOpen, EditMode: uc.editMode}
}

func (uc *EditorUseCase) OpenPanel() EditorState {
	return uc.setPanel(true)
}

func (uc *EditorUseCase) ClosePanel() EditorState {
	return uc.setPanel(false)
}

// TogglePanel is the cancel-key semantics: close if open, open otherwise.
func (uc *EditorUseCase) TogglePanel() EditorState {
	uc.mu.Lock()
	uc.panelOpen = !uc.panelOpen
	state := EditorState{PanelOpen: uc.panelOpen, EditMode: uc.editMode}
	uc.mu.Unlock()
	uc.broadcastState(state)
	return state
}

func (uc *EditorUseCase) ToggleEditMode() EditorState {
	uc.mu.Lock()
	uc.editMode = !uc.editMode
	state := EditorState{PanelOpen: uc.panelOpen, EditMode: uc.editMode}
	uc.mu.Unlock()
	uc.broadcastState(state)
	return state
}

func (uc *EditorUseCase) setPanel(open bool) EditorState {
	uc.mu.Lock()
	uc.panelOpen = open
	state := EditorState{PanelOpen: uc.panelOpen, EditMode: uc.editMode}
	uc.mu.Unlock()
	uc.broadcastState(state)
	return state
}

func (uc *EditorUseCase) CurrentUser() entity.User {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.currentUser
}

// Conversations returns the merged marketplace + resale view, marketplace
// entries first.
func (uc *EditorUseCase) Conversations() []entity.Conversation {
	m := uc.marketplace.Get()
	v := uc.vinted.Get()
	merged := make([]entity.Conversation, 0, len(m)+len(v))
	merged = append(merged, m...)
	merged = append(merged, v...)
	return merged
}

// applyMerged runs fn over the merged view and partitions the result back
// into the two collections by membership in the pre-edit marketplace id set.
// The mutex is held for the whole read-partition-write cycle: two concurrent
// mutations would otherwise each snapshot both collections and the second
// write-back would restore a stale copy of the other one.
func (uc *EditorUseCase) applyMerged(fn func([]entity.Conversation) []entity.Conversation) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.applyMergedLocked(fn)
}

func (uc *EditorUseCase) applyMergedLocked(fn func([]entity.Conversation) []entity.Conversation) {
	m := uc.marketplace.Get()
	v := uc.vinted.Get()

	marketplaceIDs := make(map[string]bool, len(m))
	for _, c := range m {
		marketplaceIDs[c.ID] = true
	}

	merged := make([]entity.Conversation, 0, len(m)+len(v))
	merged = append(merged, m...)
	merged = append(merged, v...)
	result := fn(merged)

	newMarketplace := make([]entity.Conversation, 0, len(m))
	newVinted := make([]entity.Conversation, 0, len(v))
	for _, c := range result {
		if marketplaceIDs[c.ID] {
			newMarketplace = append(newMarketplace, c)
		} else {
			newVinted = append(newVinted, c)
		}
	}

	uc.marketplace.Replace(newMarketplace, store.OriginLocal)
	uc.vinted.Replace(newVinted, store.OriginLocal)
	uc.broadcastConversations()
}

func (uc *EditorUseCase) UpdateConversation(id string, p store.ConversationPatch) {
	uc.applyMerged(func(convs []entity.Conversation) []entity.Conversation {
		return store.UpdateConversation(convs, id, p)
	})
}

func (uc *EditorUseCase) UpdateParticipant(id string, p store.ParticipantPatch) {
	uc.applyMerged(func(convs []entity.Conversation) []entity.Conversation {
		return store.UpdateParticipant(convs, id, p)
	})
}

func (uc *EditorUseCase) UpdateProduct(id string, p store.ProductPatch) {
	uc.applyMerged(func(convs []entity.Conversation) []entity.Conversation {
		return store.UpdateProduct(convs, id, p)
	})
}

func (uc *EditorUseCase) UpdateMessage(convID, msgID string, p store.MessagePatch) {
	uc.applyMerged(func(convs []entity.Conversation) []entity.Conversation {
		return store.UpdateMessage(convs, convID, msgID, p)
	})
}

func (uc *EditorUseCase) AddMessage(convID string, msg entity.Message) string {
	var id string
	uc.applyMerged(func(convs []entity.Conversation) []entity.Conversation {
		next, msgID := store.AddMessage(convs, convID, msg)
		id = msgID
		return next
	})
	return id
}

func (uc *EditorUseCase) DeleteMessage(convID, msgID string) {
	uc.tasks.Cancel(msgID)
	uc.applyMerged(func(convs []entity.Conversation) []entity.Conversation {
		return store.DeleteMessage(convs, convID, msgID)
	})
}

// NewConversationInput mirrors the editor's add form; empty fields fall back
// to placeholder defaults.
type NewConversationInput struct {
	ParticipantName   string
	ParticipantAvatar string
	ProductTitle      string
	ProductPrice      float64
	ProductImage      string
}

const (
	defaultParticipantAvatar = "https://i.pravatar.cc/150?img=1"
	defaultProductImage      = "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=200&h=200&fit=crop"
)

func (uc *EditorUseCase) AddConversation(input NewConversationInput, nowISO string) string {
	name := input.ParticipantName
	if name == "" {
		name = "New User"
	}
	avatar := input.ParticipantAvatar
	if avatar == "" {
		avatar = defaultParticipantAvatar
	}
	title := input.ProductTitle
	if title == "" {
		title = "New Product"
	}
	image := input.ProductImage
	if image == "" {
		image = defaultProductImage
	}

	conv := entity.Conversation{
		Participant: entity.Participant{
			Name:   name,
			Avatar: &avatar,
		},
		Product: entity.Product{
			Title:    title,
			Price:    input.ProductPrice,
			Currency: "GBP",
			Image:    image,
			Status:   "available",
		},
		Messages:    []entity.Message{},
		LastMessage: entity.LastMessage{Timestamp: nowISO},
	}

	var id string
	uc.applyMerged(func(convs []entity.Conversation) []entity.Conversation {
		next, convID := store.AddConversation(convs, conv)
		id = convID
		return next
	})
	return id
}

func (uc *EditorUseCase) DeleteConversation(id string) {
	if conv, ok := findMerged(uc.Conversations(), id); ok {
		for _, m := range conv.Messages {
			uc.tasks.Cancel(m.ID)
		}
		uc.tasks.Cancel(typingKey(id))
	}
	uc.applyMerged(func(convs []entity.Conversation) []entity.Conversation {
		return store.DeleteConversation(convs, id)
	})
}

// TransferData is the export/import wire format.
type TransferData struct {
	CurrentUser   entity.User           `json:"currentUser"`
	Conversations []entity.Conversation `json:"conversations"`
}

func (uc *EditorUseCase) ExportData() ([]byte, error) {
	data := TransferData{
		CurrentUser:   uc.CurrentUser(),
		Conversations: uc.Conversations(),
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, errors.Internal("Failed to serialize export", err)
	}
	return out, nil
}

// ImportData replaces both collections and the current user. Parse or shape
// failures abort the import with state unchanged.
func (uc *EditorUseCase) ImportData(payload []byte) error {
	var data struct {
		CurrentUser   *entity.User          `json:"currentUser"`
		Conversations []entity.Conversation `json:"conversations"`
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		return errors.ImportMalformed("Payload is not valid JSON", err)
	}
	if data.Conversations == nil {
		return errors.ImportMalformed("Payload is missing conversations", nil)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.applyMergedLocked(func([]entity.Conversation) []entity.Conversation {
		return data.Conversations
	})
	if data.CurrentUser != nil {
		uc.currentUser = *data.CurrentUser
	}
	return nil
}

func (uc *EditorUseCase) broadcastState(state EditorState) {
	if uc.wsManager == nil {
		return
	}
	msg, err := json.Marshal(map[string]interface{}{
		"type":  "editor_state",
		"state": state,
	})
	if err != nil {
		return
	}
	uc.wsManager.Broadcast(msg)
}

func (uc *EditorUseCase) broadcastConversations() {
	if uc.wsManager == nil {
		return
	}
	msg, err := json.Marshal(map[string]string{"type": "conversations_changed"})
	if err != nil {
		return
	}
	uc.wsManager.Broadcast(msg)
}

func findMerged(convs []entity.Conversation, id string) (entity.Conversation, bool) {
	return store.Find(convs, id)
}
