package repository

import (
	"context"

	"chatstage/internal/domain/entity"
)

// ConversationDocumentRepository mirrors one conversation collection to a
// single remote document. The document either exists with the full payload
// or does not exist at all; there are no partial patches.
type ConversationDocumentRepository interface {
	// Load reads the document once. exists is false when the document has
	// never been written.
	Load(ctx context.Context) (conversations []entity.Conversation, exists bool, err error)

	// Save replaces the whole document.
	Save(ctx context.Context, conversations []entity.Conversation) error

	// Subscribe opens a standing snapshot listener. onChange receives every
	// remote snapshot, including echoes of this client's own writes; exists
	// is false for snapshots of a missing document. The returned handle
	// stops the listener.
	Subscribe(ctx context.Context, onChange func(conversations []entity.Conversation, exists bool), onError func(error)) (unsubscribe func())
}
