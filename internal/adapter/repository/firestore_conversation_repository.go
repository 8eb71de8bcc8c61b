package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chatstage/internal/domain/entity"
	"chatstage/internal/domain/repository"
	"chatstage/pkg/errors"
	"chatstage/pkg/logger"
)

// conversationDocument is the remote payload shape; the whole collection
// lives in one document and every save replaces it.
type conversationDocument struct {
	Conversations []entity.Conversation `firestore:"conversations"`
}

type firestoreConversationRepository struct {
	client     *firestore.Client
	collection string
	doc        string
}

func NewFirestoreConversationRepository(client *firestore.Client, collection, doc string) repository.ConversationDocumentRepository {
	return &firestoreConversationRepository{
		client:     client,
		collection: collection,
		doc:        doc,
	}
}

func (r *firestoreConversationRepository) ref() *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(r.doc)
}

func (r *firestoreConversationRepository) Load(ctx context.Context) ([]entity.Conversation, bool, error) {
	snap, err := r.ref().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, errors.RemoteUnavailable("Failed to load conversation document", err)
	}

	var doc conversationDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, false, errors.Internal("Failed to parse conversation document", err)
	}
	return doc.Conversations, true, nil
}

func (r *firestoreConversationRepository) Save(ctx context.Context, conversations []entity.Conversation) error {
	_, err := r.ref().Set(ctx, conversationDocument{Conversations: conversations})
	if err != nil {
		return errors.RemoteUnavailable("Failed to save conversation document", err)
	}
	return nil
}

func (r *firestoreConversationRepository) Subscribe(ctx context.Context, onChange func([]entity.Conversation, bool), onError func(error)) func() {
	ctx, cancel := context.WithCancel(ctx)
	iter := r.ref().Snapshots(ctx)

	go func() {
		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				onError(errors.RemoteUnavailable("Conversation document listener failed", err))
				return
			}
			if !snap.Exists() {
				onChange(nil, false)
				continue
			}
			var doc conversationDocument
			if err := snap.DataTo(&doc); err != nil {
				logger.Error("Error parsing conversation snapshot: %v", err)
				onError(errors.Internal("Failed to parse conversation snapshot", err))
				continue
			}
			onChange(doc.Conversations, true)
		}
	}()

	return func() {
		cancel()
		iter.Stop()
	}
}
