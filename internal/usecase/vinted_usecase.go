package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"chatstage/internal/domain/entity"
	"chatstage/internal/store"
	"chatstage/pkg/errors"
)

// VintedUseCase serves the resale app: its conversation collection (the one
// mirrored to the remote document) and the read-mostly balance. The balance
// only moves when an offer is accepted; it is not part of the sync path.
type VintedUseCase struct {
	vinted *store.Store

	// mu serializes offer resolution along with the balance it credits.
	mu      sync.Mutex
	balance entity.Balance
}

func NewVintedUseCase(vinted *store.Store, balance entity.Balance) *VintedUseCase {
	return &VintedUseCase{vinted: vinted, balance: balance}
}

func (uc *VintedUseCase) Conversations() []entity.Conversation {
	return uc.vinted.Get()
}

func (uc *VintedUseCase) GetConversation(id string) (entity.Conversation, error) {
	conv, ok := uc.vinted.Find(id)
	if !ok {
		return entity.Conversation{}, errors.NotFound("Conversation", nil)
	}
	return conv, nil
}

func (uc *VintedUseCase) UpdateConversation(id string, p store.ConversationPatch) error {
	if _, ok := uc.vinted.Find(id); !ok {
		return errors.NotFound("Conversation", nil)
	}
	uc.vinted.UpdateConversation(id, p)
	return nil
}

func (uc *VintedUseCase) Balance() entity.Balance {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.balance
}

// AcceptOffer marks the pending offer accepted, the product sold, and
// credits the offer amount to the pending balance with a history entry. The
// mutex covers the pending check as well; two concurrent accepts must not
// both pass it and double-credit the balance.
func (uc *VintedUseCase) AcceptOffer(convID string) (entity.Conversation, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	conv, ok := uc.vinted.Find(convID)
	if !ok {
		return entity.Conversation{}, errors.NotFound("Conversation", nil)
	}
	if conv.Offer == nil || conv.Offer.Status != entity.OfferStatusPending {
		return entity.Conversation{}, errors.BadRequest("Conversation has no pending offer", nil)
	}

	offer := *conv.Offer
	offer.Status = entity.OfferStatusAccepted
	uc.vinted.UpdateConversation(convID, store.ConversationPatch{Offer: &offer})

	sold := "sold"
	uc.vinted.UpdateProduct(convID, store.ProductPatch{Status: &sold})

	uc.balance.Pending += offer.Amount
	uc.balance.History = append(uc.balance.History, entity.Transaction{
		ID:        uuid.New().String(),
		Type:      "sale",
		Title:     conv.Product.Title,
		Amount:    offer.Amount,
		Status:    "pending",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})

	updated, _ := uc.vinted.Find(convID)
	return updated, nil
}

func (uc *VintedUseCase) DeclineOffer(convID string) (entity.Conversation, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	conv, ok := uc.vinted.Find(convID)
	if !ok {
		return entity.Conversation{}, errors.NotFound("Conversation", nil)
	}
	if conv.Offer == nil || conv.Offer.Status != entity.OfferStatusPending {
		return entity.Conversation{}, errors.BadRequest("Conversation has no pending offer", nil)
	}

	offer := *conv.Offer
	offer.Status = entity.OfferStatusDeclined
	uc.vinted.UpdateConversation(convID, store.ConversationPatch{Offer: &offer})

	updated, _ := uc.vinted.Find(convID)
	return updated, nil
}
