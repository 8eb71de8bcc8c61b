package seed

import (
	_ "embed"
	"encoding/json"

	"chatstage/internal/domain/entity"
)

//go:embed data/marketplace.json
var marketplaceJSON []byte

//go:embed data/vinted.json
var vintedJSON []byte

// MarketplaceData is the bundled messenger dataset consumed at startup.
type MarketplaceData struct {
	CurrentUser   entity.User           `json:"currentUser"`
	Conversations []entity.Conversation `json:"conversations"`
}

// VintedData is the bundled resale-app dataset, also the fallback when the
// remote document is missing or unreachable.
type VintedData struct {
	Conversations []entity.Conversation `json:"conversations"`
	Balance       entity.Balance        `json:"balance"`
}

func Marketplace() (*MarketplaceData, error) {
	var data MarketplaceData
	if err := json.Unmarshal(marketplaceJSON, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func Vinted() (*VintedData, error) {
	var data VintedData
	if err := json.Unmarshal(vintedJSON, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
