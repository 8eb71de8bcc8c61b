package entity

// Balance is read-mostly account state for the resale app. It is seeded from
// the bundled dataset and only moves when an offer is accepted.
type Balance struct {
	Available    float64       `json:"available" firestore:"available"`
	Pending      float64       `json:"pending" firestore:"pending"`
	Currency     string        `json:"currency" firestore:"currency"`
	StartBalance float64       `json:"startBalance" firestore:"startBalance"`
	History      []Transaction `json:"history" firestore:"history"`
}

type Transaction struct {
	ID        string  `json:"id" firestore:"id"`
	Type      string  `json:"type" firestore:"type"` // "sale", "payout", "topup"
	Title     string  `json:"title" firestore:"title"`
	Amount    float64 `json:"amount" firestore:"amount"`
	Status    string  `json:"status" firestore:"status"` // "pending", "completed"
	Timestamp string  `json:"timestamp" firestore:"timestamp"`
}
