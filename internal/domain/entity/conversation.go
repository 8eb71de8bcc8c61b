package entity

// Conversation is the top-level thread entity linking a participant, a
// product and a message history. Timestamps are ISO-8601 strings because
// that is the wire format of the synced document.
type Conversation struct {
	ID          string       `json:"id" firestore:"id"`
	Participant Participant  `json:"participant" firestore:"participant"`
	Product     Product      `json:"product" firestore:"product"`
	Messages    []Message    `json:"messages" firestore:"messages"`
	LastMessage LastMessage  `json:"lastMessage" firestore:"lastMessage"`
	UnreadCount int          `json:"unreadCount" firestore:"unreadCount"`
	IsTyping    bool         `json:"isTyping,omitempty" firestore:"isTyping,omitempty"`
	TimeAgo     string       `json:"timeAgo,omitempty" firestore:"timeAgo,omitempty"`
	Offer       *Offer       `json:"offer,omitempty" firestore:"offer,omitempty"`
	Transaction *Transaction `json:"transaction,omitempty" firestore:"transaction,omitempty"`
}

// Participant renders with Avatar if set, else a colored-initial badge from
// AvatarColor, else the default silhouette. At most one of Avatar and
// AvatarColor is non-nil.
type Participant struct {
	ID          string  `json:"id" firestore:"id"`
	Name        string  `json:"name" firestore:"name"`
	Avatar      *string `json:"avatar" firestore:"avatar"`
	AvatarColor *string `json:"avatarColor" firestore:"avatarColor"`
	Location    string  `json:"location,omitempty" firestore:"location,omitempty"`
	LastSeen    string  `json:"lastSeen,omitempty" firestore:"lastSeen,omitempty"`
	IsOnline    bool    `json:"isOnline,omitempty" firestore:"isOnline,omitempty"`
}

type Product struct {
	ID            string  `json:"id" firestore:"id"`
	Title         string  `json:"title" firestore:"title"`
	Price         float64 `json:"price" firestore:"price"`
	OriginalPrice float64 `json:"originalPrice,omitempty" firestore:"originalPrice,omitempty"`
	Currency      string  `json:"currency" firestore:"currency"`
	Image         string  `json:"image" firestore:"image"`
	Subtotal      float64 `json:"subtotal,omitempty" firestore:"subtotal,omitempty"`
	Status        string  `json:"status" firestore:"status"` // "available", "reserved", "sold"
}

type Message struct {
	ID        string `json:"id" firestore:"id"`
	SenderID  string `json:"senderId" firestore:"senderId"`
	Text      string `json:"text" firestore:"text"`
	Timestamp string `json:"timestamp" firestore:"timestamp"`
	Status    string `json:"status,omitempty" firestore:"status,omitempty"` // "sent", "delivered", "read"
	Type      string `json:"type,omitempty" firestore:"type,omitempty"`     // "text", "offer"
}

// LastMessage is a derived cache of the tail of Messages, or a synthetic
// preview for generated conversations that have no messages yet.
type LastMessage struct {
	Text      string `json:"text" firestore:"text"`
	Timestamp string `json:"timestamp" firestore:"timestamp"`
	IsFromMe  bool   `json:"isFromMe" firestore:"isFromMe"`
	Status    string `json:"status,omitempty" firestore:"status,omitempty"`
}

// Offer is a value object embedded in its owning conversation.
type Offer struct {
	Amount        float64 `json:"amount" firestore:"amount"`
	OriginalPrice float64 `json:"originalPrice" firestore:"originalPrice"`
	Status        string  `json:"status" firestore:"status"` // "pending", "accepted", "declined"
}

// SenderMe is the sender id the current user's own messages carry.
const SenderMe = "me"

const (
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
)

const (
	OfferStatusPending  = "pending"
	OfferStatusAccepted = "accepted"
	OfferStatusDeclined = "declined"
)
