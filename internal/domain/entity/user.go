package entity

// User is the current user of the mockup, included in exports so an imported
// dataset restores the whole edit surface.
type User struct {
	ID     string  `json:"id" firestore:"id"`
	Name   string  `json:"name" firestore:"name"`
	Avatar *string `json:"avatar" firestore:"avatar"`
}
