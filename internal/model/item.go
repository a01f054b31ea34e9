package model

// Item is a single stored text entry.
// ID is assigned by the store on insert and never reused.
type Item struct {
	ID   int64  `json:"id" yaml:"id"`
	Body string `json:"body" yaml:"body"`
}
