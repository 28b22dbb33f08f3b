package model

// Item is one physical unit of inventory. ModelID never changes after
// creation; ListID and IsAvailable are mutated only by the reservation
// engine (install) and the restore operation (unstage).
type Item struct {
	ID              string `json:"id"`
	ModelID         string `json:"modelId"`
	ListID          string `json:"listId"` // warehouse id or owning list id
	IsAvailable     bool   `json:"isAvailable"`
	Attention       bool   `json:"attention"`
	AttentionReason string `json:"attentionReason,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
}
