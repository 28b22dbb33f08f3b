package model

// Model is a catalog entry describing a class of interchangeable items.
//
// AvailableItemCount is denormalized: it must equal the number of this
// model's items with IsAvailable == true at all times. It is maintained by
// signed-delta increments co-committed with the item mutation that changes
// availability, never recomputed by scanning items.
type Model struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	PrimaryColor       string   `json:"primaryColor,omitempty"`
	SecondaryColor     string   `json:"secondaryColor,omitempty"`
	PrimaryMaterial    string   `json:"primaryMaterial,omitempty"`
	SecondaryMaterial  string   `json:"secondaryMaterial,omitempty"`
	IsEssential        bool     `json:"isEssential"`
	ItemIDs            []string `json:"itemIds"`
	AvailableItemCount int64    `json:"availableItemCount"`
}

// FieldAvailableItemCount is the document field targeted by atomic
// counter increments. Must match the json tag above.
const FieldAvailableItemCount = "availableItemCount"
