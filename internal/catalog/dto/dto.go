package dto

type CreateModelInput struct {
	Name              string `json:"name" binding:"required"`
	Type              string `json:"type" binding:"required"`
	PrimaryColor      string `json:"primary_color"`
	SecondaryColor    string `json:"secondary_color"`
	PrimaryMaterial   string `json:"primary_material"`
	SecondaryMaterial string `json:"secondary_material"`
	IsEssential       bool   `json:"is_essential"`
	InitialItemCount  int    `json:"initial_item_count" binding:"min=0"`
	WarehouseID       string `json:"warehouse_id"`
}

type ModelFilters struct {
	SearchQuery string `form:"q"`
	Type        string `form:"type"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}
