package dto

import "time"

type CreatePullListInput struct {
	Address     string     `json:"address" binding:"required"`
	Client      string     `json:"client" binding:"required"`
	InstallDate *time.Time `json:"install_date"`
}
