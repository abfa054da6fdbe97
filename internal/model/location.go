package model

import "gorm.io/gorm"

type Location struct {
	gorm.Model
	Name    string `json:"name" gorm:"unique;not null"`
	Address string `json:"address"`

	Employees []Employee `json:"employees,omitempty"`
}

// LocationRankSummary is a derived aggregation, never persisted.
type LocationRankSummary struct {
	LocationID   uint   `json:"location_id"`
	LocationName string `json:"location_name"`
	Rank         string `json:"rank"`
	Count        int64  `json:"count"`
}
