package model

import (
	"time"

	"gorm.io/datatypes"
)

// Solution is one solved deal.
type Solution struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	BatchID   string         `gorm:"size:36;index" json:"batchId,omitempty"` // empty for single solves
	Hand      string         `gorm:"size:14;not null" json:"hand"`           // "TH JH QC QD QS"
	Deck      string         `gorm:"size:14;not null" json:"deck"`
	Best      string         `gorm:"size:32;not null;index" json:"best"` // category name
	BestRank  int            `gorm:"not null" json:"bestRank"`           // 1 (highest-card) .. 9 (straight-flush)
	Keep      string         `gorm:"size:14" json:"keep"`                // hand cards kept by one best play
	Breakdown datatypes.JSON `json:"breakdown"`                          // {"straight":1,"one-pair":12,...}
	CreatedAt time.Time      `json:"createdAt"`
}

type Admin struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	DisplayName  string
	Status       string `gorm:"default:active;not null"` // active/disabled
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Solution{},
		&Admin{},
	}
}
