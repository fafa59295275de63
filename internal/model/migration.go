package model

import "time"

// Migration records one-time startup steps (seeding, data fixes) that
// have already run against this database
type Migration struct {
	ID        int       `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}
