package model

import "time"

// Progress document categories.
const (
	CategoryCurrent   = "current"
	CategoryCompleted = "completed"
)

// ProgressRecord is one quester's progress blob for one quest within one
// category. A category save replaces all of the category's rows in a single
// transaction, so a load always sees one consistent document.
type ProgressRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Category  string    `gorm:"uniqueIndex:idx_progress_key;size:16;not null" json:"category"`
	Quester   string    `gorm:"uniqueIndex:idx_progress_key;size:64;not null" json:"quester"`
	QuestName string    `gorm:"uniqueIndex:idx_progress_key;size:128;not null" json:"quest_name"`
	Blob      string    `gorm:"type:text;not null" json:"blob"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
