package model

import (
	"time"

	"gorm.io/datatypes"
)

// Quest event types.
const (
	EventQuestStarted      = "quest_started"
	EventObjectiveResolved = "objective_resolved"
	EventQuestCompleted    = "quest_completed"
	EventQuestAbandoned    = "quest_abandoned"
)

// QuestEvent records one quest lifecycle event for a quester.
type QuestEvent struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID   string         `gorm:"index:idx_event_trace;size:36" json:"trace_id"`
	Quester   string         `gorm:"index:idx_event_quester;size:64;not null" json:"quester"`
	QuestName string         `gorm:"index:idx_event_quest;size:128;not null" json:"quest_name"`
	Type      string         `gorm:"size:32;not null" json:"type"`
	Attempt   int            `json:"attempt"`
	Detail    datatypes.JSON `json:"detail"`
	CreatedAt time.Time      `gorm:"index:idx_event_created;autoCreateTime:milli" json:"created_at"`
}
