// Package events records quest lifecycle events asynchronously so the hot
// path never waits on the database.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/volumetricpixels/questy/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry holds one quest event to be recorded.
type Entry struct {
	TraceID   string
	Quester   string
	QuestName string
	Type      string
	Attempt   int
	Detail    interface{}
}

// Service writes quest events to the database in batches.
type Service struct {
	db     *gorm.DB
	ch     chan *model.QuestEvent
	stopCh chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates an events Service and starts its background worker.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	svc := &Service{
		db:     db,
		ch:     make(chan *model.QuestEvent, 1024),
		stopCh: make(chan struct{}),
		logger: logger,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Record enqueues a quest event for async DB write. When the queue is full
// the event is dropped rather than blocking the caller.
func (svc *Service) Record(entry Entry) {
	detailJSON, _ := json.Marshal(entry.Detail)
	record := &model.QuestEvent{
		TraceID:   entry.TraceID,
		Quester:   entry.Quester,
		QuestName: entry.QuestName,
		Type:      entry.Type,
		Attempt:   entry.Attempt,
		Detail:    datatypes.JSON(detailJSON),
	}
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("event channel full, dropping entry",
			zap.String("type", entry.Type),
			zap.String("quest", entry.QuestName))
	}
}

// Stop flushes remaining events and shuts down the worker. It blocks until
// the worker goroutine has finished.
func (svc *Service) Stop(_ context.Context) {
	select {
	case <-svc.stopCh:
	default:
		close(svc.stopCh)
	}
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	batch := make([]*model.QuestEvent, 0, 100)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("event batch write failed", zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case record := <-svc.ch:
			batch = append(batch, record)
			if len(batch) >= 100 {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			// Drain remaining entries.
			for {
				select {
				case record := <-svc.ch:
					batch = append(batch, record)
				default:
					flush()
					return
				}
			}
		}
	}
}
