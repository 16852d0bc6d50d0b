package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/volumetricpixels/questy/model"
	"github.com/volumetricpixels/questy/quest"
	"github.com/volumetricpixels/questy/scheduler"
	"github.com/volumetricpixels/questy/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminAuth gates admin endpoints on a shared key header. With no key
// configured, admin endpoints are disabled entirely.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" || c.GetHeader("X-Admin-Key") != adminKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// AdminHandler handles operational admin endpoints.
type AdminHandler struct {
	db     *gorm.DB
	mgr    *quest.Manager
	st     store.Store
	sched  *scheduler.Scheduler
	logger *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *gorm.DB, mgr *quest.Manager, st store.Store, sched *scheduler.Scheduler, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{db: db, mgr: mgr, st: st, sched: sched, logger: logger}
}

// Metrics returns basic engine counters.
// GET /api/admin/metrics
func (h *AdminHandler) Metrics(c *gin.Context) {
	var accounts int64
	h.db.Model(&model.Account{}).Count(&accounts)
	var eventRows int64
	h.db.Model(&model.QuestEvent{}).Count(&eventRows)

	c.JSON(http.StatusOK, gin.H{
		"quests":   len(h.mgr.Quests()),
		"accounts": accounts,
		"events":   eventRows,
	})
}

// Save flushes the manager's progress state through the store immediately.
// POST /api/admin/save
func (h *AdminHandler) Save(c *gin.Context) {
	if err := h.mgr.Save(c.Request.Context(), h.st); err != nil {
		h.logger.Error("manual save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListSchedulerTasks lists registered ticker tasks.
// GET /api/admin/scheduler
func (h *AdminHandler) ListSchedulerTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tickers": h.sched.ListTickers()})
}
