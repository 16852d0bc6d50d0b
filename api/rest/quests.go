package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/volumetricpixels/questy/cache"
	"github.com/volumetricpixels/questy/events"
	mw "github.com/volumetricpixels/questy/middleware"
	"github.com/volumetricpixels/questy/model"
	"github.com/volumetricpixels/questy/quest"
	"go.uber.org/zap"
)

// EventChannel is the pub/sub channel quest lifecycle events are published on.
const EventChannel = "quest_events"

// QuestHandler handles quest REST endpoints.
type QuestHandler struct {
	mgr    *quest.Manager
	events *events.Service
	pubsub cache.PubSub
	logger *zap.Logger
}

// NewQuestHandler creates a QuestHandler.
func NewQuestHandler(mgr *quest.Manager, ev *events.Service, ps cache.PubSub, logger *zap.Logger) *QuestHandler {
	return &QuestHandler{mgr: mgr, events: ev, pubsub: ps, logger: logger}
}

// List returns every registered quest with the caller's eligibility.
// GET /api/quests
func (h *QuestHandler) List(c *gin.Context) {
	quester := mw.GetQuester(c)
	quests := h.mgr.Quests()
	out := make([]gin.H, 0, len(quests))
	for _, q := range quests {
		out = append(out, gin.H{
			"name":            q.Name(),
			"description":     q.Description(),
			"objectives":      q.NumObjectives(),
			"max_completions": q.MaxCompletions(),
			"prerequisites":   q.Prerequisites(),
			"eligible":        h.mgr.SatisfiesPrerequisites(q, quester),
			"completions":     h.mgr.NumCompletions(q.Name(), quester),
			"active":          h.mgr.ActiveInstance(q.Name(), quester) != nil,
		})
	}
	c.JSON(http.StatusOK, gin.H{"quests": out})
}

// Detail returns the full definition of one quest.
// GET /api/quests/:name
func (h *QuestHandler) Detail(c *gin.Context) {
	q := h.mgr.GetQuest(c.Param("name"))
	if q == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quest not found"})
		return
	}
	objectives := make([]gin.H, 0, q.NumObjectives())
	for _, obj := range q.Objectives() {
		outcomes := make([]gin.H, 0, obj.NumOutcomes())
		for _, out := range obj.Outcomes() {
			outcomes = append(outcomes, gin.H{
				"name":    out.Name(),
				"message": out.Message(),
				"type":    out.Type(),
			})
		}
		objectives = append(objectives, gin.H{
			"name":        obj.Name(),
			"description": obj.Description(),
			"outcomes":    outcomes,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"name":            q.Name(),
		"description":     q.Description(),
		"begin_message":   q.BeginMessage(),
		"finish_message":  q.FinishMessage(),
		"max_completions": q.MaxCompletions(),
		"prerequisites":   q.Prerequisites(),
		"rewards":         q.Rewards(),
		"objectives":      objectives,
	})
}

// Start begins a new attempt at the quest for the caller.
// POST /api/quests/:name/start
func (h *QuestHandler) Start(c *gin.Context) {
	quester := mw.GetQuester(c)
	q := h.mgr.GetQuest(c.Param("name"))
	if q == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quest not found"})
		return
	}

	inst, err := h.mgr.Start(q, quester)
	switch {
	case errors.Is(err, quest.ErrQuestActive):
		c.JSON(http.StatusConflict, gin.H{"error": "quest already active"})
		return
	case errors.Is(err, quest.ErrPrerequisites):
		c.JSON(http.StatusForbidden, gin.H{"error": "prerequisites not satisfied"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.record(c, model.EventQuestStarted, quester, q.Name(), inst.Attempt(), nil)
	c.JSON(http.StatusCreated, gin.H{
		"instance_id":   inst.ID(),
		"quest":         q.Name(),
		"attempt":       inst.Attempt(),
		"begin_message": q.BeginMessage(),
		"objectives":    progressView(inst),
	})
}

type resolveRequest struct {
	Outcome string `json:"outcome" binding:"required"`
}

// Resolve resolves one objective of the caller's active instance.
// POST /api/quests/:name/objectives/:objective/resolve
func (h *QuestHandler) Resolve(c *gin.Context) {
	quester := mw.GetQuester(c)
	questName := c.Param("name")
	objective := c.Param("objective")

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	finished, err := h.mgr.ResolveObjective(questName, quester, objective, req.Outcome)
	switch {
	case errors.Is(err, quest.ErrNotActive):
		c.JSON(http.StatusNotFound, gin.H{"error": "quest not active"})
		return
	case errors.Is(err, quest.ErrUnknownObjective):
		c.JSON(http.StatusNotFound, gin.H{"error": "objective not found"})
		return
	case errors.Is(err, quest.ErrUnknownOutcome):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown outcome"})
		return
	case errors.Is(err, quest.ErrObjectiveResolved):
		c.JSON(http.StatusConflict, gin.H{"error": "objective already resolved"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	detail := gin.H{"objective": objective, "outcome": req.Outcome}
	h.record(c, model.EventObjectiveResolved, quester, questName, 0, detail)

	resp := gin.H{"finished": finished}
	if finished {
		q := h.mgr.GetQuest(questName)
		resp["finish_message"] = q.FinishMessage()
		resp["rewards"] = q.Rewards()
		resp["completions"] = h.mgr.NumCompletions(questName, quester)
		h.record(c, model.EventQuestCompleted, quester, questName, 0, nil)
	}
	c.JSON(http.StatusOK, resp)
}

// Abandon discards the caller's active instance without a completion.
// POST /api/quests/:name/abandon
func (h *QuestHandler) Abandon(c *gin.Context) {
	quester := mw.GetQuester(c)
	questName := c.Param("name")
	if err := h.mgr.Abandon(questName, quester); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quest not active"})
		return
	}
	h.record(c, model.EventQuestAbandoned, quester, questName, 0, nil)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Active lists the caller's active instances.
// GET /api/active
func (h *QuestHandler) Active(c *gin.Context) {
	quester := mw.GetQuester(c)
	instances := h.mgr.ActiveInstances(quester)
	out := make([]gin.H, 0, len(instances))
	for _, inst := range instances {
		out = append(out, gin.H{
			"instance_id": inst.ID(),
			"quest":       inst.Quest().Name(),
			"attempt":     inst.Attempt(),
			"objectives":  progressView(inst),
		})
	}
	c.JSON(http.StatusOK, gin.H{"active": out})
}

// Completions returns the caller's completion counts by quest.
// GET /api/completions
func (h *QuestHandler) Completions(c *gin.Context) {
	quester := mw.GetQuester(c)
	c.JSON(http.StatusOK, gin.H{"completions": h.mgr.Completions(quester)})
}

func progressView(inst *quest.Instance) []gin.H {
	progress := inst.Progress()
	out := make([]gin.H, 0, len(progress))
	for _, p := range progress {
		entry := gin.H{
			"name":  p.Objective().Name(),
			"state": p.State().String(),
		}
		if p.State() == quest.StateResolved {
			entry["outcome"] = p.Outcome()
		}
		out = append(out, entry)
	}
	return out
}

// record writes the event to the async event log and publishes it on the
// pub/sub channel for live consumers.
func (h *QuestHandler) record(c *gin.Context, eventType, quester, questName string, attempt int, detail gin.H) {
	h.events.Record(events.Entry{
		TraceID:   mw.GetTraceID(c),
		Quester:   quester,
		QuestName: questName,
		Type:      eventType,
		Attempt:   attempt,
		Detail:    detail,
	})

	payload, _ := json.Marshal(gin.H{
		"type":    eventType,
		"quester": quester,
		"quest":   questName,
		"detail":  detail,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.pubsub.Publish(ctx, EventChannel, string(payload)); err != nil {
		h.logger.Warn("event publish failed", zap.Error(err))
	}
}
