package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusbook/scheduler/internal/model"
	"github.com/campusbook/scheduler/internal/service"
)

// SlotController exposes slot CRUD, the conflict check and attendance.
type SlotController struct {
	slots     *service.SlotService
	conflicts *service.ConflictService
	logger    *zap.Logger
}

func NewSlotController(slots *service.SlotService, conflicts *service.ConflictService, logger *zap.Logger) *SlotController {
	return &SlotController{
		slots:     slots,
		conflicts: conflicts,
		logger:    logger,
	}
}

func (c *SlotController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/slots", c.createSlot)
	api.PUT("/slots/:id", c.updateSlot)
	api.DELETE("/slots/:id", c.deleteSlot)
	api.POST("/slots/conflicts", c.findConflicts)
	api.POST("/appointments/:id/seen", c.saveSeen)
}

func (c *SlotController) createSlot(ctx *gin.Context) {
	var req service.SlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := c.slots.CreateSlot(ctx.Request.Context(), req)
	if err != nil {
		writeSlotError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, slot)
}

func (c *SlotController) updateSlot(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot id"})
		return
	}

	var req service.SlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := c.slots.UpdateSlot(ctx.Request.Context(), id, req)
	if err != nil {
		writeSlotError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, slot)
}

func (c *SlotController) deleteSlot(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot id"})
		return
	}

	if err := c.slots.DeleteSlot(ctx.Request.Context(), id); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.String(http.StatusOK, "OK")
}

type conflictRequest struct {
	TeacherID     int64  `json:"teacher_id" binding:"required"`
	StartTime     string `json:"start_time" binding:"required"` // RFC3339
	Duration      int    `json:"duration" binding:"required"`
	ExcludeSlotID int64  `json:"exclude_slot_id"`
	Scope         string `json:"scope"` // all, booked, unbooked
}

func (c *SlotController) findConflicts(ctx *gin.Context) {
	var req conflictRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseRFC3339(req.StartTime)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid start time"})
		return
	}

	scope, ok := parseScope(req.Scope)
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid scope"})
		return
	}

	candidate := model.NewTimeRange(start, req.Duration)
	conflicts, err := c.conflicts.FindConflicts(ctx.Request.Context(), candidate, req.TeacherID, req.ExcludeSlotID, scope)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"conflicts": conflicts})
}

type saveSeenRequest struct {
	Seen *bool `json:"seen" binding:"required"`
}

func (c *SlotController) saveSeen(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return
	}

	var req saveSeenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.slots.SetAttended(ctx.Request.Context(), id, *req.Seen); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.String(http.StatusOK, "OK")
}

// writeSlotError renders validation failures as 422 with the conflict
// list attached when overlap was the reason.
func writeSlotError(ctx *gin.Context, err error) {
	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     err.Error(),
			"conflicts": conflictErr.Conflicts,
		})
		return
	}
	ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
}

func parseRFC3339(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func parseScope(scope string) (model.ConflictScope, bool) {
	switch scope {
	case "", "all":
		return model.ScopeAll, true
	case "booked":
		return model.ScopeBookedOnly, true
	case "unbooked":
		return model.ScopeUnbookedOnly, true
	}
	return model.ScopeAll, false
}
