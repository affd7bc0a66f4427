package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusbook/scheduler/internal/meeting"
	"github.com/campusbook/scheduler/internal/service"
)

// MeetingController exposes the meeting actions the slot form calls:
// create-or-fetch for a teacher and delete by id.
type MeetingController struct {
	meetings *service.MeetingService
	logger   *zap.Logger
}

func NewMeetingController(meetings *service.MeetingService, logger *zap.Logger) *MeetingController {
	return &MeetingController{meetings: meetings, logger: logger}
}

func (c *MeetingController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/meetings", c.createOrFetch)
	api.DELETE("/meetings/:id", c.deleteMeeting)
}

type createMeetingRequest struct {
	TeacherID int64 `json:"teacher_id" binding:"required"`
	MeetingID int64 `json:"meeting_id"` // nonzero = fetch existing
}

func (c *MeetingController) createOrFetch(ctx *gin.Context) {
	var req createMeetingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mtg, err := c.meetings.CreateOrFetch(ctx.Request.Context(), req.TeacherID, req.MeetingID)
	if err != nil {
		if errors.Is(err, meeting.ErrHostNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "teacher has no meeting host account"})
			return
		}
		c.logger.Error("Meeting action failed", zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if mtg == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}

	ctx.JSON(http.StatusOK, mtg)
}

func (c *MeetingController) deleteMeeting(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	if err := c.meetings.Delete(ctx.Request.Context(), id); err != nil {
		c.logger.Error("Meeting delete failed", zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	ctx.String(http.StatusOK, "OK")
}
