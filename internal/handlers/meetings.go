package handlers

import (
	"time"

	"icancare-server/internal/middleware"
	"icancare-server/internal/models"
	"icancare-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MeetingHandler handles case meeting scheduling.
type MeetingHandler struct {
	DB *gorm.DB
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(db *gorm.DB) *MeetingHandler {
	return &MeetingHandler{DB: db}
}

// ScheduleRequest represents the request body for scheduling a meeting.
type ScheduleRequest struct {
	StartTime string `json:"startTime" binding:"required"`
	Title     string `json:"title"`
	Notes     string `json:"notes"`
}

// Schedule handles the primary doctor scheduling a meeting on a case.
func (h *MeetingHandler) Schedule(c *gin.Context) {
	caseID := c.Param("id")

	cs, ok := loadCaseWithDoctors(c, h.DB, caseID)
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if role != models.RoleDoctor || !cs.IsPrimary(userID) {
		utils.Forbidden(c, "Only the case's primary doctor can schedule meetings")
		return
	}

	var req ScheduleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		utils.BadRequest(c, "Invalid startTime, expected RFC3339 (e.g. 2006-01-02T15:04:05Z)")
		return
	}

	meeting := models.Meeting{
		CaseID:        cs.ID,
		ScheduledByID: userID,
		StartTime:     startTime,
		Title:         req.Title,
		Notes:         req.Notes,
	}
	if err := h.DB.Create(&meeting).Error; err != nil {
		utils.InternalServerError(c, "Failed to schedule meeting: "+err.Error())
		return
	}

	utils.Created(c, "Meeting scheduled", meeting)
}

// ListForCase handles fetching a case's meetings.
func (h *MeetingHandler) ListForCase(c *gin.Context) {
	caseID := c.Param("id")
	if _, ok := requireCaseRead(c, h.DB, caseID); !ok {
		return
	}

	var meetings []models.Meeting
	if err := h.DB.Where("case_id = ?", caseID).Order("start_time asc").Find(&meetings).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch meetings: "+err.Error())
		return
	}

	utils.Success(c, "Meetings fetched successfully", meetings)
}
