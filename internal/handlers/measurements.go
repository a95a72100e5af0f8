package handlers

import (
	"time"

	"icancare-server/internal/middleware"
	"icancare-server/internal/models"
	"icancare-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MeasurementHandler handles named-series measurement logs on a case. The
// legacy lymph and p2 routes are two series over the same entry type.
type MeasurementHandler struct {
	DB *gorm.DB
}

// NewMeasurementHandler creates a new MeasurementHandler.
func NewMeasurementHandler(db *gorm.DB) *MeasurementHandler {
	return &MeasurementHandler{DB: db}
}

// List returns a handler that fetches a series' entries sorted by date.
func (h *MeasurementHandler) List(series string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID := c.Param("id")
		if _, ok := requireCaseRead(c, h.DB, caseID); !ok {
			return
		}

		var entries []models.MeasurementEntry
		if err := h.DB.Where("case_id = ? AND series = ?", caseID, series).
			Order("recorded_at asc").Find(&entries).Error; err != nil {
			utils.InternalServerError(c, "Failed to fetch measurement entries: "+err.Error())
			return
		}

		utils.Success(c, "Measurement entries fetched successfully", entries)
	}
}

// AppendEntryRequest represents the request body for a new measurement.
type AppendEntryRequest struct {
	Date string   `json:"date" binding:"required"`
	Size *float64 `json:"size" binding:"required"`
}

// Append returns a handler that appends a dated numeric observation to a
// series. Only an assigned doctor who has accepted the case may append;
// entries are never edited or deleted.
func (h *MeasurementHandler) Append(series string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caseID := c.Param("id")

		cs, ok := loadCaseWithDoctors(c, h.DB, caseID)
		if !ok {
			return
		}

		userID, _ := middleware.GetUserIDFromContext(c)
		role, _ := middleware.GetUserRoleFromContext(c)
		if role != models.RoleDoctor || !cs.HasApprovedDoctor(userID) {
			utils.Forbidden(c, "Only doctors assigned to this case can append measurements")
			return
		}

		var req AppendEntryRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}

		recordedAt, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}

		entry := models.MeasurementEntry{
			CaseID:     cs.ID,
			Series:     series,
			RecordedAt: recordedAt,
			Size:       *req.Size,
			DoctorID:   userID,
		}
		if err := h.DB.Create(&entry).Error; err != nil {
			utils.InternalServerError(c, "Failed to append measurement entry: "+err.Error())
			return
		}

		utils.Created(c, "Measurement entry recorded", entry)
	}
}
