package handlers

import (
	"icancare-server/internal/models"
	"icancare-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DoctorHandler handles doctor listing and the admin approval workflow.
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// ListApprovedForPatients handles fetching approved doctors for the
// patient-facing directory. Doctors that are pending or denied are excluded.
func (h *DoctorHandler) ListApprovedForPatients(c *gin.Context) {
	var doctors []models.User
	if err := h.DB.Where("role = ? AND approval_status = ?", models.RoleDoctor, models.ApprovalApproved).
		Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(doctors))
	for i, d := range doctors {
		sanitized[i] = d.Sanitize()
	}
	utils.Success(c, "Doctors fetched successfully", sanitized)
}

// listByApproval fetches doctors with the given approval status (admin).
func (h *DoctorHandler) listByApproval(c *gin.Context, status models.ApprovalStatus) {
	var doctors []models.User
	if err := h.DB.Where("role = ? AND approval_status = ?", models.RoleDoctor, status).
		Order("created_at asc").Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(doctors))
	for i, d := range doctors {
		sanitized[i] = d.Sanitize()
	}
	utils.Success(c, "Doctors fetched successfully", sanitized)
}

// ListPending handles the admin approval queue.
func (h *DoctorHandler) ListPending(c *gin.Context) {
	h.listByApproval(c, models.ApprovalPending)
}

// ListApproved handles the admin listing of approved doctors.
func (h *DoctorHandler) ListApproved(c *gin.Context) {
	h.listByApproval(c, models.ApprovalApproved)
}

// ApproveRequest represents the admin's approval decision.
type ApproveRequest struct {
	Status string `json:"status" binding:"required,oneof=approved denied"`
}

// Approve handles the one-way pending -> approved/denied transition. There
// is no path back from denied, and approved doctors cannot be re-decided.
func (h *DoctorHandler) Approve(c *gin.Context) {
	doctorID := c.Param("id")

	var req ApproveRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", doctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if doctor.ApprovalStatus != models.ApprovalPending {
		utils.BadRequest(c, "Doctor approval status is already decided (status: "+string(doctor.ApprovalStatus)+")")
		return
	}

	doctor.ApprovalStatus = models.ApprovalStatus(req.Status)
	if err := h.DB.Save(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to update doctor approval status: "+err.Error())
		return
	}

	utils.Success(c, "Doctor approval status updated", doctor.Sanitize())
}
