package handlers

import (
	"icancare-server/internal/middleware"
	"icancare-server/internal/models"
	"icancare-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CaseHandler handles case lifecycle and participant management.
type CaseHandler struct {
	DB *gorm.DB
}

// NewCaseHandler creates a new CaseHandler.
func NewCaseHandler(db *gorm.DB) *CaseHandler {
	return &CaseHandler{DB: db}
}

// loadCaseWithDoctors fetches a case with its doctor assignments preloaded.
// On failure it writes the error response and returns false.
func loadCaseWithDoctors(c *gin.Context, db *gorm.DB, caseID string) (*models.Case, bool) {
	var cs models.Case
	if err := db.Preload("Doctors").First(&cs, "id = ?", caseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Case not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &cs, true
}

// requireCaseRead loads a case and checks the requester may read its general
// surfaces: the owning patient or an assigned doctor who has accepted.
func requireCaseRead(c *gin.Context, db *gorm.DB, caseID string) (*models.Case, bool) {
	cs, ok := loadCaseWithDoctors(c, db, caseID)
	if !ok {
		return nil, false
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	role, roleExists := middleware.GetUserRoleFromContext(c)
	if !exists || !roleExists {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}

	if !cs.CanRead(userID, role) {
		utils.Forbidden(c, "You are not a participant in this case")
		return nil, false
	}
	return cs, true
}

// CreateCaseRequest represents the request body for creating a case.
type CreateCaseRequest struct {
	Name string `json:"name"`
}

// CreateCase handles a patient opening a new consultation case.
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	patientID, _ := middleware.GetUserIDFromContext(c)

	name := req.Name
	if name == "" {
		name = "New case"
	}

	cs := models.Case{
		PatientID: patientID,
		Name:      name,
	}
	if err := h.DB.Create(&cs).Error; err != nil {
		utils.InternalServerError(c, "Failed to create case: "+err.Error())
		return
	}

	utils.Created(c, "Case created successfully", cs)
}

// GetPatientCases handles fetching the authenticated patient's cases.
func (h *CaseHandler) GetPatientCases(c *gin.Context) {
	patientID, _ := middleware.GetUserIDFromContext(c)

	var cases []models.Case
	if err := h.DB.Preload("Doctors.Doctor").Where("patient_id = ?", patientID).
		Order("created_at desc").Find(&cases).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch cases: "+err.Error())
		return
	}

	utils.Success(c, "Cases fetched successfully", cases)
}

// getDoctorCasesByStatus fetches the cases where the authenticated doctor
// has the given per-case status.
func (h *CaseHandler) getDoctorCasesByStatus(c *gin.Context, status models.CaseDoctorStatus) {
	doctorID, _ := middleware.GetUserIDFromContext(c)

	var assignments []models.CaseDoctor
	if err := h.DB.Where("doctor_id = ? AND status = ?", doctorID, status).
		Find(&assignments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch case assignments: "+err.Error())
		return
	}

	caseIDs := make([]string, len(assignments))
	for i, a := range assignments {
		caseIDs[i] = a.CaseID
	}

	var cases []models.Case
	if len(caseIDs) > 0 {
		if err := h.DB.Preload("Doctors").Preload("Patient").Where("id IN ?", caseIDs).
			Order("created_at desc").Find(&cases).Error; err != nil {
			utils.InternalServerError(c, "Failed to fetch cases: "+err.Error())
			return
		}
	}

	utils.Success(c, "Cases fetched successfully", cases)
}

// GetDoctorAcceptedCases handles fetching cases the doctor has accepted.
func (h *CaseHandler) GetDoctorAcceptedCases(c *gin.Context) {
	h.getDoctorCasesByStatus(c, models.CaseDoctorApproved)
}

// GetDoctorPendingCases handles fetching cases awaiting the doctor's response.
func (h *CaseHandler) GetDoctorPendingCases(c *gin.Context) {
	h.getDoctorCasesByStatus(c, models.CaseDoctorPending)
}

// RespondRequest represents a doctor's response to a case assignment.
type RespondRequest struct {
	Response string `json:"response" binding:"required,oneof=approved rejected"`
}

// Respond handles an assigned doctor accepting or rejecting a case. If the
// case has no primary doctor yet, the first doctor to accept becomes primary.
func (h *CaseHandler) Respond(c *gin.Context) {
	caseID := c.Param("id")
	doctorID, _ := middleware.GetUserIDFromContext(c)

	var req RespondRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	cs, ok := loadCaseWithDoctors(c, h.DB, caseID)
	if !ok {
		return
	}

	status, assigned := cs.DoctorStatus(doctorID)
	if !assigned {
		utils.Forbidden(c, "You are not assigned to this case")
		return
	}
	if status != models.CaseDoctorPending {
		utils.BadRequest(c, "You have already responded to this case (status: "+string(status)+")")
		return
	}

	newStatus := models.CaseDoctorStatus(req.Response)
	if err := h.DB.Model(&models.CaseDoctor{}).
		Where("case_id = ? AND doctor_id = ?", caseID, doctorID).
		Update("status", newStatus).Error; err != nil {
		utils.InternalServerError(c, "Failed to update assignment: "+err.Error())
		return
	}

	if newStatus == models.CaseDoctorApproved && cs.PrimaryDoctorID == "" {
		if err := h.DB.Model(cs).Update("primary_doctor_id", doctorID).Error; err != nil {
			utils.InternalServerError(c, "Failed to set primary doctor: "+err.Error())
			return
		}
	}

	utils.Success(c, "Response recorded", gin.H{"caseId": caseID, "status": newStatus})
}

// RenameRequest represents the request body for renaming a case.
type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

// Rename handles the owning patient renaming a case.
func (h *CaseHandler) Rename(c *gin.Context) {
	caseID := c.Param("id")
	userID, _ := middleware.GetUserIDFromContext(c)

	var req RenameRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	cs, ok := loadCaseWithDoctors(c, h.DB, caseID)
	if !ok {
		return
	}

	if !cs.IsOwner(userID) {
		utils.Forbidden(c, "Only the case owner can rename a case")
		return
	}

	if err := h.DB.Model(cs).Update("name", req.Name).Error; err != nil {
		utils.InternalServerError(c, "Failed to rename case: "+err.Error())
		return
	}

	utils.Success(c, "Case renamed successfully", gin.H{"id": cs.ID, "name": req.Name})
}

// AddDoctorRequest represents the request body for assigning a doctor.
type AddDoctorRequest struct {
	CaseID   string `json:"caseId" binding:"required"`
	DoctorID string `json:"doctorId" binding:"required"`
}

// AddDoctor handles adding a doctor to a case. Permitted for the owning
// patient and for the current primary doctor recruiting co-consultants. The
// added doctor enters with a pending per-case status until they accept.
func (h *CaseHandler) AddDoctor(c *gin.Context) {
	var req AddDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)

	cs, ok := loadCaseWithDoctors(c, h.DB, req.CaseID)
	if !ok {
		return
	}

	if !cs.CanManage(userID, role) {
		utils.Forbidden(c, "Only the case owner or the primary doctor can add doctors")
		return
	}

	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", req.DoctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	if doctor.ApprovalStatus != models.ApprovalApproved {
		utils.BadRequest(c, "Doctor is not approved on the platform")
		return
	}

	if _, already := cs.DoctorStatus(req.DoctorID); already {
		utils.BadRequest(c, "Doctor is already assigned to this case")
		return
	}

	assignment := models.CaseDoctor{
		CaseID:   cs.ID,
		DoctorID: req.DoctorID,
		Status:   models.CaseDoctorPending,
	}
	if err := h.DB.Create(&assignment).Error; err != nil {
		utils.InternalServerError(c, "Failed to add doctor to case: "+err.Error())
		return
	}

	utils.Created(c, "Doctor added to case", assignment)
}

// UpdatePrimaryDoctorRequest represents the request body for primary
// doctor reassignment.
type UpdatePrimaryDoctorRequest struct {
	CaseID   string `json:"caseId" binding:"required"`
	DoctorID string `json:"doctorId" binding:"required"`
}

// UpdatePrimaryDoctor handles reassigning a case's primary doctor. Only the
// owning patient or the current primary may do this, and the target must be
// an assigned doctor who has accepted the case.
func (h *CaseHandler) UpdatePrimaryDoctor(c *gin.Context) {
	var req UpdatePrimaryDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)

	cs, ok := loadCaseWithDoctors(c, h.DB, req.CaseID)
	if !ok {
		return
	}

	if !cs.CanManage(userID, role) {
		utils.Forbidden(c, "Only the case owner or the current primary doctor can reassign the primary doctor")
		return
	}

	if !cs.HasApprovedDoctor(req.DoctorID) {
		utils.BadRequest(c, "Primary doctor must be an assigned doctor who has accepted the case")
		return
	}

	if err := h.DB.Model(cs).Update("primary_doctor_id", req.DoctorID).Error; err != nil {
		utils.InternalServerError(c, "Failed to update primary doctor: "+err.Error())
		return
	}

	utils.Success(c, "Primary doctor updated", gin.H{"caseId": cs.ID, "primaryDoctorId": req.DoctorID})
}

// FeedbackRequest represents a patient's rating of a case doctor.
type FeedbackRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment"`
}

// AddFeedback handles the owning patient rating a doctor on the case.
func (h *CaseHandler) AddFeedback(c *gin.Context) {
	caseID := c.Param("id")
	userID, _ := middleware.GetUserIDFromContext(c)

	var req FeedbackRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	cs, ok := loadCaseWithDoctors(c, h.DB, caseID)
	if !ok {
		return
	}

	if !cs.IsOwner(userID) {
		utils.Forbidden(c, "Only the case owner can leave feedback")
		return
	}

	if _, assigned := cs.DoctorStatus(req.DoctorID); !assigned {
		utils.BadRequest(c, "Doctor is not assigned to this case")
		return
	}

	feedback := models.CaseFeedback{
		CaseID:   cs.ID,
		DoctorID: req.DoctorID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := h.DB.Create(&feedback).Error; err != nil {
		utils.InternalServerError(c, "Failed to record feedback: "+err.Error())
		return
	}

	utils.Created(c, "Feedback recorded", feedback)
}
