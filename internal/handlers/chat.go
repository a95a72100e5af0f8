package handlers

import (
	"icancare-server/internal/middleware"
	"icancare-server/internal/models"
	"icancare-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ChatHandler handles the case-scoped chat streams.
type ChatHandler struct {
	DB *gorm.DB
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(db *gorm.DB) *ChatHandler {
	return &ChatHandler{DB: db}
}

// requireDoctorStream loads a case and checks the requester is an assigned
// doctor who has accepted it. The doctor-only stream is never visible to the
// patient, even on a case they own.
func requireDoctorStream(c *gin.Context, db *gorm.DB, caseID string) (*models.Case, bool) {
	cs, ok := loadCaseWithDoctors(c, db, caseID)
	if !ok {
		return nil, false
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)

	if role != models.RoleDoctor || !cs.HasApprovedDoctor(userID) {
		utils.Forbidden(c, "The doctor stream is only available to doctors assigned to this case")
		return nil, false
	}
	return cs, true
}

// listMessages returns a case's messages on one channel in chronological
// order. Clients poll this endpoint; no push or ordering guarantee beyond
// the query order is provided.
func (h *ChatHandler) listMessages(c *gin.Context, caseID string, channel models.MessageChannel) {
	var messages []models.Message
	if err := h.DB.Preload("Sender").
		Where("case_id = ? AND channel = ?", caseID, channel).
		Order("created_at asc").Find(&messages).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch messages: "+err.Error())
		return
	}
	utils.Success(c, "Messages fetched successfully", messages)
}

// GetMessages handles reading the general stream (patient + doctors).
func (h *ChatHandler) GetMessages(c *gin.Context) {
	caseID := c.Param("caseId")
	if _, ok := requireCaseRead(c, h.DB, caseID); !ok {
		return
	}
	h.listMessages(c, caseID, models.ChannelGeneral)
}

// GetDoctorMessages handles reading the doctor-only stream.
func (h *ChatHandler) GetDoctorMessages(c *gin.Context) {
	caseID := c.Param("caseId")
	if _, ok := requireDoctorStream(c, h.DB, caseID); !ok {
		return
	}
	h.listMessages(c, caseID, models.ChannelDoctor)
}

// PostMessageRequest represents the request body for posting a message.
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
	Tag     string `json:"tag"`
	ReplyTo string `json:"replyTo"`
}

// postMessage appends a message to one of the case's channels.
func (h *ChatHandler) postMessage(c *gin.Context, cs *models.Case, channel models.MessageChannel) {
	var req PostMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if !models.ValidTag(req.Tag) {
		utils.BadRequest(c, "Unrecognized tag value: "+req.Tag)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)

	if req.ReplyTo != "" {
		var parent models.Message
		if err := h.DB.Where("id = ? AND case_id = ?", req.ReplyTo, cs.ID).First(&parent).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.BadRequest(c, "Reply target does not exist in this case")
			} else {
				utils.InternalServerError(c, "Database error verifying reply target: "+err.Error())
			}
			return
		}
	}

	message := models.Message{
		CaseID:     cs.ID,
		SenderID:   userID,
		SenderRole: role,
		Channel:    channel,
		Content:    req.Content,
		Tag:        models.MessageTag(req.Tag),
		ReplyToID:  req.ReplyTo,
	}
	if err := h.DB.Create(&message).Error; err != nil {
		utils.InternalServerError(c, "Failed to send message: "+err.Error())
		return
	}

	utils.Created(c, "Message sent successfully", message)
}

// PostMessage handles posting to the general stream.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	cs, ok := requireCaseRead(c, h.DB, c.Param("caseId"))
	if !ok {
		return
	}
	h.postMessage(c, cs, models.ChannelGeneral)
}

// PostDoctorMessage handles posting to the doctor-only stream.
func (h *ChatHandler) PostDoctorMessage(c *gin.Context) {
	cs, ok := requireDoctorStream(c, h.DB, c.Param("caseId"))
	if !ok {
		return
	}
	h.postMessage(c, cs, models.ChannelDoctor)
}

// SetTagRequest represents the request body for tag/reply updates.
type SetTagRequest struct {
	Tag     string `json:"tag"`
	ReplyTo string `json:"replyTo"`
}

// SetTag handles the idempotent tag overwrite on a message. An empty tag
// clears it; unrecognized values are rejected, never stored. A reply
// reference may be attached through the same call.
func (h *ChatHandler) SetTag(c *gin.Context) {
	caseID := c.Param("caseId")
	msgID := c.Param("msgId")

	cs, ok := requireCaseRead(c, h.DB, caseID)
	if !ok {
		return
	}

	var req SetTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if !models.ValidTag(req.Tag) {
		utils.BadRequest(c, "Unrecognized tag value: "+req.Tag)
		return
	}

	var message models.Message
	if err := h.DB.Where("id = ? AND case_id = ?", msgID, caseID).First(&message).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Message not found in this case")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	// Doctor-channel messages keep their audience rule for annotation too.
	if message.Channel == models.ChannelDoctor {
		userID, _ := middleware.GetUserIDFromContext(c)
		role, _ := middleware.GetUserRoleFromContext(c)
		if role != models.RoleDoctor || !cs.HasApprovedDoctor(userID) {
			utils.Forbidden(c, "Only assigned doctors may annotate doctor-stream messages")
			return
		}
	}

	updates := map[string]interface{}{"tag": req.Tag}
	if req.ReplyTo != "" {
		var parent models.Message
		if err := h.DB.Where("id = ? AND case_id = ?", req.ReplyTo, caseID).First(&parent).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.BadRequest(c, "Reply target does not exist in this case")
			} else {
				utils.InternalServerError(c, "Database error verifying reply target: "+err.Error())
			}
			return
		}
		updates["reply_to_id"] = req.ReplyTo
	}

	if err := h.DB.Model(&message).Updates(updates).Error; err != nil {
		utils.InternalServerError(c, "Failed to update message: "+err.Error())
		return
	}

	message.Tag = models.MessageTag(req.Tag)
	if req.ReplyTo != "" {
		message.ReplyToID = req.ReplyTo
	}
	utils.Success(c, "Message updated", message)
}
