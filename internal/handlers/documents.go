package handlers

import (
	"fmt"
	"io"
	"net/http"

	"icancare-server/internal/middleware"
	"icancare-server/internal/models"
	"icancare-server/internal/summarize"
	"icancare-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxDocumentSize caps uploaded files at 20 MB.
const maxDocumentSize = 20 << 20

// DocumentHandler handles case document upload, download and summarization.
type DocumentHandler struct {
	DB         *gorm.DB
	Summarizer *summarize.Client
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(db *gorm.DB, summarizer *summarize.Client) *DocumentHandler {
	return &DocumentHandler{DB: db, Summarizer: summarizer}
}

// Upload handles a multipart file upload scoped to a case. Files are stored
// as binary data in the database.
func (h *DocumentHandler) Upload(c *gin.Context) {
	caseID := c.PostForm("caseId")
	if caseID == "" {
		utils.BadRequest(c, "caseId form field is required")
		return
	}

	cs, ok := requireCaseRead(c, h.DB, caseID)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "Error retrieving file from form: "+err.Error())
		return
	}
	defer file.Close()

	if header.Size > maxDocumentSize {
		utils.BadRequest(c, "File exceeds the maximum allowed size")
		return
	}

	fileData, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerError(c, "Error reading file content: "+err.Error())
		return
	}

	uploaderID, _ := middleware.GetUserIDFromContext(c)

	doc := models.Document{
		CaseID:     cs.ID,
		UploaderID: uploaderID,
		FileName:   header.Filename,
		FileType:   header.Header.Get("Content-Type"),
		FileData:   fileData,
	}
	if err := h.DB.Create(&doc).Error; err != nil {
		utils.InternalServerError(c, "Failed to store document: "+err.Error())
		return
	}

	utils.Created(c, "Document uploaded successfully", documentMeta(&doc))
}

// documentMeta strips the blob from a document for JSON responses.
func documentMeta(doc *models.Document) gin.H {
	return gin.H{
		"id":         doc.ID,
		"caseId":     doc.CaseID,
		"uploaderId": doc.UploaderID,
		"fileName":   doc.FileName,
		"fileType":   doc.FileType,
		"uploadedAt": doc.CreatedAt,
	}
}

// ListForCase handles fetching a case's document metadata.
func (h *DocumentHandler) ListForCase(c *gin.Context) {
	caseID := c.Param("caseId")
	if _, ok := requireCaseRead(c, h.DB, caseID); !ok {
		return
	}

	var docs []models.Document
	if err := h.DB.Select("id", "case_id", "uploader_id", "file_name", "file_type", "created_at", "updated_at").
		Where("case_id = ?", caseID).Order("created_at desc").Find(&docs).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch documents: "+err.Error())
		return
	}

	metas := make([]gin.H, len(docs))
	for i := range docs {
		metas[i] = documentMeta(&docs[i])
	}
	utils.Success(c, "Documents fetched successfully", metas)
}

// loadDocumentAuthorized fetches a document and checks case participation.
// Non-participants get the same 404 as a missing document, so document IDs
// cannot be probed for existence.
func (h *DocumentHandler) loadDocumentAuthorized(c *gin.Context) (*models.Document, bool) {
	docID := c.Param("id")

	var doc models.Document
	if err := h.DB.First(&doc, "id = ?", docID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Document not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}

	var cs models.Case
	if err := h.DB.Preload("Doctors").First(&cs, "id = ?", doc.CaseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Document not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if !cs.CanRead(userID, role) {
		utils.NotFound(c, "Document not found")
		return nil, false
	}
	return &doc, true
}

// Download handles serving a document's file data.
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, ok := h.loadDocumentAuthorized(c)
	if !ok {
		return
	}

	c.Writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, doc.FileType, doc.FileData)
}

// Summary handles an on-demand summarization request. The summary is
// returned to the client and never stored.
func (h *DocumentHandler) Summary(c *gin.Context) {
	doc, ok := h.loadDocumentAuthorized(c)
	if !ok {
		return
	}

	summary, err := h.Summarizer.Summarize(c.Request.Context(), doc.FileName, doc.FileData)
	if err != nil {
		utils.BadGateway(c, "Summarization failed: "+err.Error())
		return
	}

	utils.Success(c, "Summary generated", gin.H{"documentId": doc.ID, "summary": summary})
}
