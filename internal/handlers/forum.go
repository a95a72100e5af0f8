package handlers

import (
	"strings"

	"icancare-server/internal/middleware"
	"icancare-server/internal/models"
	"icancare-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ForumHandler handles the doctor discussion board. Posts and replies are
// immutable once created; there is no moderation, pagination or ranking.
type ForumHandler struct {
	DB *gorm.DB
}

// NewForumHandler creates a new ForumHandler.
func NewForumHandler(db *gorm.DB) *ForumHandler {
	return &ForumHandler{DB: db}
}

// ListPosts handles fetching forum posts. Supports an optional `q` substring
// filter on title/content and an `author` exact-match filter on author ID.
func (h *ForumHandler) ListPosts(c *gin.Context) {
	query := h.DB.Preload("Author").Order("created_at desc")

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", pattern, pattern)
	}
	if author := c.Query("author"); author != "" {
		query = query.Where("author_id = ?", author)
	}

	var posts []models.ForumPost
	if err := query.Find(&posts).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch forum posts: "+err.Error())
		return
	}

	utils.Success(c, "Forum posts fetched successfully", posts)
}

// CreatePostRequest represents the request body for a new forum post.
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CreatePost handles a doctor creating a forum post.
func (h *ForumHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	authorID, _ := middleware.GetUserIDFromContext(c)

	post := models.ForumPost{
		AuthorID: authorID,
		Title:    req.Title,
		Content:  req.Content,
	}
	if err := h.DB.Create(&post).Error; err != nil {
		utils.InternalServerError(c, "Failed to create forum post: "+err.Error())
		return
	}

	utils.Created(c, "Forum post created", post)
}

// GetPost handles fetching a single post with its replies.
func (h *ForumHandler) GetPost(c *gin.Context) {
	postID := c.Param("id")

	var post models.ForumPost
	if err := h.DB.Preload("Author").Preload("Replies", func(db *gorm.DB) *gorm.DB {
		return db.Order("forum_replies.created_at asc")
	}).Preload("Replies.Author").First(&post, "id = ?", postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Forum post not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Forum post fetched successfully", post)
}

// CreateReplyRequest represents the request body for a forum reply.
type CreateReplyRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateReply handles a doctor replying to a post.
func (h *ForumHandler) CreateReply(c *gin.Context) {
	postID := c.Param("id")

	var req CreateReplyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var post models.ForumPost
	if err := h.DB.First(&post, "id = ?", postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Forum post not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	authorID, _ := middleware.GetUserIDFromContext(c)

	reply := models.ForumReply{
		PostID:   post.ID,
		AuthorID: authorID,
		Content:  req.Content,
	}
	if err := h.DB.Create(&reply).Error; err != nil {
		utils.InternalServerError(c, "Failed to create reply: "+err.Error())
		return
	}

	utils.Created(c, "Reply created", reply)
}
