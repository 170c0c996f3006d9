package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"linkup/pkg/logger"
	"linkup/services/post/usecase"

	"github.com/gin-gonic/gin"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50
)

type PostHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
		logger:      logger,
	}
}

type CreatePostRequest struct {
	Content        string  `form:"content" binding:"omitempty,max=3000"`
	Hashtags       string  `form:"hashtags"`
	PostType       string  `form:"postType" binding:"omitempty,oneof=public connection-only"`
	OriginalPostID *uint   `form:"originalPostId"`
	RepostComment  *string `form:"repostComment" binding:"omitempty,max=1000"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type RepostRequest struct {
	RepostComment string `json:"repostComment" binding:"omitempty,max=1000"`
}

// CreatePost godoc
// @Summary      Create a new post
// @Description  Create a post with optional text content, hashtags and media attachments
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        content formData string false "Post text (max 3000 chars)"
// @Param        hashtags formData string false "Hashtag string"
// @Param        postType formData string false "Visibility (public or connection-only)" Enums(public, connection-only)
// @Param        media formData file false "Media files (image/video/document), multiple allowed"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form"})
		return
	}

	input := usecase.CreatePostInput{
		Content:        req.Content,
		Hashtags:       req.Hashtags,
		PostType:       req.PostType,
		OriginalPostID: req.OriginalPostID,
		RepostComment:  req.RepostComment,
	}

	var files []*multipart.FileHeader
	if form != nil {
		files = form.File["media"]
	}

	post, err := h.postUseCase.CreatePost(userID, input, files)
	if err != nil {
		h.respondError(c, err, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post created", "post": post})
}

// GetFeed godoc
// @Summary      Get the post feed
// @Description  Root posts newest-first, annotated with the viewer's like/repost state
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number (default 1)"
// @Param        limit query int false "Page size (default 10, max 50)"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *PostHandler) GetFeed(c *gin.Context) {
	userID := c.GetUint("user_id")

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}

	limit := defaultFeedLimit
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= maxFeedLimit {
		limit = l
	}

	posts, err := h.postUseCase.GetFeed(userID, page, limit)
	if err != nil {
		h.respondError(c, err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Posts fetched successfully", "posts": posts})
}

// LikePost godoc
// @Summary      Toggle a like on a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id}/like [post]
func (h *PostHandler) LikePost(c *gin.Context) {
	userID := c.GetUint("user_id")
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	liked, likeCount, err := h.postUseCase.ToggleLike(postID, userID)
	if err != nil {
		h.respondError(c, err, "Failed to toggle like")
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked, "likeCount": likeCount})
}

// CommentPost godoc
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Param        request body CommentRequest true "Comment content"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comment [post]
func (h *PostHandler) CommentPost(c *gin.Context) {
	userID := c.GetUint("user_id")
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty"})
		return
	}

	comment, err := h.postUseCase.AddComment(postID, userID, req.Content)
	if err != nil {
		h.respondError(c, err, "Failed to add comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         comment.ID,
		"content":    comment.Content,
		"created_at": comment.CreatedAt,
	})
}

// RepostPost godoc
// @Summary      Repost a post, optionally with a comment
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Param        request body RepostRequest false "Optional repost comment"
// @Success      201  {object}  usecase.RepostResult
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/repost [post]
func (h *PostHandler) RepostPost(c *gin.Context) {
	userID := c.GetUint("user_id")
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	// A missing or empty body is a plain repost.
	var req RepostRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.postUseCase.Repost(postID, userID, req.RepostComment)
	if err != nil {
		h.respondError(c, err, "Failed to repost")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Repost successful",
		"type":        result.Type,
		"repostCount": result.RepostCount,
		"repostId":    result.RepostID,
	})
}

// GetPostLikes godoc
// @Summary      List users who liked a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/likes [get]
func (h *PostHandler) GetPostLikes(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	likes, err := h.postUseCase.GetPostLikes(postID)
	if err != nil {
		h.respondError(c, err, "Failed to fetch likes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// GetPostComments godoc
// @Summary      List comments on a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comments [get]
func (h *PostHandler) GetPostComments(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	comments, err := h.postUseCase.GetPostComments(postID)
	if err != nil {
		h.respondError(c, err, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// GetPostReposts godoc
// @Summary      List reposts of a post with the original snapshot
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      200  {object}  usecase.RepostListing
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/reposts [get]
func (h *PostHandler) GetPostReposts(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	listing, err := h.postUseCase.GetPostReposts(postID)
	if err != nil {
		h.respondError(c, err, "Failed to fetch reposts")
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *PostHandler) postIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps usecase errors to HTTP statuses once, at the transport
// boundary.
func (h *PostHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrEmptyPost),
		errors.Is(err, usecase.ErrContentTooLong),
		errors.Is(err, usecase.ErrEmptyComment),
		errors.Is(err, usecase.ErrAlreadyReposted),
		errors.Is(err, usecase.ErrDuplicateThought):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
