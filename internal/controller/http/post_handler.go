package http

import (
	"net/http"
	"strconv"
	"time"

	"postboard/internal/entity"
	"postboard/internal/usecase"
	"postboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUseCase    usecase.PostUseCase
	paymentUseCase usecase.PaymentUseCase
	logger         *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, paymentUseCase usecase.PaymentUseCase, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase:    postUseCase,
		paymentUseCase: paymentUseCase,
		logger:         logger,
	}
}

type PostIDRequest struct {
	PostID string `json:"postId" binding:"required"`
}

type AddCommentRequest struct {
	PostID string     `json:"postId" binding:"required"`
	Text   string     `json:"text" binding:"required"`
	Date   *time.Time `json:"date"`
}

type DeleteCommentRequest struct {
	PostID    string `json:"postId" binding:"required"`
	CommentID string `json:"commentId" binding:"required"`
}

type VerifyPaymentRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	PostID    string `json:"postId" binding:"required"`
}

type PostsResponse struct {
	Success bool              `json:"success"`
	Posts   []entity.PostView `json:"posts"`
}

type PostResponse struct {
	Success bool             `json:"success"`
	Post    *entity.PostView `json:"post"`
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Multipart form with optional pdf/image attachments (up to 10).
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Param        title        formData  string  false  "Title"
// @Param        description  formData  string  true   "Description"
// @Param        isPaid       formData  bool    false  "Paid post"
// @Param        price        formData  number  false  "Price"
// @Param        files        formData  file    false  "Attachments"
// @Success      201  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /posts/create [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	in := usecase.CreatePostInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}

	if v := c.PostForm("isPaid"); v != "" {
		isPaid, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "isPaid must be a boolean")
			return
		}
		in.IsPaid = isPaid
	}
	if v := c.PostForm("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			badRequest(c, "price must be a non-negative number")
			return
		}
		in.Price = price
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["files"] {
			upload, err := readUpload(fh)
			if err != nil {
				respondError(c, h.logger, err)
				return
			}
			in.Files = append(in.Files, upload)
		}
	}

	post, err := h.postUseCase.CreatePost(c.Request.Context(), currentViewer(c).ID, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Post created successfully",
		"post":    post,
	})
}

// DeletePost godoc
// @Summary      Delete a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request body PostIDRequest true "Post"
// @Success      200  {object}  MessageResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/delete [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	var req PostIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.postUseCase.DeletePost(c.Request.Context(), req.PostID, currentViewer(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Post deleted successfully"})
}

// AddComment godoc
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request body AddCommentRequest true "Comment"
// @Success      201  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/add-comment [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	comment, err := h.postUseCase.AddComment(c.Request.Context(), req.PostID, currentViewer(c).ID, req.Text, req.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request body DeleteCommentRequest true "Comment"
// @Success      200  {object}  MessageResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/delete-comment [delete]
func (h *PostHandler) DeleteComment(c *gin.Context) {
	var req DeleteCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.postUseCase.DeleteComment(c.Request.Context(), req.PostID, req.CommentID, currentViewer(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Comment deleted successfully"})
}

// LikeOrDislike godoc
// @Summary      Toggle like
// @Description  Likes the post, or removes the like if already present.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request body PostIDRequest true "Post"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/like-or-dislike [patch]
func (h *PostHandler) LikeOrDislike(c *gin.Context) {
	var req PostIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	liked, likes, err := h.postUseCase.ToggleLike(c.Request.Context(), req.PostID, currentViewer(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	message := "Post disliked"
	if liked {
		message = "Post liked"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"liked":   liked,
		"likes":   likes,
	})
}

// GetAllPosts godoc
// @Summary      List all posts, newest first
// @Tags         posts
// @Produce      json
// @Success      200  {object}  PostsResponse
// @Router       /posts/get-all-posts [get]
func (h *PostHandler) GetAllPosts(c *gin.Context) {
	posts, err := h.postUseCase.GetAllPosts(c.Request.Context(), currentViewer(c))
	h.respondPosts(c, posts, err)
}

// GetMyPosts godoc
// @Summary      List the caller's posts
// @Tags         posts
// @Produce      json
// @Success      200  {object}  PostsResponse
// @Router       /posts/get-my-posts [get]
func (h *PostHandler) GetMyPosts(c *gin.Context) {
	posts, err := h.postUseCase.GetMyPosts(c.Request.Context(), currentViewer(c))
	h.respondPosts(c, posts, err)
}

// GetUserPosts godoc
// @Summary      List a user's posts
// @Tags         posts
// @Produce      json
// @Param        userId  query  string  true  "User ID"
// @Success      200  {object}  PostsResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/get-user-posts [get]
func (h *PostHandler) GetUserPosts(c *gin.Context) {
	posts, err := h.postUseCase.GetUserPosts(c.Request.Context(), c.Query("userId"), currentViewer(c))
	h.respondPosts(c, posts, err)
}

// GetPost godoc
// @Summary      Get one post
// @Tags         posts
// @Produce      json
// @Param        postId  query  string  true  "Post ID"
// @Success      200  {object}  PostResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/get-post [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postUseCase.GetPost(c.Request.Context(), c.Query("postId"), currentViewer(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, PostResponse{Success: true, Post: post})
}

// Search godoc
// @Summary      Search posts
// @Description  Matches title, description or owner name, case-insensitively.
// @Tags         posts
// @Produce      json
// @Param        query  query  string  true  "Search text"
// @Success      200  {object}  PostsResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /posts/search [get]
func (h *PostHandler) Search(c *gin.Context) {
	posts, err := h.postUseCase.Search(c.Request.Context(), c.Query("query"), currentViewer(c))
	h.respondPosts(c, posts, err)
}

// Purchase godoc
// @Summary      Start checkout for a paid post
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body PostIDRequest true "Post"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /posts/purchase [post]
func (h *PostHandler) Purchase(c *gin.Context) {
	var req PostIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	session, err := h.paymentUseCase.Initiate(c.Request.Context(), req.PostID, currentViewer(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"sessionId": session.SessionID,
		"url":       session.URL,
	})
}

// VerifyPayment godoc
// @Summary      Confirm a checkout session
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body VerifyPaymentRequest true "Session"
// @Success      200  {object}  MessageResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /posts/verify-payment [post]
func (h *PostHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.paymentUseCase.Confirm(c.Request.Context(), req.SessionID, req.PostID, currentViewer(c).ID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Payment verified successfully"})
}

func (h *PostHandler) respondPosts(c *gin.Context, posts []entity.PostView, err error) {
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if posts == nil {
		posts = []entity.PostView{}
	}
	c.JSON(http.StatusOK, PostsResponse{Success: true, Posts: posts})
}
