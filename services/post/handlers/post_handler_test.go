package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"linkup/pkg/logger"
	"linkup/pkg/models"
	"linkup/services/post/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostUseCase is a mock implementation of PostUseCase
type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) CreatePost(userID uint, input usecase.CreatePostInput, files []*multipart.FileHeader) (*models.Post, error) {
	args := m.Called(userID, input, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostUseCase) ToggleLike(postID, userID uint) (bool, int, error) {
	args := m.Called(postID, userID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockPostUseCase) AddComment(postID, userID uint, content string) (*models.Comment, error) {
	args := m.Called(postID, userID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockPostUseCase) Repost(postID, userID uint, comment string) (*usecase.RepostResult, error) {
	args := m.Called(postID, userID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RepostResult), args.Error(1)
}

func (m *MockPostUseCase) GetFeed(viewerID uint, page, limit int) ([]*usecase.FeedPost, error) {
	args := m.Called(viewerID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*usecase.FeedPost), args.Error(1)
}

func (m *MockPostUseCase) GetPostLikes(postID uint) ([]*usecase.LikeEntry, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*usecase.LikeEntry), args.Error(1)
}

func (m *MockPostUseCase) GetPostComments(postID uint) ([]*usecase.CommentEntry, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*usecase.CommentEntry), args.Error(1)
}

func (m *MockPostUseCase) GetPostReposts(postID uint) (*usecase.RepostListing, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RepostListing), args.Error(1)
}

var _ usecase.PostUseCase = (*MockPostUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func authAs(userID uint, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		handler(c)
	}
}

func TestLikePost_Toggle(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/like", authAs(7, handler.LikePost))

	mockUseCase.On("ToggleLike", uint(42), uint(7)).Return(true, 5, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/42/like", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, true, response["liked"])
	assert.Equal(t, float64(5), response["likeCount"])
	mockUseCase.AssertExpectations(t)
}

func TestLikePost_NotFound(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/like", authAs(7, handler.LikePost))

	mockUseCase.On("ToggleLike", uint(999), uint(7)).Return(false, 0, usecase.ErrPostNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/999/like", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikePost_InvalidID(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/like", authAs(7, handler.LikePost))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/abc/like", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "ToggleLike")
}

func TestCommentPost_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/comment", authAs(7, handler.CommentPost))

	comment := &models.Comment{ID: 3, PostID: 42, UserID: 7, Content: "nice"}
	mockUseCase.On("AddComment", uint(42), uint(7), "nice").Return(comment, nil)

	body, _ := json.Marshal(map[string]string{"content": "nice"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/42/comment", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(3), response["id"])
	assert.Equal(t, "nice", response["content"])
	mockUseCase.AssertExpectations(t)
}

func TestCommentPost_EmptyBody(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/comment", authAs(7, handler.CommentPost))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/42/comment", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "AddComment")
}

func TestRepostPost_Simple(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/repost", authAs(7, handler.RepostPost))

	result := &usecase.RepostResult{Type: usecase.RepostTypeSimple, RepostCount: 2, RepostID: 10}
	mockUseCase.On("Repost", uint(42), uint(7), "").Return(result, nil)

	// No request body at all is a valid plain repost.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/42/repost", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "simple", response["type"])
	assert.Equal(t, float64(2), response["repostCount"])
	mockUseCase.AssertExpectations(t)
}

func TestRepostPost_WithThought(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/repost", authAs(7, handler.RepostPost))

	comment := "great read"
	result := &usecase.RepostResult{Type: usecase.RepostTypeWithThought, RepostCount: 1, RepostID: 11, RepostComment: &comment}
	mockUseCase.On("Repost", uint(42), uint(7), "great read").Return(result, nil)

	body, _ := json.Marshal(map[string]string{"repostComment": "great read"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/42/repost", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "with_thought", response["type"])
	mockUseCase.AssertExpectations(t)
}

func TestRepostPost_Duplicate(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/repost", authAs(7, handler.RepostPost))

	mockUseCase.On("Repost", uint(42), uint(7), "").Return(nil, usecase.ErrAlreadyReposted)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/42/repost", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFeed_Defaults(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts", authAs(7, handler.GetFeed))

	mockUseCase.On("GetFeed", uint(7), 1, 10).Return([]*usecase.FeedPost{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestGetFeed_ClampsLimit(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts", authAs(7, handler.GetFeed))

	// Over-limit values fall back to the default page size.
	mockUseCase.On("GetFeed", uint(7), 3, 10).Return([]*usecase.FeedPost{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts?page=3&limit=500", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestGetFeed_Error(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts", authAs(7, handler.GetFeed))

	mockUseCase.On("GetFeed", uint(7), 1, 10).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetPostReposts_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts/:id/reposts", authAs(7, handler.GetPostReposts))

	listing := &usecase.RepostListing{
		OriginalPost: &usecase.OriginalPostView{ID: 42, Content: "hi", AuthorName: "Author"},
		Reposts:      []*usecase.RepostEntry{},
	}
	mockUseCase.On("GetPostReposts", uint(42)).Return(listing, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/42/reposts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response usecase.RepostListing
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, uint(42), response.OriginalPost.ID)
	mockUseCase.AssertExpectations(t)
}
