package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"places-service/internal/usecase/user"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc     user.Service
	images ImageSaver
	log    *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Service, images ImageSaver, log *zap.Logger) *UserHandler {
	return &UserHandler{uc: uc, images: images, log: log}
}

// SignUpRequest is the multipart form for creating an account.
type SignUpRequest struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

// LogInRequest is the body for logging in.
type LogInRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthResponse is returned after sign-up and log-in.
type AuthResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Image  string   `json:"image"`
	Places []string `json:"places"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// SignUp handles POST /api/users/signup
func (h *UserHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Warn("invalid sign up request", zap.Error(err))
		fail(c, errInvalidInputs)
		return
	}

	image, err := saveUpload(c, h.images)
	if err != nil {
		fail(c, err)
		return
	}

	resp, err := h.uc.SignUp(c.Request.Context(), user.SignUpRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Image:    image,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{UserID: resp.UserID, Email: resp.Email, Token: resp.Token})
}

// LogIn handles POST /api/users/login
func (h *UserHandler) LogIn(c *gin.Context) {
	var req LogInRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Warn("invalid log in request", zap.Error(err))
		fail(c, errInvalidInputs)
		return
	}

	resp, err := h.uc.LogIn(c.Request.Context(), user.LogInRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{UserID: resp.UserID, Email: resp.Email, Token: resp.Token})
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		out[i] = UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image, Places: u.PlaceIDs}
	}
	c.JSON(http.StatusOK, ListUsersResponse{Users: out})
}
