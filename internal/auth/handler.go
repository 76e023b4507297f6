package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
	"github.com/rizia-events/rizia-backend/utils"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// ===============================
// Signup
// ===============================

type SignupRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"secret123"`
	Name     string `json:"name" example:"Jane"`
	Category string `json:"category" example:"Music"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Signup godoc
// @Summary Register a user account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SignupRequest true "Signup payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.InvalidInput("invalid request body"))
		return
	}

	res, err := h.service.Signup(c.Request.Context(), SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Category: req.Category,
		IsAdmin:  req.IsAdmin,
		IP:       c.ClientIP(),
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    res.User,
		"profile": res.User,
		"session": res.Session,
	})
}

// ===============================
// Signin
// ===============================

type SigninRequest struct {
	Email     string `json:"email" example:"jane@example.com"`
	Password  string `json:"password" example:"secret123"`
	IsAdmin   bool   `json:"isAdmin"`
	LoginType string `json:"loginType" example:"user"`
}

// Signin godoc
// @Summary Sign in as a user or admin
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SigninRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /auth/signin [post]
func (h *Handler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.InvalidInput("invalid request body"))
		return
	}

	loginType := req.LoginType
	if loginType == "" && req.IsAdmin {
		loginType = LoginTypeAdmin
	}

	res, err := h.service.Login(c.Request.Context(), LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		LoginType: loginType,
		IP:        c.ClientIP(),
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    res.User,
		"profile": res.User,
		"session": res.Session,
		"isAdmin": res.IsAdmin,
	})
}

// ===============================
// Refresh Token
// ===============================

type refreshReq struct {
	RefreshToken string `json:"refresh_token" example:"your_refresh_token_here"`
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body refreshReq true "Refresh token"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.InvalidInput("invalid request body"))
		return
	}
	sess, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// ===============================
// Session
// ===============================

// Session godoc
// @Summary Resolve the bearer token to its profile
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /auth/session [get]
func (h *Handler) Session(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		apperror.Respond(c, apperror.Unauthenticated("invalid session"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"isAdmin": user.IsAdmin(),
	})
}

// ===============================
// Logout
// ===============================

type signoutReq struct {
	RefreshToken string `json:"refresh_token"`
}

// Signout godoc
// @Summary Revoke the current session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body signoutReq false "Refresh token to revoke as well"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /auth/signout [post]
func (h *Handler) Signout(c *gin.Context) {
	claims, _ := CurrentClaims(c)

	var req signoutReq
	if err := utils.BindOptionalJSON(c, &req); err != nil {
		apperror.Respond(c, err)
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims, strings.TrimSpace(req.RefreshToken), c.ClientIP()); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// CurrentUser returns the profile the auth middleware stored on c.
func CurrentUser(c *gin.Context) (*User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*User)
	return u, ok && u != nil
}

// CurrentClaims returns the verified token claims stored on c.
func CurrentClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*Claims)
	return cl, ok && cl != nil
}
