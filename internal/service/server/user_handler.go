package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/mflix/internal/model"
)

type SessionChecker interface {
	CheckSession(ctx context.Context, email, token string) (*model.User, error)
}

type UserManager interface {
	SessionChecker
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, email string) error
	Delete(ctx context.Context, email, password string) error
	UpdatePreferences(ctx context.Context, email string, preferences map[string]string) (*model.User, error)
	MakeAdmin(ctx context.Context, email string) error
}

type UserHandler struct {
	UserManager
}

func NewUserHandler(um UserManager) *UserHandler {
	return &UserHandler{
		UserManager: um,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type deleteUserRequest struct {
	Password string `json:"password" binding:"required"`
}

type preferencesRequest struct {
	Preferences map[string]string `json:"preferences"`
}

type makeAdminRequest struct {
	Email string `json:"email" binding:"required"`
}

// POSTRegister creates an account and logs it in
func (uh UserHandler) POSTRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindingError(err))
		return
	}
	if _, err := uh.UserManager.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		respondError(c, err)
		return
	}
	uh.login(c, http.StatusCreated, req.Email, req.Password)
}

// POSTLogin handles login and saves the session cookie
func (uh UserHandler) POSTLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindingError(err))
		return
	}
	uh.login(c, http.StatusOK, req.Email, req.Password)
}

func (uh UserHandler) login(c *gin.Context, status int, email, password string) {
	user, token, err := uh.UserManager.Login(c.Request.Context(), email, password)
	if err != nil {
		respondError(c, err)
		return
	}

	// Save cookie
	session := sessions.Default(c)
	session.Set(EmailKey, user.Email)
	session.Set(TokenKey, token)
	if err := session.Save(); err != nil {
		respondError(c, fmt.Errorf("could not save session: %w", err))
		return
	}
	c.JSON(status, gin.H{"info": user})
}

// POSTLogout closes the session of the logged-in user
func (uh UserHandler) POSTLogout(c *gin.Context) {
	if err := uh.UserManager.Logout(c.Request.Context(), currentUser(c).Email); err != nil {
		respondError(c, err)
		return
	}
	uh.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// DELETEUser deletes the logged-in user after checking its password
func (uh UserHandler) DELETEUser(c *gin.Context) {
	var req deleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindingError(err))
		return
	}
	if err := uh.UserManager.Delete(c.Request.Context(), currentUser(c).Email, req.Password); err != nil {
		respondError(c, err)
		return
	}
	uh.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// PUTPreferences replaces the preferences of the logged-in user
func (uh UserHandler) PUTPreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindingError(err))
		return
	}
	user, err := uh.UserManager.UpdatePreferences(c.Request.Context(), currentUser(c).Email, req.Preferences)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"info": user})
}

// POSTMakeAdmin grants admin rights to another user
func (uh UserHandler) POSTMakeAdmin(c *gin.Context) {
	var req makeAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindingError(err))
		return
	}
	if err := uh.UserManager.MakeAdmin(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (uh UserHandler) clearSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("Could not clear session cookie")
	}
}
