package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/models"
	"github.com/gatsolucoes/gat_backend/utils"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func loginHandler(c *gin.Context) {
	logger := config.GetLogger()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := models.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := utils.ComparePassword(user.PasswordHash, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if user.IsActive == nil || !*user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is deactivated"})
		return
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		config.LogError(logger, "auth.go", "loginHandler", "JwtGenerate", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	refresh, err := utils.JwtGenerateRefresh(user.ID, string(user.Role))
	if err != nil {
		config.LogError(logger, "auth.go", "loginHandler", "JwtGenerateRefresh", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  token,
		"refresh_token": refresh,
		"user":          user,
	})
}

func refreshHandler(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh_token is required"})
		return
	}

	validated, err := utils.JwtValidate(req.RefreshToken)
	if err != nil || !validated.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	claims, ok := validated.Claims.(*utils.JwtCustomClaim)
	if !ok || !claims.Refresh {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	// the user may have been deactivated since the refresh token was issued
	user, err := models.GetUserCached(c.Request.Context(), claims.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	if user.IsActive == nil || !*user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is deactivated"})
		return
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}
