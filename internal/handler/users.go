package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"finaily/internal/service"
)

type UserHandler struct {
	Service *service.UserService
	Logger  *zap.Logger
}

func (h *UserHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/users", RequireUser())
	group.GET("/me", h.me)
	group.PATCH("/me", h.updateMe)
}

// @Summary Current profile
// @Tags users
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} errorResponse
// @Router /api/v1/users/me [get]
func (h *UserHandler) me(c *gin.Context) {
	user, err := h.Service.GetOrCreate(c.Request.Context(), c.GetString(ContextUserID), c.GetString(ContextUserEmail))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("profile load failed", zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}
	Ok(c, user)
}

type updateProfileRequest struct {
	DisplayName       *string `json:"display_name"`
	PreferredLanguage *string `json:"preferred_language"`
}

// @Summary Update profile
// @Tags users
// @Security BearerAuth
// @Param body body updateProfileRequest true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /api/v1/users/me [patch]
func (h *UserHandler) updateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, CodeBadRequest, "invalid body")
		return
	}

	user, err := h.Service.UpdateProfile(c.Request.Context(), c.GetString(ContextUserID), service.UpdateProfileParams{
		DisplayName:       req.DisplayName,
		PreferredLanguage: req.PreferredLanguage,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedLanguage):
			Error(c, http.StatusBadRequest, CodeBadRequest, "unsupported language")
		case errors.Is(err, service.ErrNothingToUpdate):
			Error(c, http.StatusBadRequest, CodeBadRequest, "no fields to update")
		default:
			if h.Logger != nil {
				h.Logger.Error("profile update failed", zap.Error(err))
			}
			Error(c, http.StatusInternalServerError, CodeInternal, "internal error")
		}
		return
	}
	Ok(c, user)
}
