package controllers

import (
	"context"
	"net/http"
	"time"

	"authlink-service/internal/app/services/core/auth"
	"authlink-service/internal/pkg/constvars"
	"authlink-service/internal/pkg/dto/requests"
	"authlink-service/internal/pkg/exceptions"
	"authlink-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

type AuthController struct {
	Log         *zap.Logger
	AuthUsecase auth.AuthUsecase
}

func NewAuthController(log *zap.Logger, authUsecase auth.AuthUsecase) *AuthController {
	return &AuthController{
		Log:         log,
		AuthUsecase: authUsecase,
	}
}

func (c *AuthController) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	request := new(requests.RequestPasswordReset)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeRequestPasswordReset(request)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	if err := c.AuthUsecase.RequestPasswordReset(ctx, request); err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PasswordResetRequestedMessage, nil)
}

// VerifyResetLink is the landing call of a mailed link. The first visit binds
// the link to this browser via a cookie scoped to the link path.
func (c *AuthController) VerifyResetLink(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID := chi.URLParam(r, "userID")
	linkID := chi.URLParam(r, "linkID")

	verification, cookieValue, err := c.AuthUsecase.VerifyResetLink(ctx, userID, linkID, r)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}

	if cookieValue != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     constvars.MagicLinkBindingCookieName,
			Value:    cookieValue,
			Path:     r.URL.Path,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.MagicLinkVerifiedMessage, verification)
}

func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID := chi.URLParam(r, "userID")
	linkID := chi.URLParam(r, "linkID")

	request := new(requests.ResetPassword)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	result, err := c.AuthUsecase.ResetPassword(ctx, userID, linkID, request, r)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PasswordResetSuccessMessage, result)
}

func (c *AuthController) RequestEmailChange(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID := chi.URLParam(r, "userID")

	request := new(requests.RequestEmailChange)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeRequestEmailChange(request)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(c.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	if err := c.AuthUsecase.RequestEmailChange(ctx, userID, request); err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.EmailChangeRequestedMessage, nil)
}

func (c *AuthController) ConfirmEmailChange(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID := chi.URLParam(r, "userID")
	linkID := chi.URLParam(r, "linkID")

	result, err := c.AuthUsecase.ConfirmEmailChange(ctx, userID, linkID, r)
	if err != nil {
		utils.BuildErrorResponse(c.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.EmailChangeSuccessMessage, result)
}
