package routers

import (
	"authlink-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachAuthRoutes(router chi.Router, authController *controllers.AuthController) {
	router.Post("/password-reset/request", authController.RequestPasswordReset)
}

func attachUserRoutes(router chi.Router, authController *controllers.AuthController) {
	router.Get("/{userID}/reset/{linkID}", authController.VerifyResetLink)
	router.Put("/{userID}/reset/{linkID}", authController.ResetPassword)
	router.Post("/{userID}/email-change/request", authController.RequestEmailChange)
	router.Put("/{userID}/email-confirm/{linkID}", authController.ConfirmEmailChange)
}
