package auth

import (
	"context"
	"net/http"

	"authlink-service/internal/pkg/dto/requests"
	"authlink-service/internal/pkg/dto/responses"
)

type AuthUsecase interface {
	RequestPasswordReset(ctx context.Context, request *requests.RequestPasswordReset) error
	VerifyResetLink(ctx context.Context, userID, linkID string, httpRequest *http.Request) (*responses.MagicLinkVerification, string, error)
	ResetPassword(ctx context.Context, userID, linkID string, request *requests.ResetPassword, httpRequest *http.Request) (*responses.PasswordResetResult, error)
	RequestEmailChange(ctx context.Context, userID string, request *requests.RequestEmailChange) error
	ConfirmEmailChange(ctx context.Context, userID, linkID string, httpRequest *http.Request) (*responses.EmailChangeResult, error)
}
