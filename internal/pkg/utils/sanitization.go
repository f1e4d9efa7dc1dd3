package utils

import (
	"strings"

	"authlink-service/internal/pkg/dto/requests"
)

func SanitizeRequestPasswordReset(request *requests.RequestPasswordReset) {
	request.Email = strings.ToLower(strings.TrimSpace(request.Email))
	request.RedirectURI = strings.TrimSpace(request.RedirectURI)
}

func SanitizeRequestEmailChange(request *requests.RequestEmailChange) {
	request.NewEmail = strings.ToLower(strings.TrimSpace(request.NewEmail))
}
