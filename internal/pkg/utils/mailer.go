package utils

import (
	"fmt"
	"strings"
	"time"

	"authlink-service/internal/app/models"
	"authlink-service/internal/pkg/constvars"
	"authlink-service/internal/pkg/exceptions"
)

// BuildMagicLinkEmail renders the notification for a freshly issued magic
// link. Rendering failures are recoverable errors for the caller, never
// process aborts.
func BuildMagicLinkEmail(issuer, address string, link *models.MagicLink) (*models.EMail, error) {
	if strings.TrimSpace(issuer) == "" {
		return nil, exceptions.ErrEmailRender(fmt.Errorf("issuer base URL is empty"))
	}
	if strings.TrimSpace(address) == "" {
		return nil, exceptions.ErrEmailRender(fmt.Errorf("recipient address is empty"))
	}

	usage, err := models.ParseMagicLinkUsage(link.Usage)
	if err != nil {
		return nil, err
	}

	linkURL := fmt.Sprintf(constvars.MagicLinkURLFormat, strings.TrimRight(issuer, "/"), link.UserID, link.ID)
	exp := time.Unix(link.Exp, 0).UTC().Format(time.RFC1123)

	var subject, text, html string
	switch usage.Tag {
	case models.UsageTagPasswordReset:
		subject = constvars.EmailPasswordResetSubject
		text = fmt.Sprintf(constvars.EmailBodyPasswordResetTextFormat, linkURL, exp)
		html = fmt.Sprintf(constvars.EmailBodyPasswordResetHTMLFormat, linkURL, linkURL, exp)
	case models.UsageTagNewUser:
		subject = constvars.EmailNewUserSubject
		text = fmt.Sprintf(constvars.EmailBodyNewUserTextFormat, linkURL, exp)
		html = fmt.Sprintf(constvars.EmailBodyNewUserHTMLFormat, linkURL, linkURL, exp)
	case models.UsageTagEmailChange:
		subject = constvars.EmailChangeSubject
		text = fmt.Sprintf(constvars.EmailBodyEmailChangeTextFormat, linkURL, exp)
		html = fmt.Sprintf(constvars.EmailBodyEmailChangeHTMLFormat, linkURL, linkURL, exp)
	}

	return &models.EMail{
		Address: address,
		Subject: subject,
		Text:    text,
		HTML:    &html,
	}, nil
}

// BuildEmailChangedNotice renders the plain-text notice sent to the old
// address after an e-mail change completed.
func BuildEmailChangedNotice(address, newAddress string) (*models.EMail, error) {
	if strings.TrimSpace(address) == "" || strings.TrimSpace(newAddress) == "" {
		return nil, exceptions.ErrEmailRender(fmt.Errorf("notice addresses are empty"))
	}
	return &models.EMail{
		Address: address,
		Subject: constvars.EmailChangedNoticeSubject,
		Text:    fmt.Sprintf(constvars.EmailBodyEmailChangedNoticeTextFormat, newAddress),
	}, nil
}
