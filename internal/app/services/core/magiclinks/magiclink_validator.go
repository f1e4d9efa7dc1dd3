package magiclinks

import (
	"net/http"
	"strings"
	"time"

	"authlink-service/internal/app/config"
	"authlink-service/internal/app/models"
	"authlink-service/internal/pkg/constvars"
	"authlink-service/internal/pkg/exceptions"
	"authlink-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Validator checks a presented link against the caller's request. It never
// mutates the stored record; consuming a link is the caller's business.
type Validator struct {
	Log            *zap.Logger
	EnforceBinding bool
}

func NewValidator(internalConfig *config.InternalConfig, log *zap.Logger) *Validator {
	return &Validator{
		Log:            log,
		EnforceBinding: internalConfig.MagicLink.CookieBindingEnforced,
	}
}

// Validate runs every check in a fixed order: session binding first, then
// CSRF, then ownership, then expiry, then the single-use flag. Identity
// problems must surface before state problems.
func (v *Validator) Validate(link *models.MagicLink, userID string, request *http.Request, withCSRF bool) error {
	if link.Cookie != nil {
		if err := v.checkBindingCookie(link, request); err != nil {
			return err
		}
	}

	if withCSRF {
		csrfToken := request.Header.Get(constvars.MagicLinkCsrfHeaderName)
		if csrfToken == "" {
			return exceptions.ErrCsrfTokenMissing(nil)
		}
		if csrfToken != link.CsrfToken {
			return exceptions.ErrCsrfTokenInvalid(nil)
		}
	}

	if link.UserID != userID {
		return exceptions.ErrMagicLinkUserMismatch(nil)
	}

	if link.Exp < time.Now().Unix() {
		return exceptions.ErrMagicLinkExpired(nil)
	}

	if link.IsUsed() {
		return exceptions.ErrMagicLinkAlreadyUsed(nil)
	}

	return nil
}

// The presented cookie must end with the full stored binding value. The
// comparison direction matters: a suffix of the stored value is not enough.
func (v *Validator) checkBindingCookie(link *models.MagicLink, request *http.Request) error {
	cookie, err := request.Cookie(constvars.MagicLinkBindingCookieName)
	bound := err == nil && cookie.Value != "" && strings.HasSuffix(cookie.Value, *link.Cookie)
	if bound {
		return nil
	}

	if v.EnforceBinding {
		return exceptions.ErrMagicLinkBoundToOtherSession(err)
	}

	v.Log.Warn(
		"magic link session binding check failed with enforcement disabled, continuing",
		zap.String(constvars.LoggingUserIDKey, link.UserID),
		zap.String(constvars.LoggingSourceIPKey, utils.RealIPFromRequest(request)),
	)
	return nil
}
