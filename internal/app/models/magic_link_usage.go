package models

import (
	"strings"

	"authlink-service/internal/pkg/exceptions"
)

const (
	UsageTagEmailChange   = "email_change"
	UsageTagNewUser       = "new_user"
	UsageTagPasswordReset = "password_reset"
)

// MagicLinkUsage is the tagged purpose of a magic link. For email_change the
// payload is the target address and is mandatory; for new_user and
// password_reset it is an optional redirect URI.
type MagicLinkUsage struct {
	Tag     string
	Payload string
}

func EmailChangeUsage(newEmail string) MagicLinkUsage {
	return MagicLinkUsage{Tag: UsageTagEmailChange, Payload: newEmail}
}

func NewUserUsage(redirectURI string) MagicLinkUsage {
	return MagicLinkUsage{Tag: UsageTagNewUser, Payload: redirectURI}
}

func PasswordResetUsage(redirectURI string) MagicLinkUsage {
	return MagicLinkUsage{Tag: UsageTagPasswordReset, Payload: redirectURI}
}

// String encodes the usage as `<tag>` or `<tag>$<payload>`. The `$`
// separator needs no escaping where the string is stored or transmitted.
func (u MagicLinkUsage) String() string {
	if u.Tag == UsageTagEmailChange || u.Payload != "" {
		return u.Tag + "$" + u.Payload
	}
	return u.Tag
}

// ParseMagicLinkUsage splits on the first `$` and rejects unknown tags.
func ParseMagicLinkUsage(value string) (MagicLinkUsage, error) {
	tag, payload, _ := strings.Cut(value, "$")
	switch tag {
	case UsageTagEmailChange, UsageTagNewUser, UsageTagPasswordReset:
		return MagicLinkUsage{Tag: tag, Payload: payload}, nil
	default:
		return MagicLinkUsage{}, exceptions.ErrMagicLinkInvalidUsage(nil, value)
	}
}
