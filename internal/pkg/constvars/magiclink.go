package constvars

const (
	// MagicLinkBindingCookieName ties a reset link to the browser session that
	// opened it first. The presented cookie value must end with the secret
	// recorded on the link.
	MagicLinkBindingCookieName = "authlink-pwd-reset"

	// MagicLinkCsrfHeaderName carries the per-link CSRF token on the
	// state-changing request.
	MagicLinkCsrfHeaderName = "Pwd-Csrf-Token"

	MagicLinkIDLength            = 64
	MagicLinkCsrfTokenLength     = 48
	MagicLinkBindingSecretLength = 24

	// MagicLinkURLFormat is issuer, user id, link id.
	MagicLinkURLFormat = "%s/users/%s/reset/%s"
)

const (
	MongoCollectionMagicLinks = "magic_links"
	MongoCollectionUsers      = "users"
)

const (
	RateLimiterGroupMagicLinkRequest = "magiclink-request"
)
