package responses

// MagicLinkVerification is returned by the link landing endpoint. The CSRF
// token must be echoed back in the designated header on the follow-up call.
type MagicLinkVerification struct {
	CsrfToken   string `json:"csrf_token"`
	Usage       string `json:"usage"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

type PasswordResetResult struct {
	RedirectURI string `json:"redirect_uri,omitempty"`
}

type EmailChangeResult struct {
	Email string `json:"email"`
}
