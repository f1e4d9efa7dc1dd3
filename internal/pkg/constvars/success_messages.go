package constvars

const (
	PasswordResetRequestedMessage = "If the address is registered, a reset link is on its way"
	PasswordResetSuccessMessage   = "Password updated successfully"
	MagicLinkVerifiedMessage      = "Link verified"
	EmailChangeRequestedMessage   = "A confirmation link was sent to the new address"
	EmailChangeSuccessMessage     = "E-Mail address updated successfully"
)
