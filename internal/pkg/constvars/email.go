package constvars

const (
	EmailPasswordResetSubject = "Password Reset Request"
	EmailNewUserSubject       = "Account Activation"
	EmailChangeSubject        = "Confirm Your New E-Mail Address"
	EmailChangedNoticeSubject = "Your E-Mail Address Was Changed"
)

const (
	EmailSendPlainTextFormat            = "To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/plain; charset=\"UTF-8\";\r\n\r\n%s\r\n"
	EmailSendMultipartAlternativeFormat = "To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: multipart/alternative; boundary=\"simple boundary\"\r\n\r\n--simple boundary\r\nContent-Type: text/plain; charset=\"UTF-8\";\r\n\r\n%s\r\n--simple boundary\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s\r\n--simple boundary--\r\n"
)

const (
	EmailBodyPasswordResetTextFormat = "Hi,\r\n\r\nA password reset was requested for your account. Open the link below to choose a new password:\r\n\r\n%s\r\n\r\nThe link is valid until %s and can only be used once. If you did not request this, you can safely ignore this e-mail.\r\n"
	EmailBodyPasswordResetHTMLFormat = "<html><body><p>Hi,</p><p>A password reset was requested for your account. Open the link below to choose a new password:</p><p><a href=\"%s\">%s</a></p><p>The link is valid until %s and can only be used once. If you did not request this, you can safely ignore this e-mail.</p></body></html>"

	EmailBodyNewUserTextFormat = "Welcome!\r\n\r\nAn account was created for this address. Open the link below to activate it and set your password:\r\n\r\n%s\r\n\r\nThe link is valid until %s and can only be used once.\r\n"
	EmailBodyNewUserHTMLFormat = "<html><body><p>Welcome!</p><p>An account was created for this address. Open the link below to activate it and set your password:</p><p><a href=\"%s\">%s</a></p><p>The link is valid until %s and can only be used once.</p></body></html>"

	// The notice to the old address is deliberately text-only and carries no
	// link.
	EmailBodyEmailChangedNoticeTextFormat = "Hi,\r\n\r\nThe e-mail address of your account was just changed to %s.\r\n\r\nIf you made this change, no action is needed. If you did not, contact your administrator immediately.\r\n"

	EmailBodyEmailChangeTextFormat ="Hi,\r\n\r\nA request was made to move your account to this e-mail address. Open the link below to confirm the change:\r\n\r\n%s\r\n\r\nThe link is valid until %s and can only be used once. If you did not request this, you can safely ignore this e-mail.\r\n"
	EmailBodyEmailChangeHTMLFormat = "<html><body><p>Hi,</p><p>A request was made to move your account to this e-mail address. Open the link below to confirm the change:</p><p><a href=\"%s\">%s</a></p><p>The link is valid until %s and can only be used once. If you did not request this, you can safely ignore this e-mail.</p></body></html>"
)
