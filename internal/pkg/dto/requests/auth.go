package requests

type RequestPasswordReset struct {
	Email       string `json:"email" validate:"required,email"`
	RedirectURI string `json:"redirect_uri,omitempty" validate:"omitempty,uri"`
}

type ResetPassword struct {
	Password string `json:"password" validate:"required,min=8"`
}

type RequestEmailChange struct {
	NewEmail string `json:"new_email" validate:"required,email"`
}
