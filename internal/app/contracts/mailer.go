package contracts

import "authlink-service/internal/app/models"

// MailTransport transmits one e-mail job over the configured relay.
type MailTransport interface {
	Send(email *models.EMail) error
}
