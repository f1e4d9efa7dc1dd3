package models

// EMail is an outbound notification job. It exists only inside the mail
// queue and the worker and is never persisted.
type EMail struct {
	Address string
	Subject string
	Text    string
	HTML    *string
}
