package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"sync"

	"authlink-service/internal/app/config"
	"authlink-service/internal/app/models"
	"authlink-service/internal/pkg/constvars"
	"authlink-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

// SMTPClient keeps one authenticated connection to the mail relay for the
// process lifetime. Message transmission is serialized by the single
// consuming worker; the mutex guards the reconnect path.
type SMTPClient struct {
	host string
	addr string
	from string
	auth smtp.Auth

	mu     sync.Mutex
	client *smtp.Client
}

// NewSMTPClient validates the relay configuration and establishes the
// persistent connection. Missing or invalid relay settings are fatal.
func NewSMTPClient(driverConfig *config.DriverConfig, log *zap.Logger) *SMTPClient {
	smtpConfig := driverConfig.SMTP
	if smtpConfig.Host == "" || smtpConfig.EmailSender == "" {
		log.Fatal("SMTP relay configuration is incomplete",
			zap.String("host", smtpConfig.Host),
			zap.String("email_sender", smtpConfig.EmailSender),
		)
	}

	var auth smtp.Auth
	if smtpConfig.Username != "" {
		auth = smtp.PlainAuth("", smtpConfig.Username, smtpConfig.Password, smtpConfig.Host)
	}

	c := &SMTPClient{
		host: smtpConfig.Host,
		addr: fmt.Sprintf("%s:%d", smtpConfig.Host, smtpConfig.Port),
		from: smtpConfig.EmailSender,
		auth: auth,
	}
	if err := c.connect(); err != nil {
		log.Fatal("Failed to connect to SMTP relay",
			zap.String("addr", c.addr),
			zap.Error(err),
		)
	}
	log.Info("Successfully connected to SMTP relay", zap.String("addr", c.addr))
	return c
}

func (c *SMTPClient) connect() error {
	client, err := smtp.Dial(c.addr)
	if err != nil {
		return err
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.host}); err != nil {
			client.Close()
			return err
		}
	}
	if c.auth != nil {
		if err := client.Auth(c.auth); err != nil {
			client.Close()
			return err
		}
	}
	c.client = client
	return nil
}

// Send transmits one e-mail job. A failed transmission drops the broken
// connection so the next job dials again; the error is returned for the
// worker to log, never escalated.
func (c *SMTPClient) Send(email *models.EMail) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		if err := c.connect(); err != nil {
			return exceptions.ErrSMTPSendEmail(err, c.host)
		}
	}
	if err := c.transmit(email); err != nil {
		c.client.Close()
		c.client = nil
		return exceptions.ErrSMTPSendEmail(err, c.host)
	}
	return nil
}

func (c *SMTPClient) transmit(email *models.EMail) error {
	if err := c.client.Mail(c.from); err != nil {
		return err
	}
	if err := c.client.Rcpt(email.Address); err != nil {
		return err
	}
	writer, err := c.client.Data()
	if err != nil {
		return err
	}

	var message string
	if email.HTML != nil {
		message = fmt.Sprintf(constvars.EmailSendMultipartAlternativeFormat, email.Address, c.from, email.Subject, email.Text, *email.HTML)
	} else {
		message = fmt.Sprintf(constvars.EmailSendPlainTextFormat, email.Address, c.from, email.Subject, email.Text)
	}
	if _, err := writer.Write([]byte(message)); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}
