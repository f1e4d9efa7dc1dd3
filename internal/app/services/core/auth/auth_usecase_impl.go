package auth

import (
	"context"
	"errors"
	"net/http"

	"authlink-service/internal/app/config"
	"authlink-service/internal/app/contracts"
	"authlink-service/internal/app/models"
	"authlink-service/internal/app/services/core/magiclinks"
	"authlink-service/internal/app/services/shared/mailqueue"
	"authlink-service/internal/app/services/shared/ratelimiter"
	"authlink-service/internal/pkg/constvars"
	"authlink-service/internal/pkg/dto/requests"
	"authlink-service/internal/pkg/dto/responses"
	"authlink-service/internal/pkg/exceptions"
	"authlink-service/internal/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type authUsecase struct {
	MagicLinkRepository contracts.MagicLinkRepository
	UserRepository      contracts.UserRepository
	Validator           *magiclinks.Validator
	MailQueue           *mailqueue.Service
	Limiter             *ratelimiter.ResourceLimiter
	InternalConfig      *config.InternalConfig
	Log                 *zap.Logger
}

func NewAuthUsecase(
	magicLinkRepository contracts.MagicLinkRepository,
	userRepository contracts.UserRepository,
	validator *magiclinks.Validator,
	mailQueue *mailqueue.Service,
	limiter *ratelimiter.ResourceLimiter,
	internalConfig *config.InternalConfig,
	log *zap.Logger,
) AuthUsecase {
	return &authUsecase{
		MagicLinkRepository: magicLinkRepository,
		UserRepository:      userRepository,
		Validator:           validator,
		MailQueue:           mailQueue,
		Limiter:             limiter,
		InternalConfig:      internalConfig,
		Log:                 log,
	}
}

// RequestPasswordReset issues a fresh reset link and queues the notification.
// Unknown addresses return success with no side effect so the endpoint never
// confirms whether an address is registered.
func (uc *authUsecase) RequestPasswordReset(ctx context.Context, request *requests.RequestPasswordReset) error {
	if err := uc.applyRequestLimit(ctx, request.Email); err != nil {
		return err
	}

	user, err := uc.UserRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		return err
	}
	if user == nil {
		uc.Log.Info("password reset requested for unknown address",
			zap.String(constvars.LoggingAddressKey, request.Email),
		)
		return nil
	}

	// A newer request supersedes any link still live for the user.
	if err := uc.revokeExistingLink(ctx, user.ID); err != nil {
		return err
	}

	var usage models.MagicLinkUsage
	lifetime := uc.InternalConfig.MagicLink.ResetLifetimeMinutes
	if user.Activated {
		usage = models.PasswordResetUsage(request.RedirectURI)
	} else {
		usage = models.NewUserUsage(request.RedirectURI)
		lifetime = uc.InternalConfig.MagicLink.NewUserLifetimeMinutes
	}

	link, err := uc.MagicLinkRepository.Create(ctx, user.ID, lifetime, usage)
	if err != nil {
		return err
	}

	uc.enqueueNotification(ctx, user.Email, link)
	return nil
}

// VerifyResetLink is the link landing call. On the very first visit it binds
// the link to this session and hands the browser the binding secret; the
// returned cookie value is empty on every later visit.
func (uc *authUsecase) VerifyResetLink(ctx context.Context, userID, linkID string, httpRequest *http.Request) (*responses.MagicLinkVerification, string, error) {
	link, err := uc.MagicLinkRepository.FindByID(ctx, linkID)
	if err != nil {
		return nil, "", err
	}

	if err := uc.Validator.Validate(link, userID, httpRequest, false); err != nil {
		return nil, "", err
	}

	var cookieValue string
	if link.Cookie == nil {
		secret, err := utils.GenerateSecureToken(constvars.MagicLinkBindingSecretLength)
		if err != nil {
			return nil, "", exceptions.ErrSecureTokenGenerate(err)
		}
		link.BindCookie(secret)
		if err := uc.MagicLinkRepository.Save(ctx, link); err != nil {
			return nil, "", err
		}
		cookieValue = secret
	}

	usage, err := models.ParseMagicLinkUsage(link.Usage)
	if err != nil {
		return nil, "", err
	}

	verification := &responses.MagicLinkVerification{
		CsrfToken: link.CsrfToken,
		Usage:     usage.Tag,
	}
	if usage.Tag != models.UsageTagEmailChange {
		verification.RedirectURI = usage.Payload
	}
	return verification, cookieValue, nil
}

// ResetPassword consumes the link and applies the new password. New-user
// links travel the same path and additionally activate the account.
func (uc *authUsecase) ResetPassword(ctx context.Context, userID, linkID string, request *requests.ResetPassword, httpRequest *http.Request) (*responses.PasswordResetResult, error) {
	link, err := uc.MagicLinkRepository.FindByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	if err := uc.Validator.Validate(link, userID, httpRequest, true); err != nil {
		return nil, err
	}

	usage, err := models.ParseMagicLinkUsage(link.Usage)
	if err != nil {
		return nil, err
	}
	if usage.Tag != models.UsageTagPasswordReset && usage.Tag != models.UsageTagNewUser {
		return nil, exceptions.ErrMagicLinkUsageMismatch(nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, exceptions.ErrHashPassword(err)
	}
	if err := uc.UserRepository.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return nil, err
	}

	link.MarkUsed()
	if err := uc.MagicLinkRepository.Save(ctx, link); err != nil {
		return nil, err
	}

	uc.Log.Info("password reset completed",
		zap.String(constvars.LoggingUserIDKey, userID),
		zap.String("usage", usage.Tag),
	)
	return &responses.PasswordResetResult{RedirectURI: usage.Payload}, nil
}

// RequestEmailChange issues a confirmation link mailed to the NEW address.
// Any previous change request of the user is dropped first so only one is
// ever live.
func (uc *authUsecase) RequestEmailChange(ctx context.Context, userID string, request *requests.RequestEmailChange) error {
	user, err := uc.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	existing, err := uc.UserRepository.FindByEmail(ctx, request.NewEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return exceptions.ErrEmailAlreadyExist(nil)
	}

	if err := uc.applyRequestLimit(ctx, user.Email); err != nil {
		return err
	}

	if err := uc.MagicLinkRepository.InvalidateAllEmailChange(ctx, userID); err != nil {
		return err
	}

	link, err := uc.MagicLinkRepository.Create(
		ctx,
		userID,
		uc.InternalConfig.MagicLink.EmailChangeLifetimeMinutes,
		models.EmailChangeUsage(request.NewEmail),
	)
	if err != nil {
		return err
	}

	uc.enqueueNotification(ctx, request.NewEmail, link)
	return nil
}

// ConfirmEmailChange consumes an email-change link and moves the account to
// the address stored in the link payload. No CSRF round-trip here; the call
// comes straight from the mailed link.
func (uc *authUsecase) ConfirmEmailChange(ctx context.Context, userID, linkID string, httpRequest *http.Request) (*responses.EmailChangeResult, error) {
	link, err := uc.MagicLinkRepository.FindByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	if err := uc.Validator.Validate(link, userID, httpRequest, false); err != nil {
		return nil, err
	}

	usage, err := models.ParseMagicLinkUsage(link.Usage)
	if err != nil {
		return nil, err
	}
	if usage.Tag != models.UsageTagEmailChange || usage.Payload == "" {
		return nil, exceptions.ErrMagicLinkUsageMismatch(nil)
	}

	user, err := uc.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	oldAddress := user.Email

	if err := uc.UserRepository.UpdateEmail(ctx, userID, usage.Payload); err != nil {
		return nil, err
	}

	link.MarkUsed()
	if err := uc.MagicLinkRepository.Save(ctx, link); err != nil {
		return nil, err
	}

	uc.Log.Info("e-mail address changed",
		zap.String(constvars.LoggingUserIDKey, userID),
		zap.String(constvars.LoggingAddressKey, usage.Payload),
	)

	// The old address is notified about the change. Best effort, like every
	// notification.
	if oldAddress != "" && oldAddress != usage.Payload {
		if notice, err := utils.BuildEmailChangedNotice(oldAddress, usage.Payload); err == nil {
			_ = uc.MailQueue.Enqueue(ctx, notice)
		}
	}

	return &responses.EmailChangeResult{Email: usage.Payload}, nil
}

// revokeExistingLink drops the user's previous live reset-class link.
// Email-change links are a separate class and are never touched here.
func (uc *authUsecase) revokeExistingLink(ctx context.Context, userID string) error {
	resetTags := []string{models.UsageTagPasswordReset, models.UsageTagNewUser}
	existing, err := uc.MagicLinkRepository.FindByUser(ctx, userID, resetTags)
	if err != nil {
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusNotFound {
			return nil
		}
		return err
	}
	if existing.IsUsed() {
		return nil
	}
	return uc.MagicLinkRepository.Invalidate(ctx, existing)
}

func (uc *authUsecase) applyRequestLimit(ctx context.Context, resource string) error {
	out, err := uc.Limiter.ApplyResourceLimiter(ctx, &ratelimiter.ApplyResourceLimiterInput{
		ResourceName:      resource,
		LimiterGroupName:  constvars.RateLimiterGroupMagicLinkRequest,
		WindowDurationSec: uc.InternalConfig.MagicLink.RequestWindowSeconds,
		MaxQuota:          uc.InternalConfig.MagicLink.RequestMaxPerWindow,
	})
	if err != nil {
		return err
	}
	if !out.Allowed {
		return exceptions.ErrTooManyMagicLinkRequests(nil)
	}
	return nil
}

// enqueueNotification hands the rendered mail to the queue. Delivery is best
// effort; a full queue is logged inside Enqueue and never fails the request.
func (uc *authUsecase) enqueueNotification(ctx context.Context, address string, link *models.MagicLink) {
	email, err := utils.BuildMagicLinkEmail(uc.InternalConfig.App.Issuer, address, link)
	if err != nil {
		uc.Log.Error("failed to render magic link notification",
			zap.String(constvars.LoggingAddressKey, address),
			zap.Error(err),
		)
		return
	}
	_ = uc.MailQueue.Enqueue(ctx, email)
}
