package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"authlink-service/internal/app/config"
	"authlink-service/internal/app/models"
	"authlink-service/internal/app/services/core/magiclinks"
	"authlink-service/internal/app/services/shared/mailqueue"
	"authlink-service/internal/app/services/shared/ratelimiter"
	"authlink-service/internal/pkg/constvars"
	"authlink-service/internal/pkg/dto/requests"
	"authlink-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type MockMagicLinkRepository struct {
	mock.Mock
}

func (m *MockMagicLinkRepository) Create(ctx context.Context, userID string, lifetimeMinutes int, usage models.MagicLinkUsage) (*models.MagicLink, error) {
	args := m.Called(ctx, userID, lifetimeMinutes, usage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MagicLink), args.Error(1)
}

func (m *MockMagicLinkRepository) FindByID(ctx context.Context, id string) (*models.MagicLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MagicLink), args.Error(1)
}

func (m *MockMagicLinkRepository) FindByUser(ctx context.Context, userID string, usageTags []string) (*models.MagicLink, error) {
	args := m.Called(ctx, userID, usageTags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MagicLink), args.Error(1)
}

func (m *MockMagicLinkRepository) InvalidateAllEmailChange(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockMagicLinkRepository) Save(ctx context.Context, link *models.MagicLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockMagicLinkRepository) Invalidate(ctx context.Context, link *models.MagicLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateEmail(ctx context.Context, userID, email string) error {
	args := m.Called(ctx, userID, email)
	return args.Error(0)
}

type MockRedisRepository struct {
	mock.Mock
}

func (m *MockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	args := m.Called(ctx, key, value, exp)
	return args.Error(0)
}

func (m *MockRedisRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRedisRepository) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error) {
	args := m.Called(ctx, key, ttl)
	return args.Int(0), args.Error(1)
}

type usecaseFixture struct {
	usecase   AuthUsecase
	links     *MockMagicLinkRepository
	users     *MockUserRepository
	redis     *MockRedisRepository
	mailQueue *mailqueue.Service
}

func newUsecaseFixture() *usecaseFixture {
	log := zap.NewNop()
	internalConfig := &config.InternalConfig{
		App: config.App{Issuer: "https://auth.example.com"},
		MagicLink: config.MagicLink{
			ResetLifetimeMinutes:       30,
			EmailChangeLifetimeMinutes: 60,
			NewUserLifetimeMinutes:     4320,
			CookieBindingEnforced:      true,
			RequestMaxPerWindow:        3,
			RequestWindowSeconds:       60,
		},
		Mailer: config.Mailer{QueueSize: 8, EnqueueTimeoutInSeconds: 1},
	}

	links := new(MockMagicLinkRepository)
	userRepo := new(MockUserRepository)
	redisRepo := new(MockRedisRepository)
	mailQueue := mailqueue.NewService(internalConfig, log)

	usecase := NewAuthUsecase(
		links,
		userRepo,
		magiclinks.NewValidator(internalConfig, log),
		mailQueue,
		ratelimiter.NewResourceLimiter(redisRepo, log),
		internalConfig,
		log,
	)
	return &usecaseFixture{
		usecase:   usecase,
		links:     links,
		users:     userRepo,
		redis:     redisRepo,
		mailQueue: mailQueue,
	}
}

func (f *usecaseFixture) allowRequests() {
	f.redis.On("IncrementWithTTL", mock.Anything, mock.Anything, mock.Anything).Return(1, nil)
}

var resetClassTags = []string{models.UsageTagPasswordReset, models.UsageTagNewUser}

func (f *usecaseFixture) noExistingLink(userID string) {
	f.links.On("FindByUser", mock.Anything, userID, resetClassTags).
		Return(nil, exceptions.ErrMagicLinkNotFound(nil))
}

func activeLink(userID, usage string) *models.MagicLink {
	return &models.MagicLink{
		ID:        "link-1",
		UserID:    userID,
		CsrfToken: "csrf-token",
		Exp:       time.Now().Unix() + 900,
		State:     models.LinkStateActive,
		Usage:     usage,
	}
}

func bareRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/users/user-1/reset/link-1", nil)
}

func TestRequestPasswordReset(t *testing.T) {
	t.Run("activated user gets a password reset link", func(t *testing.T) {
		f := newUsecaseFixture()
		f.allowRequests()

		user := &models.User{ID: "user-1", Email: "me@x.io", Activated: true}
		f.users.On("FindByEmail", mock.Anything, "me@x.io").Return(user, nil)
		f.noExistingLink("user-1")
		f.links.On("Create", mock.Anything, "user-1", 30, models.PasswordResetUsage("/done")).
			Return(activeLink("user-1", "password_reset$/done"), nil)

		err := f.usecase.RequestPasswordReset(context.Background(), &requests.RequestPasswordReset{
			Email:       "me@x.io",
			RedirectURI: "/done",
		})
		assert.NoError(t, err)

		job := <-f.mailQueue.Jobs()
		assert.Equal(t, "me@x.io", job.Address)
		assert.Contains(t, job.Text, "https://auth.example.com/users/user-1/reset/link-1")
	})

	t.Run("non-activated user gets a new-user link with its own lifetime", func(t *testing.T) {
		f := newUsecaseFixture()
		f.allowRequests()

		user := &models.User{ID: "user-1", Email: "me@x.io", Activated: false}
		f.users.On("FindByEmail", mock.Anything, "me@x.io").Return(user, nil)
		f.noExistingLink("user-1")
		f.links.On("Create", mock.Anything, "user-1", 4320, models.NewUserUsage("")).
			Return(activeLink("user-1", "new_user"), nil)

		err := f.usecase.RequestPasswordReset(context.Background(), &requests.RequestPasswordReset{Email: "me@x.io"})
		assert.NoError(t, err)
		f.links.AssertExpectations(t)
	})

	t.Run("a new request revokes the previous live link", func(t *testing.T) {
		f := newUsecaseFixture()
		f.allowRequests()

		user := &models.User{ID: "user-1", Email: "me@x.io", Activated: true}
		previous := activeLink("user-1", "password_reset")
		f.users.On("FindByEmail", mock.Anything, "me@x.io").Return(user, nil)
		f.links.On("FindByUser", mock.Anything, "user-1", resetClassTags).Return(previous, nil)
		f.links.On("Invalidate", mock.Anything, previous).Return(nil)
		f.links.On("Create", mock.Anything, "user-1", 30, models.PasswordResetUsage("")).
			Return(activeLink("user-1", "password_reset"), nil)

		err := f.usecase.RequestPasswordReset(context.Background(), &requests.RequestPasswordReset{Email: "me@x.io"})
		assert.NoError(t, err)
		f.links.AssertExpectations(t)
	})

	t.Run("an already used previous link is left alone", func(t *testing.T) {
		f := newUsecaseFixture()
		f.allowRequests()

		user := &models.User{ID: "user-1", Email: "me@x.io", Activated: true}
		previous := activeLink("user-1", "password_reset")
		previous.MarkUsed()
		f.users.On("FindByEmail", mock.Anything, "me@x.io").Return(user, nil)
		f.links.On("FindByUser", mock.Anything, "user-1", resetClassTags).Return(previous, nil)
		f.links.On("Create", mock.Anything, "user-1", 30, models.PasswordResetUsage("")).
			Return(activeLink("user-1", "password_reset"), nil)

		err := f.usecase.RequestPasswordReset(context.Background(), &requests.RequestPasswordReset{Email: "me@x.io"})
		assert.NoError(t, err)
		f.links.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("a pending email-change link is out of scope for the supersede lookup", func(t *testing.T) {
		f := newUsecaseFixture()
		f.allowRequests()

		user := &models.User{ID: "user-1", Email: "me@x.io", Activated: true}
		f.users.On("FindByEmail", mock.Anything, "me@x.io").Return(user, nil)
		// The user's only live link is an email-change one; the reset-class
		// lookup must not see it.
		f.links.On("FindByUser", mock.Anything, "user-1", resetClassTags).
			Return(nil, exceptions.ErrMagicLinkNotFound(nil))
		f.links.On("Create", mock.Anything, "user-1", 30, models.PasswordResetUsage("")).
			Return(activeLink("user-1", "password_reset"), nil)

		err := f.usecase.RequestPasswordReset(context.Background(), &requests.RequestPasswordReset{Email: "me@x.io"})
		assert.NoError(t, err)
		f.links.AssertCalled(t, "FindByUser", mock.Anything, "user-1", resetClassTags)
		f.links.AssertNotCalled(t, "FindByUser", mock.Anything, "user-1", mock.MatchedBy(func(tags []string) bool {
			for _, tag := range tags {
				if tag == models.UsageTagEmailChange {
					return true
				}
			}
			return false
		}))
		f.links.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("unknown address reports success with no side effect", func(t *testing.T) {
		f := newUsecaseFixture()
		f.allowRequests()

		f.users.On("FindByEmail", mock.Anything, "ghost@x.io").Return(nil, nil)

		err := f.usecase.RequestPasswordReset(context.Background(), &requests.RequestPasswordReset{Email: "ghost@x.io"})
		assert.NoError(t, err)
		f.links.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.mailQueue.Jobs())
	})

	t.Run("over quota returns 429 before touching the user store", func(t *testing.T) {
		f := newUsecaseFixture()
		f.redis.On("IncrementWithTTL", mock.Anything, mock.Anything, mock.Anything).Return(4, nil)

		err := f.usecase.RequestPasswordReset(context.Background(), &requests.RequestPasswordReset{Email: "me@x.io"})
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, http.StatusTooManyRequests, customErr.StatusCode)
		f.users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}

func TestVerifyResetLink(t *testing.T) {
	t.Run("first visit binds the link and returns the cookie secret", func(t *testing.T) {
		f := newUsecaseFixture()
		link := activeLink("user-1", "password_reset$/done")
		f.links.On("FindByID", mock.Anything, "link-1").Return(link, nil)
		f.links.On("Save", mock.Anything, link).Return(nil)

		verification, cookieValue, err := f.usecase.VerifyResetLink(context.Background(), "user-1", "link-1", bareRequest())
		assert.NoError(t, err)
		assert.Equal(t, "csrf-token", verification.CsrfToken)
		assert.Equal(t, "password_reset", verification.Usage)
		assert.Equal(t, "/done", verification.RedirectURI)
		assert.NotEmpty(t, cookieValue)
		assert.NotNil(t, link.Cookie)
		assert.Equal(t, cookieValue, *link.Cookie)
	})

	t.Run("later visit with the cookie returns no new secret", func(t *testing.T) {
		f := newUsecaseFixture()
		link := activeLink("user-1", "password_reset")
		link.BindCookie("bindsecret")
		f.links.On("FindByID", mock.Anything, "link-1").Return(link, nil)

		r := bareRequest()
		r.AddCookie(&http.Cookie{Name: constvars.MagicLinkBindingCookieName, Value: "bindsecret"})

		_, cookieValue, err := f.usecase.VerifyResetLink(context.Background(), "user-1", "link-1", r)
		assert.NoError(t, err)
		assert.Empty(t, cookieValue)
		f.links.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("visit from another browser is rejected", func(t *testing.T) {
		f := newUsecaseFixture()
		link := activeLink("user-1", "password_reset")
		link.BindCookie("bindsecret")
		f.links.On("FindByID", mock.Anything, "link-1").Return(link, nil)

		_, _, err := f.usecase.VerifyResetLink(context.Background(), "user-1", "link-1", bareRequest())
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, http.StatusForbidden, customErr.StatusCode)
	})
}

func TestResetPassword(t *testing.T) {
	newResetRequest := func(cookieSecret, csrfToken string) *http.Request {
		r := httptest.NewRequest(http.MethodPut, "/users/user-1/reset/link-1", nil)
		if cookieSecret != "" {
			r.AddCookie(&http.Cookie{Name: constvars.MagicLinkBindingCookieName, Value: cookieSecret})
		}
		if csrfToken != "" {
			r.Header.Set(constvars.MagicLinkCsrfHeaderName, csrfToken)
		}
		return r
	}

	t.Run("consumes the link and stores a bcrypt hash", func(t *testing.T) {
		f := newUsecaseFixture()
		link := activeLink("user-1", "password_reset$/done")
		link.BindCookie("bindsecret")
		f.links.On("FindByID", mock.Anything, "link-1").Return(link, nil)
		f.links.On("Save", mock.Anything, link).Return(nil)

		var storedHash string
		f.users.On("UpdatePassword", mock.Anything, "user-1", mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { storedHash = args.String(2) }).
			Return(nil)

		result, err := f.usecase.ResetPassword(
			context.Background(),
			"user-1", "link-1",
			&requests.ResetPassword{Password: "correct horse battery"},
			newResetRequest("bindsecret", "csrf-token"),
		)
		assert.NoError(t, err)
		assert.Equal(t, "/done", result.RedirectURI)
		assert.True(t, link.IsUsed())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("correct horse battery")))
	})

	t.Run("missing CSRF header fails before any write", func(t *testing.T) {
		f := newUsecaseFixture()
		link := activeLink("user-1", "password_reset")
		link.BindCookie("bindsecret")
		f.links.On("FindByID", mock.Anything, "link-1").Return(link, nil)

		_, err := f.usecase.ResetPassword(
			context.Background(),
			"user-1", "link-1",
			&requests.ResetPassword{Password: "irrelevant-pass"},
			newResetRequest("bindsecret", ""),
		)
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, "CSRF Token is missing", customErr.ClientMessage)
		f.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
		assert.False(t, link.IsUsed())
	})

	t.Run("second use is rejected", func(t *testing.T) {
		f := newUsecaseFixture()
		link := activeLink("user-1", "password_reset")
		link.BindCookie("bindsecret")
		link.MarkUsed()
		f.links.On("FindByID", mock.Anything, "link-1").Return(link, nil)

		_, err := f.usecase.ResetPassword(
			context.Background(),
			"user-1", "link-1",
			&requests.ResetPassword{Password: "irrelevant-pass"},
			newResetRequest("bindsecret", "csrf-token"),
		)
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, http.StatusBadRequest, customErr.StatusCode)
		assert.Equal(t, "The requested password reset link was already used", customErr.ClientMessage)
	})

	t.Run("an email-change link cannot reset a password", func(t *testing.T) {
		f := newUsecaseFixture()
		link := activeLink("user-1", "email_change$new@x.io")
		link.BindCookie("bindsecret")
		f.links.On("FindByID", mock.Anything, "link-1").Return(link, nil)

		_, err := f.usecase.ResetPassword(
			context.Background(),
			"user-1", "link-1",
			&requests.ResetPassword{Password: "irrelevant-pass"},
			newResetRequest("bindsecret", "csrf-token"),
		)
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, http.StatusBadRequest, customErr.StatusCode)
		f.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRequestEmailChange(t *testing.T) {
	t.Run("drops previous requests and mails the new address", func(t *testing.T) {
		f := newUsecaseFixture()
		f.allowRequests()

		f.users.On("FindByID", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", Email: "old@x.io", Activated: true}, nil)
		f.users.On("FindByEmail", mock.Anything, "new@x.io").Return(nil, nil)
		f.links.On("InvalidateAllEmailChange", mock.Anything, "user-1").Return(nil)
		f.links.On("Create", mock.Anything, "user-1", 60, models.EmailChangeUsage("new@x.io")).
			Return(activeLink("user-1", "email_change$new@x.io"), nil)

		err := f.usecase.RequestEmailChange(context.Background(), "user-1", &requests.RequestEmailChange{NewEmail: "new@x.io"})
		assert.NoError(t, err)
		f.links.AssertExpectations(t)

		job := <-f.mailQueue.Jobs()
		assert.Equal(t, "new@x.io", job.Address)
	})

	t.Run("taken address is rejected", func(t *testing.T) {
		f := newUsecaseFixture()

		f.users.On("FindByID", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", Email: "old@x.io"}, nil)
		f.users.On("FindByEmail", mock.Anything, "taken@x.io").
			Return(&models.User{ID: "user-2", Email: "taken@x.io"}, nil)

		err := f.usecase.RequestEmailChange(context.Background(), "user-1", &requests.RequestEmailChange{NewEmail: "taken@x.io"})
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, http.StatusBadRequest, customErr.StatusCode)
		f.links.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestConfirmEmailChange(t *testing.T) {
	t.Run("moves the account to the payload address", func(t *testing.T) {
		f := newUsecaseFixture()
		link := activeLink("user-1", "email_change$new@x.io")
		f.links.On("FindByID", mock.Anything, "link-1").Return(link, nil)
		f.links.On("Save", mock.Anything, link).Return(nil)
		f.users.On("FindByID", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", Email: "old@x.io"}, nil)
		f.users.On("UpdateEmail", mock.Anything, "user-1", "new@x.io").Return(nil)

		result, err := f.usecase.ConfirmEmailChange(context.Background(), "user-1", "link-1", bareRequest())
		assert.NoError(t, err)
		assert.Equal(t, "new@x.io", result.Email)
		assert.True(t, link.IsUsed())
		f.users.AssertExpectations(t)
	})

	t.Run("the old address gets a plain-text notice", func(t *testing.T) {
		f := newUsecaseFixture()
		link := activeLink("user-1", "email_change$new@x.io")
		f.links.On("FindByID", mock.Anything, "link-1").Return(link, nil)
		f.links.On("Save", mock.Anything, link).Return(nil)
		f.users.On("FindByID", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", Email: "old@x.io"}, nil)
		f.users.On("UpdateEmail", mock.Anything, "user-1", "new@x.io").Return(nil)

		_, err := f.usecase.ConfirmEmailChange(context.Background(), "user-1", "link-1", bareRequest())
		assert.NoError(t, err)

		notice := <-f.mailQueue.Jobs()
		assert.Equal(t, "old@x.io", notice.Address)
		assert.Contains(t, notice.Text, "new@x.io")
		assert.Nil(t, notice.HTML)
	})

	t.Run("a password reset link cannot change the address", func(t *testing.T) {
		f := newUsecaseFixture()
		link := activeLink("user-1", "password_reset")
		f.links.On("FindByID", mock.Anything, "link-1").Return(link, nil)

		_, err := f.usecase.ConfirmEmailChange(context.Background(), "user-1", "link-1", bareRequest())
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, http.StatusBadRequest, customErr.StatusCode)
		f.users.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("an expired link cannot change the address", func(t *testing.T) {
		f := newUsecaseFixture()
		link := activeLink("user-1", "email_change$new@x.io")
		link.Exp = time.Now().Unix() - 1
		f.links.On("FindByID", mock.Anything, "link-1").Return(link, nil)

		_, err := f.usecase.ConfirmEmailChange(context.Background(), "user-1", "link-1", bareRequest())
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, "This link has expired already", customErr.ClientMessage)
	})
}
