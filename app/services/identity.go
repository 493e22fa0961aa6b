package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/app/responses"
	"github.com/lidosole/lidosole/config"
	"github.com/lidosole/lidosole/pkg/apperr"
	"github.com/lidosole/lidosole/pkg/auth"
	"github.com/lidosole/lidosole/pkg/cache"
	"github.com/lidosole/lidosole/pkg/crypt"
	"github.com/lidosole/lidosole/pkg/logger"
	"github.com/lidosole/lidosole/pkg/mail"
)

const stampTTL = 15 * time.Minute

const verifyMailTemplate = `
<p>Ciao {{.Name}},</p>
<p>Welcome to Lidosole. Confirm your email to activate your account:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>The link expires in 48 hours.</p>
`

// verifyPayload is the sealed content of an email-verification token.
type verifyPayload struct {
	UserID uint      `json:"uid"`
	Expiry time.Time `json:"exp"`
}

// Mailer sends the verification email. mail.Message satisfies the underlying
// transport; the indirection lets tests capture outgoing mail.
type Mailer func(to, subject, templateSrc string, data interface{}) error

func smtpMailer(to, subject, templateSrc string, data interface{}) error {
	return mail.To(to).Subject(subject).Template(templateSrc, data).Send()
}

// IdentityService owns registration, email verification, login with lockout,
// and the rotating refresh-token scheme.
type IdentityService struct {
	db     *gorm.DB
	cache  *cache.Cache
	mailer Mailer
}

func NewIdentityService(db *gorm.DB, c *cache.Cache) *IdentityService {
	return &IdentityService{db: db, cache: c, mailer: smtpMailer}
}

// WithMailer swaps the outgoing mail transport. Used by tests.
func (s *IdentityService) WithMailer(m Mailer) *IdentityService {
	s.mailer = m
	return s
}

func stampKey(userID uint) string { return fmt.Sprintf("stamp:%d", userID) }

// VerificationToken seals a userID into the opaque token embedded in the
// confirmation link.
func VerificationToken(userID uint) (string, error) {
	return crypt.EncryptJSON(verifyPayload{
		UserID: userID,
		Expiry: time.Now().Add(config.VerifyTokenTTL()),
	})
}

// Register creates an unverified account and emails the confirmation link.
// Mail delivery is best effort; a transport failure is logged, not surfaced.
func (s *IdentityService) Register(ctx context.Context, req requests.Register) (responses.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return responses.User{}, err
	}
	if count > 0 {
		return responses.User{}, apperr.Conflictf("email %s is already registered", req.Email)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return responses.User{}, fmt.Errorf("identity: hash password: %w", err)
	}

	// Accounts carry no role until VerifyEmail assigns the default one.
	user := models.User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      hash,
		SecurityStamp: uuid.NewString(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return responses.User{}, err
	}

	token, err := VerificationToken(user.ID)
	if err != nil {
		return responses.User{}, err
	}

	link := fmt.Sprintf("%s/api/auth/verify?token=%s", config.AppURL(), token)
	go func() {
		err := s.mailer(user.Email, "Verify your Lidosole account", verifyMailTemplate,
			map[string]string{"Name": user.FirstName, "Link": link})
		if err != nil {
			logger.Error("identity: verification mail", "user_id", user.ID, "error", err)
		}
	}()

	return responses.NewUser(user), nil
}

// VerifyEmail activates the account sealed inside token. Verifying an
// already-active account is a no-op.
func (s *IdentityService) VerifyEmail(ctx context.Context, token string) (responses.User, error) {
	var payload verifyPayload
	if err := crypt.DecryptJSON(token, &payload); err != nil {
		return responses.User{}, apperr.Invalidf("verification token is not valid")
	}
	if time.Now().After(payload.Expiry) {
		return responses.User{}, apperr.Invalidf("verification token has expired")
	}

	user, err := s.loadUser(ctx, payload.UserID)
	if err != nil {
		return responses.User{}, err
	}

	if !user.Verified {
		user.Verified = true
		if user.Role == "" {
			user.Role = models.RoleUser
		}
		if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
			return responses.User{}, err
		}
	}
	return responses.NewUser(user), nil
}

// Login checks credentials and issues a token pair. Unverified accounts are
// rejected; repeated failures lock the account for a time-boxed window.
// Every successful login rotates the security stamp and the refresh token.
func (s *IdentityService) Login(ctx context.Context, req requests.Login) (responses.TokenPair, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return responses.TokenPair{}, apperr.Invalidf("invalid credentials")
		}
		return responses.TokenPair{}, err
	}

	if user.LockedUntil != nil && time.Now().Before(*user.LockedUntil) {
		return responses.TokenPair{}, apperr.Invalidf("account is temporarily locked, try again later")
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return responses.TokenPair{}, s.recordFailure(ctx, &user)
	}

	if !user.Verified {
		return responses.TokenPair{}, apperr.Invalidf("account isn't verified")
	}

	return s.issueTokens(ctx, &user)
}

// Refresh exchanges an expired-but-genuine access token plus the matching
// stored refresh token for a fresh pair. The old refresh token is overwritten
// so it cannot be replayed.
func (s *IdentityService) Refresh(ctx context.Context, req requests.Refresh) (responses.TokenPair, error) {
	claims, err := auth.ParseExpired(req.AccessToken)
	if err != nil {
		return responses.TokenPair{}, apperr.Invalidf("access token is not valid")
	}

	user, err := s.loadUser(ctx, claims.UserID)
	if err != nil {
		return responses.TokenPair{}, err
	}

	if user.RefreshToken == "" || user.RefreshToken != req.RefreshToken {
		return responses.TokenPair{}, apperr.Invalidf("refresh token is not valid")
	}
	if user.RefreshExpiry == nil || time.Now().After(*user.RefreshExpiry) {
		return responses.TokenPair{}, apperr.Invalidf("refresh token has expired")
	}

	return s.issueTokens(ctx, &user)
}

// Me returns the caller's profile.
func (s *IdentityService) Me(ctx context.Context, userID uint) (responses.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return responses.User{}, err
	}
	return responses.NewUser(user), nil
}

// UpdateProfile changes the caller's display names.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID uint, req requests.UpdateProfile) (responses.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return responses.User{}, err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return responses.User{}, err
	}
	return responses.NewUser(user), nil
}

// ValidStamp is the read-through stamp check plugged into the auth
// middleware. Stamps are cached briefly; a miss falls back to the database.
func (s *IdentityService) ValidStamp(ctx context.Context, userID uint, stamp string) bool {
	var current string
	if !s.cache.Get(ctx, stampKey(userID), &current) {
		var user models.User
		if err := s.db.WithContext(ctx).Select("security_stamp").
			First(&user, userID).Error; err != nil {
			return false
		}
		current = user.SecurityStamp
		_ = s.cache.Set(ctx, stampKey(userID), current, stampTTL)
	}
	return current == stamp
}

func (s *IdentityService) recordFailure(ctx context.Context, user *models.User) error {
	user.FailedLogins++
	if user.FailedLogins >= config.MaxLoginFailures() {
		until := time.Now().Add(config.LockoutWindow())
		user.LockedUntil = &until
		user.FailedLogins = 0
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	return apperr.Invalidf("invalid credentials")
}

func (s *IdentityService) issueTokens(ctx context.Context, user *models.User) (responses.TokenPair, error) {
	user.SecurityStamp = uuid.NewString()
	user.RefreshToken = uuid.NewString()
	expiry := time.Now().Add(config.RefreshTokenTTL())
	user.RefreshExpiry = &expiry
	user.FailedLogins = 0
	user.LockedUntil = nil

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return responses.TokenPair{}, err
	}
	_ = s.cache.Set(ctx, stampKey(user.ID), user.SecurityStamp, stampTTL)

	access, err := auth.GenerateAccessToken(user.ID, user.Role, user.SecurityStamp)
	if err != nil {
		return responses.TokenPair{}, fmt.Errorf("identity: sign token: %w", err)
	}

	return responses.TokenPair{AccessToken: access, RefreshToken: user.RefreshToken}, nil
}

func (s *IdentityService) loadUser(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, apperr.NotFoundf("user %d not found", id)
		}
		return user, err
	}
	return user, nil
}
