package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/repositories"
	"taskboard/internal/shared"
	"taskboard/pkg/events"
	"taskboard/pkg/mailer"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const otpValidity = 10 * time.Minute

// AuthService handles registration, login, token validation and the
// password-reset flow. Issued tokens are self-contained; there is no
// revocation, so a password reset does not invalidate tokens issued
// before it — they stay valid until their embedded expiry.
type AuthService struct {
	userRepo  repositories.UserRepository
	otpRepo   repositories.OTPRepository
	mail      mailer.Mailer
	mqClient  *events.Client // optional, nil skips event publishing
	jwtSecret []byte
	jwtMethod jwt.SigningMethod
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService. jwtAlgorithm names an
// HMAC signing method ("HS256", "HS384", "HS512").
func NewAuthService(
	userRepo repositories.UserRepository,
	otpRepo repositories.OTPRepository,
	mail mailer.Mailer,
	mqClient *events.Client,
	jwtSecret string,
	jwtAlgorithm string,
	tokenTTLHours int,
) (*AuthService, error) {
	method := jwt.GetSigningMethod(jwtAlgorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown JWT signing algorithm: %s", jwtAlgorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported JWT signing algorithm: %s", jwtAlgorithm)
	}
	return &AuthService{
		userRepo:  userRepo,
		otpRepo:   otpRepo,
		mail:      mail,
		mqClient:  mqClient,
		jwtSecret: []byte(jwtSecret),
		jwtMethod: method,
		tokenTTL:  time.Duration(tokenTTLHours) * time.Hour,
	}, nil
}

// Register creates a new user and returns a session token for them.
// The repository's unique index on email is the authoritative duplicate
// guard; the lookup here is a fast path for the common case.
func (s *AuthService) Register(name, email, password string) (string, *models.User, error) {
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return "", nil, shared.ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, shared.ErrEmailTaken) {
			return "", nil, shared.ErrEmailTaken
		}
		return "", nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", nil, err
	}

	if s.mqClient != nil {
		if pubErr := s.mqClient.PublishUserRegistered(user.ID, user.Email); pubErr != nil {
			log.Printf("Warning: failed to publish user registered event for %s: %v", user.ID, pubErr)
		}
	}

	return token, user, nil
}

// Login authenticates a user by email and password. The error is the
// same whether the email is unknown or the password is wrong.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken signs a token carrying the user id as subject, expiring
// after the configured TTL.
func (s *AuthService) IssueToken(userID string) (string, error) {
	token := jwt.NewWithClaims(s.jwtMethod, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken verifies the signature and expiry of a token and
// returns the user id it carries.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.jwtMethod.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return "", shared.ErrTokenExpired
		}
		return "", shared.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", shared.ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", shared.ErrMissingSubject
	}
	return sub, nil
}

// ResolveUser validates a token and loads the user it identifies. A
// token whose user no longer exists is as unauthorized as a bad token.
func (s *AuthService) ResolveUser(tokenString string) (*models.User, error) {
	userID, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, shared.ErrInvalidToken
	}
	return user, nil
}

// RequestPasswordReset starts the forgot-password flow: it stores a
// fresh OTP record, mails the 6-digit code, and returns the opaque
// token the client must present at the later steps. Earlier records
// for the email stay valid; they are not invalidated here. The code
// itself is never part of the response, only the mail.
func (s *AuthService) RequestPasswordReset(email string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", shared.ErrEmailNotFound
	}

	code := fmt.Sprintf("%d", 100000+rand.Intn(900000))
	record := &models.PasswordResetOTP{
		ID:        uuid.New().String(),
		Email:     user.Email,
		Otp:       code,
		OtpToken:  uuid.New().String(),
		ExpiresAt: time.Now().UTC().Add(otpValidity),
	}
	if err := s.otpRepo.Create(record); err != nil {
		return "", fmt.Errorf("failed to store otp record: %w", err)
	}

	// The record is already persisted; if delivery fails it simply
	// expires unused.
	err = s.mail.Send(user.Email, "Your password reset code", "Use the code below to reset your password.", code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrDelivery, err)
	}

	return record.OtpToken, nil
}

// VerifyPasswordReset checks a code against its record without
// consuming it, so it may be repeated while the record is unexpired.
func (s *AuthService) VerifyPasswordReset(email, otp, otpToken string) error {
	record, err := s.otpRepo.GetByEmailOtpToken(email, otp, otpToken)
	if err != nil {
		return shared.ErrInvalidOtp
	}
	if record.Expired(time.Now()) {
		return shared.ErrOtpExpired
	}
	return nil
}

// ResetPassword consumes an OTP record and overwrites the user's
// password hash. The numeric code is not required here; the token is
// the capability. Deletion of the record is the single-use gate: a
// concurrent reset that finds the record already gone fails instead of
// applying twice.
func (s *AuthService) ResetPassword(email, otpToken, newPassword string) error {
	record, err := s.otpRepo.GetByEmailToken(email, otpToken)
	if err != nil {
		return shared.ErrInvalidOrExpiredOtpToken
	}
	if record.Expired(time.Now()) {
		return shared.ErrInvalidOrExpiredOtpToken
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return shared.ErrInvalidOrExpiredOtpToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.otpRepo.Delete(record.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrInvalidOrExpiredOtpToken
		}
		return fmt.Errorf("failed to delete otp record: %w", err)
	}

	if s.mqClient != nil {
		if pubErr := s.mqClient.PublishPasswordReset(user.Email); pubErr != nil {
			log.Printf("Warning: failed to publish password reset event for %s: %v", user.Email, pubErr)
		}
	}

	return nil
}
