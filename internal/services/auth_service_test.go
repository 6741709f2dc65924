package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/repositories"
	"taskboard/internal/services"
	"taskboard/internal/shared"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(id string, passwordHash string) error {
	args := m.Called(id, passwordHash)
	return args.Error(0)
}

// MockMailer is a mock implementation of mailer.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body, code string) error {
	args := m.Called(to, subject, body, code)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func newAuthService(t *testing.T, userRepo repositories.UserRepository, otpRepo repositories.OTPRepository, mail *MockMailer) *services.AuthService {
	t.Helper()
	svc, err := services.NewAuthService(userRepo, otpRepo, mail, nil, testJWTSecret, "HS256", 24)
	assert.NoError(t, err)
	return svc
}

func TestNewAuthService_RejectsUnknownAlgorithm(t *testing.T) {
	_, err := services.NewAuthService(new(MockUserRepository), repositories.NewMockOTPRepository(), new(MockMailer), nil, testJWTSecret, "ES999", 24)
	assert.Error(t, err)

	// Asymmetric algorithms are not supported either; the secret is a
	// shared HMAC key.
	_, err = services.NewAuthService(new(MockUserRepository), repositories.NewMockOTPRepository(), new(MockMailer), nil, testJWTSecret, "RS256", 24)
	assert.Error(t, err)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo, repositories.NewMockOTPRepository(), new(MockMailer))

	// Successful registration
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, shared.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	token, user, err := authService.Register("Test User", "test@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, user)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.Password) // stored hashed
	mockRepo.AssertExpectations(t)

	// The issued token identifies the new user.
	subject, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	// Email already registered (fast-path check)
	mockRepo.On("GetByEmail", "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, _, err = authService.Register("Test User", "test@example.com", "password123")
	assert.ErrorIs(t, err, shared.ErrEmailTaken)
	mockRepo.AssertExpectations(t)

	// Email already registered (unique index fired despite the
	// fast path missing it)
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, shared.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(shared.ErrEmailTaken).Once()
	_, _, err = authService.Register("Test User", "test@example.com", "password123")
	assert.ErrorIs(t, err, shared.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo, repositories.NewMockOTPRepository(), new(MockMailer))

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Name:     "Test User",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	token, loggedIn, err := authService.Login(user.Email, "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
	mockRepo.AssertExpectations(t)

	// Token carries the user id as subject
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["sub"])

	// Wrong password and unknown email yield the identical error
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, errWrongPassword := authService.Login(user.Email, "wrongpassword")
	assert.ErrorIs(t, errWrongPassword, shared.ErrInvalidCredentials)

	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, shared.ErrNotFound).Once()
	_, _, errUnknownEmail := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, errUnknownEmail, shared.ErrInvalidCredentials)

	assert.Equal(t, errWrongPassword, errUnknownEmail)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo, repositories.NewMockOTPRepository(), new(MockMailer))

	// Valid token
	validToken, err := authService.IssueToken("user-123")
	assert.NoError(t, err)
	subject, err := authService.ValidateToken(validToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", subject)

	// Garbage token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, shared.ErrInvalidToken)

	// Token signed with a different secret
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	foreignString, _ := foreign.SignedString([]byte("other_secret"))
	_, err = authService.ValidateToken(foreignString)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)

	// Expired token
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredString)
	assert.ErrorIs(t, err, shared.ErrTokenExpired)

	// Token without a subject claim
	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noSubjectString, _ := noSubject.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(noSubjectString)
	assert.ErrorIs(t, err, shared.ErrMissingSubject)
}

func TestAuthService_ResolveUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo, repositories.NewMockOTPRepository(), new(MockMailer))

	token, err := authService.IssueToken("user-123")
	assert.NoError(t, err)

	// User still exists
	mockRepo.On("GetByID", "user-123").Return(&models.User{ID: "user-123"}, nil).Once()
	user, err := authService.ResolveUser(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", user.ID)

	// User deleted after token issuance
	mockRepo.On("GetByID", "user-123").Return(nil, shared.ErrNotFound).Once()
	_, err = authService.ResolveUser(token)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	otpRepo := repositories.NewMockOTPRepository()
	mockMail := new(MockMailer)
	authService := newAuthService(t, userRepo, otpRepo, mockMail)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, userRepo.Create(&models.User{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}))

	// Unknown email: no record stored, no mail sent
	_, err := authService.RequestPasswordReset("nobody@example.com")
	assert.ErrorIs(t, err, shared.ErrEmailNotFound)
	assert.Equal(t, 0, otpRepo.Count())
	mockMail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// Known email: record stored, code mailed, token returned
	mockMail.On("Send", "test@example.com", mock.Anything, mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()
	otpToken, err := authService.RequestPasswordReset("test@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, otpToken)
	assert.Equal(t, 1, otpRepo.Count())

	code := mockMail.Calls[0].Arguments.String(3)
	assert.Len(t, code, 6)
	assert.NotEqual(t, code, otpToken) // the token is not derived from the code

	// A second request leaves the first record valid
	mockMail.On("Send", "test@example.com", mock.Anything, mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()
	secondToken, err := authService.RequestPasswordReset("test@example.com")
	assert.NoError(t, err)
	assert.NotEqual(t, otpToken, secondToken)
	assert.Equal(t, 2, otpRepo.Count())
	assert.NoError(t, authService.VerifyPasswordReset("test@example.com", code, otpToken))

	mockMail.AssertExpectations(t)
}

func TestAuthService_RequestPasswordReset_DeliveryFailure(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	otpRepo := repositories.NewMockOTPRepository()
	mockMail := new(MockMailer)
	authService := newAuthService(t, userRepo, otpRepo, mockMail)

	assert.NoError(t, userRepo.Create(&models.User{Name: "Test User", Email: "test@example.com"}))

	mockMail.On("Send", "test@example.com", mock.Anything, mock.Anything, mock.AnythingOfType("string")).
		Return(fmt.Errorf("smtp connection refused")).Once()

	_, err := authService.RequestPasswordReset("test@example.com")
	assert.ErrorIs(t, err, shared.ErrDelivery)
	// The record was persisted before the delivery attempt; it stays
	// behind and simply expires unused.
	assert.Equal(t, 1, otpRepo.Count())
	mockMail.AssertExpectations(t)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	otpRepo := repositories.NewMockOTPRepository()
	mockMail := new(MockMailer)
	authService := newAuthService(t, userRepo, otpRepo, mockMail)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	assert.NoError(t, userRepo.Create(&models.User{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}))

	mockMail.On("Send", "test@example.com", mock.Anything, mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()
	otpToken, err := authService.RequestPasswordReset("test@example.com")
	assert.NoError(t, err)
	code := mockMail.Calls[0].Arguments.String(3)

	// Verify is repeatable and does not consume the record
	assert.NoError(t, authService.VerifyPasswordReset("test@example.com", code, otpToken))
	assert.NoError(t, authService.VerifyPasswordReset("test@example.com", code, otpToken))
	assert.Equal(t, 1, otpRepo.Count())

	// Correct token with a wrong code is rejected
	wrongCode := "000000"
	if wrongCode == code {
		wrongCode = "000001"
	}
	assert.ErrorIs(t, authService.VerifyPasswordReset("test@example.com", wrongCode, otpToken), shared.ErrInvalidOtp)

	// Reset consumes the record and changes the password
	assert.NoError(t, authService.ResetPassword("test@example.com", otpToken, "newpassword"))
	assert.Equal(t, 0, otpRepo.Count())

	_, _, err = authService.Login("test@example.com", "oldpassword")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	_, _, err = authService.Login("test@example.com", "newpassword")
	assert.NoError(t, err)

	// Replaying the reset fails: the record is gone
	assert.ErrorIs(t, authService.ResetPassword("test@example.com", otpToken, "anotherpassword"),
		shared.ErrInvalidOrExpiredOtpToken)
	mockMail.AssertExpectations(t)
}

func TestAuthService_ExpiredOtp(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	otpRepo := repositories.NewMockOTPRepository()
	authService := newAuthService(t, userRepo, otpRepo, new(MockMailer))

	assert.NoError(t, userRepo.Create(&models.User{Name: "Test User", Email: "test@example.com"}))

	// Insert a record whose deadline has already passed
	expired := &models.PasswordResetOTP{
		Email:     "test@example.com",
		Otp:       "123456",
		OtpToken:  "token-abc",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	assert.NoError(t, otpRepo.Create(expired))

	assert.ErrorIs(t, authService.VerifyPasswordReset("test@example.com", "123456", "token-abc"),
		shared.ErrOtpExpired)
	assert.ErrorIs(t, authService.ResetPassword("test@example.com", "token-abc", "newpassword"),
		shared.ErrInvalidOrExpiredOtpToken)
	// The expired record is not consumed by the failed reset
	assert.Equal(t, 1, otpRepo.Count())
}
