package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/armandomtz/fraccionet/internal/model"
	"github.com/armandomtz/fraccionet/internal/repository"
	"github.com/armandomtz/fraccionet/pkg/auth"
	"github.com/armandomtz/fraccionet/pkg/mailer"
)

const (
	resetCodeLength  = 6
	resetCodeExpiry  = 30 * time.Minute
	resetCodeHourMax = 3 // max codes per hour per user
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo   *repository.UserRepository
	resetRepo  *repository.ResetCodeRepository
	jwtManager *auth.JWTManager
	mailer     *mailer.Mailer
	rdb        *redis.Client
}

func NewAuthService(
	userRepo *repository.UserRepository,
	resetRepo *repository.ResetCodeRepository,
	jwtManager *auth.JWTManager,
	mailer *mailer.Mailer,
	rdb *redis.Client,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		resetRepo:  resetRepo,
		jwtManager: jwtManager,
		mailer:     mailer,
		rdb:        rdb,
	}
}

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(req model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, errors.New("failed to find user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.FullName, string(user.Role))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &model.LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// ForgotPassword issues a reset code and emails it. The response never
// reveals whether the email is registered.
func (s *AuthService) ForgotPassword(req model.ForgotPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil
	}

	count, _ := s.resetRepo.CountRecent(user.ID, time.Now().Add(-1*time.Hour))
	if count >= resetCodeHourMax {
		return errors.New("too many reset requests. Please try again later")
	}

	_ = s.resetRepo.InvalidateAllForUser(user.ID)

	code, err := generateResetCode(resetCodeLength)
	if err != nil {
		return errors.New("failed to generate reset code")
	}

	rc := &model.ResetCode{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(resetCodeExpiry),
	}
	if err := s.resetRepo.Create(rc); err != nil {
		return errors.New("failed to store reset code")
	}

	return s.mailer.SendPasswordReset(user.Email, user.FullName, code, int(resetCodeExpiry.Minutes()))
}

// ResetPassword verifies the code and sets a new password
func (s *AuthService) ResetPassword(req model.ResetPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return errors.New("invalid or expired reset code")
	}

	rc, err := s.resetRepo.FindValid(user.ID, req.Code)
	if err != nil {
		return errors.New("invalid or expired reset code")
	}

	if err := s.resetRepo.MarkAsUsed(rc.ID); err != nil {
		return errors.New("failed to process reset code")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	return s.userRepo.UpdatePassword(user.ID, string(hashed))
}

// Logout blacklists the token until it would have expired anyway
func (s *AuthService) Logout(tokenString string) error {
	claims, err := s.jwtManager.ValidateToken(tokenString)
	if err != nil {
		return err
	}

	expiresIn := time.Until(claims.ExpiresAt.Time)
	if expiresIn <= 0 || s.rdb == nil {
		return nil
	}
	return s.rdb.Set(context.Background(), "blacklist:"+tokenString, "revoked", expiresIn).Err()
}

// generateResetCode returns a random numeric code of the given length
func generateResetCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
