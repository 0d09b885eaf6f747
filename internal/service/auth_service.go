package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/scit-dev/registrar/internal/models"
	"github.com/scit-dev/registrar/pkg/config"
	appErrors "github.com/scit-dev/registrar/pkg/errors"
)

type studentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

const adminSubject = "admin"

// AuthService authenticates the two session roles. Students log in by id
// (existence check only); the admin credential comes from configuration,
// never a compiled-in literal.
type AuthService struct {
	students studentLookup
	admin    config.AdminConfig
	jwtCfg   config.JWTConfig
	logger   *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(students studentLookup, admin config.AdminConfig, jwtCfg config.JWTConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{students: students, admin: admin, jwtCfg: jwtCfg, logger: logger}
}

// StudentLogin resolves a student session by id.
func (s *AuthService) StudentLogin(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student id not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	s.logger.Info("student logged in", zap.String("student_id", student.ID))
	return student, nil
}

// AdminLogin verifies the supplied password against the configured
// credential. A bcrypt hash is preferred; the plain-text fallback is
// compared in constant time.
func (s *AuthService) AdminLogin(password string) error {
	if s.admin.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)); err != nil {
			return appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid admin password")
		}
		return nil
	}
	if s.admin.Password == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "admin credential not configured")
	}
	if subtle.ConstantTimeCompare([]byte(s.admin.Password), []byte(password)) != 1 {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid admin password")
	}
	return nil
}

// IssueAdminToken returns a signed JWT for the HTTP admin surface.
func (s *AuthService) IssueAdminToken(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		Issuer:    s.jwtCfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.Expiration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}
	return signed, nil
}

// VerifyAdminToken parses and validates an admin JWT.
func (s *AuthService) VerifyAdminToken(raw string) error {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject != adminSubject {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid token subject")
	}
	return nil
}
