// Package auth authenticates trainees against the roster: a trainee proves
// identity with their training ID plus the last four digits of the phone
// number registered in the spreadsheet, and receives a short-lived bearer
// token for the placement endpoints.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ctabha/coop-training/internal/audit"
	"github.com/ctabha/coop-training/internal/roster"
	dErrors "github.com/ctabha/coop-training/pkg/domain-errors"
)

const phoneSuffixLen = 4

// TraineeDirectory resolves trainee IDs to roster records.
type TraineeDirectory interface {
	Trainee(ctx context.Context, traineeID string) (roster.TraineeRecord, error)
}

// Auditor records login events. Emit must not block.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

// Claims are the JWT claims carried by a trainee session token.
type Claims struct {
	TraineeID string `json:"trainee_id"`
	jwt.RegisteredClaims
}

// Service issues and validates trainee session tokens.
type Service struct {
	directory  TraineeDirectory
	signingKey []byte
	issuer     string
	ttl        time.Duration
	auditor    Auditor
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithAuditor attaches an audit publisher.
func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

// NewService builds the auth service.
func NewService(directory TraineeDirectory, signingKey string, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		directory:  directory,
		signingKey: []byte(signingKey),
		issuer:     "coop-training",
		ttl:        ttl,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies the trainee ID and phone suffix against the roster and
// returns a signed session token plus the canonical roster record.
func (s *Service) Login(ctx context.Context, traineeID, phoneLast4 string) (string, roster.TraineeRecord, error) {
	traineeID = strings.TrimSpace(traineeID)
	if traineeID == "" {
		return "", roster.TraineeRecord{}, dErrors.New(dErrors.CodeValidation, "trainee_id is required")
	}
	suffix := roster.Digits(phoneLast4)
	if len(suffix) < phoneSuffixLen {
		return "", roster.TraineeRecord{}, dErrors.New(dErrors.CodeValidation, "enter the last 4 digits of your registered phone number")
	}
	suffix = suffix[len(suffix)-phoneSuffixLen:]

	rec, err := s.directory.Trainee(ctx, traineeID)
	if err != nil {
		return "", roster.TraineeRecord{}, err
	}
	registered := rec.PhoneSuffix(phoneSuffixLen)
	if registered == "" || registered != suffix {
		return "", roster.TraineeRecord{}, dErrors.New(dErrors.CodeUnauthorized, "phone number does not match the registered one")
	}

	token, err := s.generateToken(rec.TraineeID)
	if err != nil {
		return "", roster.TraineeRecord{}, dErrors.New(dErrors.CodeInternal, "token generation failed")
	}
	if s.auditor != nil {
		s.auditor.Emit(ctx, audit.Event{
			Action:         audit.ActionLogin,
			TraineeID:      rec.TraineeID,
			Specialization: rec.Specialization,
		})
	}
	return token, rec, nil
}

func (s *Service) generateToken(traineeID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		TraineeID: traineeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   traineeID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken checks a bearer token and returns the trainee ID it was
// issued for. Satisfies middleware.TokenValidator.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.TraineeID == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims.TraineeID, nil
}
