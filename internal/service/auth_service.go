package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nhel2500/AUPWU/internal/domain"
	apperrors "github.com/nhel2500/AUPWU/pkg/errors"
	"github.com/nhel2500/AUPWU/pkg/logger"
)

// TokenClaims is the JWT payload carried by member sessions
type TokenClaims struct {
	MemberID int64       `json:"member_id"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthService validates HS256 bearer tokens issued by the portal's
// login flow and resolves them to a member identity.
type JWTAuthService struct {
	secret []byte
	logger *logger.Logger
}

func NewJWTAuthService(secret string, log *logger.Logger) *JWTAuthService {
	return &JWTAuthService{
		secret: []byte(secret),
		logger: log,
	}
}

// ValidateToken verifies the signature and expiry of a bearer token and
// returns the member identity it carries.
func (s *JWTAuthService) ValidateToken(_ context.Context, tokenString string) (*domain.AuthenticatedMember, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.NewAuthenticationError("invalid or expired token")
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.MemberID == 0 {
		return nil, apperrors.NewAuthenticationError("invalid token claims")
	}

	role := claims.Role
	if role == "" {
		role = domain.RoleMember
	}
	return &domain.AuthenticatedMember{
		MemberID: claims.MemberID,
		Role:     role,
	}, nil
}

// IssueToken signs a session token for a member. Used by the login flow
// and by tests.
func (s *JWTAuthService) IssueToken(memberID int64, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		MemberID: memberID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   fmt.Sprintf("%d", memberID),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
