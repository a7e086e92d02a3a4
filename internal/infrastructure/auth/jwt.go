package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iho/bankledger/internal/domain"
)

const issuer = "bankledger"

// Claims represents the JWT claims
type Claims struct {
	OperatorID string      `json:"operator_id"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Operator returns the operator the token was issued to.
func (c *Claims) Operator() *domain.Operator {
	return &domain.Operator{ID: c.OperatorID, Email: c.Email, Role: c.Role}
}

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Generate signs a token for an operator. Each token carries a random ID.
func (m *JWTManager) Generate(op *domain.Operator) (string, error) {
	if !op.Role.IsValid() {
		return "", fmt.Errorf("cannot issue token for role %q", op.Role)
	}

	now := time.Now()
	claims := Claims{
		OperatorID: op.ID,
		Email:      op.Email,
		Role:       op.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   op.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify verifies a JWT token and returns the claims
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithIssuer(issuer),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Role.IsValid() {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
