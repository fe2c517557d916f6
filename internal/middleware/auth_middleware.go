package middleware

import (
	"errors"
	"fmt"
	"strings"

	"examhub/internal/domain"
	"examhub/internal/dto"
	"examhub/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
	RoleKey             = "role"
	TokenTypeAccess     = "access"
)

// TokenVerifier validates tokens issued by the auth service.
type TokenVerifier interface {
	Verify(tokenString string) (*dto.AuthClaims, error)
}

type hmacTokenVerifier struct {
	secret []byte
}

// NewHMACTokenVerifier verifies HS256 tokens signed with secret.
func NewHMACTokenVerifier(secret string) TokenVerifier {
	return &hmacTokenVerifier{secret: []byte(secret)}
}

func (v *hmacTokenVerifier) Verify(tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user_id")
	}
	return claims, nil
}

// Protected is a middleware function that protects routes by requiring a valid
// access token. It sets the user id and role in the context locals.
func Protected(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "EMPTY_TOKEN",
				Message: "Token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			logger.Get().Debug("JWT validation failed", zap.Error(err), zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "Token is invalid or expired",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if claims.TokenType != TokenTypeAccess {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN_TYPE",
				Message: fmt.Sprintf("Invalid token type: expected access, got %s", claims.TokenType),
				Status:  fiber.StatusForbidden,
			})
		}

		role := claims.Role
		if role == "" {
			role = string(domain.RoleStudent)
		}
		c.Locals(UserIDKey, claims.UserID)
		c.Locals(RoleKey, role)

		return c.Next()
	}
}

// RequireRole rejects callers whose role is not listed. It must run after Protected.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := PrincipalFrom(c)
		for _, r := range roles {
			if p.Role == r {
				return c.Next()
			}
		}
		return domain.NewForbiddenError("This action requires a different role").
			WithContext("role", string(p.Role))
	}
}

// PrincipalFrom reads the caller set by Protected.
func PrincipalFrom(c *fiber.Ctx) domain.Principal {
	userID, _ := c.Locals(UserIDKey).(string)
	role, _ := c.Locals(RoleKey).(string)
	return domain.Principal{UserID: userID, Role: domain.Role(role)}
}
