package auth

import (
	"context"
	"errors"
	"fmt"

	"devconnector-api/internal/domain"
	"devconnector-api/pkg/apperror"
	"devconnector-api/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

const (
	MsgNoToken      = "No token, authorization denied"
	MsgInvalidToken = "Token is not valid"
)

// Claims accepts both the legacy {"user":{"id":...}} payload and a plain sub.
type Claims struct {
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	if c.User.ID != "" {
		return c.User.ID
	}
	return c.Subject
}

// TokenResolver verifies HS256 tokens with a shared secret and RS256 tokens
// against a JWKS provider. Either may be absent.
type TokenResolver struct {
	secret []byte
	jwks   *Provider
	parser *jwt.Parser
}

var _ domain.IdentityResolver = (*TokenResolver)(nil)

func NewTokenResolver(secret string, jwks *Provider) *TokenResolver {
	return &TokenResolver{
		secret: []byte(secret),
		jwks:   jwks,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512", "RS256"})),
	}
}

func (r *TokenResolver) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, apperror.Unauthorized(MsgNoToken)
	}

	var claims Claims
	parsed, err := r.parser.ParseWithClaims(token, &claims, r.keyFunc(ctx))
	if err != nil || !parsed.Valid {
		logger.Log.Debug("Token validation failed", "error", err)
		return domain.Identity{}, apperror.Unauthorized(MsgInvalidToken)
	}

	userID := claims.UserID()
	if userID == "" {
		return domain.Identity{}, apperror.Unauthorized(MsgInvalidToken)
	}
	return domain.Identity{UserID: userID}, nil
}

func (r *TokenResolver) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			if len(r.secret) == 0 {
				return nil, errors.New("HMAC token received but JWT_SECRET is not configured")
			}
			return r.secret, nil
		case *jwt.SigningMethodRSA:
			if r.jwks == nil {
				return nil, errors.New("RSA token received but JWKS_URL is not configured")
			}
			return r.jwks.KeyFunc(ctx)(token)
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
	}
}
