package users

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
}

// NewTokenService creates a new TokenService instance. The access TTL is
// expected to be much shorter than the refresh TTL; neither is enforced
// here beyond being positive.
func NewTokenService(signingKey []byte, accessTTL, refreshTTL time.Duration, issuer string, audience jwt.ClaimStrings, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     issuer,
		audience:   audience,
		logger:     logger,
	}
}

// NewTokenServiceFromConfig builds a TokenService from a Config
func NewTokenServiceFromConfig(cfg Config, logger Logger) TokenService {
	return NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetAccessTokenTTL(),
		cfg.GetRefreshTokenTTL(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		logger,
	)
}

// IssuePair mints an access and a refresh token for the identity. Both
// carry the same subject and issuance time; only the expiry and the use
// claim differ.
func (ts *TokenServiceImpl) IssuePair(identity Identity) (TokenPair, error) {
	if identity == nil {
		return TokenPair{}, errors.New("identity must not be nil", errors.CategoryInternal)
	}

	now := time.Now()

	access, err := ts.SignClaims(ts.newClaims(identity, now, ts.accessTTL, TokenUseAccess))
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := ts.SignClaims(ts.newClaims(identity, now, ts.refreshTTL, TokenUseRefresh))
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses an access token and returns its structured claims.
// Refresh tokens are rejected here, they only ever reach Refresh.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	claims, err := ts.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Use() != TokenUseAccess {
		ts.logger.Error("TokenService validate rejected non-access token", "use", claims.Use())
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// Refresh verifies a refresh token and mints a new access token for the
// same subject. The refresh token itself is not rotated.
func (ts *TokenServiceImpl) Refresh(refreshToken string) (string, error) {
	claims, err := ts.parse(refreshToken)
	if err != nil {
		return "", err
	}

	if claims.Use() != TokenUseRefresh {
		ts.logger.Error("TokenService refresh rejected non-refresh token", "use", claims.Use())
		return "", ErrTokenMalformed
	}

	now := time.Now()
	access := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   claims.Subject(),
			Audience:  ts.claimAudience(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTTL)),
			ID:        uuid.NewString(),
		},
		UID:      claims.UserID(),
		UserRole: claims.Role(),
		TokenUse: TokenUseAccess,
	}

	return ts.SignClaims(access)
}

func (ts *TokenServiceImpl) parse(tokenString string) (*JWTClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService parse encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService parse could not decode or validate claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

func (ts *TokenServiceImpl) newClaims(identity Identity, now time.Time, ttl time.Duration, use TokenUse) *JWTClaims {
	return &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			Audience:  ts.claimAudience(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		UID:      identity.ID(),
		UserRole: identity.Role(),
		TokenUse: use,
	}
}

func (ts *TokenServiceImpl) claimAudience() jwt.ClaimStrings {
	if len(ts.audience) == 0 {
		return nil
	}
	aud := make(jwt.ClaimStrings, len(ts.audience))
	copy(aud, ts.audience)
	return aud
}
