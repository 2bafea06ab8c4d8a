package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// JwtIssuer is the iss claim of every token this server signs
const JwtIssuer = "JobBoard"

// Token audiences, a refresh token is never accepted as access token and vice versa
const (
	AudienceAccess  = "access"
	AudienceRefresh = "refresh"
)

// Token lifetimes
var (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// ErrWrongTokenType is returned when a token of the other audience is presented
var ErrWrongTokenType = errors.New("wrong token type")

var (
	secretMu  sync.RWMutex
	secretKey = initialSecret()
)

func initialSecret() []byte {
	if key := os.Getenv("SECRET_KEY"); key != "" {
		return []byte(key)
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal(err)
	}
	log.Println("SECRET_KEY is not set, tokens are signed with a random key")
	return []byte(hex.EncodeToString(b))
}

// SetSecretKey replaces the HMAC key, empty key is ignored
func SetSecretKey(key string) {
	if key == "" {
		return
	}
	secretMu.Lock()
	defer secretMu.Unlock()
	secretKey = []byte(key)
}

func currentSecret() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	return secretKey
}

func signToken(userID uuid.UUID, audience string, ttl time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    JwtIssuer,
		Subject:   userID.String(),
		Audience:  jwt.ClaimStrings{audience},
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(currentSecret())
	if err != nil {
		return "", fmt.Errorf("Failed to sign token: %s", err)
	}
	return signed, nil
}

// GenerateTokens signs a new access and refresh token for userID
func GenerateTokens(userID uuid.UUID) (model.TokenPair, error) {
	now := time.Now()
	access, err := signToken(userID, AudienceAccess, AccessTokenTTL, now)
	if err != nil {
		return model.TokenPair{}, err
	}
	refresh, err := signToken(userID, AudienceRefresh, RefreshTokenTTL, now)
	if err != nil {
		return model.TokenPair{}, err
	}
	return model.TokenPair{Access: access, Refresh: refresh}, nil
}

// ValidatedToken parse encodeToken with RegisteredClaims and check its signature and expiry
func ValidatedToken(encodeToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodeToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("Invalid token")
		}
		return currentSecret(), nil
	})
}

// ParseClaims validates encodeToken and checks issuer and audience
func ParseClaims(encodeToken, audience string) (*jwt.RegisteredClaims, error) {
	token, err := ValidatedToken(encodeToken)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("Invalid token")
	}
	if claims.Issuer != JwtIssuer {
		return nil, jwt.ErrTokenInvalidIssuer
	}
	if !slices.Contains(claims.Audience, audience) {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
