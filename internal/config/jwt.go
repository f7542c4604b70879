package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingSecret = errors.New("no JWT_SECRET or JWT_SECRET_FILE env variable set")

// GameClaims tie a token to the one game it was issued for.
type GameClaims struct {
	GameId string `json:"game_id"`
	jwt.RegisteredClaims
}

func NewGameClaims(gameId string) *GameClaims {
	return &GameClaims{GameId: gameId}
}

type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func loadSecret() ([]byte, error) {
	if secret := env.GetString("JWT_SECRET"); secret != "" {
		return []byte(secret), nil
	}
	secretPath := env.GetString("JWT_SECRET_FILE")
	if secretPath == "" {
		return nil, ErrMissingSecret
	}
	secret, err := os.ReadFile(secretPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT secret: %w", err)
	}
	return []byte(strings.TrimSpace(string(secret))), nil
}

// NewJWT loads the signing secret. In development a missing secret is
// replaced with a random one, so tokens do not survive a restart.
func NewJWT() (*JWT, error) {
	secret, err := loadSecret()
	if errors.Is(err, ErrMissingSecret) && Development() {
		secret = make([]byte, 32)
		_, err = rand.Read(secret)
	}
	if err != nil {
		return nil, err
	}
	return NewJWTWithSecret(secret, env.GetDuration("JWT_TOKEN_LIFETIME")), nil
}

func NewJWTWithSecret(secret []byte, lifetime time.Duration) *JWT {
	return &JWT{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: lifetime,
	}
}

func (j *JWT) TokenLifetime() time.Duration {
	return j.tokenLifetime
}

func (j *JWT) Sign(claims *GameClaims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.tokenLifetime))
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

func (j *JWT) Parse(tokenString string) (*GameClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&GameClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*GameClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
