package services

import (
	"errors"
	"time"

	"github.com/loobinsk/virusq/internal/models"

	"github.com/golang-jwt/jwt/v5"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

type AccessClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Authentication validates Telegram WebApp init-data and issues the access
// tokens the rest of the API trusts.
type Authentication struct {
	botToken     string
	jwtSecret    string
	botJWTSecret string
}

func NewAuthentication(botToken, jwtSecret, botJWTSecret string) (*Authentication, error) {
	return &Authentication{botToken, jwtSecret, botJWTSecret}, nil
}

func (a *Authentication) ValidateInitData(dataStr string) (*models.UserFromAuth, error) {
	if err := initdata.Validate(dataStr, a.botToken, 0); err != nil {
		return nil, err
	}

	data, err := initdata.Parse(dataStr)
	if err != nil {
		return nil, err
	}

	return &models.UserFromAuth{
		ID:           data.User.ID,
		FirstName:    data.User.FirstName,
		LastName:     data.User.LastName,
		Username:     data.User.Username,
		IsBot:        data.User.IsBot,
		IsPremium:    data.User.IsPremium,
		LanguageCode: data.User.LanguageCode,
		StartParam:   data.StartParam,
	}, nil
}

func (a *Authentication) CreateToken(userID int64) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(JWT_ACCESS_TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.jwtSecret))
}

func (a *Authentication) ValidateToken(token string) (int64, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(a.jwtSecret), nil
	}

	jwtToken, err := jwt.ParseWithClaims(token, &AccessClaims{}, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}

	claims, ok := jwtToken.Claims.(*AccessClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	return claims.UserID, nil
}

// ValidateBotJWT checks the long-lived token the bot collaborator signs its
// service calls with. No claims are read, signature validity is the whole
// contract.
func (a *Authentication) ValidateBotJWT(token string) error {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(a.botJWTSecret), nil
	}

	_, err := jwt.Parse(token, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err
}
