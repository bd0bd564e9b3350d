package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/config"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const roleAdmin = "admin"

// AuthService checks the single shared admin account configured through
// ADMIN_USERNAME / ADMIN_PASSWORD_HASH and issues access tokens.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Session(ctx context.Context, token string) dto.SessionResponse
}

type authService struct {
	cfg *config.Config
	now func() time.Time
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg, now: time.Now}
}

func (s *authService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.cfg.AdminPasswordHash == "" {
		log.Warn().Msg("auth: ADMIN_PASSWORD_HASH not set, login disabled")
		return nil, ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.AdminUsername)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(req.Username, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		Username:    req.Username,
	}, nil
}

// Session reports whether token is a live admin token. It never fails:
// anything unparseable is simply not authenticated.
func (s *authService) Session(_ context.Context, token string) dto.SessionResponse {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return dto.SessionResponse{}
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != roleAdmin {
		return dto.SessionResponse{}
	}
	username, _ := claims["username"].(string)
	return dto.SessionResponse{Authenticated: true, Username: username}
}

func (s *authService) generateToken(username string, duration time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"jti":      uuid.NewString(), // keys per-login state such as stock batches
		"sub":      username,
		"username": username,
		"role":     roleAdmin,
		"exp":      now.Add(duration).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
