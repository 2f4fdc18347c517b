package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/otabekshirinov/testhub/config"
	"github.com/otabekshirinov/testhub/internal/dto"
	"github.com/otabekshirinov/testhub/internal/model"
	"github.com/otabekshirinov/testhub/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const sessionTokenTTL = 72 * time.Hour

type AuthService interface {
	Register(req dto.RegisterDTO) (*dto.UserResponseDTO, error)
	// Login verifies credentials and mints the session token carried both in
	// the cookie and the response body.
	Login(req dto.LoginDTO) (*dto.AuthResponseDTO, error)
	ListUsers() ([]dto.UserResponseDTO, error)
	// EnsureDefaultAdmin bootstraps the configured admin account on startup.
	// Idempotent: an existing admin short-circuits, an existing user with the
	// configured login is promoted.
	EnsureDefaultAdmin() error
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, cfg: cfg}
}

func (s *authService) Register(req dto.RegisterDTO) (*dto.UserResponseDTO, error) {
	existing, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username %q is already taken: %w", req.Username, ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := model.User{
		FullName:     req.FullName,
		Username:     req.Username,
		PasswordHash: string(hash),
		TabNumber:    req.TabNumber,
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Register: failed to create user")
		return nil, fmt.Errorf("creating user: %w", err)
	}
	log.Info().Uint("userID", user.ID).Str("username", user.Username).Msg("Register: user registered")
	return userToResponse(&user), nil
}

func (s *authService) Login(req dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		// One message for both cases so login probing learns nothing.
		return nil, fmt.Errorf("invalid username or password: %w", ErrValidation)
	}

	token, err := s.mintToken(user)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Login: failed to sign session token")
		return nil, fmt.Errorf("signing session token: %w", err)
	}

	log.Info().Uint("userID", user.ID).Bool("isAdmin", user.IsAdmin).Msg("Login: session opened")
	return &dto.AuthResponseDTO{
		Token:    token,
		UserID:   user.ID,
		FullName: user.FullName,
		IsAdmin:  user.IsAdmin,
	}, nil
}

func (s *authService) ListUsers() ([]dto.UserResponseDTO, error) {
	users, err := s.userRepo.FindAllNonAdmins()
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	out := make([]dto.UserResponseDTO, 0, len(users))
	for i := range users {
		out = append(out, *userToResponse(&users[i]))
	}
	return out, nil
}

func (s *authService) EnsureDefaultAdmin() error {
	hasAdmin, err := s.userRepo.HasAdmin()
	if err != nil {
		return fmt.Errorf("checking for admin: %w", err)
	}
	if hasAdmin {
		log.Info().Msg("EnsureDefaultAdmin: admin already exists, skipping")
		return nil
	}

	username := s.cfg.Admin.Username
	existing, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return fmt.Errorf("looking up admin login: %w", err)
	}
	if existing != nil {
		existing.IsAdmin = true
		if err := s.userRepo.Update(existing); err != nil {
			return fmt.Errorf("promoting user %q to admin: %w", username, err)
		}
		log.Info().Str("username", username).Msg("EnsureDefaultAdmin: existing user promoted to admin")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	admin := model.User{
		FullName:     s.cfg.Admin.FullName,
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := s.userRepo.Create(&admin); err != nil {
		return fmt.Errorf("creating default admin: %w", err)
	}
	log.Info().Str("username", username).Msg("EnsureDefaultAdmin: default admin created")
	return nil
}

func (s *authService) mintToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(sessionTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userToResponse(user *model.User) *dto.UserResponseDTO {
	return &dto.UserResponseDTO{
		ID:        user.ID,
		FullName:  user.FullName,
		Username:  user.Username,
		TabNumber: user.TabNumber,
		IsAdmin:   user.IsAdmin,
	}
}
