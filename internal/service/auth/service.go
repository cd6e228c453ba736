package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carenote/carenote-api/internal/model"
	"github.com/carenote/carenote-api/internal/repository"
	"github.com/carenote/carenote-api/pkg/auth"
	apperrors "github.com/carenote/carenote-api/pkg/errors"
	"github.com/carenote/carenote-api/pkg/security"
)

const bcryptCost = 12

// Service handles signup and signin. Signup creates the user row plus the
// role-specific profile row in one call.
type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   security.NewBcryptHasher(bcryptCost),
	}
}

func (s *Service) Signup(ctx context.Context, req *model.SignupRequest) (*model.TokenResponse, error) {
	if existing, _ := s.userRepo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, apperrors.Conflict("email already registered", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Base: model.Base{
			ID: uuid.New(),
		},
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         req.Role,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	switch user.Role {
	case model.RoleDoctor:
		doctor := &model.Doctor{
			Base:   model.Base{ID: uuid.New()},
			UserID: user.ID,
		}
		if err := s.userRepo.CreateDoctor(ctx, doctor); err != nil {
			return nil, fmt.Errorf("failed to create doctor profile: %w", err)
		}
	case model.RolePatient:
		patient := &model.Patient{
			Base:   model.Base{ID: uuid.New()},
			UserID: user.ID,
		}
		if err := s.userRepo.CreatePatient(ctx, patient); err != nil {
			return nil, fmt.Errorf("failed to create patient profile: %w", err)
		}
	}

	return s.tokenResponse(user)
}

func (s *Service) Signin(ctx context.Context, req *model.SigninRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	return s.tokenResponse(user)
}

func (s *Service) ValidateToken(_ context.Context, token string) (*auth.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}

func (s *Service) tokenResponse(user *model.User) (*model.TokenResponse, error) {
	token, err := s.jwtSvc.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.TokenResponse{
		Token:    token,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}, nil
}
