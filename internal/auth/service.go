package auth

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/survey-admin/internal"
	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
	// dummyHash is compared against when the username is unknown so both
	// failure paths pay for one bcrypt comparison.
	dummyHash []byte
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	if err != nil {
		logger.Error("failed to prepare dummy password hash", "error", err)
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
		dummyHash:  dummy,
	}
}

// Authenticate checks username and password and returns the user's profile.
// Unknown users and wrong passwords produce the same error.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*coreuser.Profile, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	creds, err := s.repo.GetCredentialsByUsername(ctx, dto.Username)
	if err != nil {
		return nil, errors.NewInternalError("Internal server error", err)
	}

	if creds == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(dto.Password))
		s.logger.InfoContext(ctx, "login rejected", "reason", "unknown_user")
		return nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.InfoContext(ctx, "login rejected", "reason", "bad_password", "user_id", creds.Profile.ID)
		return nil, errors.ErrInvalidCredentials
	}

	profile := creds.Profile
	return &profile, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
