// Package auth exchanges publisher API keys for access tokens and validates
// the bearer tokens of incoming requests.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// publisherRepo defines the publisher lookups needed by the auth service.
type publisherRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Publisher, error)
	GetByName(ctx context.Context, name string) (domain.Publisher, error)
}

// jwtManager defines the JWT token management interface needed by auth service.
type jwtManager interface {
	GenerateAccessToken(publisherID uuid.UUID, role domain.Role) (string, time.Time, error)
	ValidateAccessToken(token string) (uuid.UUID, domain.Role, error)
}

// Service implements auth operations.
type Service struct {
	log        *slog.Logger
	publishers publisherRepo
	jwt        jwtManager
	adminToken string
}

// NewService creates a new auth service instance. An empty adminToken
// disables admin access.
func NewService(logger *slog.Logger, publishers publisherRepo, jwt jwtManager, adminToken string) *Service {
	return &Service{
		log:        logger.With("service", "auth"),
		publishers: publishers,
		jwt:        jwt,
		adminToken: adminToken,
	}
}

// TokenInput holds the credentials exchanged for an access token.
// Publisher is the publisher name or ID.
type TokenInput struct {
	Publisher string
	APIKey    string
}

// Validate checks that both credentials are present.
func (i TokenInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.Publisher) == "" {
		errs = append(errs, domain.FieldError{Field: "publisher", Message: "required"})
	}
	if i.APIKey == "" {
		errs = append(errs, domain.FieldError{Field: "api_key", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// TokenResult is a freshly issued access token.
type TokenResult struct {
	AccessToken string
	ExpiresAt   time.Time
	PublisherID uuid.UUID
	Role        domain.Role
}

// IssueToken authenticates a publisher by API key and returns an access
// token. Unknown publishers and wrong keys both yield ErrUnauthorized.
func (s *Service) IssueToken(ctx context.Context, input TokenInput) (TokenResult, error) {
	input.Publisher = strings.TrimSpace(input.Publisher)
	if err := input.Validate(); err != nil {
		return TokenResult{}, err
	}

	p, err := s.lookup(ctx, input.Publisher)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return TokenResult{}, domain.ErrUnauthorized
		}
		return TokenResult{}, fmt.Errorf("auth.IssueToken get publisher: %w", err)
	}

	if p.APIKeyHash == "" {
		return TokenResult{}, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.APIKeyHash), []byte(input.APIKey)); err != nil {
		return TokenResult{}, domain.ErrUnauthorized
	}

	token, expires, err := s.jwt.GenerateAccessToken(p.ID, domain.RolePublisher)
	if err != nil {
		return TokenResult{}, fmt.Errorf("auth.IssueToken generate token: %w", err)
	}

	s.log.InfoContext(ctx, "publisher token issued",
		slog.String("publisher_id", p.ID.String()))

	return TokenResult{
		AccessToken: token,
		ExpiresAt:   expires,
		PublisherID: p.ID,
		Role:        domain.RolePublisher,
	}, nil
}

func (s *Service) lookup(ctx context.Context, publisher string) (domain.Publisher, error) {
	if id, err := uuid.Parse(publisher); err == nil {
		return s.publishers.GetByID(ctx, id)
	}
	return s.publishers.GetByName(ctx, publisher)
}

// ValidateToken resolves a bearer token to the caller. The static admin
// token yields the admin role without a publisher.
func (s *Service) ValidateToken(_ context.Context, token string) (uuid.UUID, domain.Role, error) {
	if s.adminToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) == 1 {
		return uuid.Nil, domain.RoleAdmin, nil
	}
	id, role, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return id, role, nil
}
