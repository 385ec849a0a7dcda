// Package publisher manages publishers and their API keys.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/iati-publisher/internal/auth"
	"github.com/heartmarshall/iati-publisher/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type publisherRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Publisher, error)
	List(ctx context.Context) ([]domain.Publisher, error)
	Create(ctx context.Context, p domain.Publisher) (domain.Publisher, error)
	Update(ctx context.Context, p domain.Publisher) (domain.Publisher, error)
	SetAPIKeyHash(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type auditRepo interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type searchIndex interface {
	Index(ctx context.Context, doc domain.SearchDocument) error
	Delete(ctx context.Context, kind domain.SearchKind, id uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements publisher administration.
type Service struct {
	log        *slog.Logger
	publishers publisherRepo
	audit      auditRepo
	index      searchIndex
	tx         txManager
	bcryptCost int
	newKey     func() (string, error)
}

// NewService creates a new publisher service.
func NewService(
	logger *slog.Logger,
	publishers publisherRepo,
	audit auditRepo,
	index searchIndex,
	tx txManager,
	bcryptCost int,
) *Service {
	return &Service{
		log:        logger.With("service", "publisher"),
		publishers: publishers,
		audit:      audit,
		index:      index,
		tx:         tx,
		bcryptCost: bcryptCost,
		newKey:     auth.GenerateAPIKey,
	}
}

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

const maxNameLength = 100

// Input describes the editable fields of a publisher.
type Input struct {
	IATIID      string
	Name        string
	DisplayName string
}

// Validate checks the publisher fields.
func (i Input) Validate() error {
	var errs []domain.FieldError

	switch name := strings.TrimSpace(i.Name); {
	case name == "":
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	case len(name) > maxNameLength:
		errs = append(errs, domain.FieldError{Field: "name", Message: fmt.Sprintf("too long (max %d)", maxNameLength)})
	case !nameRe.MatchString(name):
		errs = append(errs, domain.FieldError{Field: "name", Message: "only lower-case letters, digits, '-' and '_' are allowed"})
	}
	if strings.TrimSpace(i.IATIID) == "" {
		errs = append(errs, domain.FieldError{Field: "iati_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i Input) apply(p *domain.Publisher) {
	p.IATIID = strings.TrimSpace(i.IATIID)
	p.Name = strings.TrimSpace(i.Name)
	p.DisplayName = strings.TrimSpace(i.DisplayName)
	if p.DisplayName == "" {
		p.DisplayName = p.Name
	}
}

// Created is a new publisher with its API key. The key is not stored in
// plain text and cannot be read again.
type Created struct {
	Publisher domain.Publisher
	APIKey    string
}

// Create registers a publisher and generates its API key.
func (s *Service) Create(ctx context.Context, input Input) (Created, error) {
	if err := input.Validate(); err != nil {
		return Created{}, err
	}

	key, hash, err := s.generateKey()
	if err != nil {
		return Created{}, err
	}

	p := domain.Publisher{ID: uuid.Must(uuid.NewV7()), APIKeyHash: hash}
	input.apply(&p)

	var created domain.Publisher
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.publishers.Create(txCtx, p)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return domain.NewValidationError("name", "publisher with this name already exists")
			}
			return fmt.Errorf("create publisher: %w", err)
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			PublisherID: created.ID,
			EntityType:  domain.EntityTypePublisher,
			EntityID:    created.ID,
			Action:      domain.AuditActionCreate,
			Changes:     map[string]any{"name": created.Name, "iati_id": created.IATIID},
		})
	})
	if err != nil {
		return Created{}, err
	}

	s.sync(ctx, created)
	s.log.InfoContext(ctx, "publisher created",
		slog.String("publisher_id", created.ID.String()),
		slog.String("name", created.Name),
	)

	return Created{Publisher: created, APIKey: key}, nil
}

// Get returns a publisher.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Publisher, error) {
	return s.publishers.GetByID(ctx, id)
}

// List returns all publishers.
func (s *Service) List(ctx context.Context) ([]domain.Publisher, error) {
	return s.publishers.List(ctx)
}

// Update changes the descriptive fields of a publisher.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input) (domain.Publisher, error) {
	if err := input.Validate(); err != nil {
		return domain.Publisher{}, err
	}

	var updated domain.Publisher
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		old, err := s.publishers.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		p := old
		input.apply(&p)

		updated, err = s.publishers.Update(txCtx, p)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return domain.NewValidationError("name", "publisher with this name already exists")
			}
			return fmt.Errorf("update publisher: %w", err)
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			PublisherID: id,
			EntityType:  domain.EntityTypePublisher,
			EntityID:    id,
			Action:      domain.AuditActionUpdate,
			Changes:     changes(old, updated),
		})
	})
	if err != nil {
		return domain.Publisher{}, err
	}

	s.sync(ctx, updated)
	s.log.DebugContext(ctx, "publisher updated", slog.String("publisher_id", id.String()))

	return updated, nil
}

// Delete removes a publisher together with its activities.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.publishers.Delete(txCtx, id); err != nil {
			return err
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			PublisherID: id,
			EntityType:  domain.EntityTypePublisher,
			EntityID:    id,
			Action:      domain.AuditActionDelete,
		})
	})
	if err != nil {
		return err
	}

	if err := s.index.Delete(ctx, domain.SearchKindPublisher, id); err != nil {
		s.log.WarnContext(ctx, "search index delete failed",
			slog.String("publisher_id", id.String()),
			slog.String("error", err.Error()),
		)
	}
	s.log.InfoContext(ctx, "publisher deleted", slog.String("publisher_id", id.String()))

	return nil
}

// RotateKey replaces the API key of a publisher and returns the new key.
// Tokens issued with the old key stay valid until they expire.
func (s *Service) RotateKey(ctx context.Context, id uuid.UUID) (string, error) {
	key, hash, err := s.generateKey()
	if err != nil {
		return "", err
	}
	if err := s.publishers.SetAPIKeyHash(ctx, id, hash); err != nil {
		return "", err
	}
	s.log.InfoContext(ctx, "publisher api key rotated", slog.String("publisher_id", id.String()))
	return key, nil
}

func (s *Service) generateKey() (key, hash string, err error) {
	key, err = s.newKey()
	if err != nil {
		return "", "", fmt.Errorf("generate api key: %w", err)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(key), s.bcryptCost)
	if err != nil {
		return "", "", fmt.Errorf("hash api key: %w", err)
	}
	return key, string(h), nil
}

// sync writes the publisher document to the search index. Failures are
// logged and otherwise ignored.
func (s *Service) sync(ctx context.Context, p domain.Publisher) {
	if err := s.index.Index(ctx, Document(p, time.Now())); err != nil {
		s.log.WarnContext(ctx, "search index update failed",
			slog.String("publisher_id", p.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// Document builds the search document of a publisher.
func Document(p domain.Publisher, now time.Time) domain.SearchDocument {
	return domain.SearchDocument{
		Kind:       domain.SearchKindPublisher,
		ID:         p.ID,
		Identifier: p.IATIID,
		Title:      p.DisplayName,
		Text:       []string{p.Name},
		IndexedAt:  now,
	}
}

func changes(old, updated domain.Publisher) map[string]any {
	out := make(map[string]any)
	if old.IATIID != updated.IATIID {
		out["iati_id"] = map[string]any{"old": old.IATIID, "new": updated.IATIID}
	}
	if old.Name != updated.Name {
		out["name"] = map[string]any{"old": old.Name, "new": updated.Name}
	}
	if old.DisplayName != updated.DisplayName {
		out["display_name"] = map[string]any{"old": old.DisplayName, "new": updated.DisplayName}
	}
	return out
}
