package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/iati-publisher/internal/domain"
)

var _ publisherRepo = &publisherRepoMock{}

type publisherRepoMock struct {
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (domain.Publisher, error)
	GetByNameFunc func(ctx context.Context, name string) (domain.Publisher, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		GetByName []struct {
			Ctx  context.Context
			Name string
		}
	}
	lockGetByID   sync.RWMutex
	lockGetByName sync.RWMutex
}

func (mock *publisherRepoMock) GetByID(ctx context.Context, id uuid.UUID) (domain.Publisher, error) {
	if mock.GetByIDFunc == nil {
		panic("publisherRepoMock.GetByIDFunc: method is nil but publisherRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *publisherRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *publisherRepoMock) GetByName(ctx context.Context, name string) (domain.Publisher, error) {
	if mock.GetByNameFunc == nil {
		panic("publisherRepoMock.GetByNameFunc: method is nil but publisherRepo.GetByName was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Name string
	}{Ctx: ctx, Name: name}
	mock.lockGetByName.Lock()
	mock.calls.GetByName = append(mock.calls.GetByName, callInfo)
	mock.lockGetByName.Unlock()
	return mock.GetByNameFunc(ctx, name)
}

func (mock *publisherRepoMock) GetByNameCalls() []struct {
	Ctx  context.Context
	Name string
} {
	mock.lockGetByName.RLock()
	calls := mock.calls.GetByName
	mock.lockGetByName.RUnlock()
	return calls
}

var _ jwtManager = &jwtManagerMock{}

type jwtManagerMock struct {
	GenerateAccessTokenFunc func(publisherID uuid.UUID, role domain.Role) (string, time.Time, error)
	ValidateAccessTokenFunc func(token string) (uuid.UUID, domain.Role, error)

	calls struct {
		GenerateAccessToken []struct {
			PublisherID uuid.UUID
			Role        domain.Role
		}
		ValidateAccessToken []struct {
			Token string
		}
	}
	lockGenerateAccessToken sync.RWMutex
	lockValidateAccessToken sync.RWMutex
}

func (mock *jwtManagerMock) GenerateAccessToken(publisherID uuid.UUID, role domain.Role) (string, time.Time, error) {
	if mock.GenerateAccessTokenFunc == nil {
		panic("jwtManagerMock.GenerateAccessTokenFunc: method is nil but jwtManager.GenerateAccessToken was just called")
	}
	callInfo := struct {
		PublisherID uuid.UUID
		Role        domain.Role
	}{PublisherID: publisherID, Role: role}
	mock.lockGenerateAccessToken.Lock()
	mock.calls.GenerateAccessToken = append(mock.calls.GenerateAccessToken, callInfo)
	mock.lockGenerateAccessToken.Unlock()
	return mock.GenerateAccessTokenFunc(publisherID, role)
}

func (mock *jwtManagerMock) GenerateAccessTokenCalls() []struct {
	PublisherID uuid.UUID
	Role        domain.Role
} {
	mock.lockGenerateAccessToken.RLock()
	calls := mock.calls.GenerateAccessToken
	mock.lockGenerateAccessToken.RUnlock()
	return calls
}

func (mock *jwtManagerMock) ValidateAccessToken(token string) (uuid.UUID, domain.Role, error) {
	if mock.ValidateAccessTokenFunc == nil {
		panic("jwtManagerMock.ValidateAccessTokenFunc: method is nil but jwtManager.ValidateAccessToken was just called")
	}
	callInfo := struct {
		Token string
	}{Token: token}
	mock.lockValidateAccessToken.Lock()
	mock.calls.ValidateAccessToken = append(mock.calls.ValidateAccessToken, callInfo)
	mock.lockValidateAccessToken.Unlock()
	return mock.ValidateAccessTokenFunc(token)
}

func (mock *jwtManagerMock) ValidateAccessTokenCalls() []struct {
	Token string
} {
	mock.lockValidateAccessToken.RLock()
	calls := mock.calls.ValidateAccessToken
	mock.lockValidateAccessToken.RUnlock()
	return calls
}
