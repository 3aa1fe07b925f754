package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"mediastore/domain/dto"
	"mediastore/domain/model"
	"mediastore/infrastructure/tenant"
	"mediastore/interfaces/middleware"
	"mediastore/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockSessionUsecase struct{ mock.Mock }

func (m *MockSessionUsecase) CreateSession(ctx context.Context, code string) (*usecase.Session, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Session), args.Error(1)
}

func (m *MockSessionUsecase) Refresh(refreshToken string) (string, bool) {
	args := m.Called(refreshToken)
	return args.String(0), args.Bool(1)
}

type MockAuthUsecase struct{ mock.Mock }

func (m *MockAuthUsecase) BeginHandshake(ctx context.Context, identity model.ExternalIdentity) (string, error) {
	args := m.Called(ctx, identity)
	return args.String(0), args.Error(1)
}

func (m *MockAuthUsecase) Redeem(ctx context.Context, code string) (*model.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockIdentityProvider struct{ mock.Mock }

func (m *MockIdentityProvider) Name() string { return "x" }

func (m *MockIdentityProvider) AuthCodeURL(state string) string {
	return "https://provider.test/authorize?state=" + state
}

func (m *MockIdentityProvider) Identify(ctx context.Context, code, state string) (model.ExternalIdentity, error) {
	args := m.Called(ctx, code, state)
	return args.Get(0).(model.ExternalIdentity), args.Error(1)
}

type MockEntryUsecase struct{ mock.Mock }

func (m *MockEntryUsecase) CreateEntry(ctx context.Context, tenantID string, owner model.Principal, req dto.CreateEntryRequest) (*model.Entry, error) {
	args := m.Called(ctx, tenantID, owner, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entry), args.Error(1)
}

func (m *MockEntryUsecase) InitiateUpload(ctx context.Context, tenantID, requesterID string, req dto.InitUploadRequest) (*dto.InitUploadResponse, error) {
	args := m.Called(ctx, tenantID, requesterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InitUploadResponse), args.Error(1)
}

func (m *MockEntryUsecase) FinalizeUpload(ctx context.Context, tenantID, requesterID string, req dto.FinalizeUploadRequest) (*dto.FinalizeUploadResponse, error) {
	args := m.Called(ctx, tenantID, requesterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FinalizeUploadResponse), args.Error(1)
}

func (m *MockEntryUsecase) UpdateStatus(ctx context.Context, tenantID, requesterID, entryID, status string) (bool, error) {
	args := m.Called(ctx, tenantID, requesterID, entryID, status)
	return args.Bool(0), args.Error(1)
}

type MockEntitlementUsecase struct{ mock.Mock }

func (m *MockEntitlementUsecase) CheckAccess(ctx context.Context, tenantID, requesterID, entryID string) (*dto.EntitlementResponse, error) {
	args := m.Called(ctx, tenantID, requesterID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EntitlementResponse), args.Error(1)
}

func (m *MockEntitlementUsecase) Grant(ctx context.Context, tenantID string, req dto.GrantEntitlementRequest) (*model.Entitlement, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entitlement), args.Error(1)
}

type MockCleanupUsecase struct{ mock.Mock }

func (m *MockCleanupUsecase) Sweep(ctx context.Context) (*dto.CleanupReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CleanupReport), args.Error(1)
}

func (m *MockCleanupUsecase) ScheduledSweep(ctx context.Context, lockTTL time.Duration) (*dto.CleanupReport, error) {
	args := m.Called(ctx, lockTTL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CleanupReport), args.Error(1)
}

type MockPublicEntryUsecase struct{ mock.Mock }

func (m *MockPublicEntryUsecase) List(ctx context.Context, tenantID string, page, size int) (*dto.PublicEntryPage, error) {
	args := m.Called(ctx, tenantID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PublicEntryPage), args.Error(1)
}

func (m *MockPublicEntryUsecase) Get(ctx context.Context, tenantID, entryID string) (*dto.PublicEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PublicEntry), args.Error(1)
}

func (m *MockPublicEntryUsecase) ListByAuthor(ctx context.Context, tenantID, username, entryType string, page, size int) (*dto.PublicEntryPage, error) {
	args := m.Called(ctx, tenantID, username, entryType, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PublicEntryPage), args.Error(1)
}

type MockWaitlistUsecase struct{ mock.Mock }

func (m *MockWaitlistUsecase) Register(ctx context.Context, tenantID, remoteIP string, req dto.WaitlistRequest) error {
	return m.Called(ctx, tenantID, remoteIP, req).Error(0)
}

func (m *MockWaitlistUsecase) Stats(ctx context.Context) (*dto.WaitlistStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WaitlistStats), args.Error(1)
}

const testTenant = "earnlumens"

// newTestRouter resolves every request to testTenant and, when p is set,
// attaches it as the authenticated principal.
func newTestRouter(p *model.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Tenant(tenant.NewResolver(testTenant, "earnlumens.org", nil)))
	if p != nil {
		principal := *p
		r.Use(middleware.Authenticate(func(*http.Request) (model.Principal, bool) { return principal, true }))
	}
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doRequest(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
