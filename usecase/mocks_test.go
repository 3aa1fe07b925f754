package usecase

import (
	"context"
	"sync"
	"time"

	"mediastore/domain/dto"
	"mediastore/domain/model"
	"mediastore/domain/repository"

	"github.com/stretchr/testify/mock"
)

// memUsers is an in-memory IUser keyed by storage id.
type memUsers struct {
	mu    sync.Mutex
	users map[string]model.User
	saves int
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]model.User{}}
}

func (m *memUsers) FindByOAuth(_ context.Context, provider, oauthUserID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.OAuthProvider == provider && u.OAuthUserID == oauthUserID {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) FindByHandshakeCode(_ context.Context, code string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.TempHandshakeCode != nil && *u.TempHandshakeCode == code {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) Save(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	m.saves++
	return nil
}

func (m *memUsers) get(id string) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

// memEntries is an in-memory IEntry.
type memEntries struct {
	mu      sync.Mutex
	entries map[string]model.Entry
	deletes int
}

func newMemEntries(entries ...model.Entry) *memEntries {
	m := &memEntries{entries: map[string]model.Entry{}}
	for _, e := range entries {
		m.entries[e.ID] = e
	}
	return m
}

func (m *memEntries) FindByTenantAndID(_ context.Context, tenantID, id string) (*model.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (m *memEntries) Save(_ context.Context, entry *model.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = *entry
	return nil
}

func (m *memEntries) DeleteDraftByID(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.Status != model.EntryStatusDraft {
		return false, nil
	}
	delete(m.entries, id)
	m.deletes++
	return true, nil
}

func (m *memEntries) FindDraftsCreatedBefore(_ context.Context, cutoff time.Time) ([]*model.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Entry
	for _, e := range m.entries {
		if e.Status == model.EntryStatusDraft && e.CreatedAt.Before(cutoff) {
			out = append(out, &e)
		}
	}
	return out, nil
}

func (m *memEntries) FindPublished(context.Context, string, int, int) ([]*model.Entry, int64, error) {
	return nil, 0, nil
}

func (m *memEntries) FindPublishedByID(context.Context, string, string) (*model.Entry, error) {
	return nil, repository.ErrNotFound
}

func (m *memEntries) FindPublishedByAuthor(context.Context, string, string, model.EntryType, int, int) ([]*model.Entry, int64, error) {
	return nil, 0, nil
}

func (m *memEntries) get(id string) (model.Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	return e, ok
}

type MockEntryRepo struct {
	mock.Mock
}

func (m *MockEntryRepo) FindByTenantAndID(ctx context.Context, tenantID, id string) (*model.Entry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entry), args.Error(1)
}

func (m *MockEntryRepo) Save(ctx context.Context, entry *model.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockEntryRepo) DeleteDraftByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepo) FindDraftsCreatedBefore(ctx context.Context, cutoff time.Time) ([]*model.Entry, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]*model.Entry), args.Error(1)
}

func (m *MockEntryRepo) FindPublished(ctx context.Context, tenantID string, page, size int) ([]*model.Entry, int64, error) {
	args := m.Called(ctx, tenantID, page, size)
	return args.Get(0).([]*model.Entry), args.Get(1).(int64), args.Error(2)
}

func (m *MockEntryRepo) FindPublishedByID(ctx context.Context, tenantID, id string) (*model.Entry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entry), args.Error(1)
}

func (m *MockEntryRepo) FindPublishedByAuthor(ctx context.Context, tenantID, username string, entryType model.EntryType, page, size int) ([]*model.Entry, int64, error) {
	args := m.Called(ctx, tenantID, username, entryType, page, size)
	return args.Get(0).([]*model.Entry), args.Get(1).(int64), args.Error(2)
}

type MockAssetRepo struct {
	mock.Mock
}

func (m *MockAssetRepo) Save(ctx context.Context, asset *model.Asset) error {
	return m.Called(ctx, asset).Error(0)
}

func (m *MockAssetRepo) FindReady(ctx context.Context, tenantID, entryID string, kind model.MediaKind) (*model.Asset, error) {
	args := m.Called(ctx, tenantID, entryID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetRepo) ExistsForEntry(ctx context.Context, tenantID, entryID string) (bool, error) {
	args := m.Called(ctx, tenantID, entryID)
	return args.Bool(0), args.Error(1)
}

type MockEntitlementRepo struct {
	mock.Mock
}

func (m *MockEntitlementRepo) FindActive(ctx context.Context, tenantID, userID, entryID string, now time.Time) (*model.Entitlement, error) {
	args := m.Called(ctx, tenantID, userID, entryID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Entitlement), args.Error(1)
}

func (m *MockEntitlementRepo) Grant(ctx context.Context, e *model.Entitlement) error {
	return m.Called(ctx, e).Error(0)
}

type MockPresigner struct {
	mock.Mock
}

func (m *MockPresigner) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, ttl)
	return args.String(0), args.Error(1)
}

type MockAssetEvents struct {
	mock.Mock
}

func (m *MockAssetEvents) PublishAssetUploaded(ctx context.Context, asset *model.Asset) error {
	return m.Called(ctx, asset).Error(0)
}

type MockLock struct {
	mock.Mock
}

func (m *MockLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLock) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockCaptcha struct {
	mock.Mock
}

func (m *MockCaptcha) Verify(ctx context.Context, response, remoteIP string) (bool, error) {
	args := m.Called(ctx, response, remoteIP)
	return args.Bool(0), args.Error(1)
}

type MockWaitlistRepo struct {
	mock.Mock
}

func (m *MockWaitlistRepo) FindFounderByEmail(ctx context.Context, email string) (*model.Founder, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Founder), args.Error(1)
}

func (m *MockWaitlistRepo) CreateFounder(ctx context.Context, founder *model.Founder) error {
	return m.Called(ctx, founder).Error(0)
}

func (m *MockWaitlistRepo) AddFeedback(ctx context.Context, feedback *model.Feedback) error {
	return m.Called(ctx, feedback).Error(0)
}

func (m *MockWaitlistRepo) CountFounders(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWaitlistRepo) DailySignups(ctx context.Context, since time.Time) ([]dto.DailyCount, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]dto.DailyCount), args.Error(1)
}

// fixedClock returns a settable clock for TTL and cutoff tests.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }
