package usecases_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"crew-directory.backend/internal/domain/entities"
	"crew-directory.backend/internal/infrastructure/cache"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/volatiletech/null/v8"
)

func newTestCache(t *testing.T) (*cache.QueryCache, *miniredis.Miniredis) {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable in this environment: %v", err)
	}
	t.Cleanup(srv.Close)

	cli := goredis.NewClient(&goredis.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = cli.Close() })
	return cache.NewQueryCache(cli, nil), srv
}

// fakeSource serves fixed snapshots and counts how often each is read
type fakeSource struct {
	mu          sync.Mutex
	records     []entities.FreelancerRecord
	memberships []entities.SkillMembership
	links       []entities.LinkRecord
	rows        []entities.LinkRecord
	err         error
	calls       map[string]int
}

func (f *fakeSource) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
	return f.err
}

func (f *fakeSource) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeSource) ListFreelancerRecords(context.Context) ([]entities.FreelancerRecord, error) {
	if err := f.hit("records"); err != nil {
		return nil, err
	}
	return f.records, nil
}

func (f *fakeSource) ListSkillMemberships(context.Context) ([]entities.SkillMembership, error) {
	if err := f.hit("skills"); err != nil {
		return nil, err
	}
	return f.memberships, nil
}

func (f *fakeSource) ListLinkRecords(context.Context) ([]entities.LinkRecord, error) {
	if err := f.hit("links"); err != nil {
		return nil, err
	}
	return f.links, nil
}

func (f *fakeSource) ListAllLinkRows(context.Context) ([]entities.LinkRecord, error) {
	if err := f.hit("rows"); err != nil {
		return nil, err
	}
	return f.rows, nil
}

// prefixURLs builds deterministic asset URLs
type prefixURLs struct{}

func (prefixURLs) BuildURL(assetID null.String) null.String {
	if !assetID.Valid {
		return null.String{}
	}
	return null.StringFrom("https://cdn.test/" + assetID.String)
}

// Mock FreelancerWriter
type MockFreelancerWriter struct {
	mock.Mock
}

func (m *MockFreelancerWriter) GetByID(ctx context.Context, id int64) (*entities.FreelancerRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FreelancerRecord), args.Error(1)
}

func (m *MockFreelancerWriter) UpdateProfile(ctx context.Context, id int64, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockFreelancerWriter) UpdateAsset(ctx context.Context, id int64, kind entities.AssetKind, assetID *string) error {
	args := m.Called(ctx, id, kind, assetID)
	return args.Error(0)
}

func (m *MockFreelancerWriter) ListLinkRows(ctx context.Context, freelancerID int64) ([]entities.LinkRecord, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.LinkRecord), args.Error(1)
}

func (m *MockFreelancerWriter) UpdateLinkURL(ctx context.Context, rowID int64, url string) error {
	args := m.Called(ctx, rowID, url)
	return args.Error(0)
}

func (m *MockFreelancerWriter) ListAllLinkRows(ctx context.Context) ([]entities.LinkRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.LinkRecord), args.Error(1)
}

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock NewsRepository
type MockNewsRepository struct {
	mock.Mock
}

func (m *MockNewsRepository) Create(ctx context.Context, news *entities.News) error {
	args := m.Called(ctx, news)
	return args.Error(0)
}

func (m *MockNewsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.News, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.News), args.Error(1)
}

func (m *MockNewsRepository) GetPublishedBySlug(ctx context.Context, slug string) (*entities.News, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.News), args.Error(1)
}

func (m *MockNewsRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNewsRepository) ListPublished(ctx context.Context, limit, offset int) ([]*entities.News, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.News), args.Get(1).(int64), args.Error(2)
}

func (m *MockNewsRepository) ListAdmin(ctx context.Context, search string) ([]*entities.News, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.News), args.Error(1)
}

func (m *MockNewsRepository) Update(ctx context.Context, news *entities.News) error {
	args := m.Called(ctx, news)
	return args.Error(0)
}

func (m *MockNewsRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, s *entities.Submission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubmissionRepository) List(ctx context.Context, filter entities.SubmissionFilter, limit, offset int) ([]*entities.Submission, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Submission), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubmissionRepository) MarkHandled(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock BlobStorage
type MockBlobStorage struct {
	mock.Mock
}

func (m *MockBlobStorage) Upload(ctx context.Context, kind entities.AssetKind, filename, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, kind, filename, contentType, r)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStorage) Delete(ctx context.Context, assetID string) error {
	args := m.Called(ctx, assetID)
	return args.Error(0)
}

// memoryRevoker is an in-process TokenRevoker
type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (r *memoryRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.revoked == nil {
		r.revoked = make(map[string]time.Time)
	}
	r.revoked[tokenID] = expiresAt
	return nil
}

func (r *memoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[tokenID]
	return ok, nil
}
