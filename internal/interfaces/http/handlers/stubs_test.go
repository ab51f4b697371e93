package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"crew-directory.backend/internal/domain/entities"
	"crew-directory.backend/internal/interfaces/http/middleware"
	"crew-directory.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type freelancerServiceStub struct {
	resolveBySlugFn  func(ctx context.Context, slug string) (*entities.FreelancerProjection, error)
	resolveBySkillFn func(ctx context.Context, dept, skill string) (*entities.SkillListing, error)
	listFn           func(ctx context.Context) ([]entities.FreelancerSummary, error)
	directoryFn      func(ctx context.Context) ([]entities.Department, error)
}

func (s freelancerServiceStub) ResolveBySlug(ctx context.Context, slug string) (*entities.FreelancerProjection, error) {
	return s.resolveBySlugFn(ctx, slug)
}
func (s freelancerServiceStub) ResolveBySkill(ctx context.Context, dept, skill string) (*entities.SkillListing, error) {
	return s.resolveBySkillFn(ctx, dept, skill)
}
func (s freelancerServiceStub) ListFreelancers(ctx context.Context) ([]entities.FreelancerSummary, error) {
	return s.listFn(ctx)
}
func (s freelancerServiceStub) ListDirectory(ctx context.Context) ([]entities.Department, error) {
	return s.directoryFn(ctx)
}

type profileServiceStub struct {
	getFn         func(ctx context.Context, userID uuid.UUID) (*entities.FreelancerProjection, error)
	updateFn      func(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.ProfileUpdateResponse, error)
	linksFn       func(ctx context.Context, userID uuid.UUID, input *entities.UpdateLinksInput) (*entities.ProfileUpdateResponse, error)
	uploadFn      func(ctx context.Context, userID uuid.UUID, kind entities.AssetKind, filename string, data []byte) (*entities.ProfileUpdateResponse, error)
	deleteAssetFn func(ctx context.Context, userID uuid.UUID, kind entities.AssetKind) (*entities.ProfileUpdateResponse, error)
}

func (s profileServiceStub) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.FreelancerProjection, error) {
	return s.getFn(ctx, userID)
}
func (s profileServiceStub) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.ProfileUpdateResponse, error) {
	return s.updateFn(ctx, userID, input)
}
func (s profileServiceStub) UpdateLinks(ctx context.Context, userID uuid.UUID, input *entities.UpdateLinksInput) (*entities.ProfileUpdateResponse, error) {
	return s.linksFn(ctx, userID, input)
}
func (s profileServiceStub) UploadAsset(ctx context.Context, userID uuid.UUID, kind entities.AssetKind, filename string, data []byte) (*entities.ProfileUpdateResponse, error) {
	return s.uploadFn(ctx, userID, kind, filename, data)
}
func (s profileServiceStub) DeleteAsset(ctx context.Context, userID uuid.UUID, kind entities.AssetKind) (*entities.ProfileUpdateResponse, error) {
	return s.deleteAssetFn(ctx, userID, kind)
}

type authServiceStub struct {
	loginFn   func(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	refreshFn func(ctx context.Context, token string) (*entities.AuthResponse, error)
	logoutFn  func(ctx context.Context, token string) error
	meFn      func(ctx context.Context, id uuid.UUID) (*entities.User, error)
	changeFn  func(ctx context.Context, id uuid.UUID, input *entities.ChangePasswordInput) error
}

func (s authServiceStub) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	return s.loginFn(ctx, input)
}
func (s authServiceStub) Refresh(ctx context.Context, token string) (*entities.AuthResponse, error) {
	return s.refreshFn(ctx, token)
}
func (s authServiceStub) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}
func (s authServiceStub) Me(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return s.meFn(ctx, id)
}
func (s authServiceStub) ChangePassword(ctx context.Context, id uuid.UUID, input *entities.ChangePasswordInput) error {
	return s.changeFn(ctx, id, input)
}

type newsServiceStub struct {
	listFn      func(ctx context.Context, p utils.PaginationParams) (*entities.NewsPage, error)
	getFn       func(ctx context.Context, slug string) (*entities.News, error)
	listAdminFn func(ctx context.Context, search string) ([]*entities.News, error)
	createFn    func(ctx context.Context, input *entities.NewsInput) (*entities.News, error)
	updateFn    func(ctx context.Context, id uuid.UUID, input *entities.NewsInput) (*entities.News, error)
	deleteFn    func(ctx context.Context, id uuid.UUID) error
	attachFn    func(ctx context.Context, id uuid.UUID, filename string, data []byte) (*entities.News, error)
}

func (s newsServiceStub) ListPublished(ctx context.Context, p utils.PaginationParams) (*entities.NewsPage, error) {
	return s.listFn(ctx, p)
}
func (s newsServiceStub) GetPublished(ctx context.Context, slug string) (*entities.News, error) {
	return s.getFn(ctx, slug)
}
func (s newsServiceStub) ListAdmin(ctx context.Context, search string) ([]*entities.News, error) {
	return s.listAdminFn(ctx, search)
}
func (s newsServiceStub) Create(ctx context.Context, input *entities.NewsInput) (*entities.News, error) {
	return s.createFn(ctx, input)
}
func (s newsServiceStub) Update(ctx context.Context, id uuid.UUID, input *entities.NewsInput) (*entities.News, error) {
	return s.updateFn(ctx, id, input)
}
func (s newsServiceStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}
func (s newsServiceStub) AttachPDF(ctx context.Context, id uuid.UUID, filename string, data []byte) (*entities.News, error) {
	return s.attachFn(ctx, id, filename, data)
}

type submissionServiceStub struct {
	contactFn func(ctx context.Context, input *entities.ContactInput) (*entities.Submission, error)
	jobFn     func(ctx context.Context, input *entities.JobInput) (*entities.Submission, error)
	listFn    func(ctx context.Context, f entities.SubmissionFilter, p utils.PaginationParams) ([]*entities.Submission, int64, error)
	handledFn func(ctx context.Context, id uuid.UUID) error
}

func (s submissionServiceStub) SubmitContact(ctx context.Context, input *entities.ContactInput) (*entities.Submission, error) {
	return s.contactFn(ctx, input)
}
func (s submissionServiceStub) SubmitJob(ctx context.Context, input *entities.JobInput) (*entities.Submission, error) {
	return s.jobFn(ctx, input)
}
func (s submissionServiceStub) List(ctx context.Context, f entities.SubmissionFilter, p utils.PaginationParams) ([]*entities.Submission, int64, error) {
	return s.listFn(ctx, f, p)
}
func (s submissionServiceStub) MarkHandled(ctx context.Context, id uuid.UUID) error {
	return s.handledFn(ctx, id)
}

type adminServiceStub struct {
	gapsFn       func(ctx context.Context) ([]entities.LinkGap, error)
	invalidateFn func(ctx context.Context) error
}

func (s adminServiceStub) LinkGaps(ctx context.Context) ([]entities.LinkGap, error) {
	return s.gapsFn(ctx)
}
func (s adminServiceStub) Invalidate(ctx context.Context) error {
	return s.invalidateFn(ctx)
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser stands in for AuthMiddleware
func asUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, _ := json.Marshal(b)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doUpload(t *testing.T, r http.Handler, path, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(uploadFormField, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
