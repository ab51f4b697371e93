package handlers

import (
	"context"
	"net/http"
	"testing"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func newNewsRouter(stub newsServiceStub) http.Handler {
	h := NewNewsHandler(stub, 64)
	r := newRouter()
	r.GET("/news", h.ListPublished)
	r.GET("/news/:slug", h.GetPublished)
	r.GET("/admin/news", h.ListAdmin)
	r.POST("/admin/news", h.Create)
	r.PUT("/admin/news/:id", h.Update)
	r.DELETE("/admin/news/:id", h.Delete)
	r.POST("/admin/news/:id/pdf", h.AttachPDF)
	return r
}

func TestNewsHandler_ListPublished(t *testing.T) {
	var got utils.PaginationParams
	r := newNewsRouter(newsServiceStub{
		listFn: func(_ context.Context, p utils.PaginationParams) (*entities.NewsPage, error) {
			got = p
			return &entities.NewsPage{Items: []*entities.News{{Slug: "a", PDFURL: null.StringFrom("https://cdn.test/a.pdf")}}, TotalCount: 41}, nil
		},
	})

	w := doJSON(r, http.MethodGet, "/news?page=2&limit=500", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, utils.MaxPageLimit, got.Limit)
	body := decodeBody(t, w)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(41), meta["totalCount"])
	assert.Contains(t, w.Body.String(), `"pdfUrl":"https://cdn.test/a.pdf"`)

	w = doJSON(r, http.MethodGet, "/news?page=abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNewsHandler_GetPublished(t *testing.T) {
	r := newNewsRouter(newsServiceStub{
		getFn: func(_ context.Context, slug string) (*entities.News, error) {
			if slug == "wrap-party" {
				return &entities.News{Slug: slug, Title: "Wrap party"}, nil
			}
			return nil, domainerrors.ErrNotFound
		},
	})

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/news/wrap-party", nil).Code)
	require.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/news/missing", nil).Code)
}

func TestNewsHandler_AdminCRUD(t *testing.T) {
	id := uuid.New()
	var search string
	r := newNewsRouter(newsServiceStub{
		listAdminFn: func(_ context.Context, q string) ([]*entities.News, error) {
			search = q
			return []*entities.News{}, nil
		},
		createFn: func(_ context.Context, input *entities.NewsInput) (*entities.News, error) {
			return &entities.News{ID: id, Title: input.Title, Slug: "casting-call"}, nil
		},
		updateFn: func(_ context.Context, gotID uuid.UUID, input *entities.NewsInput) (*entities.News, error) {
			if gotID != id {
				return nil, domainerrors.ErrNotFound
			}
			return &entities.News{ID: id, Title: input.Title}, nil
		},
		deleteFn: func(_ context.Context, gotID uuid.UUID) error {
			if gotID != id {
				return domainerrors.ErrNotFound
			}
			return nil
		},
	})

	w := doJSON(r, http.MethodGet, "/admin/news?q=cast", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cast", search)

	w = doJSON(r, http.MethodPost, "/admin/news", `{"title":"Casting call"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "casting-call", decodeBody(t, w)["slug"])

	w = doJSON(r, http.MethodPost, "/admin/news", `{"summary":"no title"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/admin/news/"+id.String(), `{"title":"Renamed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/admin/news/not-a-uuid", `{"title":"Renamed"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, "/admin/news/"+id.String(), nil).Code)
	require.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, "/admin/news/"+uuid.NewString(), nil).Code)
}

func TestNewsHandler_AttachPDF(t *testing.T) {
	id := uuid.New()
	r := newNewsRouter(newsServiceStub{
		attachFn: func(_ context.Context, _ uuid.UUID, filename string, data []byte) (*entities.News, error) {
			return &entities.News{ID: id, PDFURL: null.StringFrom("https://cdn.test/news/" + filename)}, nil
		},
	})

	w := doUpload(t, r, "/admin/news/"+id.String()+"/pdf", "flyer.pdf", []byte("%PDF-1.7"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn.test/news/flyer.pdf", decodeBody(t, w)["pdfUrl"])

	w = doUpload(t, r, "/admin/news/"+id.String()+"/pdf", "huge.pdf", make([]byte, 65))
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
