package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"crew-directory.backend/internal/config"
	"crew-directory.backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func testStore(sign bool) *BlobStore {
	return newBlobStore(config.StorageConfig{
		Bucket:          "crew-assets",
		SignURLs:        sign,
		SignedURLExpiry: 30 * time.Minute,
	})
}

func TestBuildURL_NullForBlankIDs(t *testing.T) {
	s := testStore(false)
	assert.False(t, s.BuildURL(null.String{}).Valid)
	assert.False(t, s.BuildURL(null.StringFrom("")).Valid)
	assert.False(t, s.BuildURL(null.StringFrom("   \t")).Valid)
}

func TestBuildURL_PublicObjectURL(t *testing.T) {
	s := testStore(false)
	got := s.BuildURL(null.StringFrom(" photos/jane doe.jpg "))
	require.True(t, got.Valid)
	assert.Equal(t, "https://storage.googleapis.com/crew-assets/photos/jane%20doe.jpg", got.String)
}

func TestBuildURL_SignedURL(t *testing.T) {
	s := testStore(true)
	var gotOpts *storage.SignedURLOptions
	s.signURL = func(object string, opts *storage.SignedURLOptions) (string, error) {
		gotOpts = opts
		return "https://signed.example/" + object + "?sig=1", nil
	}

	got := s.BuildURL(null.StringFrom("cv/abc.pdf"))
	require.True(t, got.Valid)
	assert.Equal(t, "https://signed.example/cv/abc.pdf?sig=1", got.String)
	require.NotNil(t, gotOpts)
	assert.Equal(t, storage.SigningSchemeV4, gotOpts.Scheme)
	assert.Equal(t, "GET", gotOpts.Method)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), gotOpts.Expires, time.Minute)
}

func TestBuildURL_SigningFailureFallsBack(t *testing.T) {
	s := testStore(true)
	s.signURL = func(string, *storage.SignedURLOptions) (string, error) {
		return "", errors.New("no signing credentials")
	}
	got := s.BuildURL(null.StringFrom("cv/abc.pdf"))
	assert.Equal(t, "https://storage.googleapis.com/crew-assets/cv/abc.pdf", got.String)
}

func TestUpload_NamesObjectByKind(t *testing.T) {
	s := testStore(false)
	var stored bytes.Buffer
	var storedName, storedType string
	s.putObject = func(_ context.Context, object, contentType string, r io.Reader) error {
		storedName, storedType = object, contentType
		_, err := io.Copy(&stored, r)
		return err
	}

	id, err := s.Upload(context.Background(), entities.AssetEquipment, "Kit List.XLSX", mimeXLSX, strings.NewReader("data"))
	require.NoError(t, err)
	assert.Equal(t, id, storedName)
	assert.True(t, strings.HasPrefix(id, "equipment/"))
	assert.True(t, strings.HasSuffix(id, ".xlsx"))
	assert.Equal(t, mimeXLSX, storedType)
	assert.Equal(t, "data", stored.String())

	_, err = s.Upload(context.Background(), entities.AssetKind("video"), "a.mp4", "video/mp4", strings.NewReader("x"))
	require.Error(t, err)
}

func TestUpload_Errors(t *testing.T) {
	s := testStore(false)
	_, err := s.Upload(context.Background(), entities.AssetPhoto, "a.png", mimePNG, strings.NewReader("x"))
	require.Error(t, err, "uploads need a configured bucket")

	s.putObject = func(context.Context, string, string, io.Reader) error { return errors.New("quota") }
	_, err = s.Upload(context.Background(), entities.AssetPhoto, "a.png", mimePNG, strings.NewReader("x"))
	require.ErrorContains(t, err, "quota")
}

func TestDelete_MissingObjectIsNotAnError(t *testing.T) {
	s := testStore(false)
	require.NoError(t, s.Delete(context.Background(), "photos/a.png"), "no bucket configured")

	var deleted []string
	s.deleteObject = func(_ context.Context, object string) error {
		deleted = append(deleted, object)
		if object == "photos/gone.png" {
			return storage.ErrObjectNotExist
		}
		if object == "photos/fail.png" {
			return errors.New("permission denied")
		}
		return nil
	}

	require.NoError(t, s.Delete(context.Background(), " photos/a.png "))
	require.NoError(t, s.Delete(context.Background(), "photos/gone.png"))
	require.NoError(t, s.Delete(context.Background(), "  "))
	require.Error(t, s.Delete(context.Background(), "photos/fail.png"))
	assert.Equal(t, []string{"photos/a.png", "photos/gone.png", "photos/fail.png"}, deleted)
}

func TestNewBlobStore_RequiresBucket(t *testing.T) {
	_, err := NewBlobStore(context.Background(), config.StorageConfig{})
	require.Error(t, err)
	require.NoError(t, testStore(false).Close())
}
