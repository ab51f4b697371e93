package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"crew-directory.backend/internal/config"
	"crew-directory.backend/internal/domain/entities"
	"crew-directory.backend/pkg/logger"
	"crew-directory.backend/pkg/utils"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var kindPrefixes = map[entities.AssetKind]string{
	entities.AssetPhoto:     "photos/",
	entities.AssetCV:        "cv/",
	entities.AssetEquipment: "equipment/",
	entities.AssetNewsPDF:   "news/",
}

// BlobStore keeps uploaded assets in a Google Cloud Storage bucket and turns
// asset ids into browser fetchable URLs.
type BlobStore struct {
	client          *storage.Client
	bucketName      string
	publicBaseURL   string
	signURLs        bool
	signedURLExpiry time.Duration

	signURL      func(object string, opts *storage.SignedURLOptions) (string, error)
	putObject    func(ctx context.Context, object, contentType string, r io.Reader) error
	deleteObject func(ctx context.Context, object string) error
}

// NewBlobStore opens a storage client for cfg.Bucket
func NewBlobStore(ctx context.Context, cfg config.StorageConfig) (*BlobStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage: bucket not set")
	}

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed creating client: %w", err)
	}

	s := newBlobStore(cfg)
	s.client = client
	bucket := client.Bucket(cfg.Bucket)
	s.signURL = bucket.SignedURL
	s.putObject = func(ctx context.Context, object, contentType string, r io.Reader) error {
		w := bucket.Object(object).NewWriter(ctx)
		w.ContentType = contentType
		if _, err := io.Copy(w, r); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	}
	s.deleteObject = func(ctx context.Context, object string) error {
		return bucket.Object(object).Delete(ctx)
	}
	return s, nil
}

func newBlobStore(cfg config.StorageConfig) *BlobStore {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = "https://storage.googleapis.com"
	}
	expiry := cfg.SignedURLExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &BlobStore{
		bucketName:      cfg.Bucket,
		publicBaseURL:   base,
		signURLs:        cfg.SignURLs,
		signedURLExpiry: expiry,
	}
}

// Close releases the storage client
func (s *BlobStore) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// BuildURL returns a fetchable URL for assetID, or null when the id is
// missing or blank. Signing failures fall back to the public object URL.
func (s *BlobStore) BuildURL(assetID null.String) null.String {
	if !assetID.Valid {
		return null.String{}
	}
	object := strings.TrimSpace(assetID.String)
	if object == "" {
		return null.String{}
	}

	if s.signURLs && s.signURL != nil {
		signed, err := s.signURL(object, &storage.SignedURLOptions{
			Scheme:  storage.SigningSchemeV4,
			Method:  http.MethodGet,
			Expires: time.Now().Add(s.signedURLExpiry),
		})
		if err == nil {
			return null.StringFrom(signed)
		}
		logger.Warn(context.Background(), "Signing asset URL failed, using public URL",
			zap.String("object", object), zap.Error(err))
	}

	return null.StringFrom(s.publicURL(object))
}

func (s *BlobStore) publicURL(object string) string {
	segments := strings.Split(object, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBaseURL + "/" + url.PathEscape(s.bucketName) + "/" + strings.Join(segments, "/")
}

// Upload stores r under a fresh asset id for kind and returns that id
func (s *BlobStore) Upload(ctx context.Context, kind entities.AssetKind, filename, contentType string, r io.Reader) (string, error) {
	prefix, ok := kindPrefixes[kind]
	if !ok {
		return "", fmt.Errorf("storage: unknown asset kind %q", kind)
	}
	if s.putObject == nil {
		return "", errors.New("storage: uploads not configured")
	}

	assetID := prefix + utils.GenerateUUIDv7().String() + strings.ToLower(path.Ext(filename))
	if err := s.putObject(ctx, assetID, contentType, r); err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", assetID, err)
	}
	logger.Info(ctx, "Asset uploaded", zap.String("asset_id", assetID), zap.String("kind", string(kind)))
	return assetID, nil
}

// Delete removes an asset. A missing object is not an error.
func (s *BlobStore) Delete(ctx context.Context, assetID string) error {
	object := strings.TrimSpace(assetID)
	if object == "" || s.deleteObject == nil {
		return nil
	}
	if err := s.deleteObject(ctx, object); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("storage: delete %s: %w", object, err)
	}
	return nil
}
