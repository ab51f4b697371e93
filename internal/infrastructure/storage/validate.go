package storage

import (
	"fmt"
	"path"
	"strings"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"github.com/gabriel-vasile/mimetype"
)

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimeWebP = "image/webp"
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var allowedTypes = map[entities.AssetKind][]string{
	entities.AssetPhoto:     {mimeJPEG, mimePNG, mimeWebP},
	entities.AssetCV:        {mimePDF},
	entities.AssetNewsPDF:   {mimePDF},
	entities.AssetEquipment: {mimePDF, mimeXLSX},
}

// Limits caps upload sizes in bytes
type Limits struct {
	MaxPhotoBytes    int64
	MaxDocumentBytes int64
}

func (l Limits) forKind(kind entities.AssetKind) int64 {
	if kind == entities.AssetPhoto {
		return l.MaxPhotoBytes
	}
	return l.MaxDocumentBytes
}

// ValidateUpload checks size and sniffed content type of data for kind. The
// returned filename keeps the caller's base name with the detected extension.
func ValidateUpload(kind entities.AssetKind, filename string, data []byte, limits Limits) (*entities.AssetUpload, error) {
	allowed, ok := allowedTypes[kind]
	if !ok {
		return nil, domainerrors.BadRequest("unknown asset kind")
	}
	if len(data) == 0 {
		return nil, domainerrors.BadRequest("file is empty")
	}
	if limit := limits.forKind(kind); limit > 0 && int64(len(data)) > limit {
		return nil, domainerrors.PayloadTooLarge(fmt.Sprintf("file exceeds %d bytes", limit))
	}

	detected := mimetype.Detect(data)
	var matched string
	for _, a := range allowed {
		if detected.Is(a) {
			matched = a
			break
		}
	}
	if matched == "" {
		return nil, domainerrors.UnsupportedMedia(fmt.Sprintf("%s is not accepted for %s", detected.String(), kind))
	}

	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	base := strings.TrimSuffix(name, path.Ext(name))
	if base == "" || base == "." || base == "/" {
		base = string(kind)
	}
	name = base + detected.Extension()

	return &entities.AssetUpload{
		Kind:        kind,
		Filename:    name,
		ContentType: matched,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
