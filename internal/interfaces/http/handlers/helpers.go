package handlers

import (
	"errors"
	"io"
	"net/http"

	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/internal/interfaces/http/middleware"
	"crew-directory.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const uploadFormField = "file"

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	return id, ok && id != uuid.Nil
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.BadRequest("invalid " + name)
	}
	return id, nil
}

func paginationFromQuery(c *gin.Context) (utils.PaginationParams, error) {
	var p utils.PaginationParams
	if err := c.ShouldBindQuery(&p); err != nil {
		return p, domainerrors.BadRequest("page and limit must be numbers")
	}
	return utils.GetPaginationParams(p.Page, p.Limit), nil
}

// readUpload reads the multipart file field, refusing bodies over maxBytes
func readUpload(c *gin.Context, maxBytes int64) (string, []byte, error) {
	if maxBytes > 0 {
		// allow room for multipart framing
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+64<<10)
	}
	header, err := c.FormFile(uploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, domainerrors.PayloadTooLarge("file is too large")
		}
		return "", nil, domainerrors.BadRequest("multipart field \"file\" is required")
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return "", nil, domainerrors.PayloadTooLarge("file is too large")
	}

	f, err := header.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}
