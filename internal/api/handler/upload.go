package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/api/metrics"
	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/infrastructure/storage"
)

// saveUpload streams a multipart file into the store, counting the outcome.
// Validation rejections keep their ValidationError so the client sees which
// check failed; anything else is counted as an internal error.
func saveUpload(store *storage.Store, kind storage.Kind, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(kind), "rejected").Inc()
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid upload")
	}
	defer src.Close()

	name, err := store.Save(kind, src)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			metrics.UploadsTotal.WithLabelValues(string(kind), "rejected").Inc()
		} else {
			metrics.UploadsTotal.WithLabelValues(string(kind), "error").Inc()
		}
		return "", err
	}
	metrics.UploadsTotal.WithLabelValues(string(kind), "accepted").Inc()
	return name, nil
}
