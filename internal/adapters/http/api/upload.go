package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/okian/perfsum/internal/domain/ingest"
	"github.com/okian/perfsum/pkg/logger"
)

// UploadHandler handles CSV uploads.
type UploadHandler struct {
	deps     Dependencies
	maxBytes int64
	logger   logger.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(deps Dependencies, maxBytes int64, l logger.Logger) *UploadHandler {
	return &UploadHandler{deps: deps, maxBytes: maxBytes, logger: l}
}

// HandleUpload handles POST /upload-csv/ requests. The CSV travels in the
// multipart field "file"; the response is one summary record per data row.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_csv"
	if r.ContentLength > h.maxBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", NewKind(op, ErrPayloadTooLarge))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", NewKind(op, ErrPayloadTooLarge))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrMissingFile, err))
		return
	}
	defer func() { _ = file.Close() }()

	if err := ingest.ValidateFilename(header.Filename); err != nil {
		writeError(w, http.StatusBadRequest, "unsupported_media_type", errOnlyCSV)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrBadRequest, err))
		return
	}

	out, err := h.deps.Process(r.Context(), header.Filename, data)
	if err != nil {
		status, code := classify(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "upload failed",
				logger.String("filename", header.Filename),
				logger.Error(WrapKind(op, ErrBadRequest, err)),
			)
		}
		if errors.Is(err, ingest.ErrUnsupportedMediaType) {
			err = errOnlyCSV
		}
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// errOnlyCSV is the client-facing wording for a wrong file extension.
var errOnlyCSV = errors.New("Only CSV files are allowed") //nolint:staticcheck // returned verbatim as the response detail

// classify maps a processing failure to a status and an error code.
// Client mistakes that the caller can fix are 400; everything else is 500.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ingest.ErrUnsupportedMediaType):
		return http.StatusBadRequest, "unsupported_media_type"
	case errors.Is(err, ingest.ErrMissingColumns):
		return http.StatusBadRequest, "missing_columns"
	case errors.Is(err, ingest.ErrInvalidRow):
		return http.StatusBadRequest, "invalid_row"
	case errors.Is(err, ingest.ErrTooManyRows):
		return http.StatusBadRequest, "too_many_rows"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusInternalServerError, "aborted"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
