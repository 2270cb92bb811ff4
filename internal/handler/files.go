package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
	"github.com/aryan0dhankhar/claimledger/internal/security/audit"
	"github.com/aryan0dhankhar/claimledger/internal/security/middleware"
	"github.com/aryan0dhankhar/claimledger/internal/service"
)

// FileHandler handles uploads and downloads
type FileHandler struct {
	files     *service.FileService
	maxUpload int64
	audit     *audit.Logger
	logger    *slog.Logger
}

// NewFileHandler creates a new file handler. Request bodies larger than
// maxUpload bytes are rejected with 413.
func NewFileHandler(files *service.FileService, maxUpload int64, auditLog *audit.Logger, logger *slog.Logger) *FileHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &FileHandler{
		files:     files,
		maxUpload: maxUpload,
		audit:     auditLog,
		logger:    logger,
	}
}

// UploadResponse is returned by POST /api/upload
type UploadResponse struct {
	Message string `json:"message"`
	FileID  string `json:"file_id"`
}

// Upload handles POST /api/upload. The part named "file" is streamed to the
// blob store without buffering the whole request.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, h.logger, domain.ErrNoFile)
		return
	}

	part, err := nextFilePart(mr)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	defer part.Close()

	contentType := part.Header.Get("Content-Type")
	if contentType == "application/octet-stream" {
		contentType = ""
	}

	id, err := h.files.Upload(r.Context(), part.FileName(), contentType, part)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.audit.LogAction(r.Context(), middleware.GetRequestID(r.Context()), "", "upload", "file", id, "success")
	writeJSON(w, http.StatusCreated, UploadResponse{Message: "File uploaded successfully", FileID: id})
}

// nextFilePart skips to the part named "file". A part that carries no
// filename parameter is a plain form value, not a file.
func nextFilePart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, err
			}
			return nil, domain.ErrNoFile
		}

		if part.FormName() != "file" {
			part.Close()
			continue
		}

		_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
		if err != nil {
			part.Close()
			return nil, domain.ErrNoFile
		}
		filename, hasFilename := params["filename"]
		if !hasFilename {
			part.Close()
			continue
		}
		if filename == "" {
			part.Close()
			return nil, domain.ErrEmptyFilename
		}
		return part, nil
	}
}

// Fetch handles GET /api/files/{filename}
func (h *FileHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	file, err := h.files.Fetch(r.Context(), r.PathValue("filename"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	defer file.Content.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Length, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": file.Filename}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if !file.UploadedAt.IsZero() {
		w.Header().Set("Last-Modified", file.UploadedAt.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, file.Content); err != nil {
		h.logger.Warn("failed to stream file",
			slog.String("filename", file.Filename),
			slog.String("error", err.Error()),
		)
	}
}
