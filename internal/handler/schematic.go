package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/schematic-hub/internal/auth"
	"github.com/sakif/schematic-hub/internal/service"
)

// SchematicHandler exposes listing, upload, and download of schematics.
// All three routes sit behind the RequireAuth middleware, so every method
// can read a verified user id from the request context.
type SchematicHandler struct {
	svc            *service.SchematicService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewSchematicHandler creates a SchematicHandler. maxUploadBytes caps the
// whole multipart request body (16 MiB by default, from config).
func NewSchematicHandler(svc *service.SchematicService, maxUploadBytes int64, logger *slog.Logger) *SchematicHandler {
	return &SchematicHandler{svc: svc, maxUploadBytes: maxUploadBytes, logger: logger}
}

// listItem is the wire shape for one row of GET /api/schematics.
// Clients get id and display name; storage keys and timestamps stay private.
type listItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// HandleList returns the caller's schematics.
//
// HTTP: GET /api/schematics
// Response: [{"id":1,"name":"castle"}, ...]
func (h *SchematicHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	schematics, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]listItem, 0, len(schematics))
	for _, s := range schematics {
		items = append(items, listItem{ID: s.ID, Name: s.Name})
	}

	writeJSON(w, http.StatusOK, items)
}

// HandleUpload stores a new schematic.
//
// HTTP: POST /api/upload
// Body: multipart/form-data with a "file" part (filename must end
// .bloxdschem) and an optional "name" field.
//
// BODY SIZE LIMIT:
// http.MaxBytesReader wraps the body BEFORE ParseMultipartForm touches it.
// A body over the cap fails the parse with a *http.MaxBytesError rather than
// streaming gigabytes to disk. The 4 MiB argument to ParseMultipartForm is
// only the in-memory threshold — larger parts spill to temp files.
func (h *SchematicHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(4 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   "too_large",
				Message: fmt.Sprintf("upload must be %d bytes or less", h.maxUploadBytes),
			})
			return
		}
		h.logger.Warn("upload: bad multipart body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request must be multipart/form-data with a file part",
		})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "file is required",
		})
		return
	}
	defer file.Close()

	schematic, err := h.svc.Upload(r.Context(), userID,
		r.FormValue("name"), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listItem{ID: schematic.ID, Name: schematic.Name})
}

// HandleDownload streams a schematic's content back as an attachment.
//
// HTTP: GET /api/download/{id}
//
// Only the owner can download: the service returns forbidden for someone
// else's id. The Content-Disposition filename is the display name plus the
// schematic extension, quoted so names with spaces survive.
func (h *SchematicHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "schematic id must be a positive integer",
		})
		return
	}

	dl, err := h.svc.DownloadByID(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer dl.Content.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))

	if _, err := io.Copy(w, dl.Content); err != nil {
		// Headers and part of the body may already be sent — log and move on.
		h.logger.Error("download: streaming failed",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
	}
}
