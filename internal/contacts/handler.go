package contacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/certtrack/pkg/handlers"
	"github.com/JaimeStill/certtrack/pkg/routes"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

// Handler provides HTTP endpoints for contact log operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
	format        sheet.Format
}

// PersistRequest optionally names an alternate storage key.
type PersistRequest struct {
	Key string `json:"key"`
}

// NewHandler creates a Handler with the given system, logger, upload size
// limit, and default export format.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64, format sheet.Format) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "contacts"),
		maxUploadSize: maxUploadSize,
		format:        format,
	}
}

// Routes returns the route group definition for contact log endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/contacts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Append, OpenAPI: Spec.Append},
			{Method: "POST", Pattern: "/load", Handler: h.Load, OpenAPI: Spec.Load},
			{Method: "POST", Pattern: "/persist", Handler: h.Persist, OpenAPI: Spec.Persist},
			{Method: "GET", Pattern: "/export", Handler: h.Export, OpenAPI: Spec.Export},
		},
	}
}

// List returns the entries for the selected supplier, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := FiltersFromQuery(r.URL.Query())
	handlers.RespondJSON(w, http.StatusOK, h.sys.List(r.Context(), filters))
}

// Append logs a new contact from a JSON body.
func (h *Handler) Append(w http.ResponseWriter, r *http.Request) {
	var cmd AppendCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidEntry, err))
		return
	}

	entry, err := h.sys.Append(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, entry)
}

// Load replaces the session log with the multipart "file" field.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrUnreadable, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: missing file", ErrUnreadable))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrUnreadable, err))
		return
	}

	n, err := h.sys.Load(r.Context(), data, header.Filename)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"source":  header.Filename,
		"entries": n,
	})
}

// Persist writes the session log to shared storage. An empty body persists
// to the configured key.
func (h *Handler) Persist(w http.ResponseWriter, r *http.Request) {
	var req PersistRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidEntry, err))
			return
		}
	}

	result, err := h.sys.Persist(r.Context(), req.Key)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Export downloads the selected supplier's entries as a spreadsheet.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	format := h.format
	if v := values.Get("format"); v != "" {
		f, ok := sheet.ParseFormat(v)
		if !ok {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: unsupported format %q", ErrInvalidEntry, v))
			return
		}
		format = f
	}

	export, err := h.sys.Export(r.Context(), FiltersFromQuery(values), format)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondAttachment(w, export.Name, export.ContentType, export.Data)
}
