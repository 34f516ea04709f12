package certificates

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/certtrack/pkg/handlers"
	"github.com/JaimeStill/certtrack/pkg/pagination"
	"github.com/JaimeStill/certtrack/pkg/query"
	"github.com/JaimeStill/certtrack/pkg/routes"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

// Handler provides HTTP endpoints for certificate operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
	format        sheet.Format
}

// NewHandler creates a Handler with the given system, logger, pagination
// config, upload size limit, and default export format.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
	format sheet.Format,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "certificates"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
		format:        format,
	}
}

// Routes returns the route group definition for certificate endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/certificates",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Upload, OpenAPI: Spec.Upload},
			{Method: "GET", Pattern: "/summary", Handler: h.Summary, OpenAPI: Spec.Summary},
			{Method: "GET", Pattern: "/suppliers", Handler: h.Suppliers, OpenAPI: Spec.Suppliers},
			{Method: "POST", Pattern: "/refresh", Handler: h.Refresh, OpenAPI: Spec.Refresh},
			{Method: "GET", Pattern: "/export", Handler: h.Export, OpenAPI: Spec.Export},
		},
	}
}

// List returns a page of the filtered certificate view with its summary.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	view, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// Summary returns status counts for the filtered certificate view.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, h.sys.Summary(r.Context(), filters))
}

// Suppliers returns the sorted supplier names of the current table.
func (h *Handler) Suppliers(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Suppliers(r.Context()))
}

// Upload replaces the certificate source with the multipart "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
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
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	t, err := h.sys.Upload(r.Context(), data, header.Filename)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, t.Report())
}

// Refresh re-derives the certificate table from the current source.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	t, err := h.sys.Refresh(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, t.Report())
}

// Export downloads the filtered certificate view as a spreadsheet.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	format := h.format
	if v := values.Get("format"); v != "" {
		f, ok := sheet.ParseFormat(v)
		if !ok {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: unsupported format %q", ErrInvalidFile, v))
			return
		}
		format = f
	}

	filters, err := FiltersFromQuery(values)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	sort := query.ParseSortFields(values.Get("sort"))

	export, err := h.sys.Export(r.Context(), filters, sort, format)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondAttachment(w, export.Name, export.ContentType, export.Data)
}
