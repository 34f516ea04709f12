package api

import (
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/JaimeStill/certtrack/pkg/handlers"
	"github.com/JaimeStill/certtrack/pkg/openapi"
	"github.com/JaimeStill/certtrack/pkg/routes"
	"github.com/JaimeStill/certtrack/pkg/sheet"
	"github.com/JaimeStill/certtrack/pkg/storage"
)

// storageHandler serves stored spreadsheet blobs (uploaded certificate
// sources and the persisted contact log) for download.
type storageHandler struct {
	store  storage.System
	logger *slog.Logger
}

var downloadOp = &openapi.Operation{
	Summary:     "Download a stored spreadsheet",
	Description: "Serves an uploaded certificate source or a persisted contact log by storage key.",
	Tags:        []string{"Storage"},
	Parameters:  []*openapi.Parameter{openapi.PathParam("key", "Storage key, e.g. certificates/<id>/source.xlsx")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseFile("Stored blob", "application/octet-stream"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

func newStorageHandler(store storage.System, logger *slog.Logger) *storageHandler {
	return &storageHandler{
		store:  store,
		logger: logger.With("handler", "storage"),
	}
}

func (h *storageHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/storage",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{key...}", Handler: h.download, OpenAPI: downloadOp},
		},
	}
}

func (h *storageHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	body, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}
	defer body.Close()

	name := storage.Base(key)
	w.Header().Set("Content-Type", sheet.DetectFormat(name, nil).ContentType())
	w.Header().Set(
		"Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": name}),
	)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Error("stream blob failed", "key", key, "error", err)
	}
}
