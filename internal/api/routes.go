package api

import (
	"net/http"

	"github.com/JaimeStill/certtrack/internal/certificates"
	"github.com/JaimeStill/certtrack/internal/config"
	"github.com/JaimeStill/certtrack/internal/contacts"
	"github.com/JaimeStill/certtrack/pkg/openapi"
	"github.com/JaimeStill/certtrack/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) ([]string, error) {
	maxUpload := cfg.API.MaxUploadSizeBytes()

	groups := []routes.Group{
		domain.Certificates.Handler(maxUpload).Routes(),
		domain.Contacts.Handler(maxUpload).Routes(),
		newStorageHandler(runtime.Storage, runtime.Logger).routes(),
	}

	doc, err := buildSpec(cfg, groups)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(doc))

	return routes.Register(mux, groups...), nil
}

func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(certificates.Schemas())
	spec.Components.AddSchemas(contacts.Schemas())

	routes.Document(spec, groups...)

	return openapi.MarshalJSON(spec)
}
