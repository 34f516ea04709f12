package certificates

import (
	"strings"

	"github.com/JaimeStill/certtrack/internal/expiry"
	"github.com/JaimeStill/certtrack/pkg/openapi"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

var statusEnum = func() []any {
	out := make([]any, len(expiry.Statuses))
	for i, s := range expiry.Statuses {
		out[i] = string(s)
	}
	return out
}()

func filterParams() []*openapi.Parameter {
	status := openapi.QueryParam("status", "array", "Statuses to include; repeat for several", false)
	status.Schema.Items = &openapi.Schema{Type: "string", Enum: statusEnum}

	return []*openapi.Parameter{
		openapi.QueryParam("supplier", "string", `Exact supplier name; "all" or empty selects every supplier`, false),
		openapi.QueryParam("search", "string", "Case-insensitive substring of the supplier name", false),
		status,
		openapi.QueryParam("sort", "string", "Comma-separated sort fields, \"-\" prefix for descending: "+strings.Join(SortFields(), ", "), false),
	}
}

type spec struct {
	List      *openapi.Operation
	Upload    *openapi.Operation
	Summary   *openapi.Operation
	Suppliers *openapi.Operation
	Refresh   *openapi.Operation
	Export    *openapi.Operation
}

// Spec documents the certificate endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List certificates",
		Description: "Returns one page of the filtered certificate view with the summary of the whole view.",
		Tags:        []string{"Certificates"},
		Parameters: append(filterParams(),
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Certificate view", "CertificateView"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Upload a certificate source",
		Description: "Stores the spreadsheet and makes it the current source. A spreadsheet that cannot be read leaves the current table in place.",
		Tags:        []string{"Certificates"},
		RequestBody: openapi.RequestBodyFile("file", "Certificate spreadsheet (xlsx or csv)"),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Source loaded", "LoadReport"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
			422: openapi.ResponseRef("UnprocessableEntity"),
		},
	},
	Summary: &openapi.Operation{
		Summary:    "Summarize certificates",
		Tags:       []string{"Certificates"},
		Parameters: filterParams(),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Status counts", "CertificateSummary"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Suppliers: &openapi.Operation{
		Summary: "List suppliers",
		Tags:    []string{"Certificates"},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Sorted distinct supplier names",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}},
				},
			},
		},
	},
	Refresh: &openapi.Operation{
		Summary:     "Reload the current source",
		Description: "Re-reads the current source from storage and re-derives every record against today's date.",
		Tags:        []string{"Certificates"},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Source reloaded", "LoadReport"),
			409: openapi.ResponseRef("Conflict"),
			422: openapi.ResponseRef("UnprocessableEntity"),
		},
	},
	Export: &openapi.Operation{
		Summary:     "Export certificates",
		Description: "Downloads the filtered view as <supplier>_certs.<ext> or all_certs.<ext>.",
		Tags:        []string{"Certificates"},
		Parameters: append(filterParams(),
			openapi.QueryParam("format", "string", "xlsx or csv", false),
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseFile("Spreadsheet", sheet.XLSX.ContentType(), sheet.CSV.ContentType()),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
}

// Schemas returns the component schemas referenced by Spec.
func Schemas() map[string]*openapi.Schema {
	summary := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"total":         {Type: "integer"},
			"valid":         {Type: "integer"},
			"expiring_soon": {Type: "integer"},
			"expired":       {Type: "integer"},
			"unknown":       {Type: "integer"},
			"valid_percent": {Type: "number", Description: "Share of valid certificates, 0 to 100"},
		},
	}

	return map[string]*openapi.Schema{
		"Certificate": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"supplier":           {Type: "string"},
				"certification_body": {Type: "string"},
				"certificate_number": {Type: "string"},
				"expiry_date":        {Type: "string", Format: "date-time", Description: "Null when absent or unparseable"},
				"days_until_expiry":  {Type: "integer", Description: "Null when the expiry date is unknown"},
				"status":             {Type: "string", Enum: statusEnum},
			},
		},
		"CertificateSummary": summary,
		"CertificateView": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Certificate")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
				"summary":     openapi.SchemaRef("CertificateSummary"),
				"source":      {Type: "string", Description: "Storage key of the current source"},
			},
		},
		"LoadReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"source":    {Type: "string"},
				"records":   {Type: "integer"},
				"mapping":   {Type: "object", Description: "Canonical field to source header"},
				"missing":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"loaded_at": {Type: "string", Format: "date-time"},
				"summary":   openapi.SchemaRef("CertificateSummary"),
			},
		},
	}
}
