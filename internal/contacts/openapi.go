package contacts

import (
	"github.com/JaimeStill/certtrack/pkg/openapi"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

var supplierParam = openapi.QueryParam("supplier", "string", `Exact supplier name; "all" or empty selects every supplier`, false)

type spec struct {
	List    *openapi.Operation
	Append  *openapi.Operation
	Load    *openapi.Operation
	Persist *openapi.Operation
	Export  *openapi.Operation
}

// Spec documents the contact log endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:    "List contact log entries",
		Tags:       []string{"Contacts"},
		Parameters: []*openapi.Parameter{supplierParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseArray("Entries, newest first", "ContactEntry"),
		},
	},
	Append: &openapi.Operation{
		Summary:     "Log a supplier contact",
		Description: "Appends to the session log only; call persist to write the shared log.",
		Tags:        []string{"Contacts"},
		RequestBody: openapi.RequestBodyJSON("AppendCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Entry logged", "ContactEntry"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Load: &openapi.Operation{
		Summary:     "Replace the session log",
		Tags:        []string{"Contacts"},
		RequestBody: openapi.RequestBodyFile("file", "Contact log spreadsheet (xlsx or csv)"),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Log loaded", "LoadResult"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
			422: openapi.ResponseRef("UnprocessableEntity"),
		},
	},
	Persist: &openapi.Operation{
		Summary:     "Write the session log to shared storage",
		Description: "Writes to the configured key unless the body names another. Last writer wins.",
		Tags:        []string{"Contacts"},
		RequestBody: openapi.RequestBodyJSON("PersistRequest", false),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Log persisted", "PersistResult"),
			400: openapi.ResponseRef("BadRequest"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Export: &openapi.Operation{
		Summary:     "Export contact log entries",
		Description: "Downloads <supplier>_contact_log.<ext> or all_contact_log.<ext>.",
		Tags:        []string{"Contacts"},
		Parameters: []*openapi.Parameter{
			supplierParam,
			openapi.QueryParam("format", "string", "xlsx or csv", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseFile("Spreadsheet", sheet.XLSX.ContentType(), sheet.CSV.ContentType()),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
}

// Schemas returns the component schemas referenced by Spec.
func Schemas() map[string]*openapi.Schema {
	actions := make([]any, len(Actions))
	for i, a := range Actions {
		actions[i] = string(a)
	}

	return map[string]*openapi.Schema{
		"ContactEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"date":     {Type: "string", Format: "date", Description: "YYYY-MM-DD, null when unknown"},
				"supplier": {Type: "string"},
				"action":   {Type: "string", Description: "Usually one of the listed actions", Example: actions[0]},
				"notes":    {Type: "string"},
			},
		},
		"AppendCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"date":     {Type: "string", Description: "Contact date; empty means today"},
				"supplier": {Type: "string"},
				"action":   {Type: "string", Description: "Usually one of the listed actions; any text, including none, is kept", Example: actions[0]},
				"notes":    {Type: "string"},
			},
			Required: []string{"supplier"},
		},
		"PersistRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key": {Type: "string", Description: "Alternate storage key"},
			},
		},
		"PersistResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":     {Type: "string"},
				"entries": {Type: "integer"},
			},
		},
		"LoadResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"source":  {Type: "string"},
				"entries": {Type: "integer"},
			},
		},
	}
}
