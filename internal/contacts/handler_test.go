package contacts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/certtrack/internal/contacts"
	"github.com/JaimeStill/certtrack/pkg/routes"
	"github.com/JaimeStill/certtrack/pkg/sheet"
	"github.com/JaimeStill/certtrack/pkg/storage"
)

const logKey = "contacts/contact_log.csv"

var today = time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

func newSystem(t *testing.T, store storage.System) contacts.System {
	t.Helper()
	return contacts.New(store, logKey, sheet.XLSX, func() time.Time { return today }, discard())
}

func newMux(sys contacts.System) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(1<<20).Routes())
	return mux
}

func serve(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandlerAppend(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantDate   string
		wantAction contacts.Action
	}{
		{"explicit date", `{"date":"2024-01-01","supplier":"Acme","action":"Call","notes":"ok"}`, http.StatusCreated, "2024-01-01", contacts.Call},
		{"date defaults to today", `{"supplier":"Acme","action":"email"}`, http.StatusCreated, "2024-06-01", contacts.Email},
		{"free text action", `{"supplier":"Acme","action":"Site visit"}`, http.StatusCreated, "2024-06-01", "Site visit"},
		{"all growers rejected", `{"supplier":"(All growers)","action":"Call"}`, http.StatusBadRequest, "", ""},
		{"blank supplier rejected", `{"supplier":"  ","action":"Call"}`, http.StatusBadRequest, "", ""},
		{"missing action kept blank", `{"supplier":"Acme"}`, http.StatusCreated, "2024-06-01", ""},
		{"bad date", `{"supplier":"Acme","action":"Call","date":"someday"}`, http.StatusBadRequest, "", ""},
		{"malformed body", `{"supplier":`, http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := newSystem(t, newStore(t))
			rec := serve(newMux(sys), postJSON("/contacts", tt.body))
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusCreated {
				assert.Empty(t, sys.List(context.Background(), contacts.Filters{}))
				return
			}

			var got struct {
				Date   string          `json:"date"`
				Action contacts.Action `json:"action"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantDate, got.Date)
			assert.Equal(t, tt.wantAction, got.Action)
		})
	}
}

func TestHandlerListBySupplier(t *testing.T) {
	sys := newSystem(t, newStore(t))
	mux := newMux(sys)
	ctx := context.Background()

	for _, cmd := range []contacts.AppendCommand{
		{Date: "2024-01-01", Supplier: "Acme", Action: "Call", Notes: "first"},
		{Date: "2024-03-01", Supplier: "Beta", Action: "Email", Notes: "beta"},
		{Date: "2024-02-01", Supplier: "Acme", Action: "Meeting", Notes: "second"},
	} {
		_, err := sys.Append(ctx, cmd)
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"?supplier=Acme", []string{"second", "first"}},
		{"?supplier=all", []string{"beta", "second", "first"}},
		{"", []string{"beta", "second", "first"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := serve(mux, httptest.NewRequest("GET", "/contacts"+tt.query, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var entries []contacts.Entry
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
			assert.Equal(t, tt.want, notes(entries))
		})
	}
}

func TestHandlerPersistAndReopen(t *testing.T) {
	store := newStore(t)
	sys := newSystem(t, store)
	mux := newMux(sys)

	rec := serve(mux, postJSON("/contacts", `{"date":"2024-01-01","supplier":"Acme","action":"Call","notes":"ok"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(mux, httptest.NewRequest("POST", "/contacts/persist", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"key":"contacts/contact_log.csv","entries":1}`, rec.Body.String())

	rec = serve(mux, postJSON("/contacts/persist", `{"key":"backup/contact_log.xlsx"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	next := newSystem(t, store)
	n, err := next.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got := next.List(context.Background(), contacts.Filters{Supplier: ptr("Acme")})
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Notes)

	backup, err := contacts.Open(context.Background(), store, "backup/contact_log.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 1, backup.Len())
}

func TestHandlerPersistErrors(t *testing.T) {
	t.Run("invalid key", func(t *testing.T) {
		mux := newMux(newSystem(t, newStore(t)))
		rec := serve(mux, postJSON("/contacts/persist", `{"key":"../outside.csv"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage failure keeps session log", func(t *testing.T) {
		sys := newSystem(t, failingStore{})
		_, err := sys.Append(context.Background(), contacts.AppendCommand{Supplier: "Acme", Action: "Call"})
		require.NoError(t, err)

		rec := serve(newMux(sys), httptest.NewRequest("POST", "/contacts/persist", nil))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Len(t, sys.List(context.Background(), contacts.Filters{}), 1)
	})
}

func TestHandlerLoad(t *testing.T) {
	sys := newSystem(t, newStore(t))
	mux := newMux(sys)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "contact_log.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Date,Supplier,Action,Notes\n2024-01-05,Acme,Email,sent\n,Beta,Call,\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/contacts/load", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := serve(mux, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"source":"contact_log.csv","entries":2}`, rec.Body.String())

	entries := sys.List(context.Background(), contacts.Filters{})
	require.Len(t, entries, 2)
	assert.Equal(t, "Acme", entries[0].Supplier)
	assert.Nil(t, entries[1].Date)
}

func TestHandlerExport(t *testing.T) {
	sys := newSystem(t, newStore(t))
	_, err := sys.Append(context.Background(), contacts.AppendCommand{Date: "2024-01-01", Supplier: "Acme", Action: "Call", Notes: "ok"})
	require.NoError(t, err)

	mux := newMux(sys)

	rec := serve(mux, httptest.NewRequest("GET", "/contacts/export?supplier=Acme&format=csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Acme_contact_log.csv")
	assert.Equal(t, "Date,Supplier,Action,Notes\n2024-01-01,Acme,Call,ok\n", rec.Body.String())

	rec = serve(mux, httptest.NewRequest("GET", "/contacts/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "all_contact_log.xlsx")
}
