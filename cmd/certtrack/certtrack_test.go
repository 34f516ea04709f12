package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

const sourceCSV = `Supplier Name,Cert Body,Cert #,Exp. Date
Acme Farms,GlobalGAP,GG-1,2024-05-04
Beta Growers,BRC,B-2,2024-06-11
Gamma Orchards,SQF,S-3,2025-01-01
Delta Ranch,,D-4,not a date
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(func() time.Time { return now })
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCertsTable(t *testing.T) {
	src := writeFile(t, t.TempDir(), "certs.csv", sourceCSV)

	out, err := run(t, "certs", src)
	if err != nil {
		t.Fatalf("certs: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[0], "SUPPLIER") {
		t.Errorf("header line: %q", lines[0])
	}
	// Soonest expiry first, undated last.
	order := []string{"Acme Farms", "Beta Growers", "Gamma Orchards", "Delta Ranch"}
	for i, supplier := range order {
		if !strings.HasPrefix(lines[i+1], supplier) {
			t.Errorf("row %d: got %q, want %s first", i, lines[i+1], supplier)
		}
	}
	if !strings.Contains(out, "Expiring Soon") {
		t.Error("status label missing")
	}

	want := "4 certificates: 1 valid (25.0%), 1 expiring soon, 1 expired, 1 unknown"
	if lines[len(lines)-1] != want {
		t.Errorf("summary: got %q, want %q", lines[len(lines)-1], want)
	}
}

func TestCertsFiltersJSON(t *testing.T) {
	src := writeFile(t, t.TempDir(), "certs.csv", sourceCSV)

	out, err := run(t, "certs", src, "-o", "json", "--status", "expired,expiring_soon")
	if err != nil {
		t.Fatalf("certs: %v", err)
	}

	var result struct {
		Records []struct {
			Supplier string `json:"supplier"`
			Status   string `json:"status"`
		} `json:"records"`
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}

	if result.Summary.Total != 2 || len(result.Records) != 2 {
		t.Fatalf("got %d records, summary total %d", len(result.Records), result.Summary.Total)
	}
	if result.Records[0].Status != "expired" || result.Records[1].Status != "expiring_soon" {
		t.Errorf("statuses: got %+v", result.Records)
	}
}

func TestCertsWarningDays(t *testing.T) {
	src := writeFile(t, t.TempDir(), "certs.csv", sourceCSV)

	out, err := run(t, "certs", src, "--warning-days", "5", "--supplier", "Beta Growers")
	if err != nil {
		t.Fatalf("certs: %v", err)
	}
	if !strings.Contains(out, "1 certificates: 1 valid") {
		t.Errorf("Beta should be valid with a 5 day window:\n%s", out)
	}
}

func TestCertsErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, "certs", filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}

	src := writeFile(t, dir, "certs.csv", sourceCSV)
	if _, err := run(t, "certs", src, "--status", "lapsed"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := run(t, "certs", src, "-o", "xml"); err == nil {
		t.Error("expected error for unknown output format")
	}
	if _, err := run(t, "certs", src, "--warning-days=-1"); err == nil {
		t.Error("expected error for negative warning days")
	}
	if _, err := run(t, "certs", src, "--threshold", "0"); err == nil {
		t.Error("expected error for zero threshold")
	}
	if _, err := run(t, "export", src, "--warning-days=-5", "--out", filepath.Join(dir, "out")); err == nil {
		t.Error("expected export to reject negative warning days")
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "certs.csv", sourceCSV)
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "export", src, "--supplier", "Acme Farms", "--out", outDir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Acme Farms_certs.xlsx") {
		t.Errorf("output: %q", out)
	}

	f, err := excelize.OpenFile(filepath.Join(outDir, "Acme Farms_certs.xlsx"))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header plus one record", len(rows))
	}
	if rows[1][0] != "Acme Farms" || rows[1][5] != "Expired" {
		t.Errorf("record row: %v", rows[1])
	}
}

func TestExportCSVAll(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "certs.csv", sourceCSV)

	if _, err := run(t, "export", src, "--format", "csv", "--out", dir); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "all_certs.csv"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Errorf("got %d lines, want 5", len(lines))
	}
	if lines[0] != "Supplier,Certification Body,Certificate Number,Expiry Date,Days Until Expiry,Status" {
		t.Errorf("header: %q", lines[0])
	}
}

func TestContactsAddAndList(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "contact_log.csv")

	if _, err := run(t, "contacts", "add", "--log", logPath, "--supplier", "Acme", "--action", "call", "--notes", "renewal", "--date", "2024-01-01"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := run(t, "contacts", "add", "--log", logPath, "--supplier", "Beta", "--notes", "sent reminder")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "logged Email with Beta on 2024-06-01 (2 entries)") {
		t.Errorf("add output: %q", out)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	want := "Date,Supplier,Action,Notes\n2024-01-01,Acme,Call,renewal\n2024-06-01,Beta,Email,sent reminder\n"
	if string(data) != want {
		t.Errorf("log file:\n%s\nwant:\n%s", data, want)
	}

	out, err = run(t, "contacts", "list", "--log", logPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "2024-06-01") {
		t.Errorf("list newest first:\n%s", out)
	}

	out, err = run(t, "contacts", "list", "--log", logPath, "--supplier", "Acme", "-o", "json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var entries []map[string]any
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0]["date"] != "2024-01-01" {
		t.Errorf("entries: %v", entries)
	}
}

func TestContactsAddRejectsMissingSupplier(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "contact_log.csv")

	if _, err := run(t, "contacts", "add", "--log", logPath, "--supplier", "all"); err == nil {
		t.Fatal("expected error for supplier \"all\"")
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("log written despite rejected entry")
	}
}

func TestContactsListYAML(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "log.csv", "Date,Supplier,Action,Notes\n2024-02-03,Acme,Meeting,site visit\n")

	out, err := run(t, "contacts", "list", "--log", logPath, "-o", "yaml")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "supplier: Acme") || !strings.Contains(out, "action: Meeting") {
		t.Errorf("yaml output:\n%s", out)
	}
}
