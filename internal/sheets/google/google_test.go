package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goption "google.golang.org/api/option"

	"collapse/internal/core"
	"collapse/internal/log"
)

func testReport() core.Report {
	categories := []core.Category{core.Wars, core.Protests}
	m := core.NewMatrix(categories)
	m[core.Wars][4] = core.Cell{AverageSeverity: 4, EventCount: 3}
	return core.Report{Categories: categories, Matrix: m, TotalEvents: 11}
}

func TestBuildRows(t *testing.T) {
	rows, err := BuildRows(testReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// total + header + 2 rows per category
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	if rows[0][1] != 11 {
		t.Errorf("expected total 11, got %v", rows[0][1])
	}
	if len(rows[1]) != 14 || rows[1][2] != "Jan" || rows[1][13] != "Dec" {
		t.Errorf("unexpected header %v", rows[1])
	}
	if rows[2][0] != "Guerres ⚔️" || rows[2][6] != 4.0 {
		t.Errorf("unexpected wars averages %v", rows[2])
	}
	if rows[3][6] != 3 || rows[3][7] != 0 {
		t.Errorf("unexpected wars counts %v", rows[3])
	}
}

func TestBuildRows_MissingCategory(t *testing.T) {
	r := testReport()
	r.Categories = append(r.Categories, core.Terrorism)

	if _, err := BuildRows(r); err == nil {
		t.Fatal("expected error for category absent from matrix")
	}
}

func TestNewExporter_Validation(t *testing.T) {
	ctx := context.Background()
	if _, err := NewExporter(ctx, "id", "Sheet", nil, log.Discard()); err == nil {
		t.Error("expected error without credentials")
	}
	if _, err := newExporter(ctx, " ", "Sheet", log.Discard(), goption.WithoutAuthentication()); err == nil {
		t.Error("expected error without spreadsheet ID")
	}
	if _, err := newExporter(ctx, "id", "", log.Discard(), goption.WithoutAuthentication()); err == nil {
		t.Error("expected error without sheet name")
	}
}

func TestLoadCredentials(t *testing.T) {
	data, err := LoadCredentials(` {"type":"service_account"} `, "")
	if err != nil || string(data) != `{"type":"service_account"}` {
		t.Errorf("expected trimmed inline JSON, got %q (err %v)", data, err)
	}

	file := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(file, []byte(`{"from":"file"}`), 0600); err != nil {
		t.Fatal(err)
	}
	data, err = LoadCredentials("", file)
	if err != nil || string(data) != `{"from":"file"}` {
		t.Errorf("expected file content, got %q (err %v)", data, err)
	}

	if _, err := LoadCredentials("", ""); err == nil {
		t.Error("expected error when nothing is configured")
	}
	if _, err := LoadCredentials("", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExporter_Render(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotOption string
		gotBody   struct {
			Values [][]interface{} `json:"values"`
		}
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotOption = r.URL.Query().Get("valueInputOption")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"updatedCells": 82}`))
	}))
	defer srv.Close()

	exp, err := newExporter(context.Background(), "sheet-123", "Monthly Severity", log.Discard(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("create exporter: %v", err)
	}

	if err := exp.Render(context.Background(), testReport()); err != nil {
		t.Fatalf("render: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("expected PUT, got %s", gotMethod)
	}
	if !strings.Contains(gotPath, "/spreadsheets/sheet-123/values/") || !strings.Contains(gotPath, "Monthly Severity") {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotOption != "RAW" {
		t.Errorf("expected RAW value input option, got %q", gotOption)
	}
	if len(gotBody.Values) != 6 {
		t.Errorf("expected 6 rows sent, got %d", len(gotBody.Values))
	}
}

func TestExporter_RenderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
	}))
	defer srv.Close()

	exp, err := newExporter(context.Background(), "sheet-123", "Monthly Severity", log.Discard(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("create exporter: %v", err)
	}

	err = exp.Render(context.Background(), testReport())
	if err == nil || !strings.Contains(err.Error(), "update sheet") {
		t.Fatalf("expected update error, got %v", err)
	}
}

func TestExporter_NilService(t *testing.T) {
	e := &Exporter{spreadsheetID: "id", sheetName: "Sheet", logger: log.Discard()}
	if err := e.Render(context.Background(), testReport()); err == nil {
		t.Fatal("expected error for uninitialised service")
	}
}
