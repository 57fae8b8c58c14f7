package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"collapse/internal/core"
	"collapse/internal/log"
	"collapse/internal/report"
)

// Exporter writes the monthly matrix to a Google Sheets tab
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// Ensure interface conformance
var _ report.Renderer = (*Exporter)(nil)

// NewExporter creates an Exporter authenticated with service account credentials.
func NewExporter(ctx context.Context, spreadsheetID, sheetName string, credentialsJSON []byte, logger *log.Logger) (*Exporter, error) {
	if len(credentialsJSON) == 0 {
		return nil, errors.New("missing service account credentials")
	}
	return newExporter(ctx, spreadsheetID, sheetName, logger,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

func newExporter(ctx context.Context, spreadsheetID, sheetName string, logger *log.Logger, opts ...goption.ClientOption) (*Exporter, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(log.ComponentSheets),
	}, nil
}

// LoadCredentials returns inline JSON when set, otherwise the content of file.
func LoadCredentials(inlineJSON, file string) ([]byte, error) {
	if s := strings.TrimSpace(inlineJSON); s != "" {
		return []byte(s), nil
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

// Render overwrites the sheet starting at A1 with the rows from BuildRows.
func (e *Exporter) Render(ctx context.Context, r core.Report) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rows, err := BuildRows(r)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("'%s'!A1", strings.ReplaceAll(e.sheetName, "'", "''"))
	vr := &gsheet.ValueRange{Values: rows}

	resp, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet %s: %w", e.sheetName, err)
	}

	e.logger.InfoContext(ctx, "Matrix exported to Google Sheets",
		log.FieldOperation, log.OpExport,
		"spreadsheet_id", e.spreadsheetID,
		"range", rng,
		"updated_cells", resp.UpdatedCells)

	return nil
}

// BuildRows lays out a report as sheet rows: a total line, a month header,
// then per category one line of averages and one of event counts.
func BuildRows(r core.Report) ([][]interface{}, error) {
	rows := make([][]interface{}, 0, 2+2*len(r.Categories))
	rows = append(rows, []interface{}{"Total événements", r.TotalEvents})

	header := []interface{}{"Catégorie", "Série"}
	for _, abbr := range core.MonthAbbreviations {
		header = append(header, abbr)
	}
	rows = append(rows, header)

	for _, c := range r.Categories {
		cells, ok := r.Matrix[c]
		if !ok {
			return nil, fmt.Errorf("export %s: category missing from matrix", c)
		}
		title := core.Display(c).Title

		averages := []interface{}{title, "Gravité Moyenne"}
		counts := []interface{}{title, "Événements"}
		for _, cell := range cells {
			averages = append(averages, cell.AverageSeverity)
			counts = append(counts, cell.EventCount)
		}
		rows = append(rows, averages, counts)
	}

	return rows, nil
}
