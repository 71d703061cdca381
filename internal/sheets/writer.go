package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/seralys/inciwise/internal/common"
	"github.com/seralys/inciwise/internal/storage"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer exports categorization runs to a Google Sheets spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter validates config and builds an authenticated Sheets client.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

// Write exports a run and its results to the configured spreadsheet. The
// sheet is cleared first, so repeated exports of the same run replace the
// previous report rather than appending to it.
func (w *Writer) Write(ctx context.Context, run *storage.Run, results []storage.Result) error {
	w.logger.Info("starting spreadsheet export",
		"run_id", run.ID,
		"source", run.Source,
		"results", len(results))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := w.buildReportRows(run, results)

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, len(values))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic, the data is already written
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("spreadsheet export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	tokenSource, err := tokenSourceFor(ctx, config)
	if err != nil {
		return nil, err
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// tokenSourceFor picks service-account auth when a key path is set and
// the refresh-token OAuth2 flow otherwise.
func tokenSourceFor(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		return jwtConfig.TokenSource(ctx), nil
	}

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}

	token := &oauth2.Token{
		RefreshToken: config.RefreshToken,
		TokenType:    "Bearer",
	}

	return oauthConfig.TokenSource(ctx, token), nil
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: "Products",
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// confidenceStat accumulates per-category confidence figures.
type confidenceStat struct {
	sum   float64
	min   float64
	max   float64
	count int
}

// buildReportRows lays the report out as one tab: title, run summary,
// category breakdown and confidence stats over effective categories, then
// per-product rows in dataset order.
func (w *Writer) buildReportRows(run *storage.Run, results []storage.Result) [][]any {
	reviewed := 0
	breakdown := make(map[string]int)
	stats := make(map[string]*confidenceStat)
	for i := range results {
		r := &results[i]
		if r.ManualCategory != "" {
			reviewed++
		}

		category := r.FinalCategory()
		breakdown[category]++

		// Error rows carry no meaningful confidence
		if r.Error != "" {
			continue
		}
		st, ok := stats[category]
		if !ok {
			st = &confidenceStat{min: r.Confidence, max: r.Confidence}
			stats[category] = st
		}
		st.sum += r.Confidence
		st.count++
		if r.Confidence < st.min {
			st.min = r.Confidence
		}
		if r.Confidence > st.max {
			st.max = r.Confidence
		}
	}

	estimatedRows := 18 + 2*len(breakdown) + len(results)
	values := make([][]any, 0, estimatedRows)

	values = append(values,
		[]any{
			"Product Categorization Report",
			fmt.Sprintf("%s, %s", run.Source, run.StartedAt.Format("Jan 2, 2006")),
		},
		[]any{}, // Empty row
		[]any{"Summary"},
		[]any{"Total Products", run.TotalProducts},
		[]any{"Processed", run.Processed},
		[]any{"Errors", run.Errors},
		[]any{"Flagged for Review", run.Flagged},
		[]any{"Manually Reviewed", reviewed},
		[]any{}, // Empty row
		[]any{"Category Breakdown"},
		[]any{"Category", "Count"},
	)

	// Sort categories by count (descending), name breaking ties
	categories := make([]string, 0, len(breakdown))
	for category := range breakdown {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if breakdown[categories[i]] != breakdown[categories[j]] {
			return breakdown[categories[i]] > breakdown[categories[j]]
		}
		return categories[i] < categories[j]
	})

	for _, category := range categories {
		values = append(values, []any{category, breakdown[category]})
	}

	values = append(values,
		[]any{}, // Empty row
		[]any{"Confidence by Category"},
		[]any{"Category", "Avg", "Min", "Max"},
	)

	for _, category := range categories {
		st, ok := stats[category]
		if !ok {
			continue
		}
		values = append(values, []any{
			category,
			fmt.Sprintf("%.3f", st.sum/float64(st.count)),
			fmt.Sprintf("%.3f", st.min),
			fmt.Sprintf("%.3f", st.max),
		})
	}

	values = append(values,
		[]any{}, // Empty row
		[]any{}, // Empty row
		[]any{"Product Details"},
		[]any{
			"Brand",
			"Title",
			"Category",
			"Confidence",
			"Method",
			"Flagged",
			"Notes",
		})

	for i := range results {
		r := &results[i]

		flagged := ""
		if r.Flagged {
			flagged = "yes"
		}

		notes := r.Error
		switch {
		case r.ManualCategory != "" && r.ManualCategory != r.Category:
			notes = fmt.Sprintf("reviewed, was %s", r.Category)
		case r.ManualCategory != "":
			notes = "reviewed"
		}

		values = append(values, []any{
			r.Brand,
			r.Title,
			r.FinalCategory(),
			fmt.Sprintf("%.3f", r.Confidence),
			r.Reasoning,
			flagged,
			notes,
		})
	}

	return values
}

// writeData pushes rows in BatchSize chunks to stay under API limits.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for start := 0; start < len(values); start += w.config.BatchSize {
		end := start + w.config.BatchSize
		if end > len(values) {
			end = len(values)
		}

		batch := &sheets.ValueRange{Values: values[start:end]}

		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, fmt.Sprintf("A%d", start+1), batch).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", start+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", start+1, "rows", end-start)
	}

	return nil
}

// boldCells builds a formatting request that bolds the given range.
func boldCells(startRow, endRow, startCol, endCol int64, fontSize int64) *sheets.Request {
	format := &sheets.TextFormat{Bold: true}
	if fontSize > 0 {
		format.FontSize = fontSize
	}

	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          0,
				StartRowIndex:    startRow,
				EndRowIndex:      endRow,
				StartColumnIndex: startCol,
				EndColumnIndex:   endCol,
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{TextFormat: format},
			},
			Fields: "userEnteredFormat.textFormat",
		},
	}
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, totalRows int) error {
	requests := []*sheets.Request{
		// Title row, then the section and label column
		boldCells(0, 1, 0, 2, 16),
		boldCells(2, int64(totalRows), 0, 1, 0),
		// Confidence column as fixed-point numbers
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    0,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: 3,
					EndColumnIndex:   4,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    "NUMBER",
							Pattern: "0.000",
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   7,
				},
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: 0,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 2,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).Context(ctx).Do()
	return err
}
