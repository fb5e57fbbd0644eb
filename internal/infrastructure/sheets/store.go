package sheets

import (
	"context"
	"fmt"
	"os"

	"github.com/qurtubah/treasury/internal/domain/shared"
	"github.com/qurtubah/treasury/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// RowStore is the positional record store contract. Positions are 1-based
// over the data rows, excluding the header; deleting a row shifts every
// subsequent position up by one.
type RowStore interface {
	ListRows(ctx context.Context) ([][]string, error)
	AppendRow(ctx context.Context, row []string) error
	UpdateRow(ctx context.Context, position int, row []string) error
	DeleteRow(ctx context.Context, position int) error
}

// headerRow is the fixed column layout of the payments sheet (A through S).
var headerRow = []string{
	"ID",
	"Supplier Name",
	"Amount",
	"Payment Date",
	"Description",
	"Quotation Number",
	"Purchase Order Number",
	"Includes VAT",
	"VAT Amount",
	"Total Amount",
	"Is Settled",
	"Settlement Amount",
	"Settlement Date",
	"Settlement Notes",
	"Payment Type",
	"Expense Category",
	"Payment Method",
	"Line Items",
	"Created At",
}

const lastColumn = "S"

// Store is a Google Sheets backed RowStore. The spreadsheet handle is
// resolved once at construction (found by title or created with a seeded
// header row) and reused by reference for the life of the process.
type Store struct {
	service       *sheets.Service
	spreadsheetID string
	sheetID       int64
	sheetName     string
	logger        *zap.Logger
}

// NewStore authenticates with the service account key, locates the
// spreadsheet by title (creating it with headers when absent) and returns a
// ready store.
func NewStore(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Store, error) {
	creds, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	client := jwtConfig.Client(ctx)

	service, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	driveService, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	store := &Store{
		service:   service,
		sheetName: cfg.SheetName,
		logger:    logger,
	}
	if err := store.resolveSpreadsheet(ctx, driveService, cfg.SpreadsheetTitle); err != nil {
		return nil, err
	}

	return store, nil
}

// resolveSpreadsheet finds the spreadsheet by title or creates it with the
// header row seeded.
func (s *Store) resolveSpreadsheet(ctx context.Context, driveService *drive.Service, title string) error {
	query := fmt.Sprintf("name='%s' and mimeType='application/vnd.google-apps.spreadsheet' and trashed=false", title)
	list, err := driveService.Files.List().Q(query).Fields("files(id, name)").Spaces("drive").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to search for spreadsheet: %w", err)
	}

	if len(list.Files) > 0 {
		s.spreadsheetID = list.Files[0].Id
		s.logger.Info("Found existing spreadsheet", zap.String("spreadsheet_id", s.spreadsheetID))
		return s.resolveSheetID(ctx)
	}

	created, err := s.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: s.sheetName}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create spreadsheet: %w", err)
	}
	s.spreadsheetID = created.SpreadsheetId
	s.logger.Info("Created new spreadsheet", zap.String("spreadsheet_id", s.spreadsheetID))

	if err := s.resolveSheetID(ctx); err != nil {
		return err
	}

	return s.writeHeader(ctx)
}

func (s *Store) resolveSheetID(ctx context.Context) error {
	spreadsheet, err := s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to load spreadsheet metadata: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == s.sheetName {
			s.sheetID = sheet.Properties.SheetId
			return nil
		}
	}
	return fmt.Errorf("sheet %q not found in spreadsheet %s", s.sheetName, s.spreadsheetID)
}

func (s *Store) writeHeader(ctx context.Context) error {
	values := make([]interface{}, len(headerRow))
	for i, h := range headerRow {
		values[i] = h
	}
	_, err := s.service.Spreadsheets.Values.Update(
		s.spreadsheetID,
		fmt.Sprintf("%s!A1:%s1", s.sheetName, lastColumn),
		&sheets.ValueRange{Values: [][]interface{}{values}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	return nil
}

// ListRows returns every data row below the header
func (s *Store) ListRows(ctx context.Context) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(
		s.spreadsheetID,
		fmt.Sprintf("%s!A2:%s", s.sheetName, lastColumn),
	).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: list rows: %v", shared.ErrStore, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// AppendRow adds one data row after the last occupied row
func (s *Store) AppendRow(ctx context.Context, row []string) error {
	_, err := s.service.Spreadsheets.Values.Append(
		s.spreadsheetID,
		fmt.Sprintf("%s!A:%s", s.sheetName, lastColumn),
		&sheets.ValueRange{Values: [][]interface{}{toInterfaces(row)}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: append row: %v", shared.ErrStore, err)
	}
	return nil
}

// UpdateRow overwrites the data row at the given 1-based position
func (s *Store) UpdateRow(ctx context.Context, position int, row []string) error {
	sheetRow := position + 1 // skip header
	_, err := s.service.Spreadsheets.Values.Update(
		s.spreadsheetID,
		fmt.Sprintf("%s!A%d:%s%d", s.sheetName, sheetRow, lastColumn, sheetRow),
		&sheets.ValueRange{Values: [][]interface{}{toInterfaces(row)}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: update row %d: %v", shared.ErrStore, position, err)
	}
	return nil
}

// DeleteRow removes the data row at the given 1-based position, shifting
// subsequent rows up
func (s *Store) DeleteRow(ctx context.Context, position int) error {
	_, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    s.sheetID,
						Dimension:  "ROWS",
						StartIndex: int64(position), // 0-based, header occupies index 0
						EndIndex:   int64(position) + 1,
					},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: delete row %d: %v", shared.ErrStore, position, err)
	}
	return nil
}

func toInterfaces(row []string) []interface{} {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}
	return values
}
