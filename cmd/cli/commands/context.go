package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/ward-roster/internal/config"
	"github.com/jakechorley/ward-roster/pkg/clients/gmailclient"
	"github.com/jakechorley/ward-roster/pkg/clients/sheetsclient"
	"github.com/jakechorley/ward-roster/pkg/db"
	"github.com/jakechorley/ward-roster/pkg/postgres"
	"github.com/jakechorley/ward-roster/pkg/sheetssql"
)

// AppContext holds the application dependencies shared across all commands.
// Google clients are created on first use so offline commands never authenticate.
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database *postgres.DB
	Logger   *zap.Logger
	Ctx      context.Context

	oauthCfg     *config.OAuthClientConfig
	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
	holidayDB    *db.DB
	archiveDB    *db.DB
}

func (app *AppContext) oauth() (*config.OAuthClientConfig, error) {
	if app.oauthCfg != nil {
		return app.oauthCfg, nil
	}

	app.Logger.Info("Loading OAuth client configuration")
	cfg, err := config.LoadOAuthClientWithEnv(app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}
	app.oauthCfg = cfg
	return cfg, nil
}

// Sheets returns the Google Sheets client, authenticating on first use
func (app *AppContext) Sheets() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	oauthCfg, err := app.oauth()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.Logger.Debug("Sheets client initialized successfully")

	app.sheetsClient = client
	return client, nil
}

// Gmail returns the Gmail client, reusing the sheets client's token.
// Without gmailSender, mail goes out from the authorized account's default address.
func (app *AppContext) Gmail() (*gmailclient.Client, error) {
	if app.gmailClient != nil {
		return app.gmailClient, nil
	}
	sheets, err := app.Sheets()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing gmail client")
	client, err := gmailclient.NewClient(app.Ctx, app.oauthCfg, sheets.Token(), app.Cfg.GmailSender)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	app.Logger.Debug("Gmail client initialized successfully")

	app.gmailClient = client
	return client, nil
}

// HolidaySheet returns the holiday calendar sheet, or nil when none is configured
func (app *AppContext) HolidaySheet() (db.HolidaySource, error) {
	if app.Cfg.HolidaySheetID == "" {
		return nil, nil
	}
	if app.holidayDB == nil {
		sheetDB, err := app.openSheetDB(app.Cfg.HolidaySheetID, db.PublicHoliday{})
		if err != nil {
			return nil, err
		}
		app.holidayDB = sheetDB
	}
	return app.holidayDB, nil
}

// SettlementArchive returns the export archive in the settlement sheet
func (app *AppContext) SettlementArchive() (db.SettlementArchive, error) {
	if app.Cfg.SettlementSheetID == "" {
		return nil, fmt.Errorf("settlementSheetID is not configured")
	}
	if app.archiveDB == nil {
		sheetDB, err := app.openSheetDB(app.Cfg.SettlementSheetID, db.SettlementExport{})
		if err != nil {
			return nil, err
		}
		app.archiveDB = sheetDB
	}
	return app.archiveDB, nil
}

// openSheetDB connects a spreadsheet as a table store holding the given models.
// A spreadsheet shared by the holiday calendar and the archive holds every model.
func (app *AppContext) openSheetDB(spreadsheetID string, models ...interface{}) (*db.DB, error) {
	if app.Cfg.HolidaySheetID != "" && app.Cfg.HolidaySheetID == app.Cfg.SettlementSheetID {
		models = db.Models()
	}

	sheets, err := app.Sheets()
	if err != nil {
		return nil, err
	}

	schema, err := sheetssql.SchemaFromModels(models...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet schema: %w", err)
	}
	app.Logger.Debug("Sheet schema created", zap.Int("tables", len(schema.Tables)))

	app.Logger.Info("Connecting to spreadsheet", zap.String("spreadsheet_id", spreadsheetID))
	ssqlDB, err := sheetssql.NewDB(sheets, spreadsheetID, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize spreadsheet: %w", err)
	}

	return db.NewDB(ssqlDB), nil
}
