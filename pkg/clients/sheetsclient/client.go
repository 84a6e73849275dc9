package sheetsclient

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jakechorley/ward-roster/internal/config"
	"github.com/jakechorley/ward-roster/pkg/utils"
)

// Values are written exactly as given, so codes like "D(OT)" are never parsed as formulas
const rawInput = "RAW"

// Client is a thin wrapper over the Sheets values and batch-update APIs
type Client struct {
	service *sheets.Service
	token   *oauth2.Token
	ctx     context.Context
}

// NewClient authorizes against Google for env and returns a Sheets client.
// The token also carries the Gmail scope so gmailclient can be built from Token().
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, env string) (*Client, error) {
	httpClient, token, err := utils.AuthorizedClient(ctx, oauthCfg, env)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{service: service, token: token, ctx: ctx}, nil
}

// Token returns the OAuth token used by this client
func (c *Client) Token() *oauth2.Token {
	return c.token
}

// GetValues reads a range in A1 notation. A bare tab name reads the whole tab.
func (c *Client) GetValues(spreadsheetID, a1Range string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, a1Range).Context(c.ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values from %s: %w", a1Range, err)
	}
	return resp.Values, nil
}

// AppendRows adds rows after the last non-empty row of the range
func (c *Client) AppendRows(spreadsheetID, a1Range string, rows [][]interface{}) error {
	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, a1Range, valueRange(rows)).
		ValueInputOption(rawInput).
		Context(c.ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows to %s: %w", a1Range, err)
	}
	return nil
}

// UpdateValues overwrites cells starting at the top-left of the range
func (c *Client) UpdateValues(spreadsheetID, a1Range string, rows [][]interface{}) error {
	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, a1Range, valueRange(rows)).
		ValueInputOption(rawInput).
		Context(c.ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update values in %s: %w", a1Range, err)
	}
	return nil
}

// ClearValues empties a range, keeping its formatting
func (c *Client) ClearValues(spreadsheetID, a1Range string) error {
	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, a1Range, &sheets.ClearValuesRequest{}).
		Context(c.ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", a1Range, err)
	}
	return nil
}

// CreateSheet adds a tab and returns its numeric sheet ID
func (c *Client) CreateSheet(spreadsheetID, title string) (int64, error) {
	batch := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}},
		}},
	}

	resp, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, batch).Context(c.ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to create tab %s: %w", title, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, errors.New("add sheet reply missing from batch update response")
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// ListSheets returns tab titles in spreadsheet order
func (c *Client) ListSheets(spreadsheetID string) ([]string, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(c.ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list tabs: %w", err)
	}

	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		titles = append(titles, sheet.Properties.Title)
	}
	return titles, nil
}

func valueRange(rows [][]interface{}) *sheets.ValueRange {
	return &sheets.ValueRange{Values: rows}
}
