package mocks

import (
	"context"

	"jobsync/core/sheets"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of sheets.Client
type Client struct {
	mock.Mock
}

func (m *Client) ListSheets(ctx context.Context) ([]sheets.SheetInfo, error) {
	args := m.Called(ctx)
	if infos, ok := args.Get(0).([]sheets.SheetInfo); ok {
		return infos, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) GetSheet(ctx context.Context, sheetID int64) (*sheets.Sheet, error) {
	args := m.Called(ctx, sheetID)
	if sheet, ok := args.Get(0).(*sheets.Sheet); ok {
		return sheet, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) UpdateRows(ctx context.Context, sheetID int64, rows []sheets.RowUpdate) error {
	args := m.Called(ctx, sheetID, rows)
	return args.Error(0)
}

func (m *Client) AddRows(ctx context.Context, sheetID int64, rows []sheets.NewRow) error {
	args := m.Called(ctx, sheetID, rows)
	return args.Error(0)
}

func (m *Client) CopySheet(ctx context.Context, sourceID int64, newName string) (int64, error) {
	args := m.Called(ctx, sourceID, newName)
	return args.Get(0).(int64), args.Error(1)
}
