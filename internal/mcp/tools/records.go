package tools

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/kintone-mcp/internal/capture"
	"github.com/usestring/kintone-mcp/pkg/client"
	"github.com/usestring/kintone-mcp/pkg/types"
)

// MaxRecordsPerCall is the most records kintone accepts in one bulk call.
const MaxRecordsPerCall = 100

// WriteRecordsInput is the input for kintone_create_records and kintone_update_records.
type WriteRecordsInput struct {
	App     string           `json:"app" jsonschema:"required,Registered app name (see kintone_list_apps)"`
	Records []map[string]any `json:"records" jsonschema:"required,Records to send. Create: {field_code: {value: ...}}. Update: {id: 1, record: {field_code: {value: ...}}} or {updateKey: {...}, record: {...}}"`
}

// DeleteRecordsInput is the input for kintone_delete_records.
type DeleteRecordsInput struct {
	App string  `json:"app" jsonschema:"required,Registered app name (see kintone_list_apps)"`
	IDs []int64 `json:"ids" jsonschema:"required,Record ids to delete, in order (max 100, no duplicates)"`
}

// ToolCreateRecords creates records in one app.
func ToolCreateRecords(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input WriteRecordsInput) (*sdkmcp.CallToolResult, types.RecordResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input WriteRecordsInput) (*sdkmcp.CallToolResult, types.RecordResponse, error) {
		records, err := validateWrite(input)
		if err != nil {
			return nil, types.RecordResponse{}, err
		}
		out, err := d.call(input.App, capture.OpCreate, func() (*http.Response, error) {
			return d.Client.Create(ctx, input.App, records)
		})
		return nil, out, err
	}
}

// ToolUpdateRecords updates records in one app.
func ToolUpdateRecords(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input WriteRecordsInput) (*sdkmcp.CallToolResult, types.RecordResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input WriteRecordsInput) (*sdkmcp.CallToolResult, types.RecordResponse, error) {
		records, err := validateWrite(input)
		if err != nil {
			return nil, types.RecordResponse{}, err
		}
		out, err := d.call(input.App, capture.OpUpdate, func() (*http.Response, error) {
			return d.Client.Update(ctx, input.App, records)
		})
		return nil, out, err
	}
}

// ToolDeleteRecords deletes records by id from one app.
func ToolDeleteRecords(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input DeleteRecordsInput) (*sdkmcp.CallToolResult, types.RecordResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input DeleteRecordsInput) (*sdkmcp.CallToolResult, types.RecordResponse, error) {
		if input.App == "" {
			return nil, types.RecordResponse{}, ErrInvalidInput("app is required")
		}
		if err := ValidateIDs(input.IDs); err != nil {
			return nil, types.RecordResponse{}, err
		}
		out, err := d.call(input.App, capture.OpDelete, func() (*http.Response, error) {
			return d.Client.Destroy(ctx, input.App, input.IDs)
		})
		return nil, out, err
	}
}

// ValidateIDs rejects an empty, oversized, duplicated or non-positive id list.
func ValidateIDs(ids []int64) error {
	if len(ids) == 0 {
		return ErrInvalidInput("ids is required")
	}
	if len(ids) > MaxRecordsPerCall {
		return ErrInvalidInput(fmt.Sprintf("at most %d ids per call, got %d", MaxRecordsPerCall, len(ids)))
	}
	seen := roaring64.New()
	for i, id := range ids {
		if id <= 0 {
			return ErrInvalidInput(fmt.Sprintf("ids[%d]: record id must be positive, got %d", i, id))
		}
		if seen.Contains(uint64(id)) {
			return ErrInvalidInput(fmt.Sprintf("ids[%d]: duplicate record id %d", i, id))
		}
		seen.Add(uint64(id))
	}
	return nil
}

func validateWrite(input WriteRecordsInput) ([]client.Record, error) {
	if input.App == "" {
		return nil, ErrInvalidInput("app is required")
	}
	if len(input.Records) == 0 {
		return nil, ErrInvalidInput("records is required")
	}
	if len(input.Records) > MaxRecordsPerCall {
		return nil, ErrInvalidInput(fmt.Sprintf("at most %d records per call, got %d", MaxRecordsPerCall, len(input.Records)))
	}
	records := make([]client.Record, len(input.Records))
	for i, r := range input.Records {
		records[i] = client.Record(r)
	}
	return records, nil
}

// call runs one client operation and renders its response. Client errors
// become coded tool errors; any HTTP status is a normal result.
func (d *Deps) call(app, op string, fn func() (*http.Response, error)) (types.RecordResponse, error) {
	c, err := d.run(app, op, fn)
	if err != nil {
		return types.RecordResponse{}, err
	}
	return ToRecordResponse(c, d.Compact), nil
}

func (d *Deps) run(app, op string, fn func() (*http.Response, error)) (*capture.Captured, error) {
	resp, err := fn()
	if err != nil {
		return nil, WrapKintoneError(err)
	}
	c, err := d.Capture(resp, app, op)
	if err != nil {
		return nil, WrapKintoneError(err)
	}
	return c, nil
}
