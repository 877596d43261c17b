package testutil

import (
	"bytes"
	"encoding/json"
	"testing"

	api "commonui/pkg/contracts/api/v1"
)

// SampleTableRows returns three order rows. The second row omits "Total" and
// the third carries a key the first row does not have.
func SampleTableRows() []api.TableRow {
	return []api.TableRow{
		api.NewTableRow("Order", "A-100", "Customer", "Ann", "Total", "12.50"),
		api.NewTableRow("Order", "A-101", "Customer", "Bo"),
		api.NewTableRow("Order", "A-102", "Customer", "Cy", "Total", "7.00", "Note", "rush"),
	}
}

// SampleExportRequest returns a valid request over SampleTableRows
func SampleExportRequest(format string) api.ExportRequest {
	filename := "orders.xlsx"
	if format == "csv" {
		filename = "orders.csv"
	}
	return api.ExportRequest{
		TableData: SampleTableRows(),
		Filename:  filename,
		Format:    format,
	}
}

// MustJSON encodes v and fails the test on error
func MustJSON(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return bytes.NewReader(data)
}
