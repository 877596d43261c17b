// Package api contains API contract definitions for the table export service.
// Version v1 represents the current stable API version.
package api

// Export API Requests

// ExportRequest is the body of POST /export. TableData rows keep the key order
// they had in the JSON text, so the first row fixes the column order when
// Columns is empty.
type ExportRequest struct {
	TableData []TableRow `json:"tableData"`
	Filename  string     `json:"filename" validate:"required,max=255,filename"`
	Columns   []string   `json:"columns,omitempty" validate:"omitempty,unique,dive,required"`
	Format    string     `json:"format,omitempty" validate:"omitempty,oneof=xlsx csv"`
}

// RowCount returns the number of table rows in the request
func (r *ExportRequest) RowCount() int {
	return len(r.TableData)
}
