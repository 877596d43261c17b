package http

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"commonui/internal/config"
	apierrors "commonui/internal/errors"
	"commonui/internal/exporter"
	"commonui/internal/middleware"
	"commonui/internal/services"
	"commonui/internal/shared/testutil"
	"commonui/internal/titlecase"
	api "commonui/pkg/contracts/api/v1"
)

type mockExportService struct {
	mock.Mock
}

func (m *mockExportService) Export(ctx context.Context, req api.ExportRequest) (*exporter.Artifact, error) {
	args := m.Called(ctx, req)
	artifact, _ := args.Get(0).(*exporter.Artifact)
	return artifact, args.Error(1)
}

func (m *mockExportService) ResolveFormat(format string) string {
	if format == "" {
		return exporter.FormatXLSX
	}
	return format
}

func newExportRouter(t *testing.T, service ExportServiceInterface, maxBody int64) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	handler := NewExportHandler(service, middleware.NewValidator(), errorHandler, maxBody, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Mount("/export", handler.Routes())
	return r
}

func newRealService(t *testing.T) *services.ExportService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return services.NewExportService(config.Default().Export, nil, titlecase.NewCaser(), logger)
}

func postExport(t *testing.T, router http.Handler, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func problemType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem), rec.Body.String())
	typ, _ := problem["type"].(string)
	return typ
}

func TestExportHandler_XLSXDownload(t *testing.T) {
	router := newExportRouter(t, newRealService(t), 0)

	rec := postExport(t, router, "/export", testutil.MustJSON(t, testutil.SampleExportRequest("xlsx")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, exporter.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="orders.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Data")
	require.NoError(t, err)
	// header plus one row per tableData entry
	assert.Len(t, rows, len(testutil.SampleTableRows())+1)
	assert.Equal(t, []string{"Order", "Customer", "Total"}, rows[0])
}

func TestExportHandler_KeyOrderAndFormatOverride(t *testing.T) {
	router := newExportRouter(t, newRealService(t), 0)

	body := `{"tableData":[{"b":"1","a":"2"},{"a":"3","b":"4","c":"5"}],"filename":"pairs.csv"}`
	rec := postExport(t, router, "/export?format=csv", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, exporter.ContentTypeCSV, rec.Header().Get("Content-Type"))

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(rec.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"b", "a"}, {"1", "2"}, {"4", "3"}}, records)
}

func TestExportHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		maxBody  int64
		wantCode int
		wantType string
	}{
		{
			name:     "invalid json",
			target:   "/export",
			body:     `{"tableData":`,
			wantCode: http.StatusBadRequest,
			wantType: apierrors.TypeValidation,
		},
		{
			name:     "row is not an object",
			target:   "/export",
			body:     `{"tableData":[1],"filename":"x.xlsx"}`,
			wantCode: http.StatusBadRequest,
			wantType: apierrors.TypeInvalidRow,
		},
		{
			name:     "missing filename",
			target:   "/export",
			body:     `{"tableData":[{"a":"1"}]}`,
			wantCode: http.StatusBadRequest,
			wantType: apierrors.TypeValidation,
		},
		{
			name:     "filename with path",
			target:   "/export",
			body:     `{"tableData":[{"a":"1"}],"filename":"../x.xlsx"}`,
			wantCode: http.StatusBadRequest,
			wantType: apierrors.TypeValidation,
		},
		{
			name:     "unknown body format",
			target:   "/export",
			body:     `{"tableData":[{"a":"1"}],"filename":"x.pdf","format":"pdf"}`,
			wantCode: http.StatusBadRequest,
			wantType: apierrors.TypeValidation,
		},
		{
			name:     "unknown query format",
			target:   "/export?format=pdf",
			body:     `{"tableData":[{"a":"1"}],"filename":"x.pdf"}`,
			wantCode: http.StatusBadRequest,
			wantType: apierrors.TypeValidation,
		},
		{
			name:     "empty dataset",
			target:   "/export",
			body:     `{"tableData":[],"filename":"empty.xlsx"}`,
			wantCode: http.StatusUnprocessableEntity,
			wantType: apierrors.TypeEmptyDataset,
		},
		{
			name:     "duplicate columns",
			target:   "/export",
			body:     `{"tableData":[{"a":"1"}],"filename":"x.xlsx","columns":["a","a"]}`,
			wantCode: http.StatusBadRequest,
			wantType: apierrors.TypeValidation,
		},
		{
			name:     "body too large",
			target:   "/export",
			body:     `{"tableData":[{"a":"` + strings.Repeat("x", 256) + `"}],"filename":"x.xlsx"}`,
			maxBody:  64,
			wantCode: http.StatusRequestEntityTooLarge,
			wantType: apierrors.TypePayloadTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newExportRouter(t, newRealService(t), tt.maxBody)
			rec := postExport(t, router, tt.target, strings.NewReader(tt.body))

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantType, problemType(t, rec))
		})
	}
}

func TestExportHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantType string
	}{
		{"unsupported format", exporter.ErrUnsupportedFormat, http.StatusBadRequest, apierrors.TypeUnsupportedFormat},
		{"too many rows", exporter.ErrTooManyRows, http.StatusRequestEntityTooLarge, apierrors.TypeTooManyRows},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, apierrors.TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockExportService)
			svc.On("Export", mock.Anything, mock.MatchedBy(func(req api.ExportRequest) bool {
				return req.Filename == "orders.xlsx" && req.RowCount() == 3
			})).Return(nil, tt.err).Once()

			router := newExportRouter(t, svc, 0)
			rec := postExport(t, router, "/export", testutil.MustJSON(t, testutil.SampleExportRequest("xlsx")))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantType, problemType(t, rec))
			svc.AssertExpectations(t)
		})
	}
}

func TestExportHandler_UnsupportedMediaType(t *testing.T) {
	svc := new(mockExportService)
	router := newExportRouter(t, svc, 0)

	req := httptest.NewRequest(http.MethodPost, "/export", strings.NewReader("a,b"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	svc.AssertNotCalled(t, "Export", mock.Anything, mock.Anything)
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="Q3 report.xlsx"`, ContentDisposition("Q3 report.xlsx"))
}
