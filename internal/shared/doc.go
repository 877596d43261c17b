// Package shared provides common test helpers used across the commonui codebase.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler, a slog.Handler that records every log call so tests
//     can assert on messages, levels and group-qualified attributes
//   - Export fixtures: sample table rows and export requests
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    svc := services.NewExportService(cfg.Export, resolver.New(), titlecase.NewCaser(), logger)
//
//	    _, err := svc.Export(ctx, testutil.SampleExportRequest("xlsx"))
//	    require.NoError(t, err)
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "export completed")
//	}
package shared
