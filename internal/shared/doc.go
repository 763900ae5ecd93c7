// Package shared holds helpers used by more than one package.
//
// The testutil subpackage captures slog output in memory so tests can assert
// on log records, and provides product fixtures shared by service and
// transport tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewCatalogService(store, catalog.IDPolicyLenient, logger)
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelInfo, "product created")
package shared
