package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"productapi/internal/catalog"
	"productapi/internal/exporter"
	"productapi/internal/infrastructure"
	"productapi/internal/shared/testutil"
)

func newTestService(t *testing.T, policy catalog.IDPolicy, opts ...CatalogOption) (*CatalogService, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	return NewCatalogService(testutil.NewSampleStore(), policy, logger, opts...), logs
}

func TestCatalogService_List(t *testing.T) {
	svc, _ := newTestService(t, catalog.IDPolicyLenient)

	got := svc.List(context.Background())
	assert.Equal(t, testutil.SampleRecords(), got)
	assert.Equal(t, 3, svc.Count())

	got[0].Name = "mutated"
	assert.Equal(t, "desk", svc.List(context.Background())[0].Name)
}

func TestCatalogService_Get(t *testing.T) {
	tests := []struct {
		name    string
		policy  catalog.IDPolicy
		rawID   string
		want    catalog.Record
		wantErr error
	}{
		{"existing id", catalog.IDPolicyLenient, "11", catalog.Record{ID: 11, Name: "chair", Price: 120.5}, nil},
		{"missing id", catalog.IDPolicyLenient, "99", catalog.Record{}, catalog.ErrNotFound},
		{"malformed id lenient", catalog.IDPolicyLenient, "abc", catalog.Record{}, catalog.ErrNotFound},
		{"malformed id strict", catalog.IDPolicyStrict, "abc", catalog.Record{}, catalog.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, tt.policy)

			got, err := svc.Get(context.Background(), tt.rawID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogService_Update(t *testing.T) {
	t.Run("applies present fields and publishes", func(t *testing.T) {
		pub := &MockEventPublisher{}
		pub.On("Publish", mock.Anything, EventProductUpdated, catalog.Record{ID: 10, Name: "desk", Price: 0}).Return(nil)

		svc, logs := newTestService(t, catalog.IDPolicyLenient, WithPublisher(pub))

		got, err := svc.Update(context.Background(), "10", catalog.Patch{Price: testutil.FloatPtr(0)})
		require.NoError(t, err)
		assert.Equal(t, catalog.Record{ID: 10, Name: "desk", Price: 0}, got)
		pub.AssertExpectations(t)
		testutil.AssertLogContains(t, logs, slog.LevelInfo, "product updated")
	})

	t.Run("missing id leaves the store alone", func(t *testing.T) {
		pub := &MockEventPublisher{}
		svc, _ := newTestService(t, catalog.IDPolicyLenient, WithPublisher(pub))

		_, err := svc.Update(context.Background(), "99", catalog.Patch{Name: testutil.StrPtr("x")})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
		assert.Equal(t, testutil.SampleRecords(), svc.List(context.Background()))
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty patch returns the record without an event", func(t *testing.T) {
		pub := &MockEventPublisher{}
		svc, logs := newTestService(t, catalog.IDPolicyLenient, WithPublisher(pub))

		got, err := svc.Update(context.Background(), "11", catalog.Patch{})
		require.NoError(t, err)
		assert.Equal(t, catalog.Record{ID: 11, Name: "chair", Price: 120.5}, got)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		for _, r := range logs.GetRecordsByLevel(slog.LevelInfo) {
			assert.NotEqual(t, "product updated", r.Message)
		}

		_, err = svc.Update(context.Background(), "99", catalog.Patch{})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("strict policy rejects malformed id", func(t *testing.T) {
		svc, _ := newTestService(t, catalog.IDPolicyStrict)

		_, err := svc.Update(context.Background(), "1x", catalog.Patch{})
		assert.ErrorIs(t, err, catalog.ErrInvalidInput)
	})
}

func TestCatalogService_Delete(t *testing.T) {
	t.Run("removes and publishes", func(t *testing.T) {
		pub := &MockEventPublisher{}
		pub.On("Publish", mock.Anything, EventProductDeleted, DeletedEvent{ID: "11", Remaining: 2}).Return(nil)

		svc, _ := newTestService(t, catalog.IDPolicyLenient, WithPublisher(pub))

		remaining, err := svc.Delete(context.Background(), "11")
		require.NoError(t, err)
		assert.Len(t, remaining, 2)
		pub.AssertExpectations(t)
	})

	t.Run("unknown id is a silent no-op", func(t *testing.T) {
		pub := &MockEventPublisher{}
		svc, _ := newTestService(t, catalog.IDPolicyLenient, WithPublisher(pub))

		remaining, err := svc.Delete(context.Background(), "nope")
		require.NoError(t, err)
		assert.Equal(t, testutil.SampleRecords(), remaining)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("strict policy rejects malformed id", func(t *testing.T) {
		svc, _ := newTestService(t, catalog.IDPolicyStrict)

		_, err := svc.Delete(context.Background(), "nope")
		assert.ErrorIs(t, err, catalog.ErrInvalidInput)
		assert.Equal(t, 3, svc.Count())
	})
}

func TestCatalogService_Create(t *testing.T) {
	pub := &MockEventPublisher{}
	pub.On("Publish", mock.Anything, EventProductCreated, mock.Anything).Return(errors.New("hub closed"))

	svc, logs := newTestService(t, catalog.IDPolicyLenient, WithPublisher(pub))

	// duplicates of an existing id are accepted
	rec := catalog.Record{ID: 10, Name: "second desk", Price: 310}
	got := svc.Create(context.Background(), rec)

	assert.Equal(t, rec, got)
	assert.Equal(t, 4, svc.Count())
	assert.Equal(t, rec, svc.List(context.Background())[3])
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "failed to publish product event")
}

func TestCatalogService_Metrics(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	svc := NewCatalogService(testutil.NewSampleStore(), catalog.IDPolicyLenient, logger,
		WithMetrics(metrics), WithTracer(providers.Tracer))

	svc.List(context.Background())
	_, _ = svc.Get(context.Background(), "404")

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `catalog_operations_total`)
	assert.Contains(t, body, `outcome="not_found"`)
	assert.Contains(t, body, `operation="list"`)
}

func TestCatalogService_Export(t *testing.T) {
	svc, _ := newTestService(t, catalog.IDPolicyLenient)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf, exporter.FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{exporter.SheetName}, f.GetSheetList())

	rows, err := f.GetRows(exporter.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"ID", "Name", "Price"}, rows[0])
	assert.Equal(t, []string{"10", "desk", "300"}, rows[1])
	assert.Equal(t, []string{"11", "chair", "120.5"}, rows[2])
}

func TestCatalogService_ExportCSV(t *testing.T) {
	svc, logs := newTestService(t, catalog.IDPolicyLenient)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf, exporter.FormatCSV))

	assert.Contains(t, buf.String(), "ID,Name,Price\n10,desk,300.00\n")
	assert.True(t, logs.ContainsMessage("products exported"))
}

func TestCatalogService_ExportUnsupported(t *testing.T) {
	svc, _ := newTestService(t, catalog.IDPolicyLenient)

	err := svc.Export(context.Background(), io.Discard, exporter.Format("pdf"))
	assert.ErrorIs(t, err, ErrExportFailed)
}

func TestCatalogService_ConcurrentCreates(t *testing.T) {
	svc, _ := newTestService(t, catalog.IDPolicyLenient)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc.Create(context.Background(), catalog.Record{ID: 100 + i, Name: "bulk", Price: 1})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 53, svc.Count())
}
