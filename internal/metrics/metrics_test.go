package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/sieve/internal/model"
)

func TestPartitionsStartAtZero(t *testing.T) {
	r := NewRecorder()
	assert.Equal(t, len(model.Partitions()), testutil.CollectAndCount(r.partitions))
	assert.Zero(t, testutil.ToFloat64(r.partitions.WithLabelValues("final-good")))
}

func TestAddPartition(t *testing.T) {
	r := NewRecorder()
	r.AddPartition(model.PartitionFinalGood, 81)
	r.AddPartition(model.PartitionIsoRemoved, 10)
	r.AddPartition(model.PartitionIsoRemoved, 0)
	r.AddPartition(model.PartitionIsoRemoved, -3)

	assert.Equal(t, 81.0, testutil.ToFloat64(r.partitions.WithLabelValues("final-good")))
	assert.Equal(t, 10.0, testutil.ToFloat64(r.partitions.WithLabelValues("iso-removed")))
}

func TestObserveStage(t *testing.T) {
	r := NewRecorder()
	r.ObserveStage("enrich", 20*time.Millisecond)
	r.ObserveStage("enrich", 30*time.Millisecond)

	var m dto.Metric
	require.NoError(t, r.stages.WithLabelValues("enrich").(interface{ Write(*dto.Metric) error }).Write(&m))
	assert.Equal(t, uint64(2), m.GetHistogram().GetSampleCount())
	assert.InDelta(t, 0.05, m.GetHistogram().GetSampleSum(), 1e-9)
}

func TestMarkRun(t *testing.T) {
	r := NewRecorder()
	r.MarkRun(time.Unix(1700000000, 0))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(r.lastRun))
}

func TestPush(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		body, _ := io.ReadAll(req.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRecorder()
	r.AddPartition(model.PartitionRuleBad, 3)
	require.NoError(t, r.Push(context.Background(), srv.URL, "sieve"))
	assert.Equal(t, "/metrics/job/sieve", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestPushFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewRecorder().Push(context.Background(), srv.URL, "sieve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics: push")
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sieve.prom")
	r := NewRecorder()
	r.AddPartition(model.PartitionLOFRemoved, 9)
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `sieve_partition_records_total{partition="lof-removed"} 9`)
	assert.Contains(t, text, "# TYPE sieve_last_run_timestamp_seconds gauge")
	assert.False(t, strings.Contains(text, ".tmp"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is cleaned up")
}
