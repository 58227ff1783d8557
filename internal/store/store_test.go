package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/sieve/internal/model"
)

// memStore is an in-process backend registered under memtest://.
type memStore struct {
	mu      sync.Mutex
	colls   map[string][]model.Document
	failing bool
	closed  int
}

var mem = &memStore{colls: map[string][]model.Document{}}

func init() {
	Register("memtest", func(context.Context, string) (Store, error) { return mem, nil })
	Register("brokentest", func(context.Context, string) (Store, error) {
		return nil, errors.New("connection refused")
	})
}

func (m *memStore) Load(_ context.Context, db, coll string, query model.Document, limit int) ([]model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errors.New("query failed")
	}
	var out []model.Document
	for _, d := range m.colls[db+"/"+coll] {
		if v, ok := query["lang"]; ok && d["lang"] != v {
			continue
		}
		cp := model.Document{}
		for k, v := range d {
			cp[k] = v
		}
		out = append(out, cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) Save(_ context.Context, db, coll string, docs []model.Document) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return 0, errors.New("write failed")
	}
	m.colls[db+"/"+coll] = append(m.colls[db+"/"+coll], docs...)
	return len(docs), nil
}

func (m *memStore) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

func reset(t *testing.T) {
	t.Helper()
	mem.mu.Lock()
	mem.colls = map[string][]model.Document{}
	mem.failing = false
	mem.closed = 0
	mem.mu.Unlock()
}

func TestScheme(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{"mongodb://localhost:27017", "mongodb", false},
		{"MongoDB+SRV://cluster.example.net", "mongodb+srv", false},
		{"sqlite:///tmp/x.db", "sqlite", false},
		{"sqlite://:memory:", "sqlite", false},
		{"localhost:27017", "", true},
		{"://host", "", true},
		{"mongodb://", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := Scheme(tt.uri)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidURI, tt.uri)
			continue
		}
		require.NoError(t, err, tt.uri)
		assert.Equal(t, tt.want, got)
	}
}

func TestRegistry(t *testing.T) {
	_, err := Get("memtest")
	assert.NoError(t, err)
	_, err = Get("MEMTEST")
	assert.NoError(t, err)
	_, err = Get("carrier-pigeon")
	assert.Error(t, err)
	assert.Contains(t, Schemes(), "memtest")
}

func TestLoadDropsIdentityAndHonoursLimit(t *testing.T) {
	reset(t)
	ctx := context.Background()
	mem.colls["raw/snippets"] = []model.Document{
		{"_id": "1", "content": "a", "lang": "python"},
		{"_id": "2", "content": "b", "lang": "go"},
		{"_id": "3", "content": "c", "lang": "python"},
	}

	docs := Load(ctx, "memtest://local", "raw", "snippets", nil, 0)
	require.Len(t, docs, 3)
	for _, d := range docs {
		assert.NotContains(t, d, model.IdentityKey)
	}

	assert.Len(t, Load(ctx, "memtest://local", "raw", "snippets", nil, 2), 2)
	assert.Len(t, Load(ctx, "memtest://local", "raw", "snippets", model.Document{"lang": "python"}, 0), 2)
	assert.Equal(t, 3, mem.closed)
}

func TestLoadNeverFails(t *testing.T) {
	reset(t)
	ctx := context.Background()

	for _, uri := range []string{"not a uri", "carrier-pigeon://x", "brokentest://down"} {
		docs := Load(ctx, uri, "raw", "snippets", nil, 0)
		assert.NotNil(t, docs, uri)
		assert.Empty(t, docs, uri)
	}

	assert.Empty(t, Load(ctx, "memtest://local", "raw", "missing", nil, 0))

	mem.failing = true
	assert.Empty(t, Load(ctx, "memtest://local", "raw", "snippets", nil, 0))
}

func TestSaveSanitizesAndStripsIdentity(t *testing.T) {
	reset(t)
	ctx := context.Background()
	docs := []model.Document{
		{"_id": "x", "content": "a", "score": math.NaN(), "nested": map[string]any{"v": math.Inf(1), "ok": 1.5}},
		{"content": "b", "list": []any{math.Inf(-1), 2.0}},
	}

	n := Save(ctx, docs, "memtest://local", "out", "good")
	assert.Equal(t, 2, n)

	saved := mem.colls["out/good"]
	require.Len(t, saved, 2)
	assert.Equal(t, model.Document{"content": "a", "score": nil, "nested": map[string]any{"v": nil, "ok": 1.5}}, saved[0])
	assert.Equal(t, model.Document{"content": "b", "list": []any{nil, 2.0}}, saved[1])

	assert.Equal(t, "x", docs[0]["_id"], "caller documents are not modified")
	assert.True(t, math.IsNaN(docs[0]["score"].(float64)))
}

func TestSaveEmptyIsNoop(t *testing.T) {
	reset(t)
	assert.Zero(t, Save(context.Background(), nil, "memtest://local", "out", "good"))
	assert.Zero(t, mem.closed, "no connection opened")
}

func TestSaveFailuresReturnZero(t *testing.T) {
	reset(t)
	ctx := context.Background()
	docs := []model.Document{{"content": "a"}}

	assert.Zero(t, Save(ctx, docs, "brokentest://down", "out", "good"))
	assert.Zero(t, Save(ctx, docs, "nonsense", "out", "good"))

	mem.failing = true
	assert.Zero(t, Save(ctx, docs, "memtest://local", "out", "good"))
}

func TestSaveAppends(t *testing.T) {
	reset(t)
	ctx := context.Background()
	docs := []model.Document{{"content": "a"}}
	Save(ctx, docs, "memtest://local", "out", "good")
	Save(ctx, docs, "memtest://local", "out", "good")
	assert.Len(t, mem.colls["out/good"], 2)
}

func TestSanitizeDocument(t *testing.T) {
	in := model.Document{
		"f32":    float32(math.NaN()),
		"series": []float64{1, math.NaN()},
		"doc":    model.Document{"x": math.Inf(1)},
		"s":      "keep",
		"i":      3,
	}
	assert.Equal(t, model.Document{
		"f32":    nil,
		"series": []any{1.0, nil},
		"doc":    model.Document{"x": nil},
		"s":      "keep",
		"i":      3,
	}, SanitizeDocument(in))
}

func TestBoundaryLogsToContextLogger(t *testing.T) {
	reset(t)
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	assert.Empty(t, Load(ctx, "brokentest://down", "raw", "snippets", nil, 0))
	assert.Zero(t, Save(ctx, []model.Document{{"content": "a"}}, "brokentest://down", "out", "good"))

	out := buf.String()
	assert.Contains(t, out, "stage=load")
	assert.Contains(t, out, "stage=save")
	assert.Contains(t, out, "store unavailable")
	assert.Contains(t, out, "collection=snippets")
}

func TestWithLoggerNilKeepsDefault(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithLogger(ctx, nil))
	assert.Equal(t, slog.Default(), loggerFrom(ctx))
}
