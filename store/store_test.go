package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

type doc struct {
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	s, err := New(t.TempDir())
	assert.NoError(t, err)

	entry, err := s.Save("prediction", "SH600000", doc{Symbol: "SH600000", Value: 10.5})
	assert.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "prediction", entry.Kind)
	assert.Equal(t, "SH600000", entry.Key)

	var got doc
	assert.NoError(t, s.Load(entry, &got))
	assert.Equal(t, doc{Symbol: "SH600000", Value: 10.5}, got)
}

func TestStoreListFilters(t *testing.T) {
	t.Parallel()

	s, err := New(t.TempDir())
	assert.NoError(t, err)

	_, err = s.Save("prediction", "SH600000", doc{})
	assert.NoError(t, err)
	_, err = s.Save("prediction", "SZ000001", doc{})
	assert.NoError(t, err)
	_, err = s.Save("screen", "banking", doc{})
	assert.NoError(t, err)

	all, err := s.List("", "")
	assert.NoError(t, err)
	assert.Len(t, all, 3)

	preds, err := s.List("prediction", "")
	assert.NoError(t, err)
	assert.Len(t, preds, 2)

	one, err := s.List("prediction", "SH600000")
	assert.NoError(t, err)
	assert.Len(t, one, 1)
	assert.Equal(t, "SH600000", one[0].Key)

	none, err := s.List("backtest", "")
	assert.NoError(t, err)
	assert.Empty(t, none)
}

func TestStoreIndexSurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	s, err := New(dir)
	assert.NoError(t, err)
	entry, err := s.Save("prediction", "SH600000", doc{Value: 1})
	assert.NoError(t, err)

	reopened, err := New(dir)
	assert.NoError(t, err)

	entries, err := reopened.List("prediction", "SH600000")
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)

	var got doc
	assert.NoError(t, reopened.Load(entries[0], &got))
	assert.InDelta(t, 1.0, got.Value, 1e-9)
}

func TestStoreCorruptIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := New(dir)
	assert.NoError(t, err)

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte("{not json"), 0o644))

	_, err = s.List("", "")
	assert.Error(t, err)
}
