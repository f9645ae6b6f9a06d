package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/comboforge-cli/internal/store"
	"github.com/KaramelBytes/comboforge-cli/internal/table"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTable() *table.ComboTable {
	return &table.ComboTable{
		AttrColumns: []string{"AGE_RANGE", "GENDER"},
		Rows: []table.ComboRow{
			{Rank: 1, ComboSize: 2, Visitors: 1000, Purchasers: 80, Conversion: 8, MinVisitors: 40,
				Attrs: map[string]string{"AGE_RANGE": "25-34", "GENDER": "F"}},
			{Rank: 2, ComboSize: 2, Visitors: 900, Purchasers: 36, Conversion: 4, MinVisitors: 40,
				Attrs: map[string]string{"AGE_RANGE": "18-24", "GENDER": "M"}},
		},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, store.Upload{
		Filename: "orders.csv",
		Format:   "shopify",
		RowCount: 2,
		Hash:     store.ContentHash([]byte("orders")),
		Table:    sampleTable(),
	})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "orders.csv", got.Filename)
	require.Equal(t, "shopify", got.Format)
	require.Len(t, got.Table.Rows, 2)
	require.Equal(t, []string{"AGE_RANGE", "GENDER"}, got.Table.AttrColumns)
	require.Equal(t, 1000, got.Table.Rows[0].Visitors)
	require.Equal(t, 8.0, got.Table.Rows[0].Conversion)
	require.Equal(t, "25-34", got.Table.Rows[0].Attr("AGE_RANGE"))
}

func TestSaveDeduplicatesByHash(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	hash := store.ContentHash([]byte("same bytes"))

	first, err := s.Save(ctx, store.Upload{Filename: "a.csv", Format: "combo", Hash: hash, Table: sampleTable()})
	require.NoError(t, err)
	second, err := s.Save(ctx, store.Upload{Filename: "copy-of-a.csv", Format: "combo", Hash: hash, Table: sampleTable()})
	require.NoError(t, err)
	require.Equal(t, first, second)

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"one.csv", "two.csv", "three.csv"} {
		_, err := s.Save(ctx, store.Upload{
			Filename: name,
			Format:   "combo",
			Hash:     store.ContentHash([]byte(name)),
			Table:    sampleTable(),
		})
		require.NoError(t, err)
	}

	list, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "three.csv", list[0].Filename)
	require.Equal(t, "two.csv", list[1].Filename)
}

func TestDeleteAndNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, store.Upload{Filename: "a.csv", Format: "combo", Table: sampleTable()})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	require.ErrorIs(t, s.Delete(ctx, id), store.ErrNotFound)

	_, err = s.Load(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestContentHashStable(t *testing.T) {
	a := store.ContentHash([]byte("payload"))
	b := store.ContentHash([]byte("payload"))
	c := store.ContentHash([]byte("other"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 64)
}
