package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larderhq/larder/pkg/types"
)

func testRecipe(name string) types.Recipe {
	rating := 4.0
	return types.Recipe{
		Name:          name,
		DatePublished: "2019-11-20",
		Description:   "Slow-braised comfort food",
		Rating:        &rating,
		PrepTime:      "00:20",
		CookTime:      "02:30",
		Ingredients:   []string{"beef", "stock", "thyme"},
		Instructions:  []string{"sear", "braise", "rest"},
		Nutrition:     types.Nutrition{ServingSize: "250g", Calories: 610},
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "larder.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	s := newStore(t)

	// An empty store lists cleanly, proving the table exists.
	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "larder.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)

	created, err := s.Create(ctx, testRecipe("Persistent"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening must keep existing rows.
	s2, err := Open(ctx, path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	want := testRecipe("Braised beef")
	created, err := s.Create(ctx, want)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)

	want.ID = created.ID
	assert.Equal(t, want, got)
}

func TestNilRatingRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	r := testRecipe("Unrated")
	r.Rating = nil
	created, err := s.Create(ctx, r)
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Rating)
}

func TestCreateSuppliedIDCollision(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	r := testRecipe("First")
	r.ID = "fixed-id"
	_, err := s.Create(ctx, r)
	require.NoError(t, err)

	dup := testRecipe("Second")
	dup.ID = "fixed-id"
	_, err = s.Create(ctx, dup)
	assert.ErrorIs(t, err, types.ErrAlreadyExists)
}

func TestCreateDuplicateAcrossHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "larder.db")
	ctx := context.Background()

	a, err := Open(ctx, path)
	require.NoError(t, err)
	defer a.Close()
	b, err := Open(ctx, path)
	require.NoError(t, err)
	defer b.Close()

	r := testRecipe("First")
	r.ID = "shared-id"
	_, err = a.Create(ctx, r)
	require.NoError(t, err)

	// The second handle never saw the first insert; the primary key
	// constraint is what surfaces the duplicate.
	dup := testRecipe("Second")
	dup.ID = "shared-id"
	_, err = b.Create(ctx, dup)
	assert.ErrorIs(t, err, types.ErrAlreadyExists)
}

func TestGetNotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestUpdateReplacesRow(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, testRecipe("Original"))
	require.NoError(t, err)

	replacement := testRecipe("Replaced")
	replacement.Rating = nil
	replacement.Instructions = []string{"microwave"}

	updated, err := s.Update(ctx, created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Replaced", got.Name)
	assert.Nil(t, got.Rating)
	assert.Equal(t, []string{"microwave"}, got.Instructions)
}

func TestUpdateNotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.Update(context.Background(), "missing", testRecipe("X"))
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDeleteThenGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, testRecipe("Ephemeral"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))

	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, created.ID), types.ErrNotFound)
}

func TestListReturnsAllOrdered(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	const n = 6
	for i := 0; i < n; i++ {
		_, err := s.Create(ctx, testRecipe(fmt.Sprintf("Recipe %d", i)))
		require.NoError(t, err)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
	for _, r := range all {
		got, err := s.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
}

func TestPurge(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Create(ctx, testRecipe(fmt.Sprintf("R%d", i)))
		require.NoError(t, err)
	}

	require.NoError(t, s.Purge(ctx))

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCloseIsIdempotent(t *testing.T) {
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "larder.db"))
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
