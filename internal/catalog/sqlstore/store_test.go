package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quantagraph/internal/catalog"
	"github.com/dshills/quantagraph/internal/errors"
	"github.com/dshills/quantagraph/internal/testutil"
)

const movies = `
statistics:
  total_nodes: 500
  label_selectivity: 0.1
  label_counts:
    Movie: 40
    Person: 300
  index_selectivities:
    Movie.title: 0.01
cardinality_overrides:
  id_seek: 2
  label:Person: 250
indexes:
  - label: Movie
    property: year
  - label: Person
    property: name
unique_indexes:
  - label: Movie
    property: title
known_labels: [Genre, Studio]
known_property_keys: [rating]
`

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "sqlite3://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func parse(t *testing.T, doc string) *catalog.Snapshot {
	t.Helper()
	snap, err := catalog.ParseSnapshot([]byte(doc))
	require.NoError(t, err)
	return snap
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	assert.Equal(t, "sqlite3", s.Driver())

	want := parse(t, movies)
	require.NoError(t, s.Save(ctx, "movies", want))

	got, err := s.Load(ctx, "movies")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// the loaded snapshot assigns the same ordinals
	wantCat, _ := testutil.MustBuild(t, want)
	gotCat, _ := testutil.MustBuild(t, got)
	assert.Equal(t, wantCat.Indexes(), gotCat.Indexes())
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	require.NoError(t, s.Save(ctx, "movies", parse(t, movies)))

	smaller := &catalog.Snapshot{
		Indexes: []catalog.IndexSpec{testutil.Index("Movie", "year")},
	}
	require.NoError(t, s.Save(ctx, "movies", smaller))

	got, err := s.Load(ctx, "movies")
	require.NoError(t, err)
	assert.Equal(t, smaller, got)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Save(ctx, "b", &catalog.Snapshot{}))
	require.NoError(t, s.Save(ctx, "a", parse(t, movies)))

	names, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, s.Delete(ctx, "a"))
	names, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)

	testutil.AssertErrorCode(t, s.Delete(ctx, "a"), errors.UndefinedSnapshot)
}

func TestLoadMissing(t *testing.T) {
	s := openMemory(t)
	_, err := s.Load(context.Background(), "nope")
	testutil.AssertErrorCode(t, err, errors.UndefinedSnapshot)
}

func TestSaveRequiresName(t *testing.T) {
	s := openMemory(t)
	err := s.Save(context.Background(), "", &catalog.Snapshot{})
	testutil.AssertErrorCode(t, err, errors.InvalidParameterValue)
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	dsn := "sqlite3://" + filepath.Join(dir, "catalog.db")

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "movies", parse(t, movies)))
	require.NoError(t, s.Close())

	s, err = Open(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "movies")
	require.NoError(t, err)
	assert.Equal(t, parse(t, movies), got)
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn    string
		driver string
		source string
	}{
		{"sqlite3://catalog.db", "sqlite3", "catalog.db"},
		{"sqlite://:memory:", "sqlite3", ":memory:"},
		{"file:catalog.db?cache=shared", "sqlite3", "file:catalog.db?cache=shared"},
		{"postgres://u:p@localhost/db", "postgres", "postgres://u:p@localhost/db"},
		{"postgresql://localhost/db", "postgres", "postgresql://localhost/db"},
	}
	for _, tt := range tests {
		driver, source, err := parseDSN(tt.dsn)
		require.NoError(t, err, tt.dsn)
		assert.Equal(t, tt.driver, driver, tt.dsn)
		assert.Equal(t, tt.source, source, tt.dsn)
	}

	_, _, err := parseDSN("mysql://localhost/db")
	testutil.AssertErrorCode(t, err, errors.FeatureNotSupported)

	_, err = Open(context.Background(), "catalog.db")
	testutil.AssertErrorCode(t, err, errors.InvalidParameterValue)
}

func TestRebind(t *testing.T) {
	q := `INSERT INTO t (a, b, c) VALUES (?, ?, ?)`
	assert.Equal(t, q, rebind(driverSQLite, q))
	assert.Equal(t, `INSERT INTO t (a, b, c) VALUES ($1, $2, $3)`, rebind(driverPostgres, q))
}

// TestPostgresRoundTrip runs against a live server when
// QUANTAGRAPH_TEST_POSTGRES_DSN is set.
func TestPostgresRoundTrip(t *testing.T) {
	dsn := os.Getenv("QUANTAGRAPH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("QUANTAGRAPH_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	want := parse(t, movies)
	require.NoError(t, s.Save(ctx, "sqlstore_test", want))
	defer s.Delete(ctx, "sqlstore_test") //nolint:errcheck

	got, err := s.Load(ctx, "sqlstore_test")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
