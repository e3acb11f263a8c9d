package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quantagraph/internal/catalog"
	"github.com/dshills/quantagraph/internal/testutil"
)

// execute runs the CLI with args and returns stdout and the exit code.
func execute(t *testing.T, args ...string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), GetExitCode(err)
}

func assertGolden(t *testing.T, name, output string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(output))
}

func TestGoldenOutput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{
			name: "plan",
			args: []string{"plan", "--catalog", "testdata/catalog.yaml", "testdata/workload.yaml"},
			code: ExitSuccess,
		},
		{
			name: "candidates",
			args: []string{"candidates", "--catalog", "testdata/catalog.yaml", "testdata/workload.yaml"},
			code: ExitSuccess,
		},
		{
			name: "plan_failing",
			args: []string{"plan", "--catalog", "testdata/catalog.yaml", "testdata/failing.yaml"},
			code: ExitFailure,
		},
		{
			name: "plan_malformed",
			args: []string{"plan", "--catalog", "testdata/catalog.yaml", "testdata/malformed.yaml"},
			code: ExitCommandError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code := execute(t, tt.args...)
			assert.Equal(t, tt.code, code)
			assertGolden(t, tt.name, out)
		})
	}
}

func TestPlanJSON(t *testing.T) {
	out, code := execute(t, "plan", "--format", "json",
		"--catalog", "testdata/catalog.yaml", "testdata/workload.yaml")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Status string     `json:"status"`
		Data   PlanReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "movies", resp.Data.Workload)
	assert.Equal(t, 0, resp.Data.Failed)
	require.Len(t, resp.Data.Items, 4)

	p := resp.Data.Items[0]
	assert.Equal(t, "NodeIndexSeek", p.Operator)
	assert.Equal(t, []string{"Filter(p.born = 1964)", "  NodeIndexSeek(p:Person(name) = 'Keanu')"}, p.Plan)
	assert.Equal(t, "20", p.Rows)
	assert.Equal(t, []string{"p.born = 1964"}, p.Residual)

	r := resp.Data.Items[2]
	assert.Equal(t, "directed relationship", r.Kind)
	assert.Equal(t, "2", r.Rows)

	x := resp.Data.Items[3]
	assert.True(t, x.Hinted)
	assert.Empty(t, x.Rows)
}

func TestFailingPlanJSON(t *testing.T) {
	out, code := execute(t, "plan", "--format", "json",
		"--catalog", "testdata/catalog.yaml", "testdata/failing.yaml")
	require.Equal(t, ExitFailure, code)

	var resp struct {
		Data PlanReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.Data.Failed)
	require.NotNil(t, resp.Data.Items[0].Error)
	assert.Equal(t, "42N51", resp.Data.Items[0].Error.Code)
	assert.NotEmpty(t, resp.Data.Items[0].Error.Detail)
	assert.Equal(t, "XX0P1", resp.Data.Items[1].Error.Code)
	assert.NotEmpty(t, resp.Data.Items[1].Error.Hint)
}

func TestCandidatesJSON(t *testing.T) {
	out, code := execute(t, "candidates", "--format", "json",
		"--catalog", "testdata/catalog.yaml", "testdata/workload.yaml")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Data PlanReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	cands := resp.Data.Items[1].Candidates
	require.Len(t, cands, 4)
	assert.Equal(t, "50", cands[1].Rows)
	assert.False(t, cands[2].Chosen)
	assert.Equal(t, "20", cands[2].Rows)
	assert.True(t, cands[3].Chosen)
	assert.Equal(t, []string{"m:Movie", "m.title IN ['Alien', 'Heat']"}, cands[3].Solves)
	assert.Equal(t, []string{}, cands[0].Solves)
}

func TestPlanWithoutCatalog(t *testing.T) {
	// With an empty catalog only scans are available.
	out, code := execute(t, "plan", "testdata/workload.yaml")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "NodeByLabelScan(p:Person)\nrows: 200")
}

func TestMissingWorkload(t *testing.T) {
	out, code := execute(t, "plan", "testdata/nope.yaml")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, out, "Error [58030]")
}

func TestConfigFile(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	cfg := filepath.Join(dir, "leafplan.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("statistics:\n  index_selectivity: 0.5\n"), 0o644))

	// Person.name now estimates 500 rows, above the 300 of the label scan.
	out, code := execute(t, "plan", "--config", cfg,
		"--catalog", "testdata/catalog.yaml", "testdata/workload.yaml")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Filter(p.name = 'Keanu' AND p.born = 1964)\n  NodeByLabelScan(p:Person)\nrows: 300")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("runner:\n  workers: -1\n"), 0o644))
	out, code = execute(t, "plan", "--config", bad, "testdata/workload.yaml")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, out, "Error [F0000]")
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	dsn := "sqlite3://" + filepath.Join(dir, "catalog.db")

	out, code := execute(t, "snapshot", "import", "--dsn", dsn, "--snapshot", "movies", "testdata/catalog.yaml")
	require.Equal(t, ExitSuccess, code, out)
	assert.Equal(t, "imported snapshot \"movies\" (1 indexes, 1 unique)\n", out)

	out, code = execute(t, "snapshot", "list", "--dsn", dsn)
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "movies\n", out)

	out, code = execute(t, "snapshot", "export", "--dsn", dsn, "--snapshot", "movies")
	require.Equal(t, ExitSuccess, code)
	exported, err := catalog.ParseSnapshot([]byte(out))
	require.NoError(t, err)
	original, err := catalog.LoadSnapshot("testdata/catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, original, exported)

	file := filepath.Join(dir, "exported.yaml")
	_, code = execute(t, "snapshot", "export", "--dsn", dsn, "--snapshot", "movies", "-o", file)
	require.Equal(t, ExitSuccess, code)
	fromFile, err := catalog.LoadSnapshot(file)
	require.NoError(t, err)
	assert.Equal(t, original, fromFile)

	// Planning from the store matches planning from the file.
	out, code = execute(t, "plan", "--dsn", dsn, "--snapshot", "movies", "testdata/workload.yaml")
	require.Equal(t, ExitSuccess, code)
	assertGolden(t, "plan", out)

	out, code = execute(t, "snapshot", "export", "--dsn", dsn, "--snapshot", "missing")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, out, "Error [42N56]")
}

func TestSnapshotRequiresStore(t *testing.T) {
	out, code := execute(t, "snapshot", "list")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, out, "no snapshot store configured")
}

func TestFeaturesCommand(t *testing.T) {
	t.Setenv("QUANTAGRAPH_FEATURE_UNIQUE_INDEX_DOMINANCE", "true")

	out, code := execute(t, "features", "--format", "json")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Data FeatureList `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Features, 4)
	assert.Equal(t, "collection_erosion", resp.Data.Features[0].Name)

	var dominance FeatureState
	for _, f := range resp.Data.Features {
		if f.Name == "unique_index_dominance" {
			dominance = f
		}
	}
	assert.True(t, dominance.Enabled)
	assert.True(t, dominance.Overridden)

	out, code = execute(t, "features")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Feature Flags:")
}
