package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/quartermaster/internal/repository"
	"github.com/alexanderramin/quartermaster/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNetwork = `
recipes:
  - name: Salvage
    category: resource
  - name: BMAT
    category: refined
    recipes:
      - inputs: {Salvage: 2}
        outputs: {BMAT: 1}
        using: Refinery
        cycle_time: 60

production:
  nodes:
    - id: mine
      name: Salvage Mine
      category: resource
    - id: refinery
      name: Refinery
      category: refined
  edges:
    - source: mine
      target: refinery

inventory:
  nodes:
    - id: depot_1
      name: Front Depot
      status: critical
      inventory: {rifle: 10}
      delta: {rifle: 40}
    - id: front_1
      name: Front Line
      status: ok
  routes:
    - source: depot_1
      target: front_1
      allowed_items: [rifle]
`

// testApp wires an App against a network file in a temp dir. The cache is
// left nil unless the test attaches one.
func testApp(t *testing.T) *App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testNetwork), 0o644))
	return &App{NetworkPath: path}
}

// executeCmd runs a cobra command and captures cobra-rendered output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "quartermaster")
}

func TestResolveCmd_InvalidAmount(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "resolve", "BMAT", "lots")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "positive number")
}

func TestResolveCmd_MissingNetworkFile(t *testing.T) {
	app := &App{NetworkPath: filepath.Join(t.TempDir(), "absent.yaml")}

	_, err := executeCmd(t, app, "resolve", "BMAT", "10")
	assert.Error(t, err)
}

func TestResolveCmd_Resolves(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "resolve", "BMAT", "10")
	require.NoError(t, err)
}

func TestResolveCmd_CachedWritesThrough(t *testing.T) {
	app := testApp(t)
	app.Cache = repository.NewSQLiteResolutionCache(testutil.NewTestDB(t))

	_, err := executeCmd(t, app, "resolve", "BMAT", "10", "--cached")
	require.NoError(t, err)

	res, err := app.Cache.Get(context.Background(), "BMAT", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 20.0, res.Materials["Salvage"])

	// Second run hits the cache.
	_, err = executeCmd(t, app, "resolve", "BMAT", "10", "--cached")
	require.NoError(t, err)
}

func TestChainCmd_InvalidAmount(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "chain", "BMAT", "-3")
	assert.Error(t, err)
}

func TestRecommendCmd_Runs(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "recommend", "--top", "3")
	require.NoError(t, err)
}

func TestReportAndSummaryCmds_Run(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "report")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "summary")
	require.NoError(t, err)
}

func TestAnalyzeCmd_UnknownNode(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "analyze", "nowhere")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no task mapped")
}

func TestAnalyzeCmd_MappedNode(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "analyze", "refinery")
	require.NoError(t, err)
}

func TestApp_MemoizesNetworkAndIntegrators(t *testing.T) {
	app := testApp(t)

	net1, err := app.Network()
	require.NoError(t, err)
	net2, err := app.Network()
	require.NoError(t, err)
	assert.Same(t, net1, net2)

	g1, o1, err := app.Integrators()
	require.NoError(t, err)
	require.NotNil(t, g1)
	require.NotNil(t, o1)

	g2, _, err := app.Integrators()
	require.NoError(t, err)
	assert.Same(t, g1, g2)
}
