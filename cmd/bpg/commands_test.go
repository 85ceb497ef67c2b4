package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/blueprint/internal/config"
	"github.com/matsen/blueprint/internal/graph"
	"github.com/matsen/blueprint/internal/storage"
)

// setupTestRepository runs bpg init in a temp directory with an empty
// global config and returns the repository root.
func setupTestRepository(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv(EnvRedisURL, "")
	config.ResetGlobalConfigCache()
	t.Cleanup(config.ResetGlobalConfigCache)
	t.Chdir(root)

	runBPG(t, "init")
	return root
}

func runBPG(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), "bpg %v", args)
}

func withRepository(t *testing.T, root string, fn func(r *storage.Repository)) {
	t.Helper()
	kv, err := storage.OpenSQLite(config.DBPath(root))
	require.NoError(t, err)
	defer kv.Close()
	fn(storage.NewRepository(kv))
}

func TestConnectThenRemoveNode(t *testing.T) {
	root := setupTestRepository(t)

	withRepository(t, root, func(r *storage.Repository) {
		require.NoError(t, r.SaveNodes("Combat", []graph.Node{
			{ID: "start", Type: graph.TypeBeginPlay, Title: "BeginPlay"},
			{ID: "attack", Type: graph.TypeFunction, Title: "Attack", X: 400},
		}))
	})

	runBPG(t, "--edit", "-g", "Combat", "connect", "start.out_exec", "attack.in_exec")

	withRepository(t, root, func(r *storage.Repository) {
		snap, err := r.LoadGraph("Combat")
		require.NoError(t, err)
		require.Len(t, snap.Connections, 1)
		c := snap.Connections[0]
		assert.Equal(t, "start", c.From)
		assert.Equal(t, graph.PinOutExec, c.FromPin)
		assert.Equal(t, "attack", c.To)
		assert.Equal(t, graph.PinInExec, c.ToPin)
	})

	runBPG(t, "--edit", "-g", "Combat", "node", "rm", "attack")

	withRepository(t, root, func(r *storage.Repository) {
		snap, err := r.LoadGraph("Combat")
		require.NoError(t, err)
		require.Len(t, snap.Nodes, 1)
		assert.Equal(t, "start", snap.Nodes[0].ID)
		assert.Empty(t, snap.Connections, "removing a node drops its wires")
	})
}

func TestConnectReversedArgumentsStoresOutputFirst(t *testing.T) {
	root := setupTestRepository(t)

	withRepository(t, root, func(r *storage.Repository) {
		require.NoError(t, r.SaveNodes("Combat", []graph.Node{
			{ID: "start", Type: graph.TypeBeginPlay, Title: "BeginPlay"},
			{ID: "attack", Type: graph.TypeFunction, Title: "Attack", X: 400},
		}))
	})

	runBPG(t, "--edit", "-g", "Combat", "connect", "attack.in_exec", "start.out_exec")

	withRepository(t, root, func(r *storage.Repository) {
		snap, err := r.LoadGraph("Combat")
		require.NoError(t, err)
		require.Len(t, snap.Connections, 1)
		assert.Equal(t, "start", snap.Connections[0].From)
		assert.Equal(t, "attack", snap.Connections[0].To)
	})
}
