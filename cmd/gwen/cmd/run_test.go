package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwen-io/gwen/pkg/ast"
)

func TestSplitNonEmptyTrimsAndDropsBlanks(t *testing.T) {
	assert.Equal(t, []string{"@smoke", "~@wip"}, splitNonEmpty(" @smoke ,~@wip"))
	assert.Nil(t, splitNonEmpty(""))
}

func TestPassingStatuses(t *testing.T) {
	for _, s := range []ast.Status{ast.Passed, ast.Skipped, ast.Sustained, ast.Loaded} {
		assert.True(t, Passing(s), s.String())
	}
	for _, s := range []ast.Status{ast.Failed, ast.Pending, ast.Disabled} {
		assert.False(t, Passing(s), s.String())
	}
}

func TestFinalStatusUnsetUntilARunCompletes(t *testing.T) {
	finalStatus = nil
	_, ok := FinalStatus()
	assert.False(t, ok)
}

func TestInitWorkingDirScaffoldsExpectedLayout(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, initWorkingDir(dir))

	assert.DirExists(t, filepath.Join(dir, "features"))
	assert.DirExists(t, filepath.Join(dir, "meta"))
	assert.FileExists(t, filepath.Join(dir, "features", "sample.feature"))
	assert.FileExists(t, filepath.Join(dir, "gwen.yaml"))
}

func TestInitWorkingDirDoesNotOverwriteExistingSample(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "features"), 0o755))
	samplePath := filepath.Join(dir, "features", "sample.feature")
	require.NoError(t, os.WriteFile(samplePath, []byte("custom content"), 0o644))

	require.NoError(t, initWorkingDir(dir))

	content, err := os.ReadFile(samplePath)
	require.NoError(t, err)
	assert.Equal(t, "custom content", string(content))
}
