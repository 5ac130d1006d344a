package stream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestAssembleFindsFeatureFilesSortedByPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.feature"), "Feature: b")
	writeFile(t, filepath.Join(root, "a.feature"), "Feature: a")

	suites, err := Assemble([]string{root}, "")
	require.NoError(t, err)
	require.Len(t, suites, 1)
	require.Len(t, suites[0].Units, 2)
	assert.Contains(t, suites[0].Units[0].FeatureFile, "a.feature")
	assert.Contains(t, suites[0].Units[1].FeatureFile, "b.feature")
}

func TestMetaInheritanceIsParentBeforeChild(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "root.meta"), "")
	writeFile(t, filepath.Join(root, "sub", "child.meta"), "")
	writeFile(t, filepath.Join(root, "sub", "f.feature"), "Feature: f")

	suites, err := Assemble([]string{root}, "")
	require.NoError(t, err)
	require.Len(t, suites[0].Units, 1)
	meta := suites[0].Units[0].MetaFiles
	require.Len(t, meta, 2)
	assert.Contains(t, meta[0], "root.meta")
	assert.Contains(t, meta[1], "child.meta")
}

func TestAmbiguousDataFileWithoutExplicitOverride(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "f.feature"), "Feature: f")
	writeFile(t, filepath.Join(root, "a.csv"), "name\nalice\n")
	writeFile(t, filepath.Join(root, "b.json"), "[]")

	_, err := Assemble([]string{root}, "")
	assert.Error(t, err)
}

func TestExplicitDataFileWinsOverAmbiguity(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "f.feature"), "Feature: f")
	writeFile(t, filepath.Join(root, "a.csv"), "name\nalice\n")
	writeFile(t, filepath.Join(root, "b.json"), "[]")
	explicit := filepath.Join(root, "explicit.csv")
	writeFile(t, explicit, "name\ncarol\n")

	suites, err := Assemble([]string{root}, explicit)
	require.NoError(t, err)
	require.Len(t, suites[0].Units, 1)
	assert.Equal(t, "carol", suites[0].Units[0].DataRecord["name"])
}

func TestOneUnitPerDataRecord(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "f.feature"), "Feature: f")
	writeFile(t, filepath.Join(root, "data.csv"), "name\nalice\nbob\n")

	suites, err := Assemble([]string{root}, "")
	require.NoError(t, err)
	require.Len(t, suites[0].Units, 2)
	assert.Equal(t, "alice", suites[0].Units[0].DataRecord["name"])
	assert.Equal(t, "bob", suites[0].Units[1].DataRecord["name"])
}

func TestNoDataFileYieldsSingleUnitWithoutRecord(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "f.feature"), "Feature: f")

	suites, err := Assemble([]string{root}, "")
	require.NoError(t, err)
	require.Len(t, suites[0].Units, 1)
	assert.False(t, suites[0].Units[0].HasDataRecord)
}
