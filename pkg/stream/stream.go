// Package stream assembles Gwen's Feature Stream (spec.md §4.F): user paths
// (files or directories) are walked into Suites of FeatureUnits, each
// carrying its inherited .meta files and, if a data file sits alongside it,
// one FeatureUnit per data record.
package stream

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/gerr"
)

// Suite is the set of FeatureUnits discovered under one input path, in the
// order spec.md §4.F requires: directory contents sorted deterministically
// by path.
type Suite struct {
	Root  string
	Units []ast.Unit
}

// Assemble walks every entry of paths, in the order given (inputs listed
// explicitly preserve order), and returns one Suite per input path.
// explicitDataFile, if non-empty, always wins over any data file found
// alongside a feature file.
func Assemble(paths []string, explicitDataFile string) ([]Suite, error) {
	suites := make([]Suite, 0, len(paths))
	for _, p := range paths {
		suite, err := assembleOne(p, explicitDataFile)
		if err != nil {
			return nil, err
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

func assembleOne(root, explicitDataFile string) (Suite, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Suite{}, gerr.Wrap(gerr.IO, err, "failed to stat input path %s", root)
	}

	if !info.IsDir() {
		units, err := unitsForFeatureFile(root, nil, explicitDataFile)
		if err != nil {
			return Suite{}, err
		}
		return Suite{Root: root, Units: units}, nil
	}

	dirMeta, featureFiles, err := walkTree(root)
	if err != nil {
		return Suite{}, err
	}

	var units []ast.Unit
	for _, featureFile := range featureFiles {
		inherited := inheritedMeta(root, filepath.Dir(featureFile), dirMeta)
		fileUnits, err := unitsForFeatureFile(featureFile, inherited, explicitDataFile)
		if err != nil {
			return Suite{}, err
		}
		units = append(units, fileUnits...)
	}
	return Suite{Root: root, Units: units}, nil
}

// walkTree collects every .feature file (sorted by path) and, per
// directory, the .meta files it directly contains.
func walkTree(root string) (map[string][]string, []string, error) {
	dirMeta := make(map[string][]string)
	var featureFiles []string

	err := filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".feature":
			featureFiles = append(featureFiles, path)
		case ".meta":
			dir := filepath.Dir(path)
			dirMeta[dir] = append(dirMeta[dir], path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, gerr.Wrap(gerr.IO, err, "failed to walk %s", root)
	}

	sort.Strings(featureFiles)
	for dir := range dirMeta {
		sort.Strings(dirMeta[dir])
	}
	return dirMeta, featureFiles, nil
}

// inheritedMeta returns the union of .meta files on the path from root down
// to dir, parent directories before child directories (spec.md §4.F).
func inheritedMeta(root, dir string, dirMeta map[string][]string) []string {
	var chain []string
	for d := dir; ; d = filepath.Dir(d) {
		chain = append([]string{d}, chain...)
		if d == root || d == "." || d == string(filepath.Separator) {
			break
		}
		if !strings.HasPrefix(d, root) {
			break
		}
	}

	var metas []string
	for _, d := range chain {
		metas = append(metas, dirMeta[d]...)
	}
	return metas
}
