package scan

import (
	"fmt"
	"slices"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandGlobs turns file paths and glob patterns into a sorted list of files
// without duplicates. "**" matches any number of directories and only files
// are returned. A pattern matching nothing is kept as a literal path so that
// opening it reports the missing file.
func ExpandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}

	sort.Strings(files)
	return slices.Compact(files), nil
}
