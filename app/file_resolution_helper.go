package app

import "github.com/ludo-technologies/pyblocks/domain"

// ResolveFilePaths expands paths into the Python files to analyze. When every
// path already names an existing Python file the list is returned unchanged,
// otherwise directories are walked with the given filters.
func ResolveFilePaths(
	fileReader domain.FileReader,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	allFiles := len(paths) > 0
	for _, path := range paths {
		if !fileReader.IsValidPythonFile(path) {
			allFiles = false
			break
		}
		exists, err := fileReader.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}
	if allFiles {
		return paths, nil
	}

	return fileReader.CollectPythonFiles(paths, recursive, includePatterns, excludePatterns)
}
