package buildcontext

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

const DockerIgnoreFilename = ".dockerignore"

// ignoreRules holds the .dockerignore patterns of a context directory. The
// raw patterns are handed to the archiver, the compiled matcher filters the
// files a document names explicitly.
type ignoreRules struct {
	patterns []string
	matcher  *ignore.GitIgnore
}

func loadIgnore(path string) (*ignoreRules, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return &ignoreRules{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &ignoreRules{
		patterns: patterns,
		matcher:  ignore.CompileIgnoreLines(patterns...),
	}, nil
}

func (r *ignoreRules) ignored(rel string) bool {
	if r.matcher == nil {
		return false
	}
	return r.matcher.MatchesPath(filepath.ToSlash(rel))
}
