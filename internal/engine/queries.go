package engine

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadQueries reads a UTF-8 queries file, one query per line, blank lines
// ignored. The file format carries no category; a query loaded this way
// always has an empty Category.
func LoadQueries(path string) ([]Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("engine: open queries file %q: %w", path, err)
	}
	defer f.Close()

	var queries []Query
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		queries = append(queries, Query{Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("engine: read queries file %q: %w", path, err)
	}

	return queries, nil
}
