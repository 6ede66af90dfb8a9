// Package inputfile reads the flat text files consumed by the batch IAM
// tool: one entry per line, # comments and blank lines skipped.
package inputfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadLines returns the meaningful lines of the file, trimmed. A file with
// no entries is an error: an empty roles or projects list almost always
// means the operator pointed at the wrong file.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input file %s: %w", path, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("input file %s contains no entries", path)
	}
	return lines, nil
}
