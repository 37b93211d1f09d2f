package fetch

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ErrWatchlistNotFound is returned when the watchlist file does not exist.
var ErrWatchlistNotFound = errors.New("watchlist not found")

// Watchlist reads one ticker per line from path. Lines are trimmed and
// upper-cased; blank lines, lines starting with # and repeats are skipped.
func Watchlist(path string) ([]string, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrWatchlistNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening watchlist: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading watchlist: %w", err)
	}
	return Symbols(lines), nil
}
