package moderation

import (
	"bufio"
	"os"
	"strings"

	"partyverse/errors"
)

// LoadWords reads a banned-word list, one word per line. Blank lines and
// lines starting with '#' are skipped. An empty result is an error: a censor
// built over zero patterns silently censors nothing.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.ErrEmptyWords
	}
	return words, nil
}
