package validator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// BanList is an immutable set of upper-cased banned words.
type BanList struct {
	words []string
}

// NewBanList builds a ban list from arbitrary words.
// Words are trimmed and upper-cased, blanks and duplicates are dropped.
func NewBanList(words ...string) BanList {
	seen := make(map[string]struct{}, len(words))
	list := BanList{words: make([]string, 0, len(words))}

	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		list.words = append(list.words, w)
	}

	return list
}

// LoadBanList reads a ban list with one word per line.
// A missing file is not an error: the returned list is empty.
func LoadBanList(path string) (BanList, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("path", path).Msg("Ban list not found, banned word filter disabled")
		return BanList{}, nil
	}
	if err != nil {
		return BanList{}, fmt.Errorf("open ban list: %w", err)
	}
	defer func() { _ = file.Close() }()

	list, err := ReadBanList(file)
	if err != nil {
		return BanList{}, fmt.Errorf("read ban list %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("words", list.Len()).Msg("Ban list loaded")

	return list, nil
}

// ReadBanList parses a ban list from r.
func ReadBanList(r io.Reader) (BanList, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return BanList{}, err
	}

	return NewBanList(words...), nil
}

// Len returns the number of distinct words.
func (b BanList) Len() int {
	return len(b.words)
}

// match returns the first banned word contained in name.
func (b BanList) match(name string) (string, bool) {
	if len(b.words) == 0 {
		return "", false
	}

	upper := strings.ToUpper(name)
	for _, w := range b.words {
		if strings.Contains(upper, w) {
			return w, true
		}
	}

	return "", false
}
