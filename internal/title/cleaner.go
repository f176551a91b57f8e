package title

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Cleaner deletes blacklisted fragments from titles.
type Cleaner struct {
	pattern          *regexp.Regexp
	stripApostrophes bool
}

// NewCleaner compiles the blacklist. Every non-blank line is one regular
// expression alternative. When stripApostrophes is set, an unbalanced
// apostrophe left at either end of the title after removal is trimmed too.
func NewCleaner(lines []string, stripApostrophes bool) (*Cleaner, error) {
	var alternatives []string
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := regexp.Compile(line); err != nil {
			return nil, fmt.Errorf("blacklist line %d: %w", i+1, err)
		}
		alternatives = append(alternatives, line)
	}
	c := &Cleaner{stripApostrophes: stripApostrophes}
	if len(alternatives) > 0 {
		c.pattern = regexp.MustCompile(strings.Join(alternatives, "|"))
	}
	return c, nil
}

// ReadCleaner builds a Cleaner from a newline separated blacklist.
func ReadCleaner(r io.Reader, stripApostrophes bool) (*Cleaner, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read blacklist: %w", err)
	}
	return NewCleaner(lines, stripApostrophes)
}

// Clean removes every blacklist match and trims the result. A nil Cleaner
// only trims.
func (c *Cleaner) Clean(value string) string {
	if c == nil {
		return strings.TrimSpace(value)
	}
	if c.pattern != nil {
		value = c.pattern.ReplaceAllString(value, "")
	}
	value = strings.TrimSpace(value)
	if c.stripApostrophes && strings.Count(value, "'")%2 == 1 {
		switch {
		case strings.HasPrefix(value, "'"):
			value = strings.TrimSpace(value[1:])
		case strings.HasSuffix(value, "'"):
			value = strings.TrimSpace(value[:len(value)-1])
		}
	}
	return value
}
