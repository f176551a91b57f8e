package title

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	episodeCodeRe  = regexp.MustCompile(`S\d{2}E\d{2,3}`)
	showEpisodeRe  = regexp.MustCompile(`^(.+)__(.+)`)
	showQuotedEpRe = regexp.MustCompile(`^([` + titleChars + `]+) '(.+)'`)
)

// IndexEntry is one episode record of the series index.
type IndexEntry struct {
	FormattedEpisode string `json:"formattedEpisode"`
}

// SeriesIndex maps folded show names to folded episode names to the
// pre-formatted episode code.
type SeriesIndex map[string]map[string]string

// NewSeriesIndex folds the keys of a raw "show -> episode -> entry" mapping.
// Entries without a formatted episode are skipped.
func NewSeriesIndex(raw map[string]map[string]IndexEntry) SeriesIndex {
	idx := make(SeriesIndex, len(raw))
	for show, episodes := range raw {
		showKey := foldKey(show)
		bucket := idx[showKey]
		if bucket == nil {
			bucket = make(map[string]string, len(episodes))
			idx[showKey] = bucket
		}
		for episode, entry := range episodes {
			code := strings.TrimSpace(entry.FormattedEpisode)
			if code == "" {
				continue
			}
			bucket[foldKey(episode)] = code
		}
	}
	return idx
}

// ReadSeriesIndex decodes a JSON series index.
func ReadSeriesIndex(r io.Reader) (SeriesIndex, error) {
	var raw map[string]map[string]IndexEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode series index: %w", err)
	}
	return NewSeriesIndex(raw), nil
}

// Lookup returns the episode code for show and episode, ignoring case and
// diacritics.
func (idx SeriesIndex) Lookup(show, episode string) (string, bool) {
	if idx == nil {
		return "", false
	}
	code, ok := idx[foldKey(show)][foldKey(episode)]
	return code, ok
}

// Enrich appends the indexed episode code to titles shaped like
// "<show>__<episode>" or "<show> '<episode>'". Titles already carrying an
// SxxEyy code, or with no index entry, are returned unchanged.
func (idx SeriesIndex) Enrich(value string) string {
	if len(idx) == 0 || episodeCodeRe.MatchString(value) {
		return value
	}
	m := showEpisodeRe.FindStringSubmatch(value)
	if m == nil {
		m = showQuotedEpRe.FindStringSubmatch(value)
	}
	if m == nil {
		return value
	}
	if code, ok := idx.Lookup(m[1], m[2]); ok {
		return m[1] + " " + code
	}
	return value
}

// foldKey builds its transformers per call; casers and chains keep state
// and cannot be shared between goroutines.
func foldKey(value string) string {
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(strip, strings.TrimSpace(value))
	if err != nil {
		stripped = value
	}
	return cases.Fold().String(stripped)
}
