package title

import (
	"fmt"
	"strings"
)

// Strategy selects the raw title extraction algorithm for a channel.
type Strategy int

const (
	// Naive takes the text between the first and the last underscore of the
	// filename stem.
	Naive Strategy = iota
	// SubtitleExpander rebuilds titles that the recorder truncated with an
	// ellipsis, using the first sentence of the subtitle.
	SubtitleExpander
	// SerieSubtitleAware appends SxxEyy using numbers found in the subtitle.
	SerieSubtitleAware
	// SerieTitleAware appends SxxEyy using numbers found in the title.
	SerieTitleAware
)

var strategyNames = map[Strategy]string{
	Naive:              "Naive",
	SubtitleExpander:   "SubtitleExpander",
	SerieSubtitleAware: "SerieSubtitleAware",
	SerieTitleAware:    "SerieTitleAware",
}

// legacy names used by existing strategy files
var strategyAliases = map[string]Strategy{
	"naivetitleextractor":              Naive,
	"subtitletitleexpanderextractor":   SubtitleExpander,
	"seriesubtitleawaretitleextractor": SerieSubtitleAware,
	"serietitleawaretitleextractor":    SerieTitleAware,
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy accepts the short names ("Naive", "SubtitleExpander", ...)
// and the long extractor names, case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if strings.ToLower(n) == key {
			return s, nil
		}
	}
	if s, ok := strategyAliases[key]; ok {
		return s, nil
	}
	return Naive, fmt.Errorf("unknown title strategy %q", name)
}

func (s Strategy) MarshalText() ([]byte, error) {
	if _, ok := strategyNames[s]; !ok {
		return nil, fmt.Errorf("unknown title strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
