package title

import (
	"strings"

	"cutlist/internal/sidecar"
)

var seriesHints = []string{"Série", "Saison", "Mini-série"}

func hasSeriesHint(value string) bool {
	for _, hint := range seriesHints {
		if strings.Contains(value, hint) {
			return true
		}
	}
	return false
}

func metadataHasSeriesHint(md *sidecar.Metadata) bool {
	if md == nil {
		return false
	}
	return hasSeriesHint(md.Description) || hasSeriesHint(md.Title) || hasSeriesHint(md.SubTitle)
}
