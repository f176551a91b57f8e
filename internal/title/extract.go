package title

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"cutlist/internal/sidecar"
)

// ErrUnrecognizedSourceName reports a filename that does not follow the
// "<channel>_<title>_<timestamp>" convention. Callers substitute the
// context placeholder.
var ErrUnrecognizedSourceName = errors.New("unrecognized source name")

const titleChars = `\p{L}\p{M}\p{N}_&'!., ()\[\]#-`

var (
	channelRe   = regexp.MustCompile(`^([^_]+)_`)
	naiveRe     = regexp.MustCompile(`_([` + titleChars + `]+)_`)
	firstClause = regexp.MustCompile(`^([^.]+)\.`)
	quotedEp    = regexp.MustCompile(`\. '(.+?)'(?:\s|$)`)
	forbiddenRe = regexp.MustCompile(`[\\/:*?<>|"]`)
	seasonRe    = regexp.MustCompile(`Saison (\d+)`)
	subEpRe     = regexp.MustCompile(`(\d+)[/-]\d+`)
	titleEpRe   = regexp.MustCompile(`(\d+)-\d+`)
)

const ellipsis = "..."

func channelOf(stem string) (string, bool) {
	m := channelRe.FindStringSubmatch(stem)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func naiveTitle(stem string) (string, error) {
	m := naiveRe.FindStringSubmatch(stem)
	if m == nil {
		return "", fmt.Errorf("%w: %q has no title between underscores", ErrUnrecognizedSourceName, stem)
	}
	return m[1], nil
}

func sanitize(value string) string {
	return forbiddenRe.ReplaceAllString(value, "_")
}

// expandedSubtitleTitle rebuilds a title truncated with an ellipsis from the
// first sentence of the subtitle.
func expandedSubtitleTitle(stem string, md *sidecar.Metadata) (string, error) {
	if md == nil || !(strings.Contains(md.Title, ellipsis) || strings.Contains(md.SubTitle, ellipsis)) {
		return naiveTitle(stem)
	}
	sub := strings.TrimPrefix(md.SubTitle, md.Title+" : ")
	extracted := strings.TrimSpace(sub)
	if m := firstClause.FindStringSubmatch(sub); m != nil {
		extracted = strings.TrimSpace(m[1])
	}
	if extracted == "" {
		return naiveTitle(stem)
	}
	if hasSeriesHint(sub) {
		if m := quotedEp.FindStringSubmatch(sub); m != nil {
			extracted += "__" + m[1]
		}
	}
	return sanitize(extracted), nil
}

type fieldPattern struct {
	field   func(*sidecar.Metadata) string
	pattern *regexp.Regexp
}

func subTitleField(md *sidecar.Metadata) string { return md.SubTitle }

func titleField(md *sidecar.Metadata) string { return md.Title }

var (
	subtitleAwareEpisode = fieldPattern{subTitleField, subEpRe}
	subtitleAwareSeason  = fieldPattern{subTitleField, seasonRe}
	titleAwareEpisode    = fieldPattern{titleField, titleEpRe}
	titleAwareSeason     = fieldPattern{titleField, seasonRe}
)

// extractField returns the first capture zero-padded to two digits, or "xx".
func extractField(md *sidecar.Metadata, fp fieldPattern) string {
	m := fp.pattern.FindStringSubmatch(fp.field(md))
	if m == nil {
		return "xx"
	}
	if len(m[1]) < 2 {
		return strings.Repeat("0", 2-len(m[1])) + m[1]
	}
	return m[1]
}

func seriesAwareTitle(stem string, md *sidecar.Metadata, episode, season fieldPattern) (string, error) {
	base, err := naiveTitle(stem)
	if err != nil {
		return "", err
	}
	if md == nil || !metadataHasSeriesHint(md) {
		return base, nil
	}
	ep := extractField(md, episode)
	se := extractField(md, season)
	if se == "xx" {
		se = "01"
	}
	if ep == "xx" {
		// Hinted as a series without an episode number: keep the episode
		// name so the series index can still match it.
		fragment := strings.TrimPrefix(md.SubTitle, md.Title+" : ")
		fragment, _, _ = strings.Cut(fragment, ".")
		fragment = strings.TrimSpace(sanitize(fragment))
		if fragment == "" {
			return base, nil
		}
		return base + "__" + fragment, nil
	}
	return fmt.Sprintf("%s S%sE%s", base, se, ep), nil
}

func extractRaw(s Strategy, stem string, md *sidecar.Metadata) (string, error) {
	switch s {
	case Naive:
		return naiveTitle(stem)
	case SubtitleExpander:
		return expandedSubtitleTitle(stem, md)
	case SerieSubtitleAware:
		return seriesAwareTitle(stem, md, subtitleAwareEpisode, subtitleAwareSeason)
	case SerieTitleAware:
		return seriesAwareTitle(stem, md, titleAwareEpisode, titleAwareSeason)
	default:
		return "", fmt.Errorf("unsupported title strategy %v", s)
	}
}
