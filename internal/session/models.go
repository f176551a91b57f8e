package session

import (
	"slices"
	"strings"
	"time"

	"cutlist/internal/media"
	"cutlist/internal/segment"
	"cutlist/internal/sidecar"
)

// Media is the review state of one recorded file.
type Media struct {
	Path       string
	Stem       string
	State      media.State
	Title      string
	SkipBackup bool
	Imported   *sidecar.DetectorResults
	Segments   *segment.Set
	UpdatedAt  time.Time
}

// Session groups the medias found under one root path.
type Session struct {
	ID        string
	RootPath  string
	CreatedAt time.Time
	UpdatedAt time.Time
	Medias    []*Media
}

// Media returns the media keyed by stem, or nil.
func (s *Session) Media(stem string) *Media {
	if s == nil {
		return nil
	}
	for _, m := range s.Medias {
		if m.Stem == stem {
			return m
		}
	}
	return nil
}

// Summary is the listing view of a session.
type Summary struct {
	ID         string
	RootPath   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	MediaCount int
}

func sortMedias(medias []*Media) {
	slices.SortFunc(medias, func(a, b *Media) int { return strings.Compare(a.Stem, b.Stem) })
}
