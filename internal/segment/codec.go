package segment

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// PositionPattern matches one HH:MM:SS.mmm position. Hours may exceed two
// digits; the fraction carries two or three digits.
const PositionPattern = `\d{2,}:\d{2}:\d{2}\.\d{2,3}`

// ListPattern matches a complete, comma-terminated, non-empty segment list.
const ListPattern = `(?:` + PositionPattern + `-` + PositionPattern + `,)+`

var positionRe = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2}\.\d{2,3})$`)

// FormatPosition renders seconds as HH:MM:SS.mmm, rounded to the millisecond.
func FormatPosition(seconds float64) string {
	ms := int64(math.Round(seconds * 1000))
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	frac := ms % 1000
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d", sign, h, m, s, frac)
}

// ParsePosition parses HH:MM:SS.mmm into seconds.
func ParsePosition(text string) (float64, error) {
	match := positionRe.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return 0, fmt.Errorf("%w: position %q", ErrMalformedList, text)
	}
	hours, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("%w: position %q: %w", ErrMalformedList, text, err)
	}
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.ParseFloat(match[3], 64)
	if minutes > 59 || seconds >= 60 {
		return 0, fmt.Errorf("%w: position %q out of range", ErrMalformedList, text)
	}
	total := float64(hours)*3600 + float64(minutes)*60 + seconds
	return math.Round(total*1000) / 1000, nil
}

// Encode renders segments in the list grammar, each entry followed by a
// comma. The input order is preserved.
func Encode(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.String())
		b.WriteByte(',')
	}
	return b.String()
}

// Decode parses a segment list. An empty or blank string yields no
// segments. A missing final comma is tolerated.
func Decode(text string) ([]Segment, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	trimmed = strings.TrimSuffix(trimmed, ",")
	entries := strings.Split(trimmed, ",")
	out := make([]Segment, 0, len(entries))
	for i, entry := range entries {
		seg, err := decodeEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		out = append(out, seg)
	}
	return out, nil
}

// DecodeSet parses a list and adds every entry leniently.
func DecodeSet(text string) (*Set, error) {
	segments, err := Decode(text)
	if err != nil {
		return nil, err
	}
	return NewSet(segments...), nil
}

// NormalizeList ensures a non-empty list ends with exactly one comma.
func NormalizeList(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	return strings.TrimRight(trimmed, ",") + ","
}

func decodeEntry(entry string) (Segment, error) {
	startText, endText, ok := strings.Cut(strings.TrimSpace(entry), "-")
	if !ok {
		return Segment{}, fmt.Errorf("%w: %q lacks a '-' separator", ErrMalformedList, entry)
	}
	start, err := ParsePosition(startText)
	if err != nil {
		return Segment{}, err
	}
	end, err := ParsePosition(endText)
	if err != nil {
		return Segment{}, err
	}
	return New(start, end)
}

// FormatRow renders one segment for list displays as "start-end,MM:SS".
// Minutes are not wrapped at the hour.
func FormatRow(seg Segment) string {
	total := int64(math.Round(seg.Duration()))
	return fmt.Sprintf("%s,%02d:%02d", seg, total/60, total%60)
}
