package segment_test

import (
	"errors"
	"regexp"
	"slices"
	"testing"

	"cutlist/internal/segment"
)

func TestFormatPosition(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{1526, "00:25:26.000"},
		{3246.5, "00:54:06.500"},
		{3723.0456, "01:02:03.046"},
		{360000, "100:00:00.000"},
	}
	for _, tc := range cases {
		if got := segment.FormatPosition(tc.seconds); got != tc.want {
			t.Fatalf("FormatPosition(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParsePosition(t *testing.T) {
	got, err := segment.ParsePosition("01:02:03.45")
	if err != nil {
		t.Fatalf("ParsePosition: %v", err)
	}
	if got != 3723.45 {
		t.Fatalf("unexpected seconds %v", got)
	}
	for _, bad := range []string{"1:02:03.450", "01:02:03", "01:62:03.450", "aa:bb:cc.ddd"} {
		if _, err := segment.ParsePosition(bad); !errors.Is(err, segment.ErrMalformedList) {
			t.Fatalf("ParsePosition(%q): expected ErrMalformedList, got %v", bad, err)
		}
	}
}

func TestEncodeWritesTrailingComma(t *testing.T) {
	got := segment.Encode([]segment.Segment{seg(1526, 3246), seg(3300.25, 3600)})
	want := "00:25:26.000-00:54:06.000,00:55:00.250-01:00:00.000,"
	if got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}
	if !regexp.MustCompile(`^` + segment.ListPattern + `$`).MatchString(got) {
		t.Fatalf("encoded list %q does not match the list grammar", got)
	}
	if segment.Encode(nil) != "" {
		t.Fatal("expected empty encoding for no segments")
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []segment.Segment
	}{
		{"empty", "", nil},
		{"trailing comma", "00:00:01.000-00:00:02.50,", []segment.Segment{seg(1, 2.5)}},
		{"missing trailing comma", "00:00:01.000-00:00:02.000,00:01:00.000-00:02:00.000", []segment.Segment{seg(1, 2), seg(60, 120)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := segment.Decode(tc.text)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Fatalf("Decode = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	if _, err := segment.Decode("00:00:01.000,"); !errors.Is(err, segment.ErrMalformedList) {
		t.Fatalf("expected ErrMalformedList, got %v", err)
	}
	if _, err := segment.Decode("00:00:05.000-00:00:01.000,"); !errors.Is(err, segment.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestDecodeReversesEncode(t *testing.T) {
	original := segment.NewSet(seg(0.001, 12.345), seg(60, 61), seg(3599.999, 7200))
	decoded, err := segment.DecodeSet(original.String())
	if err != nil {
		t.Fatalf("DecodeSet: %v", err)
	}
	if !slices.Equal(decoded.Segments(), original.Segments()) {
		t.Fatalf("decoded %v, want %v", decoded.Segments(), original.Segments())
	}
}

func TestNormalizeList(t *testing.T) {
	if got := segment.NormalizeList("00:00:01.000-00:00:02.000"); got != "00:00:01.000-00:00:02.000," {
		t.Fatalf("unexpected normalized list %q", got)
	}
	if got := segment.NormalizeList("00:00:01.000-00:00:02.000,,"); got != "00:00:01.000-00:00:02.000," {
		t.Fatalf("unexpected normalized list %q", got)
	}
	if got := segment.NormalizeList("  "); got != "" {
		t.Fatalf("expected blank list to stay empty, got %q", got)
	}
}

func TestFormatRow(t *testing.T) {
	if got := segment.FormatRow(seg(1526, 3246)); got != "00:25:26.000-00:54:06.000,28:40" {
		t.Fatalf("unexpected row %q", got)
	}
}
