// Package edl builds, validates and persists the edit decision list handed
// to the transcoding step. A document names the output file, lists the
// segments to keep and says whether the backup step may be skipped.
package edl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"cutlist/internal/fileutil"
	"cutlist/internal/segment"
	"cutlist/internal/sidecar"
)

// ErrSchemaViolation reports a document that the transcoding step would
// refuse. Nothing is written when it is returned.
var ErrSchemaViolation = errors.New("edl schema violation")

// OutputSuffix terminates every output filename.
const OutputSuffix = ".mp4"

var (
	filenameRe = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_&àéèï'!()\[\], #-.]+\.mp4$`)
	segmentsRe = regexp.MustCompile(`^` + segment.ListPattern + `$`)
)

// Document is the YAML content of <media>.yml.
type Document struct {
	Filename   string `yaml:"filename"`
	Segments   string `yaml:"segments"`
	SkipBackup bool   `yaml:"skip_backup"`
}

// NewDocument renders set into a document.
func NewDocument(filename string, set *segment.Set, skipBackup bool) Document {
	return Document{
		Filename:   filename,
		Segments:   segment.Encode(set.Segments()),
		SkipBackup: skipBackup,
	}
}

// Validate checks the filename and the segment list grammar.
func (d Document) Validate() error {
	var problems []string
	if !ValidFilename(d.Filename) {
		problems = append(problems, fmt.Sprintf("filename %q must use allowed characters and end with %s", d.Filename, OutputSuffix))
	}
	if !segmentsRe.MatchString(d.Segments) {
		if d.Segments == "" {
			problems = append(problems, "segments must not be empty")
		} else {
			problems = append(problems, fmt.Sprintf("segments %q do not follow the list grammar", d.Segments))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(problems, "; "))
	}
	return nil
}

// Set decodes the segment list of the document.
func (d Document) Set() (*segment.Set, error) {
	return segment.DecodeSet(d.Segments)
}

// Encode writes d as YAML.
func (d Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode edl: %w", err)
	}
	return enc.Close()
}

// Decode reads a YAML document. A missing skip_backup defaults to false.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, nil
		}
		return Document{}, fmt.Errorf("decode edl: %w", err)
	}
	return doc, nil
}

// Load reads the EDL at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read edl: %w", err)
	}
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Commit validates the document for sourcePath and atomically replaces
// <sourcePath>.yml with it. The returned path is the written file.
func Commit(sourcePath, filename string, set *segment.Set, skipBackup bool) (string, error) {
	doc := NewDocument(filename, set, skipBackup)
	if err := doc.Validate(); err != nil {
		return "", err
	}
	path := sidecar.EDLPath(sourcePath)
	if err := fileutil.WriteAtomicFunc(path, 0o644, doc.Encode); err != nil {
		return "", fmt.Errorf("write edl: %w", err)
	}
	return path, nil
}

// ValidFilename reports whether name is accepted as an output filename.
func ValidFilename(name string) bool {
	return filenameRe.MatchString(name)
}

// OutputFilename appends OutputSuffix to title unless already present.
func OutputFilename(title string) string {
	title = strings.TrimSpace(title)
	if strings.HasSuffix(title, OutputSuffix) {
		return title
	}
	return title + OutputSuffix
}
