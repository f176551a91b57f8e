package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cutlist/internal/sidecar"
)

// Snapshot is one listing of a directory. States computed from the same
// Snapshot are consistent with each other; take a fresh one to observe later
// filesystem changes.
type Snapshot struct {
	dir   string
	files map[string]struct{}
	names []string
}

// TakeSnapshot lists dir once.
func TakeSnapshot(dir string) (*Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	snap := &Snapshot{dir: dir, files: make(map[string]struct{}, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		snap.files[entry.Name()] = struct{}{}
		snap.names = append(snap.names, entry.Name())
	}
	slices.Sort(snap.names)
	return snap, nil
}

// Dir returns the listed directory.
func (s *Snapshot) Dir() string { return s.dir }

func (s *Snapshot) has(name string) bool {
	_, ok := s.files[name]
	return ok
}

// Flags derives the sidecar flags of the media file called name.
func (s *Snapshot) Flags(name string) Flags {
	return Flags{
		HasMetadata: s.has(name + sidecar.MetadataSuffix),
		HasSegments: s.has(name + sidecar.SegmentsSuffix),
		HasEDL:      s.has(name + sidecar.EDLSuffix),
		HasDone:     s.has(name + sidecar.DoneSuffix),
		HasOtherEDL: s.hasOtherEDL(name),
	}
}

// State computes the state of the media file called name.
func (s *Snapshot) State(name string) State {
	return Compute(s.Flags(name))
}

// EDLFamily returns the EDL-like files of name in lexical order.
func (s *Snapshot) EDLFamily(name string) []string {
	var out []string
	for _, candidate := range s.names {
		if isEDLFamily(name, candidate) {
			out = append(out, filepath.Join(s.dir, candidate))
		}
	}
	return out
}

func (s *Snapshot) hasOtherEDL(name string) bool {
	for _, candidate := range s.names {
		if isEDLFamily(name, candidate) && filepath.Ext(candidate) != ".txt" {
			return true
		}
	}
	return false
}

// isEDLFamily mirrors the glob "<name>*.*yml*": the candidate starts with
// name and has a '.' followed later by "yml".
func isEDLFamily(name, candidate string) bool {
	rest, ok := strings.CutPrefix(candidate, name)
	if !ok {
		return false
	}
	dot := strings.Index(rest, ".")
	if dot < 0 {
		return false
	}
	return strings.Contains(rest[dot+1:], "yml")
}

// StateOf takes a fresh snapshot of the media's directory and returns its
// state.
func StateOf(mediaPath string) (State, error) {
	snap, err := TakeSnapshot(filepath.Dir(mediaPath))
	if err != nil {
		return "", err
	}
	return snap.State(filepath.Base(mediaPath)), nil
}

// List returns the media files selected by root: root itself when it is a
// file, otherwise the files directly inside root whose name ends with ext,
// sorted by name.
func List(root, ext string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("media root %s does not exist: %w", root, err)
		}
		return nil, fmt.Errorf("stat media root: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	snap, err := TakeSnapshot(root)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range snap.names {
		if strings.HasSuffix(name, ext) {
			out = append(out, filepath.Join(root, name))
		}
	}
	return out, nil
}
