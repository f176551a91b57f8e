package sidecar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"cutlist/internal/fileutil"
	"cutlist/internal/segment"
)

// SnapshotKeyPrefix starts the key of every reviewer snapshot.
const SnapshotKeyPrefix = "result_"

const snapshotKeyLayout = "2006-01-02T15:04:05.000000"

// DetectorResults maps detector keys to encoded segment lists, preserving
// the order of the sidecar file.
type DetectorResults struct {
	keys   []string
	values map[string]string
}

// Len returns the number of entries.
func (d *DetectorResults) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns detector keys in file order.
func (d *DetectorResults) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// Get returns the list stored under key.
func (d *DetectorResults) Get(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d.values[key]
	return v, ok
}

// First returns the first entry in file order.
func (d *DetectorResults) First() (string, string, bool) {
	if d.Len() == 0 {
		return "", "", false
	}
	key := d.keys[0]
	return key, d.values[key], true
}

// Set stores value under key, appending new keys at the end.
func (d *DetectorResults) Set(key, value string) {
	if d.values == nil {
		d.values = make(map[string]string)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Prepend stores value under key as the first entry.
func (d *DetectorResults) Prepend(key, value string) {
	if d.values == nil {
		d.values = make(map[string]string)
	}
	if idx := slices.Index(d.keys, key); idx >= 0 {
		d.keys = slices.Delete(d.keys, idx, idx+1)
	}
	d.keys = slices.Insert(d.keys, 0, key)
	d.values[key] = value
}

// Normalized returns a copy without empty lists and with every list ending
// in a single comma.
func (d *DetectorResults) Normalized() *DetectorResults {
	out := &DetectorResults{}
	if d == nil {
		return out
	}
	for _, key := range d.keys {
		value := segment.NormalizeList(d.values[key])
		if value == "" {
			continue
		}
		out.Set(key, value)
	}
	return out
}

func (d DetectorResults) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(d.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *DetectorResults) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("detector results must be a JSON object")
	}
	d.keys = nil
	d.values = make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected detector key token %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("detector %q: %w", key, err)
		}
		d.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// LoadDetectorResults reads the segments sidecar of mediaPath. A missing file
// yields an empty result.
func LoadDetectorResults(mediaPath string) (*DetectorResults, error) {
	data, err := fileutil.ReadOptional(SegmentsPath(mediaPath))
	if err != nil {
		return nil, fmt.Errorf("read segments sidecar: %w", err)
	}
	results := &DetectorResults{}
	if len(bytes.TrimSpace(data)) == 0 {
		return results, nil
	}
	if err := json.Unmarshal(data, results); err != nil {
		return nil, fmt.Errorf("parse segments sidecar %s: %w", SegmentsPath(mediaPath), err)
	}
	return results, nil
}

// SaveDetectorResults writes the segments sidecar atomically with two-space
// indentation.
func SaveDetectorResults(mediaPath string, results *DetectorResults) error {
	if results == nil {
		results = &DetectorResults{}
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode segments sidecar: %w", err)
	}
	return fileutil.WriteAtomicFunc(SegmentsPath(mediaPath), 0o644, func(w io.Writer) error {
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err != nil {
			return err
		}
		_, err := out.WriteTo(w)
		return err
	})
}

// PrependSnapshot records the current set as the first entry of the segments
// sidecar, creating the file when missing. It returns the snapshot key.
func PrependSnapshot(mediaPath string, set *segment.Set, now time.Time) (string, error) {
	results, err := LoadDetectorResults(mediaPath)
	if err != nil {
		return "", err
	}
	key := SnapshotKeyPrefix + now.Format(snapshotKeyLayout)
	results.Prepend(key, set.String())
	if err := SaveDetectorResults(mediaPath, results); err != nil {
		return "", err
	}
	return key, nil
}
