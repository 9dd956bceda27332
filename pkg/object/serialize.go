package object

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// MarshalRawTree serializes a RawTree. Entries are sorted by Name for
// deterministic output. Each entry is one line:
//
//	mode oid name
//
// where mode is a Git-compatible mode string (e.g. 40000, 100644, 100755).
// The name comes last so it may contain spaces.
func MarshalRawTree(tr *RawTree) []byte {
	sorted := make([]RawTreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		fmt.Fprintf(&buf, "%s %s %s\n", e.Mode, e.Oid, e.Name)
	}
	return buf.Bytes()
}

// UnmarshalRawTree parses a RawTree from its serialized form.
func UnmarshalRawTree(data []byte) (*RawTree, error) {
	tr := &RawTree{}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return tr, nil
	}
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, errors.Errorf("unmarshal tree: malformed entry %q", line)
		}
		mode, err := parseMode(parts[0])
		if err != nil {
			return nil, errors.Wrapf(err, "unmarshal tree: entry %q", line)
		}
		id, err := ParseOid(parts[1])
		if err != nil {
			return nil, errors.Wrapf(err, "unmarshal tree: entry %q", line)
		}
		if !id.IsFull() {
			return nil, errors.Errorf("unmarshal tree: entry %q: truncated oid", line)
		}
		tr.Entries = append(tr.Entries, RawTreeEntry{
			Name: parts[2],
			Mode: mode,
			Oid:  id,
		})
	}
	return tr, nil
}

func parseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDir, ModeFile, ModeExecutable:
		return Mode(s), nil
	default:
		return "", errors.Errorf("unknown mode %q", s)
	}
}
