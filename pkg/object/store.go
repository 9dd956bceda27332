package object

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// ErrNotFound reports a lookup miss in the store.
var ErrNotFound = errors.New("object not found")

// ErrAmbiguousPrefix reports an oid prefix matching more than one object.
var ErrAmbiguousPrefix = errors.New("ambiguous oid prefix")

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Objects are zstd-compressed at
// rest; identities are computed over the uncompressed envelope, so the
// compression level never affects an object's oid.
type Store struct {
	root  string
	level zstd.EncoderLevel
}

// StoreOptions tune a Store.
type StoreOptions struct {
	// CompressionLevel is a zstd level (1 fastest .. 22 best). Zero selects
	// the library default.
	CompressionLevel int
}

// NewStore creates a Store rooted at the given directory with default
// options. The objects/ subdirectory is created lazily on first write.
func NewStore(root string) *Store {
	return NewStoreWith(root, StoreOptions{})
}

// NewStoreWith creates a Store with explicit options.
func NewStoreWith(root string, opts StoreOptions) *Store {
	level := zstd.SpeedDefault
	if opts.CompressionLevel != 0 {
		level = zstd.EncoderLevelFromZstd(opts.CompressionLevel)
	}
	return &Store{root: root, level: level}
}

// objectPath returns the filesystem path for a given full oid.
func (s *Store) objectPath(id Oid) string {
	return filepath.Join(s.root, "objects", string(id[:2]), string(id[2:]))
}

// Has reports whether the store contains an object with the given oid.
func (s *Store) Has(id Oid) bool {
	if !id.IsFull() {
		return false
	}
	_, err := os.Stat(s.objectPath(id))
	return err == nil
}

// Write stores an object and returns its content oid. The logical format is
// "type len\0content"; the bytes on disk are the zstd-compressed envelope.
// Writes are atomic: data is written to a temp file and then renamed into
// place. Writing an object that already exists is a no-op.
func (s *Store) Write(objType ObjectType, data []byte) (Oid, error) {
	envelope := fmt.Sprintf("%s %d\x00", objType, len(data))
	raw := append([]byte(envelope), data...)

	id := HashObject(objType, data)

	// Fast path: already exists.
	if s.Has(id) {
		return id, nil
	}

	dir := filepath.Join(s.root, "objects", string(id[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "object write mkdir")
	}

	compressed, err := s.compress(raw)
	if err != nil {
		return "", errors.Wrap(err, "object write compress")
	}

	// Atomic write via temp + rename.
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", errors.Wrap(err, "object write tmpfile")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", errors.Wrap(err, "object write")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", errors.Wrap(err, "object write close")
	}

	dest := s.objectPath(id)
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", errors.Wrap(err, "object write rename")
	}

	return id, nil
}

// Read retrieves an object by full oid, returning its type and raw content.
// A missing object is reported as ErrNotFound.
func (s *Store) Read(id Oid) (ObjectType, []byte, error) {
	if !id.IsFull() {
		return "", nil, errors.Wrapf(ErrNotFound, "%s is not a full oid", id)
	}
	compressed, err := os.ReadFile(s.objectPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, errors.Wrapf(ErrNotFound, "%s", id)
		}
		return "", nil, errors.Wrapf(err, "object read %s", id)
	}

	raw, err := s.decompress(compressed)
	if err != nil {
		return "", nil, errors.Wrapf(err, "object read %s: decompress", id)
	}

	// Parse envelope: "type len\0content"
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, errors.Errorf("object read %s: invalid format (no NUL)", id)
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", nil, errors.Errorf("object read %s: invalid header %q", id, header)
	}
	objType := ObjectType(parts[0])
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", nil, errors.Wrapf(err, "object read %s: invalid length %q", id, parts[1])
	}
	if len(content) != length {
		return "", nil, errors.Errorf("object read %s: length mismatch (header=%d, actual=%d)", id, length, len(content))
	}

	return objType, content, nil
}

// ResolvePrefix expands a possibly partial oid to the unique full oid it
// identifies. A full oid resolves to itself if present.
func (s *Store) ResolvePrefix(id Oid) (Oid, error) {
	if id.IsFull() {
		if !s.Has(id) {
			return "", errors.Wrapf(ErrNotFound, "%s", id)
		}
		return id, nil
	}

	if len(id) < MinOidPrefixLen {
		return "", errors.Wrapf(ErrMalformedOid, "%q is too short to disambiguate", id)
	}
	fanout := string(id[:2])
	rest := string(id[2:])
	dirEntries, err := os.ReadDir(filepath.Join(s.root, "objects", fanout))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(ErrNotFound, "%s", id)
		}
		return "", errors.Wrapf(err, "resolve prefix %s", id)
	}

	var match Oid
	for _, de := range dirEntries {
		name := de.Name()
		if !strings.HasPrefix(name, rest) || strings.HasPrefix(name, ".") {
			continue
		}
		if match != "" {
			return "", errors.Wrapf(ErrAmbiguousPrefix, "%s", id)
		}
		match = Oid(fanout + name)
	}
	if match == "" {
		return "", errors.Wrapf(ErrNotFound, "%s", id)
	}
	return match, nil
}

func (s *Store) compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(s.level))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func (s *Store) decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Oid, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(id Oid) (*Blob, error) {
	objType, data, err := s.Read(id)
	if err != nil {
		return nil, err
	}
	if objType != TypeBlob {
		return nil, errors.Errorf("object %s: type mismatch: got %q, want %q", id, objType, TypeBlob)
	}
	return UnmarshalBlob(data)
}

// WriteRawTree serializes and stores a RawTree.
func (s *Store) WriteRawTree(tr *RawTree) (Oid, error) {
	return s.Write(TypeTree, MarshalRawTree(tr))
}

// ReadRawTree reads and deserializes a RawTree.
func (s *Store) ReadRawTree(id Oid) (*RawTree, error) {
	objType, data, err := s.Read(id)
	if err != nil {
		return nil, err
	}
	if objType != TypeTree {
		return nil, errors.Errorf("object %s: type mismatch: got %q, want %q", id, objType, TypeTree)
	}
	return UnmarshalRawTree(data)
}

// ---------------------------------------------------------------------------
// Collaborator surface consumed by the tree core
// ---------------------------------------------------------------------------

// LookupTree resolves a stored tree's child triples. A missing object is
// reported as (nil, nil).
func (s *Store) LookupTree(ctx context.Context, id Oid) (*RawTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	tr, err := s.ReadRawTree(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tr, nil
}

// LookupBlob resolves a blob reference. A missing object is reported as
// (nil, nil).
func (s *Store) LookupBlob(ctx context.Context, id Oid) (*Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	b, err := s.ReadBlob(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

// PersistBlob stores a blob and returns its content oid. Content addressing
// makes this idempotent.
func (s *Store) PersistBlob(ctx context.Context, b *Blob) (Oid, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.WithStack(err)
	}
	return s.WriteBlob(b)
}
