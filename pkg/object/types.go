package object

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob ObjectType = "blob"
	TypeTree ObjectType = "tree"
)

// Mode is a Git-compatible canonical mode string for a tree entry. The
// values are an external store-format contract; nothing in this module
// interprets them beyond the three constants below.
type Mode string

const (
	ModeDir        Mode = "40000"
	ModeFile       Mode = "100644"
	ModeExecutable Mode = "100755"
)

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// RawTreeEntry is one (name, id, mode) triple reported by the store for a
// stored tree.
type RawTreeEntry struct {
	Name string
	Mode Mode
	Oid  Oid
}

// RawTree holds a stored tree's entries, sorted by Name.
type RawTree struct {
	Entries []RawTreeEntry
}
