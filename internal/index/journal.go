package index

import (
	"encoding/json"
	"strings"
)

// OpKind tags one journal operation.
type OpKind int

const (
	// OpCreate adds a node with keys and values array properties.
	OpCreate OpKind = iota
	// OpSetArray rewrites one array property of an existing node.
	OpSetArray
	// OpRemove retires a node whose path is no longer occupied.
	OpRemove
)

// String returns the diff tag of the operation kind.
func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "+"
	case OpSetArray:
		return "^"
	case OpRemove:
		return "-"
	default:
		return "?"
	}
}

// Op is one buffered mutation against the document tree.
type Op struct {
	Kind OpKind
	Path string

	// Name is the property being rewritten; set-array only.
	Name string

	// Keys carries the key array of a created node.
	Keys []string

	// Values carries the value array of a created node, or the rewritten
	// array of a set-array.
	Values []string
}

// Encode renders the operation as one diff line.
func (op Op) Encode() string {
	var b strings.Builder
	switch op.Kind {
	case OpCreate:
		b.WriteString("+")
		b.WriteString(quote(op.Path))
		b.WriteString(":{\"keys\":")
		b.WriteString(jsonStrings(op.Keys))
		b.WriteString(",\"values\":")
		b.WriteString(jsonStrings(op.Values))
		b.WriteString("}")
	case OpSetArray:
		b.WriteString("^")
		b.WriteString(quote(concatPath(op.Path, op.Name)))
		b.WriteString(":")
		b.WriteString(jsonStrings(op.Values))
	case OpRemove:
		b.WriteString("-")
		b.WriteString(quote(op.Path))
	}
	return b.String()
}

// Log is the in-memory buffer of journal operations accumulated during
// one logical tree operation. It is append-only; a flush hands the whole
// batch to the committer and starts a fresh log.
type Log struct {
	Ops []Op
}

// Append adds one operation to the log.
func (l *Log) Append(op Op) {
	l.Ops = append(l.Ops, op)
}

// Len returns the number of buffered operations.
func (l *Log) Len() int {
	return len(l.Ops)
}

// Encode renders the buffered operations as a line-delimited diff.
func (l *Log) Encode() string {
	var b strings.Builder
	for _, op := range l.Ops {
		b.WriteString(op.Encode())
		b.WriteString("\n")
	}
	return b.String()
}

// EncodeOps renders a batch as a line-delimited diff.
func EncodeOps(ops []Op) string {
	l := Log{Ops: ops}
	return l.Encode()
}

// Committer applies one flushed journal batch atomically: either every
// operation of the batch becomes visible or none does.
type Committer interface {
	Commit(ops []Op) error
}

func quote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func jsonStrings(a []string) string {
	if len(a) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(a)
	return string(data)
}
