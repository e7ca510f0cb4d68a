package model

// Property is one named, multi-valued property of a document node.
type Property struct {
	Name   string
	Values []string
}

// Node is a document node. Index pages persist as nodes carrying their
// keys and values arrays as properties.
type Node struct {
	Properties []Property
}

// Get returns the values of the named property, or nil.
func (n *Node) Get(name string) []string {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Values
		}
	}
	return nil
}

// Set replaces or appends the named property.
func (n *Node) Set(name string, values []string) {
	for i, p := range n.Properties {
		if p.Name == name {
			n.Properties[i].Values = values
			return
		}
	}
	n.Properties = append(n.Properties, Property{Name: name, Values: values})
}

// Commit is one revision of the document tree.
type Commit struct {
	// Parent is the id of the preceding commit, empty for the first.
	Parent string

	// Root is the id of the revision's child map record.
	Root string

	// Message describes the commit.
	Message string

	// Diff is the journal batch that produced the revision, in its
	// line-delimited textual encoding.
	Diff string

	// Time is the commit time in Unix milliseconds.
	Time int64
}

// ChildEntry maps one document-tree path to the record id holding it.
type ChildEntry struct {
	Name string
	ID   string
}

// ChildMap is the full path-to-record map of one revision.
// Entries are kept sorted by name so identical trees hash identically.
type ChildMap struct {
	Entries []ChildEntry
}

// Get returns the record id stored under name, or "".
func (m *ChildMap) Get(name string) string {
	for _, e := range m.Entries {
		if e.Name == name {
			return e.ID
		}
	}
	return ""
}
