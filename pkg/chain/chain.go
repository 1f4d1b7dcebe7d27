package chain

import (
	"fmt"
	"strings"
)

// Kind discriminates the node variants of a chain.
type Kind int

const (
	KindLeaf Kind = iota
	KindSplit
	KindStart
	KindEnd
	KindEmpty
)

var kindNames = [...]string{
	KindLeaf:  "leaf",
	KindSplit: "split",
	KindStart: "start",
	KindEnd:   "end",
	KindEmpty: "empty",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts a kind name to a [Kind].
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// Mode selects how the two branches of a split are recombined.
type Mode int

const (
	ModeAB Mode = iota
	ModeMix
	ModeLR
)

var modeNames = [...]string{
	ModeAB:  "ab",
	ModeMix: "mix",
	ModeLR:  "lr",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a mode name ("ab", "a/b", "mix", "lr", "l/r") to a [Mode].
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ab", "a/b":
		return ModeAB, nil
	case "mix":
		return ModeMix, nil
	case "lr", "l/r":
		return ModeLR, nil
	}
	return 0, fmt.Errorf("unknown split mode %q", s)
}

// Branch names one side of a split.
type Branch int

const (
	BranchTop Branch = iota
	BranchBottom
)

func (b Branch) String() string {
	if b == BranchBottom {
		return "bottom"
	}
	return "top"
}

// ParseBranch converts "top"/"a" or "bottom"/"b" to a [Branch].
func ParseBranch(s string) (Branch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "top", "a":
		return BranchTop, nil
	case "bottom", "b":
		return BranchBottom, nil
	}
	return 0, fmt.Errorf("unknown branch %q", s)
}

// Node is one element of a chain. Plugin is only meaningful for leaves; Mode,
// Select, Top and Bottom only for splits. Select is consulted in A/B mode.
type Node struct {
	ID      string
	Kind    Kind
	Plugin  string
	Enabled bool
	Mode    Mode
	Select  Branch
	Top     []Node
	Bottom  []Node
}

// Chain is a named, ordered sequence of nodes.
type Chain struct {
	Name  string
	Nodes []Node
}

// Leaf returns an enabled leaf node.
func Leaf(id, plugin string) Node {
	return Node{ID: id, Kind: KindLeaf, Plugin: plugin, Enabled: true}
}

// Split returns an enabled split node selecting the top branch.
func Split(id string, mode Mode, top, bottom []Node) Node {
	return Node{ID: id, Kind: KindSplit, Enabled: true, Mode: mode, Top: top, Bottom: bottom}
}

// Empty returns a placeholder slot.
func Empty(id string) Node {
	return Node{ID: id, Kind: KindEmpty, Enabled: true}
}

// IsSplit reports whether n is a split.
func (n Node) IsSplit() bool { return n.Kind == KindSplit }

// Selected reports whether branch b carries signal to the split output.
func (n Node) Selected(b Branch) bool {
	if n.Mode != ModeAB {
		return true
	}
	return n.Select == b
}

// Children returns the sub-chain for branch b.
func (n Node) Children(b Branch) []Node {
	if b == BranchBottom {
		return n.Bottom
	}
	return n.Top
}

// Count returns the total number of nodes, descending into splits.
func Count(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total++
		if n.IsSplit() {
			total += Count(n.Top) + Count(n.Bottom)
		}
	}
	return total
}

// Find returns the node with the given id, searching splits depth first.
func Find(nodes []Node, id string) (Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
		if n.IsSplit() {
			if found, ok := Find(n.Top, id); ok {
				return found, true
			}
			if found, ok := Find(n.Bottom, id); ok {
				return found, true
			}
		}
	}
	return Node{}, false
}

// Clone returns a deep copy of nodes.
func Clone(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n
		out[i].Top = Clone(n.Top)
		out[i].Bottom = Clone(n.Bottom)
	}
	return out
}
