// Package dispatch routes command-line tokens through a decision tree of
// aliases to a registered action.
//
// At every node each child is scored by the length of its longest alias that
// starts with the current token. The unique best child consumes the token; a
// tie is ambiguous and a zero score is unmatched. Once a leaf is reached the
// remaining tokens become the action's arguments.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrBadArguments may be wrapped by an action to signal that it cannot work
// with the arguments it received.
var ErrBadArguments = errors.New("bad arguments")

// Action is the callable at a leaf of the tree.
type Action struct {
	Run func(ctx context.Context, args []string) error
	// MinArgs and MaxArgs bound the number of arguments. A negative MaxArgs
	// means unbounded.
	MinArgs int
	MaxArgs int
}

// Node is an edge of the tree together with the subtree it leads to. The root
// node has no aliases. A node carrying an Action is a leaf.
type Node struct {
	Aliases     []string
	Description string
	Action      *Action
	Children    []*Node
}

// Branch creates an internal node.
func Branch(aliases []string, children ...*Node) *Node {
	return &Node{Aliases: aliases, Children: children}
}

// Leaf creates a terminal node.
func Leaf(aliases []string, description string, action Action) *Node {
	return &Node{Aliases: aliases, Description: description, Action: &action}
}

// IsLeaf reports whether n carries an action.
func (n *Node) IsLeaf() bool { return n.Action != nil }

func (n *Node) label() string { return strings.Join(n.Aliases, " or ") }

// Validate checks that the tree rooted at n is a finite hierarchy: no cycles,
// leaves without children, internal nodes with at least one child and
// non-root nodes with at least one alias.
func (n *Node) Validate() error {
	return n.validate(map[*Node]bool{}, true)
}

func (n *Node) validate(onPath map[*Node]bool, root bool) error {
	if onPath[n] {
		return fmt.Errorf("cycle at {%s}", n.label())
	}
	if !root && len(n.Aliases) == 0 {
		return errors.New("node without aliases")
	}
	for _, a := range n.Aliases {
		if a == "" {
			return fmt.Errorf("empty alias in {%s}", n.label())
		}
	}
	if n.IsLeaf() {
		if len(n.Children) > 0 {
			return fmt.Errorf("leaf {%s} has children", n.label())
		}
		if n.Action.Run == nil {
			return fmt.Errorf("leaf {%s} has no action", n.label())
		}
		return nil
	}
	if len(n.Children) == 0 {
		return fmt.Errorf("node {%s} has neither action nor children", n.label())
	}
	onPath[n] = true
	defer delete(onPath, n)
	for _, c := range n.Children {
		if c == nil {
			return fmt.Errorf("nil child under {%s}", n.label())
		}
		if err := c.validate(onPath, false); err != nil {
			return err
		}
	}
	return nil
}

// Score is the prefix score of n for token: the length of the longest alias
// that starts with token, 0 when none does. An empty token matches nothing.
func (n *Node) Score(token string) int {
	if token == "" {
		return 0
	}
	best := 0
	for _, a := range n.Aliases {
		if strings.HasPrefix(a, token) && len(a) > best {
			best = len(a)
		}
	}
	return best
}

func aliasGroups(nodes []*Node) [][]string {
	out := make([][]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Aliases
	}
	return out
}

// WriteHelp prints the tree below n, one alias group per line, with the
// description of leaves aligned at column 30.
func (n *Node) WriteHelp(w io.Writer, indent int) error {
	for _, c := range n.Children {
		line := strings.Repeat("  ", indent) + "{" + strings.Join(c.Aliases, ", ") + "}"
		if c.IsLeaf() {
			line = fmt.Sprintf("%-30s%s", line, c.Description)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if !c.IsLeaf() {
			if err := c.WriteHelp(w, indent+1); err != nil {
				return err
			}
		}
	}
	return nil
}
