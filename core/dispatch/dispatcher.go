package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/school/core/logger"
)

func formatGroups(groups [][]string) string {
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = strings.Join(g, " or ")
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// UnmatchedTokenError is returned when no child has an alias starting with Token.
type UnmatchedTokenError struct {
	Token   string
	Choices [][]string
}

func (e *UnmatchedTokenError) Error() string {
	return fmt.Sprintf("'%s' doesn't match decisions in the decision tree: %s", e.Token, formatGroups(e.Choices))
}

// AmbiguousTokenError is returned when several children share the best score.
type AmbiguousTokenError struct {
	Token      string
	Candidates [][]string
}

func (e *AmbiguousTokenError) Error() string {
	return fmt.Sprintf("ambiguous decisions for '%s': %s", e.Token, formatGroups(e.Candidates))
}

// IncompleteCommandError is returned when the tokens run out on an internal node.
type IncompleteCommandError struct {
	Path      [][]string
	Remaining [][]string
}

func (e *IncompleteCommandError) Error() string {
	return fmt.Sprintf("decisions remaining: %s", formatGroups(e.Remaining))
}

// ArgumentMismatchError is returned when a resolved action rejects its
// arguments. It deliberately carries only the command path.
type ArgumentMismatchError struct {
	Path [][]string
}

func (e *ArgumentMismatchError) Error() string {
	parts := make([]string, len(e.Path))
	for i, g := range e.Path {
		parts[i] = strings.Join(g, " ")
	}
	return fmt.Sprintf("invalid arguments for '%s'", strings.Join(parts, ", "))
}

// Resolution is the outcome of walking the tree.
type Resolution struct {
	// Path holds the alias group of every edge taken.
	Path [][]string
	Leaf *Node
	Args []string
}

// Dispatcher walks a decision tree.
type Dispatcher struct {
	root *Node
	log  logger.Logger
}

// New validates root and returns a Dispatcher over it.
func New(root *Node, log logger.Logger) (*Dispatcher, error) {
	if root == nil {
		return nil, errors.New("nil decision tree")
	}
	if err := root.Validate(); err != nil {
		return nil, fmt.Errorf("decision tree: %w", err)
	}
	return &Dispatcher{root: root, log: logger.OrNop(log)}, nil
}

// Root returns the root of the tree.
func (d *Dispatcher) Root() *Node { return d.root }

// Resolve consumes tokens until a leaf is reached.
func (d *Dispatcher) Resolve(tokens []string) (Resolution, error) {
	node := d.root
	var path [][]string
	i := 0
	for ; i < len(tokens) && !node.IsLeaf(); i++ {
		next, err := step(node, tokens[i])
		if err != nil {
			return Resolution{}, err
		}
		path = append(path, next.Aliases)
		node = next
	}
	if !node.IsLeaf() {
		return Resolution{}, &IncompleteCommandError{Path: path, Remaining: aliasGroups(node.Children)}
	}
	args := append([]string(nil), tokens[i:]...)
	return Resolution{Path: path, Leaf: node, Args: args}, nil
}

func step(node *Node, token string) (*Node, error) {
	best := 0
	var winners []*Node
	for _, c := range node.Children {
		s := c.Score(token)
		switch {
		case s == 0 || s < best:
		case s > best:
			best, winners = s, []*Node{c}
		default:
			winners = append(winners, c)
		}
	}
	switch {
	case best == 0:
		return nil, &UnmatchedTokenError{Token: token, Choices: aliasGroups(node.Children)}
	case len(winners) > 1:
		return nil, &AmbiguousTokenError{Token: token, Candidates: aliasGroups(winners)}
	}
	return winners[0], nil
}

// Invoke resolves tokens and runs the leaf action. Arity violations and
// action errors wrapping ErrBadArguments become an ArgumentMismatchError.
func (d *Dispatcher) Invoke(ctx context.Context, tokens []string) error {
	res, err := d.Resolve(tokens)
	if err != nil {
		return err
	}
	act := res.Leaf.Action
	n := len(res.Args)
	if n < act.MinArgs || (act.MaxArgs >= 0 && n > act.MaxArgs) {
		d.log.Debugw("arity mismatch", map[string]any{"path": res.Path, "args": n})
		return &ArgumentMismatchError{Path: res.Path}
	}
	d.log.Debugw("dispatching", map[string]any{"path": res.Path, "args": res.Args})
	if err := act.Run(ctx, res.Args); err != nil {
		if errors.Is(err, ErrBadArguments) {
			d.log.Debugf("action rejected arguments: %v", err)
			return &ArgumentMismatchError{Path: res.Path}
		}
		return err
	}
	return nil
}
