package component

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity indicates whether a lint finding is a defect or advisory.
type Severity int

const (
	SeverityError   Severity = iota // the tree cannot be costed as built
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding is a single lint result.
type Finding struct {
	Path     string // position in the tree, e.g. "wing/0/spar"
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	if f.Path == "" {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Path, f.Message)
}

// LintResult separates blocking findings from advisory ones.
type LintResult struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether no errors were found.
func (r LintResult) OK() bool { return len(r.Errors) == 0 }

// WalkFunc is called for each node visited by Walk. path holds the child
// indexes leading from the root to n.
type WalkFunc func(path []int, n Node) error

// Walk visits n and its descendants depth-first in pre-order. It stops at the
// first error returned by fn.
func Walk(n Node, fn WalkFunc) error {
	return walk(nil, n, fn)
}

func walk(path []int, n Node, fn WalkFunc) error {
	if err := fn(path, n); err != nil {
		return err
	}
	for i, c := range n.Children() {
		if err := walk(append(path[:len(path):len(path)], i), c, fn); err != nil {
			return err
		}
	}
	return nil
}

// Lint checks a tree for bookkeeping problems that construction cannot rule
// out. It never mutates the tree.
func Lint(root Node) LintResult {
	var (
		res       LintResult
		units     string
		unitsPath string
	)
	idOwner := make(map[int]RowKey)
	idPath := make(map[int]string)
	names := pathNames(root)

	_ = Walk(root, func(path []int, n Node) error {
		p := names(path)

		if n.Cost() < 0 {
			res.Errors = append(res.Errors, Finding{
				Path:     p,
				Message:  fmt.Sprintf("negative cost %g", n.Cost()),
				Severity: SeverityError,
			})
		}

		leaf, isLeaf := n.(Leaf)
		if !isLeaf {
			return nil
		}

		if n.ID() == Unassigned {
			res.Warnings = append(res.Warnings, Finding{
				Path:     p,
				Message:  "part has no identifier",
				Severity: SeverityWarning,
			})
		} else if owner, ok := idOwner[n.ID()]; ok && owner != KeyOf(n) {
			res.Warnings = append(res.Warnings, Finding{
				Path:     p,
				Message:  fmt.Sprintf("identifier %d already used by a different part at %s", n.ID(), idPath[n.ID()]),
				Severity: SeverityWarning,
			})
		} else if !ok {
			idOwner[n.ID()] = KeyOf(n)
			idPath[n.ID()] = p
		}

		if leaf.Cost() == 0 {
			res.Warnings = append(res.Warnings, Finding{
				Path:     p,
				Message:  "part has zero cost",
				Severity: SeverityWarning,
			})
		}

		u := leaf.MassUnits()
		switch {
		case units == "":
			units, unitsPath = u, p
		case u != units:
			res.Warnings = append(res.Warnings, Finding{
				Path:     p,
				Message:  fmt.Sprintf("mass units %q differ from %q at %s", u, units, unitsPath),
				Severity: SeverityWarning,
			})
		}
		return nil
	})
	return res
}

// pathNames returns a function rendering an index path as
// "root/0/child/1/grandchild".
func pathNames(root Node) func([]int) string {
	return func(path []int) string {
		var b strings.Builder
		b.WriteString(root.Name())
		n := root
		for _, i := range path {
			n = n.Children()[i]
			b.WriteString("/")
			b.WriteString(strconv.Itoa(i))
			b.WriteString("/")
			b.WriteString(n.Name())
		}
		return b.String()
	}
}
