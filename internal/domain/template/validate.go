package template

import (
	"fmt"
	"slices"
	"strings"
)

// Problem is one structural defect found by Validate.
type Problem struct {
	NodeID  int    `json:"nodeId,omitempty"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	if p.NodeID == 0 {
		return p.Message
	}
	return fmt.Sprintf("node %d: %s", p.NodeID, p.Message)
}

// Validate checks the editor's structure and returns every problem found,
// ordered by node id.
func (e *Editor) Validate() []Problem {
	var problems []Problem
	add := func(id int, format string, args ...any) {
		problems = append(problems, Problem{NodeID: id, Message: fmt.Sprintf(format, args...)})
	}

	parents := make(map[int][]int, len(e.entries))
	for _, root := range e.roots {
		parents[root] = append(parents[root], 0)
	}
	for _, entry := range e.entries {
		for _, child := range entry.Value.Children {
			parents[child] = append(parents[child], entry.Key)
		}
	}

	reachable := make(map[int]bool, len(e.entries))
	for _, root := range e.roots {
		for _, id := range e.subtree(root) {
			reachable[id] = true
		}
	}

	codes := make(map[string]int)
	for _, entry := range e.entries {
		node := entry.Value
		id := entry.Key

		if strings.TrimSpace(node.Name) == "" {
			add(id, "name is required")
		}
		if !reachable[id] {
			add(id, "%q is not attached to the template", node.Name)
		}
		if len(parents[id]) > 1 {
			add(id, "%q has more than one parent", node.Name)
		}
		if slices.Contains(e.roots, id) && node.Kind != KindFundingLine {
			add(id, "%q is a calculation at the root", node.Name)
		}
		for _, child := range node.Children {
			idx := e.find(child)
			switch {
			case idx < 0:
				add(id, "%q references missing child %d", node.Name, child)
			case node.Kind == KindCalculation && e.entries[idx].Value.Kind == KindFundingLine:
				add(id, "calculation %q contains funding line %d", node.Name, child)
			case slices.Contains(e.subtree(child)[1:], id) || child == id:
				add(id, "%q is its own descendant", node.Name)
			}
		}

		if node.Kind != KindFundingLine {
			continue
		}
		if node.LineType == LineTypePayment && node.FundingLineCode == "" {
			add(id, "payment line %q requires a funding line code", node.Name)
		}
		if node.FundingLineCode != "" {
			if other, dup := codes[node.FundingLineCode]; dup {
				add(id, "funding line code %s is also used by node %d", node.FundingLineCode, other)
			} else {
				codes[node.FundingLineCode] = id
			}
		}
	}

	for _, root := range e.roots {
		if e.find(root) < 0 {
			add(0, "root %d does not exist", root)
		}
	}

	slices.SortStableFunc(problems, func(a, b Problem) int { return a.NodeID - b.NodeID })
	return problems
}
