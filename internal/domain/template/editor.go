package template

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
)

const defaultHistoryLimit = 50

type snapshot struct {
	Entries []Entry `json:"entries"`
	Roots   []int   `json:"roots"`
}

// Editor holds a template as a flat list of entries plus the order of root
// funding lines. Ids are allocated monotonically and never reused.
type Editor struct {
	header  Template
	entries []Entry
	roots   []int
	nextID  int
	// Highest template line and calculation ids ever allocated. New nodes
	// continue from these so ids the platform has seen are not handed out again.
	lineHigh int
	calcHigh int

	undo  []snapshot
	redo  []snapshot
	limit int
}

// NewEditor returns an empty editor for the given template header. Any
// funding lines on header are ignored; use FromTemplate to load content.
func NewEditor(header Template) *Editor {
	header.FundingLines = nil
	return &Editor{header: header, nextID: 1, limit: defaultHistoryLimit}
}

// Header returns the template metadata without funding lines.
func (e *Editor) Header() Template { return e.header }

// Len returns the number of nodes.
func (e *Editor) Len() int { return len(e.entries) }

// Entries returns a copy of the flat entry list.
func (e *Editor) Entries() []Entry {
	out := make([]Entry, len(e.entries))
	for i, entry := range e.entries {
		out[i] = Entry{Key: entry.Key, Value: entry.Value.clone()}
	}
	return out
}

// Roots returns the ids of root funding lines in order.
func (e *Editor) Roots() []int { return slices.Clone(e.roots) }

// Node returns a copy of the node with id.
func (e *Editor) Node(id int) (Node, bool) {
	idx := e.find(id)
	if idx < 0 {
		return Node{}, false
	}
	return e.entries[idx].Value.clone(), true
}

// Parent returns the parent id of id, 0 for roots.
func (e *Editor) Parent(id int) (int, bool) {
	if e.find(id) < 0 {
		return 0, false
	}
	if slices.Contains(e.roots, id) {
		return 0, true
	}
	for _, entry := range e.entries {
		if slices.Contains(entry.Value.Children, id) {
			return entry.Key, true
		}
	}
	return 0, false
}

// CanUndo reports whether Undo has a state to restore.
func (e *Editor) CanUndo() bool { return len(e.undo) > 0 }

// CanRedo reports whether Redo has a state to restore.
func (e *Editor) CanRedo() bool { return len(e.redo) > 0 }

// Add creates a node beneath parentID (0 for the root) and returns its id.
func (e *Editor) Add(parentID int, spec NodeSpec) (int, error) {
	spec, err := spec.normalize()
	if err != nil {
		return 0, err
	}
	if err := e.checkPlacement(parentID, spec.Kind); err != nil {
		return 0, err
	}

	e.checkpoint()
	node := Node{
		Kind:            spec.Kind,
		Name:            spec.Name,
		FundingLineCode: spec.FundingLineCode,
		LineType:        spec.LineType,
		CalculationType: spec.CalculationType,
		ValueFormat:     spec.ValueFormat,
		AggregationType: spec.AggregationType,
		FormulaText:     spec.FormulaText,
	}
	if spec.Kind == KindFundingLine {
		node.CalculationType, node.ValueFormat, node.AggregationType, node.FormulaText = "", "", "", ""
		node.TemplateLineID = e.nextTemplateID(KindFundingLine)
	} else {
		node.FundingLineCode, node.LineType = "", ""
		node.TemplateCalculationID = e.nextTemplateID(KindCalculation)
	}
	id := e.insert(node)
	e.attach(parentID, id)
	return id, nil
}

// Update replaces the editable properties of id. The kind cannot change.
func (e *Editor) Update(id int, spec NodeSpec) error {
	idx := e.find(id)
	if idx < 0 {
		return fmt.Errorf("update %d: %w", id, ErrNodeNotFound)
	}
	current := e.entries[idx].Value
	if spec.Kind == "" {
		spec.Kind = current.Kind
	}
	if spec.Kind != current.Kind {
		return fmt.Errorf("update %d: kind cannot change from %s to %s", id, current.Kind, spec.Kind)
	}
	if spec.Kind == KindCalculation {
		spec.CalculationType = cmp.Or(spec.CalculationType, current.CalculationType)
		spec.ValueFormat = cmp.Or(spec.ValueFormat, current.ValueFormat)
		spec.AggregationType = cmp.Or(spec.AggregationType, current.AggregationType)
	} else {
		spec.LineType = cmp.Or(spec.LineType, current.LineType)
	}
	spec, err := spec.normalize()
	if err != nil {
		return err
	}

	e.checkpoint()
	node := &e.entries[idx].Value
	node.Name = spec.Name
	if node.Kind == KindFundingLine {
		node.FundingLineCode = spec.FundingLineCode
		node.LineType = spec.LineType
	} else {
		node.CalculationType = spec.CalculationType
		node.ValueFormat = spec.ValueFormat
		node.AggregationType = spec.AggregationType
		node.FormulaText = spec.FormulaText
	}
	return nil
}

// Remove deletes id and all of its descendants.
func (e *Editor) Remove(id int) error {
	if e.find(id) < 0 {
		return fmt.Errorf("remove %d: %w", id, ErrNodeNotFound)
	}

	e.checkpoint()
	doomed := e.subtree(id)
	e.detach(id)
	e.entries = slices.DeleteFunc(e.entries, func(entry Entry) bool {
		return slices.Contains(doomed, entry.Key)
	})
	return nil
}

// Clone deep-copies id and its descendants beneath newParentID with fresh ids
// and returns the id of the copy.
func (e *Editor) Clone(id, newParentID int) (int, error) {
	idx := e.find(id)
	if idx < 0 {
		return 0, fmt.Errorf("clone %d: %w", id, ErrNodeNotFound)
	}
	if err := e.checkPlacement(newParentID, e.entries[idx].Value.Kind); err != nil {
		return 0, err
	}

	e.checkpoint()
	copyID := e.cloneSubtree(id)
	e.attach(newParentID, copyID)
	return copyID, nil
}

// Move re-parents id beneath newParentID, appending it to the new parent's children.
func (e *Editor) Move(id, newParentID int) error {
	idx := e.find(id)
	if idx < 0 {
		return fmt.Errorf("move %d: %w", id, ErrNodeNotFound)
	}
	if newParentID != 0 && slices.Contains(e.subtree(id), newParentID) {
		return ErrCycle
	}
	if err := e.checkPlacement(newParentID, e.entries[idx].Value.Kind); err != nil {
		return err
	}

	e.checkpoint()
	e.detach(id)
	e.attach(newParentID, id)
	return nil
}

// Undo restores the state before the last mutation.
func (e *Editor) Undo() error {
	if len(e.undo) == 0 {
		return ErrNothingToUndo
	}
	last := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, e.capture())
	e.restore(last)
	return nil
}

// Redo reapplies the last undone mutation.
func (e *Editor) Redo() error {
	if len(e.redo) == 0 {
		return ErrNothingToRedo
	}
	last := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, e.capture())
	e.restore(last)
	return nil
}

// Walk visits nodes depth first in display order.
func (e *Editor) Walk(fn func(node Node, depth int)) {
	var visit func(id, depth int)
	seen := make(map[int]bool, len(e.entries))
	visit = func(id, depth int) {
		idx := e.find(id)
		if idx < 0 || seen[id] {
			return
		}
		seen[id] = true
		node := e.entries[idx].Value.clone()
		fn(node, depth)
		for _, child := range node.Children {
			visit(child, depth+1)
		}
	}
	for _, root := range e.roots {
		visit(root, 0)
	}
}

func (e *Editor) find(id int) int {
	return slices.IndexFunc(e.entries, func(entry Entry) bool { return entry.Key == id })
}

func (e *Editor) insert(node Node) int {
	id := e.nextID
	e.nextID++
	e.lineHigh = max(e.lineHigh, node.TemplateLineID)
	e.calcHigh = max(e.calcHigh, node.TemplateCalculationID)
	node.ID = id
	node.Children = nil
	e.entries = append(e.entries, Entry{Key: id, Value: node})
	return id
}

func (e *Editor) checkPlacement(parentID int, kind Kind) error {
	if parentID == 0 {
		if kind != KindFundingLine {
			return ErrRootMustBeLine
		}
		return nil
	}
	idx := e.find(parentID)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidParent, parentID)
	}
	if e.entries[idx].Value.Kind == KindCalculation && kind == KindFundingLine {
		return ErrCalculationParent
	}
	return nil
}

func (e *Editor) attach(parentID, id int) {
	if parentID == 0 {
		e.roots = append(e.roots, id)
		return
	}
	idx := e.find(parentID)
	e.entries[idx].Value.Children = append(e.entries[idx].Value.Children, id)
}

func (e *Editor) detach(id int) {
	e.roots = slices.DeleteFunc(e.roots, func(r int) bool { return r == id })
	for i := range e.entries {
		children := e.entries[i].Value.Children
		if slices.Contains(children, id) {
			e.entries[i].Value.Children = slices.DeleteFunc(children, func(c int) bool { return c == id })
		}
	}
}

// subtree returns id followed by all of its descendants.
func (e *Editor) subtree(id int) []int {
	out := []int{id}
	for i := 0; i < len(out); i++ {
		idx := e.find(out[i])
		if idx < 0 {
			continue
		}
		for _, child := range e.entries[idx].Value.Children {
			if !slices.Contains(out, child) {
				out = append(out, child)
			}
		}
	}
	return out
}

func (e *Editor) cloneSubtree(id int) int {
	source := e.entries[e.find(id)].Value.clone()
	node := source
	switch node.Kind {
	case KindFundingLine:
		node.TemplateLineID = e.nextTemplateID(KindFundingLine)
	case KindCalculation:
		node.TemplateCalculationID = e.nextTemplateID(KindCalculation)
	}
	copyID := e.insert(node)

	children := make([]int, 0, len(source.Children))
	for _, child := range source.Children {
		if e.find(child) < 0 {
			continue
		}
		children = append(children, e.cloneSubtree(child))
	}
	e.entries[e.find(copyID)].Value.Children = children
	return copyID
}

func (e *Editor) nextTemplateID(kind Kind) int {
	if kind == KindFundingLine {
		return e.lineHigh + 1
	}
	return e.calcHigh + 1
}

func (e *Editor) capture() snapshot {
	return snapshot{Entries: e.Entries(), Roots: e.Roots()}
}

func (e *Editor) checkpoint() {
	e.undo = append(e.undo, e.capture())
	if len(e.undo) > e.limit {
		e.undo = e.undo[len(e.undo)-e.limit:]
	}
	e.redo = nil
}

// restore swaps in s. nextID is left alone so ids handed out before an undo
// are not allocated again.
func (e *Editor) restore(s snapshot) {
	e.entries = s.Entries
	e.roots = s.Roots
}

type editorState struct {
	Header   Template   `json:"header"`
	Entries  []Entry    `json:"entries"`
	Roots    []int      `json:"roots"`
	NextID   int        `json:"nextId"`
	LineHigh int        `json:"lineHigh,omitempty"`
	CalcHigh int        `json:"calcHigh,omitempty"`
	Undo     []snapshot `json:"undo,omitempty"`
	Redo     []snapshot `json:"redo,omitempty"`
}

// MarshalJSON encodes the full editor state including history.
func (e *Editor) MarshalJSON() ([]byte, error) {
	return json.Marshal(editorState{
		Header:   e.header,
		Entries:  e.entries,
		Roots:    e.roots,
		NextID:   e.nextID,
		LineHigh: e.lineHigh,
		CalcHigh: e.calcHigh,
		Undo:     e.undo,
		Redo:     e.redo,
	})
}

// UnmarshalJSON restores an editor encoded by MarshalJSON.
func (e *Editor) UnmarshalJSON(data []byte) error {
	var state editorState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	next, lineHigh, calcHigh := state.NextID, state.LineHigh, state.CalcHigh
	bump := func(entries []Entry) {
		for _, entry := range entries {
			if entry.Key >= next {
				next = entry.Key + 1
			}
			lineHigh = max(lineHigh, entry.Value.TemplateLineID)
			calcHigh = max(calcHigh, entry.Value.TemplateCalculationID)
		}
	}
	bump(state.Entries)
	for _, s := range slices.Concat(state.Undo, state.Redo) {
		bump(s.Entries)
	}
	if next < 1 {
		next = 1
	}
	*e = Editor{
		header:   state.Header,
		entries:  state.Entries,
		roots:    state.Roots,
		nextID:   next,
		lineHigh: lineHigh,
		calcHigh: calcHigh,
		undo:     state.Undo,
		redo:     state.Redo,
		limit:    defaultHistoryLimit,
	}
	return nil
}
