package template

import (
	"encoding/json"
	"fmt"
	"io"
)

// FromTemplate flattens a nested template into a new editor. Ids are assigned
// depth first starting at 1.
func FromTemplate(t Template) (*Editor, error) {
	e := NewEditor(t)
	for i, line := range t.FundingLines {
		id, err := e.loadLine(line)
		if err != nil {
			return nil, fmt.Errorf("funding line %d: %w", i, err)
		}
		e.roots = append(e.roots, id)
	}
	return e, nil
}

// Decode reads a template JSON document into a new editor.
func Decode(r io.Reader) (*Editor, error) {
	var t Template
	dec := json.NewDecoder(r)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	return FromTemplate(t)
}

func (e *Editor) loadLine(line FundingLine) (int, error) {
	if line.Name == "" {
		return 0, fmt.Errorf("template line %d: %w", line.TemplateLineID, ErrNameRequired)
	}
	lineType := line.Type
	if lineType == "" {
		lineType = LineTypeInformation
	}
	id := e.insert(Node{
		Kind:            KindFundingLine,
		Name:            line.Name,
		TemplateLineID:  line.TemplateLineID,
		FundingLineCode: line.FundingLineCode,
		LineType:        lineType,
	})

	children := make([]int, 0, len(line.FundingLines)+len(line.Calculations))
	for _, sub := range line.FundingLines {
		child, err := e.loadLine(sub)
		if err != nil {
			return 0, err
		}
		children = append(children, child)
	}
	for _, calc := range line.Calculations {
		child, err := e.loadCalculation(calc)
		if err != nil {
			return 0, err
		}
		children = append(children, child)
	}
	e.entries[e.find(id)].Value.Children = children
	return id, nil
}

func (e *Editor) loadCalculation(calc Calculation) (int, error) {
	if calc.Name == "" {
		return 0, fmt.Errorf("template calculation %d: %w", calc.TemplateCalculationID, ErrNameRequired)
	}
	id := e.insert(Node{
		Kind:                  KindCalculation,
		Name:                  calc.Name,
		TemplateCalculationID: calc.TemplateCalculationID,
		CalculationType:       calc.Type,
		ValueFormat:           calc.ValueFormat,
		AggregationType:       calc.AggregationType,
		FormulaText:           calc.FormulaText,
	})

	children := make([]int, 0, len(calc.Calculations))
	for _, sub := range calc.Calculations {
		child, err := e.loadCalculation(sub)
		if err != nil {
			return 0, err
		}
		children = append(children, child)
	}
	e.entries[e.find(id)].Value.Children = children
	return id, nil
}

// Template rebuilds the nested template document. Funding line children are
// split into fundingLines and calculations, each keeping its relative order.
func (e *Editor) Template() Template {
	out := e.header
	out.FundingLines = make([]FundingLine, 0, len(e.roots))
	for _, root := range e.roots {
		if line, ok := e.buildLine(root); ok {
			out.FundingLines = append(out.FundingLines, line)
		}
	}
	return out
}

func (e *Editor) buildLine(id int) (FundingLine, bool) {
	node, ok := e.Node(id)
	if !ok || node.Kind != KindFundingLine {
		return FundingLine{}, false
	}
	line := FundingLine{
		TemplateLineID:  node.TemplateLineID,
		Name:            node.Name,
		FundingLineCode: node.FundingLineCode,
		Type:            node.LineType,
		FundingLines:    []FundingLine{},
		Calculations:    []Calculation{},
	}
	for _, child := range node.Children {
		if sub, ok := e.buildLine(child); ok {
			line.FundingLines = append(line.FundingLines, sub)
			continue
		}
		if calc, ok := e.buildCalculation(child); ok {
			line.Calculations = append(line.Calculations, calc)
		}
	}
	return line, true
}

func (e *Editor) buildCalculation(id int) (Calculation, bool) {
	node, ok := e.Node(id)
	if !ok || node.Kind != KindCalculation {
		return Calculation{}, false
	}
	calc := Calculation{
		TemplateCalculationID: node.TemplateCalculationID,
		Name:                  node.Name,
		Type:                  node.CalculationType,
		ValueFormat:           node.ValueFormat,
		AggregationType:       node.AggregationType,
		FormulaText:           node.FormulaText,
		Calculations:          []Calculation{},
	}
	for _, child := range node.Children {
		if sub, ok := e.buildCalculation(child); ok {
			calc.Calculations = append(calc.Calculations, sub)
		}
	}
	return calc, true
}
