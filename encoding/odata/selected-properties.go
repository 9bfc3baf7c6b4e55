package odata

import (
	"strings"

	"github.com/neuronlabs/neuron-odata/errors"
)

// SelectedProperties is the immutable filter of the selected and expanded properties.
// A nil filter selects all properties.
type SelectedProperties struct {
	all      bool
	names    []string
	selected map[string]struct{}
	expanded map[string]*SelectedProperties
	// expandOrder keeps the order of the expanded names.
	expandOrder []string
}

// AllSelected creates the filter that selects all the properties.
func AllSelected() *SelectedProperties {
	return &SelectedProperties{all: true}
}

// ParseSelect parses the comma separated select clause i.e. 'Name,Address'.
// The expanded relationships are defined with the parenthesis containing their own select clause
// i.e. 'Name,Orders(Total,Number)'. The '*' selects all properties.
func ParseSelect(clause string) (*SelectedProperties, error) {
	s := &SelectedProperties{}
	clause = strings.TrimSpace(clause)
	if clause == "" {
		s.all = true
		return s, nil
	}
	for _, part := range splitTopLevel(clause) {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.WrapDetf(errors.ErrInvalidArgument, "empty select item in: '%s'", clause)
		}
		open := strings.IndexByte(part, '(')
		if open == -1 {
			if part == "*" {
				s.all = true
				continue
			}
			s.add(part)
			continue
		}
		if !strings.HasSuffix(part, ")") || open == 0 {
			return nil, errors.WrapDetf(errors.ErrInvalidArgument, "invalid select item: '%s'", part)
		}
		nested, err := ParseSelect(part[open+1 : len(part)-1])
		if err != nil {
			return nil, err
		}
		s.expand(part[:open], nested)
	}
	if len(s.names) == 0 && len(s.expandOrder) == 0 {
		s.all = true
	}
	return s, nil
}

// Select creates the filter selecting given property 'names'.
func Select(names ...string) *SelectedProperties {
	s := &SelectedProperties{}
	for _, name := range names {
		s.add(name)
	}
	if len(names) == 0 {
		s.all = true
	}
	return s
}

// Expand returns the copy of the filter with the 'name' relationship expanded using the 'nested' filter.
func (s *SelectedProperties) Expand(name string, nested *SelectedProperties) *SelectedProperties {
	c := &SelectedProperties{all: true}
	if s != nil {
		c = s.copy()
	}
	c.expand(name, nested)
	return c
}

// IsAll checks if all the properties are selected.
func (s *SelectedProperties) IsAll() bool {
	return s == nil || s.all
}

// IsSelected checks if the property 'name' is selected or expanded.
func (s *SelectedProperties) IsSelected(name string) bool {
	if s.IsAll() {
		return true
	}
	if _, ok := s.selected[name]; ok {
		return true
	}
	_, ok := s.expanded[name]
	return ok
}

// IsExpanded checks if the relationship 'name' is expanded.
func (s *SelectedProperties) IsExpanded(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.expanded[name]
	return ok
}

// Nested gets the filter of the expanded relationship 'name'. The result is nil if the relationship was not expanded.
func (s *SelectedProperties) Nested(name string) *SelectedProperties {
	if s == nil {
		return nil
	}
	return s.expanded[name]
}

// Names gets the explicitly selected property names.
func (s *SelectedProperties) Names() []string {
	if s == nil {
		return nil
	}
	return s.names
}

// contextSelectList gets the select list used within the context url. Empty when all properties are selected
// and nothing was expanded.
func (s *SelectedProperties) contextSelectList() string {
	if s == nil {
		return ""
	}
	var items []string
	if !s.all {
		items = append(items, s.names...)
	}
	for _, name := range s.expandOrder {
		if !s.all {
			if _, ok := s.selected[name]; ok {
				// the name is already listed within the selection, append only the expansion.
				items = removeItem(items, name)
			}
		}
		items = append(items, name+"("+s.expanded[name].contextSelectList()+")")
	}
	return strings.Join(items, ",")
}

func (s *SelectedProperties) add(name string) {
	if s.selected == nil {
		s.selected = map[string]struct{}{}
	}
	if _, ok := s.selected[name]; ok {
		return
	}
	s.selected[name] = struct{}{}
	s.names = append(s.names, name)
}

func (s *SelectedProperties) expand(name string, nested *SelectedProperties) {
	if s.expanded == nil {
		s.expanded = map[string]*SelectedProperties{}
	}
	if _, ok := s.expanded[name]; !ok {
		s.expandOrder = append(s.expandOrder, name)
	}
	if nested == nil {
		nested = AllSelected()
	}
	s.expanded[name] = nested
}

func (s *SelectedProperties) copy() *SelectedProperties {
	c := &SelectedProperties{all: s.all}
	for _, name := range s.names {
		c.add(name)
	}
	for _, name := range s.expandOrder {
		c.expand(name, s.expanded[name])
	}
	return c
}

func splitTopLevel(clause string) []string {
	var (
		parts []string
		depth int
		last  int
	)
	for i := 0; i < len(clause); i++ {
		switch clause[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, clause[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, clause[last:])
}

func removeItem(items []string, name string) []string {
	for i, item := range items {
		if item == name {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}
