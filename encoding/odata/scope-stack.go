package odata

import (
	"github.com/neuronlabs/neuron-odata/errors"
)

// scopeStack is the stack of the writer scopes. Only the current scope is mutated.
type scopeStack struct {
	scopes []*scope
}

func (s *scopeStack) push(sc *scope) {
	s.scopes = append(s.scopes, sc)
}

func (s *scopeStack) pop() (*scope, error) {
	if len(s.scopes) == 0 {
		return nil, errors.WrapDet(ErrEmptyStack, "pop on empty scope stack")
	}
	sc := s.scopes[len(s.scopes)-1]
	s.scopes[len(s.scopes)-1] = nil
	s.scopes = s.scopes[:len(s.scopes)-1]
	return sc, nil
}

func (s *scopeStack) current() (*scope, error) {
	if len(s.scopes) == 0 {
		return nil, errors.WrapDet(ErrEmptyStack, "no current scope")
	}
	return s.scopes[len(s.scopes)-1], nil
}

// replaceCurrent replaces the current scope with 'sc'.
func (s *scopeStack) replaceCurrent(sc *scope) error {
	if len(s.scopes) == 0 {
		return errors.WrapDet(ErrEmptyStack, "no current scope to replace")
	}
	s.scopes[len(s.scopes)-1] = sc
	return nil
}

// parent gets the scope directly below the current one.
func (s *scopeStack) parent() *scope {
	if len(s.scopes) < 2 {
		return nil
	}
	return s.scopes[len(s.scopes)-2]
}

// parentOfKind gets the nearest scope of kind 'k' below the current scope.
func (s *scopeStack) parentOfKind(k scopeKind) *scope {
	for i := len(s.scopes) - 2; i >= 0; i-- {
		if s.scopes[i].kind == k {
			return s.scopes[i]
		}
	}
	return nil
}

// enclosingRelationship gets the relationship scope that directly encloses the current scope.
func (s *scopeStack) enclosingRelationship() *scope {
	if p := s.parent(); p != nil && p.kind == relationshipScope {
		return p
	}
	return nil
}

func (s *scopeStack) len() int {
	return len(s.scopes)
}

func (s *scopeStack) currentRecordSet() (*scope, *RecordSet, *recordSetState, error) {
	sc, err := s.current()
	if err != nil {
		return nil, nil, nil, err
	}
	set, state, err := sc.recordSet()
	return sc, set, state, err
}

func (s *scopeStack) currentRecord() (*scope, *Record, *recordState, error) {
	sc, err := s.current()
	if err != nil {
		return nil, nil, nil, err
	}
	record, state, err := sc.recordItem()
	return sc, record, state, err
}

func (s *scopeStack) currentRelationship() (*scope, *Relationship, *relationshipState, error) {
	sc, err := s.current()
	if err != nil {
		return nil, nil, nil, err
	}
	rel, state, err := sc.relationshipItem()
	return sc, rel, state, err
}
