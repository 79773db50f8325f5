package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound    = errors.New("parameter not found")
	ErrDuplicateID = errors.New("duplicate parameter id")
)

// ParameterSet is an ordered collection of parameters addressed by id.
// The zero value is an empty set ready to use. It is not safe for concurrent
// use; hand a Clone to other goroutines.
type ParameterSet struct {
	items  []Parameter
	nextID ParameterID
}

// ParameterUpdate names the fields to change; nil fields are left untouched.
type ParameterUpdate struct {
	Key   *string
	Value *string
}

func NewParameterSet() *ParameterSet {
	return &ParameterSet{}
}

func (s *ParameterSet) Len() int {
	return len(s.items)
}

// Add appends a new parameter and returns its id. Ids start at 1 and are
// never handed out twice by the same set.
func (s *ParameterSet) Add(key, value string) ParameterID {
	if s.nextID == 0 {
		s.nextID = 1
	}
	id := s.nextID
	s.nextID++
	s.items = append(s.items, NewParameter(id, key, value))
	return id
}

// NextID reports the id the next Add will hand out.
func (s *ParameterSet) NextID() ParameterID {
	return max(s.nextID, 1)
}

// ReserveIDs makes sure no id below next is handed out again. It never
// lowers the counter.
func (s *ParameterSet) ReserveIDs(next ParameterID) {
	s.nextID = max(s.nextID, next)
}

func (s *ParameterSet) Get(id ParameterID) (Parameter, error) {
	i := s.indexOf(id)
	if i < 0 {
		return Parameter{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s.items[i], nil
}

func (s *ParameterSet) Remove(id ParameterID) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *ParameterSet) Update(id ParameterID, update ParameterUpdate) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if update.Key != nil {
		s.items[i].SetKey(*update.Key)
	}
	if update.Value != nil {
		s.items[i].SetValue(*update.Value)
	}
	return nil
}

// Move relocates the parameter to index. Out of range indices are clamped to
// the first or last position.
func (s *ParameterSet) Move(id ParameterID, index int) error {
	from := s.indexOf(id)
	if from < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	index = max(0, min(index, len(s.items)-1))
	if from == index {
		return nil
	}

	p := s.items[from]
	if from < index {
		copy(s.items[from:index], s.items[from+1:index+1])
	} else {
		copy(s.items[index+1:from+1], s.items[index:from])
	}
	s.items[index] = p
	return nil
}

func (s *ParameterSet) ToOrderedPairs() []Pair {
	pairs := make([]Pair, 0, len(s.items))
	for _, p := range s.items {
		pairs = append(pairs, Pair{Key: p.Key(), Value: p.Value()})
	}
	return pairs
}

// All iterates over a copy of the entries taken when iteration starts.
func (s *ParameterSet) All() iter.Seq[Parameter] {
	return func(yield func(Parameter) bool) {
		snapshot := make([]Parameter, len(s.items))
		copy(snapshot, s.items)
		for _, p := range snapshot {
			if !yield(p) {
				return
			}
		}
	}
}

func (s *ParameterSet) Clone() *ParameterSet {
	items := make([]Parameter, len(s.items))
	copy(items, s.items)
	return &ParameterSet{items: items, nextID: s.nextID}
}

func (s *ParameterSet) indexOf(id ParameterID) int {
	for i, p := range s.items {
		if p.id == id {
			return i
		}
	}
	return -1
}

type parameterRecord struct {
	ID    ParameterID `json:"id" yaml:"id"`
	Key   string      `json:"key" yaml:"key"`
	Value string      `json:"value" yaml:"value"`
}

func (s *ParameterSet) records() []parameterRecord {
	records := make([]parameterRecord, 0, len(s.items))
	for _, p := range s.items {
		records = append(records, parameterRecord{ID: p.id, Key: p.key, Value: p.value})
	}
	return records
}

func (s *ParameterSet) load(records []parameterRecord) error {
	seen := make(map[ParameterID]bool, len(records))
	items := make([]Parameter, 0, len(records))
	var maxID ParameterID
	for _, r := range records {
		if r.ID <= 0 {
			return fmt.Errorf("invalid parameter id: %d", r.ID)
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = true
		maxID = max(maxID, r.ID)
		items = append(items, NewParameter(r.ID, r.Key, r.Value))
	}
	s.items = items
	s.nextID = maxID + 1
	return nil
}

func (s ParameterSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.records())
}

func (s *ParameterSet) UnmarshalJSON(data []byte) error {
	var records []parameterRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	return s.load(records)
}

func (s ParameterSet) MarshalYAML() (interface{}, error) {
	return s.records(), nil
}

func (s *ParameterSet) UnmarshalYAML(node *yaml.Node) error {
	var records []parameterRecord
	if err := node.Decode(&records); err != nil {
		return err
	}
	return s.load(records)
}
