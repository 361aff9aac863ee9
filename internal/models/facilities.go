package models

import "fmt"

// FacilitySet is the fixed reference data an analysis measures against.
// It is immutable after construction and safe to share between goroutines.
type FacilitySet struct {
	items []Facility
}

// NewFacilitySet copies fs and checks every coordinate and ID. An empty set is
// allowed here; reducers reject it when asked for a nearest distance.
func NewFacilitySet(fs []Facility) (*FacilitySet, error) {
	items := make([]Facility, len(fs))
	seen := make(map[string]struct{}, len(fs))
	for i, f := range fs {
		if err := ValidateCoordinate(f.Loc); err != nil {
			return nil, fmt.Errorf("facility %q: %w", f.ID, err)
		}
		if f.ID != "" {
			if _, dup := seen[f.ID]; dup {
				return nil, fmt.Errorf("facility %q: %w", f.ID,
					&ValidationError{Field: "facility id", Value: f.ID, Reason: "duplicate id"})
			}
			seen[f.ID] = struct{}{}
		}
		items[i] = f
	}
	return &FacilitySet{items: items}, nil
}

func (s *FacilitySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// At returns the i-th facility.
func (s *FacilitySet) At(i int) Facility {
	return s.items[i]
}

// All returns a copy of the facilities in construction order.
func (s *FacilitySet) All() []Facility {
	if s == nil {
		return nil
	}
	out := make([]Facility, len(s.items))
	copy(out, s.items)
	return out
}
