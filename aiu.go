package llmmin

import "encoding/json"

// AIUKind classifies what an atomic information unit describes.
type AIUKind string

// AIU kinds, encoded with their short wire tags.
const (
	KindFeature      AIUKind = "Feat"
	KindConfigObject AIUKind = "CfgObj"
	KindAPIEndpoint  AIUKind = "APIEnd"
	KindFunction     AIUKind = "Func"
	KindClassMethod  AIUKind = "ClsMth"
	KindDataObject   AIUKind = "DataObj"
	KindParameterSet AIUKind = "ParamSet"
	KindPattern      AIUKind = "Patt"
	KindHowTo        AIUKind = "HowTo"
	KindScenario     AIUKind = "Scen"
	KindBestPractice AIUKind = "BestPr"
	KindTool         AIUKind = "Tool"
)

// Valid reports whether the kind is one of the declared tags.
func (k AIUKind) Valid() bool {
	switch k {
	case KindFeature, KindConfigObject, KindAPIEndpoint, KindFunction,
		KindClassMethod, KindDataObject, KindParameterSet, KindPattern,
		KindHowTo, KindScenario, KindBestPractice, KindTool:
		return true
	}
	return false
}

// RelationshipKind classifies how one AIU relates to another.
type RelationshipKind string

// Relationship kinds, encoded with their short wire tags.
const (
	RelUses               RelationshipKind = "U"
	RelConfigures         RelationshipKind = "C"
	RelReturns            RelationshipKind = "R"
	RelAccepts            RelationshipKind = "A"
	RelPartOf             RelationshipKind = "P"
	RelInstanceOf         RelationshipKind = "I"
	RelHasMethod          RelationshipKind = "HM"
	RelHasPattern         RelationshipKind = "HP"
	RelHelpsCompatibility RelationshipKind = "HwC"
	RelHelpsPerformance   RelationshipKind = "HwP"
)

// Valid reports whether the relationship kind is one of the declared tags.
func (k RelationshipKind) Valid() bool {
	switch k {
	case RelUses, RelConfigures, RelReturns, RelAccepts, RelPartOf,
		RelInstanceOf, RelHasMethod, RelHasPattern,
		RelHelpsCompatibility, RelHelpsPerformance:
		return true
	}
	return false
}

// Parameter describes one input accepted by the documented concept.
// Default and Example are nil when the documentation does not state them,
// which is distinct from an explicitly empty string.
type Parameter struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Default     *string `json:"default"`
	Example     *string `json:"example"`
}

// OutputField describes one output or return field.
type OutputField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Relationship links an AIU to another AIU in the same set.
type Relationship struct {
	TargetID string           `json:"targetId"`
	Kind     RelationshipKind `json:"kind"`
}

// AIU is an Atomic Information Unit: one structured fact about the
// documented subject. IDs are stable across merge steps that refer to the
// same concept.
type AIU struct {
	ID            string         `json:"id"`
	Kind          AIUKind        `json:"kind"`
	Name          string         `json:"name"`
	Purpose       string         `json:"purpose"`
	Inputs        []Parameter    `json:"inputs"`
	Outputs       []OutputField  `json:"outputs"`
	Usage         string         `json:"usage"`
	Relationships []Relationship `json:"relationships"`
	Source        string         `json:"source"`
}

// Validate returns an error if the AIU contains invalid fields.
func (a *AIU) Validate() error {
	if a.ID == "" {
		return Errorf(EINVALID, "aiu ID required")
	}
	if !a.Kind.Valid() {
		return Errorf(EINVALID, "unknown aiu kind %q", a.Kind)
	}
	if a.Name == "" {
		return Errorf(EINVALID, "aiu name required")
	}
	for _, rel := range a.Relationships {
		if rel.TargetID == "" {
			return Errorf(EINVALID, "relationship target ID required")
		}
		if !rel.Kind.Valid() {
			return Errorf(EINVALID, "unknown relationship kind %q", rel.Kind)
		}
	}
	return nil
}

// AIUSet is the complete, deduplicated mapping from ID to AIU at one point
// in the pipeline. It preserves insertion order so serialized output is
// stable. Exactly one AIUSet is live per document task; sets are replaced
// wholesale on each merge, never patched in place.
type AIUSet struct {
	ids  []string
	byID map[string]*AIU
}

// NewAIUSet returns an empty AIUSet.
func NewAIUSet() *AIUSet {
	return &AIUSet{byID: make(map[string]*AIU)}
}

// Len returns the number of records in the set.
func (s *AIUSet) Len() int {
	return len(s.ids)
}

// Put inserts or replaces a record. A record with a previously seen ID
// keeps its original position in the ordering.
func (s *AIUSet) Put(aiu *AIU) {
	if _, ok := s.byID[aiu.ID]; !ok {
		s.ids = append(s.ids, aiu.ID)
	}
	s.byID[aiu.ID] = aiu
}

// Get returns the record with the given ID, or nil if absent.
func (s *AIUSet) Get(id string) *AIU {
	return s.byID[id]
}

// Contains reports whether an ID is present in the set.
func (s *AIUSet) Contains(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// All returns the records in insertion order.
func (s *AIUSet) All() []*AIU {
	out := make([]*AIU, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.byID[id])
	}
	return out
}

// IDs returns the record IDs in insertion order.
func (s *AIUSet) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// MarshalJSON serializes the set as an ordered array of records.
func (s *AIUSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.All())
}

// UnmarshalJSON replaces the set's contents with the records from an
// ordered array.
func (s *AIUSet) UnmarshalJSON(data []byte) error {
	var records []*AIU
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	s.ids = s.ids[:0]
	s.byID = make(map[string]*AIU, len(records))
	for _, aiu := range records {
		s.Put(aiu)
	}
	return nil
}

// PruneDanglingRelationships removes every relationship whose target ID is
// not present in the set and returns the number removed. The rest of each
// record is retained untouched.
func (s *AIUSet) PruneDanglingRelationships() int {
	dropped := 0
	for _, id := range s.ids {
		aiu := s.byID[id]
		kept := aiu.Relationships[:0]
		for _, rel := range aiu.Relationships {
			if s.Contains(rel.TargetID) {
				kept = append(kept, rel)
			} else {
				dropped++
			}
		}
		aiu.Relationships = kept
	}
	return dropped
}
