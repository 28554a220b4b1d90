package tally

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/tally/internal/log"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// record is the persisted form of a category. The field names match the
// blob written by the browser build so either can read the other's state.
// selected is written for readers that display it directly; on load it is
// ignored and recomputed from submittedValues.
type record struct {
	Name            string         `json:"name"`
	Sizes           []int          `json:"sizes"`
	Selected        map[string]int `json:"selected"`
	SubmittedValues []json.Number  `json:"submittedValues"`
}

func (c *category) record() record {
	r := record{
		Name:            c.name,
		Sizes:           c.sizes,
		Selected:        make(map[string]int, len(c.recommended)),
		SubmittedValues: make([]json.Number, 0, len(c.submitted)),
	}
	for size, n := range c.recommended {
		r.Selected[strconv.Itoa(size)] = n
	}
	for _, d := range c.submitted {
		r.SubmittedValues = append(r.SubmittedValues, json.Number(d.String()))
	}
	return r
}

// amounts validates the submitted values of a persisted record. Any value
// that would be rejected on submit, or a total over types.MaxAmount,
// invalidates the whole record.
func (r record) amounts() ([]decimal.Decimal, bool) {
	out := make([]decimal.Decimal, 0, len(r.SubmittedValues))
	total := decimal.Zero
	for _, v := range r.SubmittedValues {
		d, err := ParseAmount(v.String())
		if err != nil {
			return nil, false
		}
		total = total.Add(d)
		if !withinLimit(total) {
			return nil, false
		}
		out = append(out, d)
	}
	return out, true
}

// persist writes the full state. Failures are logged and swallowed.
func (s *Store) persist() {
	records := make([]record, 0, len(s.categories))
	for _, c := range s.categories {
		records = append(records, c.record())
	}

	data, err := json.Marshal(records)
	if err == nil {
		err = s.kv.Set(s.key, data)
	}
	if err != nil {
		s.log.Error("failed to save state",
			log.FieldOperation, log.OpPersist, log.FieldKey, s.key, log.FieldError, err)
	}
}

// Load replaces the in-memory state with the persisted one.
//
// Each configured category is restored independently: a record that is
// missing or malformed leaves only that category empty. A blob that is not a
// JSON array at all leaves every category empty and is erased. Load never
// fails; problems are logged.
func (s *Store) Load() {
	for _, c := range s.categories {
		c.clear()
	}
	clear(s.inputs)

	data, err := s.kv.Get(s.key)
	if errors.Is(err, types.ErrKeyNotFound) {
		return
	}
	if err != nil {
		s.log.Error("failed to read saved state",
			log.FieldOperation, log.OpLoad, log.FieldKey, s.key, log.FieldError, err)
		return
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Warn("discarding unreadable saved state",
			log.FieldOperation, log.OpLoad, log.FieldKey, s.key, log.FieldError, err)
		s.purge()
		return
	}

	records := make(map[string]record, len(raw))
	for i, msg := range raw {
		var r record
		if err := json.Unmarshal(msg, &r); err != nil {
			s.log.Warn("skipping malformed saved category",
				log.FieldOperation, log.OpLoad, log.FieldIndex, i, log.FieldError, err)
			continue
		}
		if _, seen := records[r.Name]; !seen {
			records[r.Name] = r
		}
	}

	for _, c := range s.categories {
		r, ok := records[c.name]
		if !ok {
			continue
		}
		amounts, ok := r.amounts()
		if !ok {
			s.log.Warn("skipping saved category with invalid amounts",
				log.FieldOperation, log.OpLoad, log.FieldCategory, c.name)
			continue
		}
		c.submitted = amounts
		c.recompute()
	}
}

func (s *Store) purge() {
	if err := s.kv.Delete(s.key); err != nil {
		s.log.Error("failed to erase unreadable saved state",
			log.FieldOperation, log.OpPurge, log.FieldKey, s.key, log.FieldError, err)
	}
}
