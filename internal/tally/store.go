// Package tally owns the per-category tally state: the amounts a user has
// submitted, the sizes recommended to cover them, and persisting both to a
// key-value store.
//
// A Store is used from a single goroutine. Every mutation recomputes the
// recommended counts from scratch and then writes the full state; a failed
// write is logged and the in-memory state stays authoritative.
package tally

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/tally/internal/log"
	"github.com/mesh-intelligence/tally/pkg/planner"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// category is the mutable record for one configured category. recommended
// is only ever assigned by recompute.
type category struct {
	name        string
	sizes       []int
	submitted   []decimal.Decimal
	recommended planner.Counts
}

// recompute derives the recommended counts from the submitted amounts.
func (c *category) recompute() {
	c.recommended = planner.Plan(c.requested(), c.sizes)
}

func (c *category) requested() decimal.Decimal {
	return decimal.Sum(decimal.Zero, c.submitted...)
}

func (c *category) clear() {
	c.submitted = nil
	c.recommended = planner.Counts{}
}

// Store holds every configured category, the transient input buffers, and
// the persistence collaborator.
type Store struct {
	categories []*category
	byName     map[string]*category
	inputs     map[string]string

	kv  types.KV
	key string
	log *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the key the state is persisted under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the logger used to report persistence failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.log = l.WithComponent(log.ComponentTally) }
}

// New returns an empty Store for the given categories. Call Load to restore
// persisted state.
func New(categories []types.CategoryConfig, kv types.KV, opts ...Option) (*Store, error) {
	if err := types.ValidateCategories(categories); err != nil {
		return nil, err
	}

	s := &Store{
		byName: make(map[string]*category, len(categories)),
		inputs: make(map[string]string),
		kv:     kv,
		key:    types.DefaultStorageKey,
		log:    log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.key == "" {
		return nil, types.ErrStorageKeyEmpty
	}

	for _, cfg := range categories {
		c := &category{
			name:        cfg.Name,
			sizes:       slices.Clone(cfg.Sizes),
			recommended: planner.Counts{},
		}
		s.categories = append(s.categories, c)
		s.byName[c.name] = c
	}
	return s, nil
}

func (s *Store) lookup(name string) (*category, error) {
	c, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrCategoryNotFound, name)
	}
	return c, nil
}

// SetInput replaces the transient input buffer of a category.
func (s *Store) SetInput(name, raw string) error {
	if _, err := s.lookup(name); err != nil {
		return err
	}
	s.inputs[name] = raw
	return nil
}

// Input returns the transient input buffer of a category.
func (s *Store) Input(name string) string {
	return s.inputs[name]
}

// Submit places raw in the category's input buffer and submits it.
func (s *Store) Submit(name, raw string) error {
	if err := s.SetInput(name, raw); err != nil {
		return err
	}
	return s.SubmitInput(name)
}

// SubmitInput parses the category's input buffer and appends it to the
// submitted amounts. An invalid amount returns ErrInvalidAmount, and one that
// would push the category total past types.MaxAmount returns
// ErrAmountTooLarge; either way the state and the buffer are untouched so
// the user can correct it.
func (s *Store) SubmitInput(name string) error {
	c, err := s.lookup(name)
	if err != nil {
		return err
	}

	raw := s.inputs[name]
	amount, err := ParseAmount(raw)
	if err != nil {
		s.log.Debug("rejected amount", log.FieldOperation, log.OpSubmit, log.FieldCategory, name, log.FieldAmount, raw)
		return err
	}
	if !withinLimit(c.requested().Add(amount)) {
		s.log.Debug("rejected amount over limit", log.FieldOperation, log.OpSubmit, log.FieldCategory, name, log.FieldAmount, raw)
		return types.ErrAmountTooLarge
	}

	c.submitted = append(c.submitted, amount)
	c.recompute()
	s.persist()
	s.inputs[name] = ""

	s.log.Debug("submitted amount",
		log.FieldOperation, log.OpSubmit,
		log.FieldCategory, name,
		log.FieldAmount, amount.String(),
		log.FieldRequested, c.requested().String(),
		log.FieldCovered, c.recommended.Total(),
	)
	return nil
}

// RemoveSubmittedAmount removes the amount at index, keeping the order of
// the rest, and recomputes the recommended counts from the new total.
func (s *Store) RemoveSubmittedAmount(name string, index int) error {
	c, err := s.lookup(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(c.submitted) {
		return fmt.Errorf("%w: %d not in [0, %d)", types.ErrIndexOutOfRange, index, len(c.submitted))
	}

	c.submitted = slices.Delete(c.submitted, index, index+1)
	c.recompute()
	s.persist()

	s.log.Debug("removed amount", log.FieldOperation, log.OpRemove, log.FieldCategory, name, log.FieldIndex, index)
	return nil
}

// Reset empties every category and the input buffers and erases the
// persisted state.
func (s *Store) Reset() {
	for _, c := range s.categories {
		c.clear()
	}
	clear(s.inputs)

	if err := s.kv.Delete(s.key); err != nil {
		s.log.Error("failed to erase saved state",
			log.FieldOperation, log.OpReset, log.FieldKey, s.key, log.FieldError, err)
	}
}

// TotalRequested returns the sum of the submitted amounts.
func (s *Store) TotalRequested(name string) (decimal.Decimal, error) {
	c, err := s.lookup(name)
	if err != nil {
		return decimal.Zero, err
	}
	return c.requested(), nil
}

// TotalCovered returns the weighted sum of the recommended counts.
func (s *Store) TotalCovered(name string) (decimal.Decimal, error) {
	c, err := s.lookup(name)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(c.recommended.Total()), nil
}

// Surplus returns covered minus requested, never less than zero.
func (s *Store) Surplus(name string) (decimal.Decimal, error) {
	c, err := s.lookup(name)
	if err != nil {
		return decimal.Zero, err
	}
	return surplus(c), nil
}

func surplus(c *category) decimal.Decimal {
	diff := decimal.NewFromInt(c.recommended.Total()).Sub(c.requested())
	if diff.IsNegative() {
		return decimal.Zero
	}
	return diff
}
