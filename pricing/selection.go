package pricing

import (
	"sort"
	"sync"

	"github.com/packkart/PackKart/models"
)

// Selections tracks the gift items chosen per tier for one session. It
// enforces the per-tier cap locally and is re-validated against the latest
// qualifying set after every revalidation round and again before submission.
type Selections struct {
	mu     sync.Mutex
	chosen map[uint]map[uint]bool // tier id -> set of gift item ids
}

// NewSelections returns an empty selection set.
func NewSelections() *Selections {
	return &Selections{chosen: make(map[uint]map[uint]bool)}
}

// Select adds a gift item for a tier. It fails with ErrSelectionLimit when
// the tier's cap is already reached and the item is new, ErrGiftNotInTier
// when the item is not in the tier's gift list, and ErrGiftInactive when the
// item is disabled. Selecting an already-selected item is a no-op.
func (s *Selections) Select(tier models.GiftTier, itemID uint) error {
	var item *models.GiftItem
	for i := range tier.Items {
		if tier.Items[i].ID == itemID {
			item = &tier.Items[i]
			break
		}
	}
	if item == nil {
		return ErrGiftNotInTier
	}
	if !item.IsActive {
		return ErrGiftInactive
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.chosen[tier.ID]
	if set[itemID] {
		return nil
	}
	if len(set) >= tier.GiftLimit {
		return ErrSelectionLimit
	}
	if set == nil {
		set = make(map[uint]bool)
		s.chosen[tier.ID] = set
	}
	set[itemID] = true
	return nil
}

// Deselect removes a gift item for a tier. Removing an absent item is a
// no-op.
func (s *Selections) Deselect(tierID, itemID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.chosen[tierID]; ok {
		delete(set, itemID)
		if len(set) == 0 {
			delete(s.chosen, tierID)
		}
	}
}

// Revalidate drops every selection whose tier is no longer in the qualifying
// set, or whose item left the tier's gift list. It returns what was dropped,
// keyed by tier id, so callers can notify the user.
func (s *Selections) Revalidate(qualifying []QualifyingTier) map[uint][]uint {
	byID := make(map[uint]models.GiftTier, len(qualifying))
	for _, t := range qualifying {
		byID[t.ID] = t
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := make(map[uint][]uint)
	for tierID, set := range s.chosen {
		tier, ok := byID[tierID]
		for itemID := range set {
			if !ok || !tier.HasItem(itemID) {
				dropped[tierID] = append(dropped[tierID], itemID)
				delete(set, itemID)
			}
		}
		if len(set) == 0 {
			delete(s.chosen, tierID)
		}
	}
	for tierID := range dropped {
		sort.Slice(dropped[tierID], func(i, j int) bool { return dropped[tierID][i] < dropped[tierID][j] })
	}
	if len(dropped) == 0 {
		return nil
	}
	return dropped
}

// Chosen returns the current selections as sorted item id slices per tier.
func (s *Selections) Chosen() map[uint][]uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint][]uint, len(s.chosen))
	for tierID, set := range s.chosen {
		ids := make([]uint, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out[tierID] = ids
	}
	return out
}

// Clear removes all selections.
func (s *Selections) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chosen = make(map[uint]map[uint]bool)
}
