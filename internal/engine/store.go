package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// Store holds the three entity collections plus the display preference. It
// guarantees identifier uniqueness within each collection and preserves
// insertion order; cross-entity validation belongs to the Engine. Consumers
// always receive copies, never references into the store.
type Store struct {
	items    []Item
	meals    []MealRecipe
	usage    []UsageRecord
	darkMode bool
}

// NewStore seeds a store from a loaded state. The input is copied.
func NewStore(state State) *Store {
	s := &Store{darkMode: state.DarkMode}
	s.items = append(s.items, state.Items...)
	for _, meal := range state.Meals {
		s.meals = append(s.meals, meal.clone())
	}
	for _, rec := range state.Usage {
		s.usage = append(s.usage, rec.clone())
	}
	return s
}

// State returns a deep copy of the full document.
func (s *Store) State() State {
	return State{
		Items:    s.Items(),
		Meals:    s.Meals(),
		Usage:    s.Usage(),
		DarkMode: s.darkMode,
	}
}

// Items returns a copy of the item collection in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Meals returns a copy of the meal collection in insertion order.
func (s *Store) Meals() []MealRecipe {
	out := make([]MealRecipe, 0, len(s.meals))
	for _, meal := range s.meals {
		out = append(out, meal.clone())
	}
	return out
}

// Usage returns a copy of the usage log in insertion order.
func (s *Store) Usage() []UsageRecord {
	out := make([]UsageRecord, 0, len(s.usage))
	for _, rec := range s.usage {
		out = append(out, rec.clone())
	}
	return out
}

func (s *Store) DarkMode() bool {
	return s.darkMode
}

func (s *Store) SetDarkMode(enabled bool) {
	s.darkMode = enabled
}

// ItemByID returns a copy of the item with the given id.
func (s *Store) ItemByID(id uuid.UUID) (Item, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// MealByID returns a copy of the meal with the given id.
func (s *Store) MealByID(id uuid.UUID) (MealRecipe, bool) {
	for _, meal := range s.meals {
		if meal.ID == id {
			return meal.clone(), true
		}
	}
	return MealRecipe{}, false
}

// AppendItem adds a new item, rejecting duplicate identifiers.
func (s *Store) AppendItem(item Item) error {
	if _, ok := s.ItemByID(item.ID); ok {
		return fmt.Errorf("duplicate item id %s", item.ID)
	}
	s.items = append(s.items, item)
	return nil
}

// ReplaceItem swaps the stored item matching item.ID, reporting whether a
// record was found.
func (s *Store) ReplaceItem(item Item) bool {
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			return true
		}
	}
	return false
}

// RemoveItem deletes the item with the given id, reporting whether it existed.
func (s *Store) RemoveItem(id uuid.UUID) bool {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// AppendMeal adds a new meal, rejecting duplicate identifiers.
func (s *Store) AppendMeal(meal MealRecipe) error {
	if _, ok := s.MealByID(meal.ID); ok {
		return fmt.Errorf("duplicate meal id %s", meal.ID)
	}
	s.meals = append(s.meals, meal.clone())
	return nil
}

// ReplaceMeal swaps the stored meal matching meal.ID.
func (s *Store) ReplaceMeal(meal MealRecipe) bool {
	for i := range s.meals {
		if s.meals[i].ID == meal.ID {
			s.meals[i] = meal.clone()
			return true
		}
	}
	return false
}

// RemoveMeal deletes the meal with the given id.
func (s *Store) RemoveMeal(id uuid.UUID) bool {
	for i := range s.meals {
		if s.meals[i].ID == id {
			s.meals = append(s.meals[:i], s.meals[i+1:]...)
			return true
		}
	}
	return false
}

// AppendUsage adds a usage record, rejecting duplicate identifiers.
func (s *Store) AppendUsage(rec UsageRecord) error {
	for _, existing := range s.usage {
		if existing.ID == rec.ID {
			return fmt.Errorf("duplicate usage id %s", rec.ID)
		}
	}
	s.usage = append(s.usage, rec.clone())
	return nil
}

// RemoveUsageByMeal drops every usage record referencing mealID, returning the
// number removed.
func (s *Store) RemoveUsageByMeal(mealID uuid.UUID) int {
	kept := s.usage[:0]
	removed := 0
	for _, rec := range s.usage {
		if rec.MealID == mealID {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	s.usage = kept
	return removed
}
