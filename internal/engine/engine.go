package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/messmate/messmate-backend/pkg/errors"
	"github.com/messmate/messmate-backend/pkg/logger"

	"github.com/messmate/messmate-backend/pkg/enums"
)

// Saver receives the full state after every committed mutation. Failures are
// logged and swallowed; durability between commit and snapshot is best-effort.
type Saver interface {
	Save(ctx context.Context, state State) error
}

// Engine owns the entity store and exposes one operation per state transition.
// Every operation either fully commits or leaves the store untouched. A mutex
// serializes dispatch so the check-then-commit shape of RecordUsage can never
// interleave with another mutation.
type Engine struct {
	mu    sync.Mutex
	store *Store
	saver Saver
	logg  *logger.Logger
	now   func() time.Time
	newID func() uuid.UUID
}

// Options configures an Engine. Saver and Logger are optional; Now and NewID
// default to the real clock and random uuids.
type Options struct {
	State  State
	Saver  Saver
	Logger *logger.Logger
	Now    func() time.Time
	NewID  func() uuid.UUID
}

// New builds an engine seeded with the given state.
func New(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.New
	}
	return &Engine{
		store: NewStore(opts.State),
		saver: opts.Saver,
		logg:  opts.Logger,
		now:   now,
		newID: newID,
	}
}

// Snapshot returns a deep copy of the current committed state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.State()
}

// Items lists items matching the filter, in insertion order.
func (e *Engine) Items(filter ItemFilter) []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := []Item{}
	for _, item := range e.store.Items() {
		if filter.matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// Meals lists all meal recipes.
func (e *Engine) Meals() []MealRecipe {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Meals()
}

// Usage lists the full usage log.
func (e *Engine) Usage() []UsageRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Usage()
}

// DarkMode returns the display preference.
func (e *Engine) DarkMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.DarkMode()
}

// SetDarkMode updates the display preference.
func (e *Engine) SetDarkMode(ctx context.Context, enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.SetDarkMode(enabled)
	e.persist(ctx)
}

// AddItem validates the draft, assigns identity and creation time, derives the
// status, and appends the item.
func (e *Engine) AddItem(ctx context.Context, draft ItemDraft) (Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	draft.Name = strings.TrimSpace(draft.Name)
	if err := e.validateItemFields(draft.Name, draft.Quantity, draft.Unit); err != nil {
		return Item{}, err
	}
	if err := e.ensureUniqueName(draft.Name, uuid.Nil); err != nil {
		return Item{}, err
	}

	item := Item{
		ID:        e.newID(),
		Name:      draft.Name,
		Unit:      draft.Unit,
		Notes:     strings.TrimSpace(draft.Notes),
		CreatedAt: e.now().UTC(),
	}
	setQuantity(&item, draft.Quantity)

	if err := e.store.AppendItem(item); err != nil {
		return Item{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "appending item")
	}
	e.persist(ctx)
	return item, nil
}

// UpdateItem replaces the stored item matching item.ID. Identifier and
// creation timestamp are immutable; status is recomputed from the supplied
// quantity.
func (e *Engine) UpdateItem(ctx context.Context, item Item) (Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item.Name = strings.TrimSpace(item.Name)
	if err := e.validateItemFields(item.Name, item.Quantity, item.Unit); err != nil {
		return Item{}, err
	}

	existing, ok := e.store.ItemByID(item.ID)
	if !ok {
		return Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if err := e.ensureUniqueName(item.Name, item.ID); err != nil {
		return Item{}, err
	}

	item.CreatedAt = existing.CreatedAt
	item.Notes = strings.TrimSpace(item.Notes)
	setQuantity(&item, item.Quantity)

	e.store.ReplaceItem(item)
	e.persist(ctx)
	return item, nil
}

// DeleteItem removes the item and cascades: requirement lines referencing it
// are dropped from every meal, meals left without lines are deleted, and usage
// records of those meals go with them. Deleting an unknown id is a no-op.
func (e *Engine) DeleteItem(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.store.ItemByID(id); !ok {
		return nil
	}

	// Compute the full cascade before touching the store so a failure cannot
	// leave a partial state.
	var rewritten []MealRecipe
	var emptied []uuid.UUID
	for _, meal := range e.store.Meals() {
		kept := meal.Lines[:0]
		for _, line := range meal.Lines {
			if line.ItemID != id {
				kept = append(kept, line)
			}
		}
		if len(kept) == len(meal.Lines) {
			continue
		}
		meal.Lines = kept
		if len(meal.Lines) == 0 {
			emptied = append(emptied, meal.ID)
		} else {
			rewritten = append(rewritten, meal)
		}
	}

	e.store.RemoveItem(id)
	for _, meal := range rewritten {
		e.store.ReplaceMeal(meal)
	}
	for _, mealID := range emptied {
		e.store.RemoveMeal(mealID)
		e.store.RemoveUsageByMeal(mealID)
	}
	e.persist(ctx)
	return nil
}

// AddMeal validates the draft and appends a new recipe.
func (e *Engine) AddMeal(ctx context.Context, draft MealDraft) (MealRecipe, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	draft.Name = strings.TrimSpace(draft.Name)
	if err := e.validateMealFields(draft.Name, draft.Lines); err != nil {
		return MealRecipe{}, err
	}

	meal := MealRecipe{
		ID:    e.newID(),
		Name:  draft.Name,
		Lines: draft.Lines,
	}
	if err := e.store.AppendMeal(meal); err != nil {
		return MealRecipe{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "appending meal")
	}
	e.persist(ctx)
	return meal.clone(), nil
}

// UpdateMeal replaces the stored recipe matching meal.ID. Existing usage
// records keep their frozen snapshots untouched.
func (e *Engine) UpdateMeal(ctx context.Context, meal MealRecipe) (MealRecipe, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	meal.Name = strings.TrimSpace(meal.Name)
	if err := e.validateMealFields(meal.Name, meal.Lines); err != nil {
		return MealRecipe{}, err
	}
	if !e.store.ReplaceMeal(meal) {
		return MealRecipe{}, pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
	}
	e.persist(ctx)
	return meal.clone(), nil
}

// DeleteMeal removes the recipe and every usage record referencing it.
// Deleting an unknown id is a no-op.
func (e *Engine) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.store.RemoveMeal(id) {
		return nil
	}
	e.store.RemoveUsageByMeal(id)
	e.persist(ctx)
	return nil
}

// RecordUsage is the check-then-commit operation: it resolves the recipe,
// computes per-item totals, verifies every referenced item has enough stock in
// a read-only pass, and only then deducts quantities and appends the frozen
// usage record. Either everything commits or nothing changes.
func (e *Engine) RecordUsage(ctx context.Context, draft UsageDraft) (UsageRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if draft.Date.IsZero() {
		return UsageRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}
	if draft.PeopleCount < 1 {
		return UsageRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "people count must be at least 1")
	}

	meal, ok := e.store.MealByID(draft.MealID)
	if !ok {
		return UsageRecord{}, pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
	}

	itemsUsed := make([]ItemUsed, 0, len(meal.Lines))
	for _, line := range meal.Lines {
		itemsUsed = append(itemsUsed, ItemUsed{
			ItemID:    line.ItemID,
			TotalUsed: line.UsagePerPerson * float64(draft.PeopleCount),
		})
	}

	// Validation pass: no mutation until every line clears.
	updated := make([]Item, 0, len(itemsUsed))
	for _, used := range itemsUsed {
		item, ok := e.store.ItemByID(used.ItemID)
		if !ok {
			return UsageRecord{}, pkgerrors.New(pkgerrors.CodeInsufficientStock, "ingredient no longer in stock").
				WithDetails(map[string]any{"item_id": used.ItemID, "needed": used.TotalUsed})
		}
		if item.Quantity < used.TotalUsed {
			return UsageRecord{}, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for "+item.Name).
				WithDetails(map[string]any{
					"item_id":   item.ID,
					"item_name": item.Name,
					"needed":    used.TotalUsed,
					"available": item.Quantity,
				})
		}
		setQuantity(&item, item.Quantity-used.TotalUsed)
		updated = append(updated, item)
	}

	// Commit pass.
	for _, item := range updated {
		e.store.ReplaceItem(item)
	}
	record := UsageRecord{
		ID:          e.newID(),
		Date:        draft.Date,
		MealID:      meal.ID,
		PeopleCount: draft.PeopleCount,
		ItemsUsed:   itemsUsed,
	}
	if err := e.store.AppendUsage(record); err != nil {
		return UsageRecord{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "appending usage record")
	}
	e.persist(ctx)
	return record.clone(), nil
}

// setQuantity is the single path that writes a quantity, keeping the derived
// status in lockstep.
func setQuantity(item *Item, quantity float64) {
	item.Quantity = quantity
	item.Status = enums.StatusForQuantity(quantity)
}

func (e *Engine) validateItemFields(name string, quantity float64, unit enums.Unit) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if !unit.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown unit").
			WithDetails(map[string]any{"unit": unit.String()})
	}
	return nil
}

func (e *Engine) ensureUniqueName(name string, selfID uuid.UUID) error {
	for _, existing := range e.store.Items() {
		if existing.ID == selfID {
			continue
		}
		if strings.EqualFold(existing.Name, name) {
			return pkgerrors.New(pkgerrors.CodeDuplicateName, "an item with this name already exists").
				WithDetails(map[string]any{"item_id": existing.ID, "item_name": existing.Name})
		}
	}
	return nil
}

func (e *Engine) validateMealFields(name string, lines []RequirementLine) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "meal name is required")
	}
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "a meal needs at least one ingredient")
	}
	seen := map[uuid.UUID]struct{}{}
	for _, line := range lines {
		if line.UsagePerPerson <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "usage per person must be positive").
				WithDetails(map[string]any{"item_id": line.ItemID})
		}
		if _, ok := e.store.ItemByID(line.ItemID); !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "ingredient references an unknown item").
				WithDetails(map[string]any{"item_id": line.ItemID})
		}
		if _, dup := seen[line.ItemID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "ingredient listed more than once").
				WithDetails(map[string]any{"item_id": line.ItemID})
		}
		seen[line.ItemID] = struct{}{}
	}
	return nil
}

func (e *Engine) persist(ctx context.Context) {
	if e.saver == nil {
		return
	}
	if err := e.saver.Save(ctx, e.store.State()); err != nil && e.logg != nil {
		e.logg.Error(ctx, "snapshot save failed", err)
	}
}
