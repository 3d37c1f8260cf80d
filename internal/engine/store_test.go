package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messmate/messmate-backend/pkg/enums"
)

func TestStore_IdentifierUniqueness(t *testing.T) {
	store := NewStore(State{})
	item := Item{ID: uuid.New(), Name: "Rice", Unit: enums.UnitKg}

	require.NoError(t, store.AppendItem(item))
	assert.Error(t, store.AppendItem(item))

	meal := MealRecipe{ID: uuid.New(), Name: "Lunch", Lines: []RequirementLine{{ItemID: item.ID, UsagePerPerson: 1}}}
	require.NoError(t, store.AppendMeal(meal))
	assert.Error(t, store.AppendMeal(meal))

	rec := UsageRecord{ID: uuid.New(), MealID: meal.ID, PeopleCount: 1}
	require.NoError(t, store.AppendUsage(rec))
	assert.Error(t, store.AppendUsage(rec))
}

func TestStore_ConsumersGetCopies(t *testing.T) {
	itemID := uuid.New()
	store := NewStore(State{
		Meals: []MealRecipe{{
			ID:    uuid.New(),
			Name:  "Lunch",
			Lines: []RequirementLine{{ItemID: itemID, UsagePerPerson: 1}},
		}},
	})

	meals := store.Meals()
	meals[0].Lines[0].UsagePerPerson = 99

	fresh := store.Meals()
	assert.Equal(t, 1.0, fresh[0].Lines[0].UsagePerPerson, "mutating a returned meal must not touch the store")
}

func TestStore_PreservesInsertionOrder(t *testing.T) {
	store := NewStore(State{})
	names := []string{"Rice", "Dal", "Oil", "Salt"}
	for _, name := range names {
		require.NoError(t, store.AppendItem(Item{ID: uuid.New(), Name: name, Unit: enums.UnitKg}))
	}
	items := store.Items()
	require.Len(t, items, len(names))
	for i, name := range names {
		assert.Equal(t, name, items[i].Name)
	}
}

func TestStore_RemoveUsageByMeal(t *testing.T) {
	mealA := uuid.New()
	mealB := uuid.New()
	store := NewStore(State{Usage: []UsageRecord{
		{ID: uuid.New(), MealID: mealA, Date: NewDate(2024, time.March, 1), PeopleCount: 1},
		{ID: uuid.New(), MealID: mealB, Date: NewDate(2024, time.March, 2), PeopleCount: 2},
		{ID: uuid.New(), MealID: mealA, Date: NewDate(2024, time.March, 3), PeopleCount: 3},
	}})

	assert.Equal(t, 2, store.RemoveUsageByMeal(mealA))
	remaining := store.Usage()
	require.Len(t, remaining, 1)
	assert.Equal(t, mealB, remaining[0].MealID)

	assert.Equal(t, 0, store.RemoveUsageByMeal(mealA))
}

func TestDateJSONRoundTrip(t *testing.T) {
	date, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2024, date.Year())
	assert.Equal(t, time.March, date.Month())
	assert.Equal(t, 15, date.Day())

	raw, err := date.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(raw))

	var back Date
	require.NoError(t, back.UnmarshalJSON(raw))
	assert.Equal(t, date, back)

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)
}
