package stats

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/messmate/messmate-backend/internal/engine"
)

// restockThreshold flags items whose remaining stock dropped under 20% of the
// current quantity.
const restockThreshold = 0.2

// topItemsLimit caps the most-used ranking.
const topItemsLimit = 5

// RestockAlert is a current item annotated with its monthly usage.
type RestockAlert struct {
	engine.Item
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}

// TopItem is one row of the most-used ranking. Name and unit resolve against
// the current item collection; items deleted since the usage was recorded fall
// back to "Unknown".
type TopItem struct {
	Name      string  `json:"name"`
	TotalUsed float64 `json:"total_used"`
	Unit      string  `json:"unit"`
}

// Stats is the derived monthly report.
type Stats struct {
	MealsPrepared       int                   `json:"meals_prepared"`
	ItemUsage           map[uuid.UUID]float64 `json:"item_usage"`
	ItemsNeedRestocking []RestockAlert        `json:"items_need_restocking"`
	MostUsedItems       []TopItem             `json:"most_used_items"`
}

// Monthly derives the report for the calendar month [year, month] from the
/// usage log and the current item/meal collections. It is a pure function: it
// reads the frozen itemsUsed snapshots, never the live recipes, and mutates
// nothing.
func Monthly(usage []engine.UsageRecord, items []engine.Item, meals []engine.MealRecipe, year int, month time.Month) Stats {
	start := engine.NewDate(year, month, 1)
	// Day zero of the following month is the last calendar day of this one.
	endOfMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	end := engine.NewDate(endOfMonth.Year(), endOfMonth.Month(), endOfMonth.Day())

	_ = meals // recipes never feed the report; only frozen snapshots do

	itemUsage := map[uuid.UUID]float64{}
	mealsPrepared := 0
	for _, rec := range usage {
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		mealsPrepared++
		for _, used := range rec.ItemsUsed {
			itemUsage[used.ItemID] += used.TotalUsed
		}
	}

	restocking := []RestockAlert{}
	for _, item := range items {
		used := itemUsage[item.ID]
		remaining := item.Quantity - used
		if remaining < item.Quantity*restockThreshold {
			restocking = append(restocking, RestockAlert{Item: item, Used: used, Remaining: remaining})
		}
	}

	top := make([]TopItem, 0, len(itemUsage))
	for itemID, totalUsed := range itemUsage {
		row := TopItem{Name: "Unknown", TotalUsed: totalUsed}
		for _, item := range items {
			if item.ID == itemID {
				row.Name = item.Name
				row.Unit = item.Unit.String()
				break
			}
		}
		top = append(top, row)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].TotalUsed != top[j].TotalUsed {
			return top[i].TotalUsed > top[j].TotalUsed
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > topItemsLimit {
		top = top[:topItemsLimit]
	}

	return Stats{
		MealsPrepared:       mealsPrepared,
		ItemUsage:           itemUsage,
		ItemsNeedRestocking: restocking,
		MostUsedItems:       top,
	}
}
