// Package export renders already-computed records as delimited text. It is a
// pure presentation transformation and carries no business logic.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/messmate/messmate-backend/internal/engine"
	"github.com/messmate/messmate-backend/internal/stats"
)

// Table is an ordered header row plus data rows. Column order follows the
// declared field order of the exported record.
type Table struct {
	Headers []string
	Rows    [][]string
}

// WriteCSV streams the table as comma-separated text. Fields containing the
// delimiter are quoted by the writer.
func WriteCSV(w io.Writer, table Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ItemsTable flattens the item collection.
func ItemsTable(items []engine.Item) Table {
	table := Table{
		Headers: []string{"id", "name", "quantity", "unit", "status", "notes", "created_at"},
	}
	for _, item := range items {
		table.Rows = append(table.Rows, []string{
			item.ID.String(),
			item.Name,
			formatFloat(item.Quantity),
			item.Unit.String(),
			item.Status.String(),
			item.Notes,
			item.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return table
}

// UsageTable flattens the usage log, one row per frozen snapshot entry.
func UsageTable(usage []engine.UsageRecord) Table {
	table := Table{
		Headers: []string{"id", "date", "meal_id", "people_count", "item_id", "total_used"},
	}
	for _, rec := range usage {
		for _, used := range rec.ItemsUsed {
			table.Rows = append(table.Rows, []string{
				rec.ID.String(),
				rec.Date.String(),
				rec.MealID.String(),
				strconv.Itoa(rec.PeopleCount),
				used.ItemID.String(),
				formatFloat(used.TotalUsed),
			})
		}
	}
	return table
}

// TopItemsTable flattens the monthly most-used ranking.
func TopItemsTable(top []stats.TopItem) Table {
	table := Table{
		Headers: []string{"name", "total_used", "unit"},
	}
	for _, row := range top {
		table.Rows = append(table.Rows, []string{
			row.Name,
			formatFloat(row.TotalUsed),
			row.Unit,
		})
	}
	return table
}

// RestockTable flattens the monthly restocking alerts.
func RestockTable(alerts []stats.RestockAlert) Table {
	table := Table{
		Headers: []string{"id", "name", "quantity", "unit", "used", "remaining"},
	}
	for _, alert := range alerts {
		table.Rows = append(table.Rows, []string{
			alert.Item.ID.String(),
			alert.Item.Name,
			formatFloat(alert.Item.Quantity),
			alert.Item.Unit.String(),
			formatFloat(alert.Used),
			formatFloat(alert.Remaining),
		})
	}
	return table
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
