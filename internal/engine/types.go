package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/messmate/messmate-backend/pkg/enums"
)

// DateLayout is the wire format for usage dates. Usage records carry a
// calendar day with no time component.
const DateLayout = "2006-01-02"

// Date is a calendar date. The zero value is treated as "not set".
type Date struct {
	t time.Time
}

// NewDate builds a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return Date{t: parsed.UTC()}, nil
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Year() int        { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int         { return d.t.Day() }

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// String implements fmt.Stringer.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON renders the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Item is a stock-keeping unit. Status is always derived from Quantity; the
// engine never stores one without recomputing the other.
type Item struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Quantity  float64          `json:"quantity"`
	Unit      enums.Unit       `json:"unit"`
	Status    enums.ItemStatus `json:"status"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// RequirementLine ties one item to a per-person usage rate inside a recipe.
type RequirementLine struct {
	ItemID         uuid.UUID `json:"item_id"`
	UsagePerPerson float64   `json:"usage_per_person"`
}

// MealRecipe is a named bundle of per-person item requirements. A persisted
// recipe always has at least one line and every line resolves to a stored item.
type MealRecipe struct {
	ID    uuid.UUID         `json:"id"`
	Name  string            `json:"name"`
	Lines []RequirementLine `json:"lines"`
}

func (m MealRecipe) clone() MealRecipe {
	out := m
	out.Lines = make([]RequirementLine, len(m.Lines))
	copy(out.Lines, m.Lines)
	return out
}

// ItemUsed is one entry of a usage record's frozen snapshot.
type ItemUsed struct {
	ItemID    uuid.UUID `json:"item_id"`
	TotalUsed float64   `json:"total_used"`
}

// UsageRecord logs one meal-preparation event. ItemsUsed is frozen at creation
// time; later recipe or item edits never touch it.
type UsageRecord struct {
	ID          uuid.UUID  `json:"id"`
	Date        Date       `json:"date"`
	MealID      uuid.UUID  `json:"meal_id"`
	PeopleCount int        `json:"people_count"`
	ItemsUsed   []ItemUsed `json:"items_used"`
}

func (u UsageRecord) clone() UsageRecord {
	out := u
	out.ItemsUsed = make([]ItemUsed, len(u.ItemsUsed))
	copy(out.ItemsUsed, u.ItemsUsed)
	return out
}

// State is the full serializable document owned by the store.
type State struct {
	Items    []Item        `json:"items"`
	Meals    []MealRecipe  `json:"meals"`
	Usage    []UsageRecord `json:"usage"`
	DarkMode bool          `json:"dark_mode"`
}

// ItemDraft is the validated intent to create an item.
type ItemDraft struct {
	Name     string
	Quantity float64
	Unit     enums.Unit
	Notes    string
}

// MealDraft is the validated intent to create a meal recipe.
type MealDraft struct {
	Name  string
	Lines []RequirementLine
}

// UsageDraft is the validated intent to record a meal preparation.
type UsageDraft struct {
	MealID      uuid.UUID
	Date        Date
	PeopleCount int
}

// ItemFilter narrows item listings. Zero values match everything.
type ItemFilter struct {
	Name   string
	Status enums.ItemStatus
	Unit   enums.Unit
}

func (f ItemFilter) matches(item Item) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Status != "" && item.Status != f.Status {
		return false
	}
	if f.Unit != "" && item.Unit != f.Unit {
		return false
	}
	return true
}
