package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/messmate/messmate-backend/internal/engine"
	"github.com/messmate/messmate-backend/pkg/logger"
	"github.com/messmate/messmate-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(engine.Options{})
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func seedItem(t *testing.T, eng *engine.Engine, name string, quantity float64) engine.Item {
	t.Helper()
	resp := httptest.NewRecorder()
	body := `{"name":"` + name + `","quantity":` + jsonFloat(quantity) + `,"unit":"kg"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(body))
	CreateItem(eng, testLogger())(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("seeding item %s: unexpected status %d: %s", name, resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data engine.Item `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding seeded item: %v", err)
	}
	return envelope.Data
}

func jsonFloat(f float64) string {
	raw, _ := json.Marshal(f)
	return string(raw)
}

func TestCreateItemSuccess(t *testing.T) {
	eng := testEngine(t)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items",
		strings.NewReader(`{"name":"Rice","quantity":25,"unit":"kg","notes":"basmati"}`))
	CreateItem(eng, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data engine.Item `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data.Name != "Rice" {
		t.Fatalf("unexpected name %q", envelope.Data.Name)
	}
	if envelope.Data.Status != "in-stock" {
		t.Fatalf("unexpected status %q", envelope.Data.Status)
	}
	if envelope.Data.ID == uuid.Nil {
		t.Fatal("expected assigned id")
	}
}

func TestCreateItemRejectsUnknownUnit(t *testing.T) {
	eng := testEngine(t)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items",
		strings.NewReader(`{"name":"Rice","quantity":25,"unit":"barrel"}`))
	CreateItem(eng, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestCreateItemRejectsUnknownFields(t *testing.T) {
	eng := testEngine(t)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items",
		strings.NewReader(`{"name":"Rice","quantity":25,"unit":"kg","bogus":1}`))
	CreateItem(eng, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestCreateItemDuplicateNameConflicts(t *testing.T) {
	eng := testEngine(t)
	seedItem(t, eng, "Rice", 10)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items",
		strings.NewReader(`{"name":"rice","quantity":5,"unit":"kg"}`))
	CreateItem(eng, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Error.Code != "DUPLICATE_NAME" {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestListItemsFilterByStatus(t *testing.T) {
	eng := testEngine(t)
	seedItem(t, eng, "Rice", 10)
	seedItem(t, eng, "Dal", 0)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?status=out-of-stock", nil)
	ListItems(eng, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data []engine.Item `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Name != "Dal" {
		t.Fatalf("unexpected result %+v", envelope.Data)
	}
}

func TestListItemsRejectsBadStatusFilter(t *testing.T) {
	eng := testEngine(t)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?status=gone", nil)
	ListItems(eng, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	eng := testEngine(t)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/items/"+uuid.NewString(),
		strings.NewReader(`{"name":"Rice","quantity":5,"unit":"kg"}`))
	req = withURLParam(req, "itemId", uuid.NewString())
	UpdateItem(eng, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestUpdateItemRejectsMalformedID(t *testing.T) {
	eng := testEngine(t)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/items/not-a-uuid",
		strings.NewReader(`{"name":"Rice","quantity":5,"unit":"kg"}`))
	req = withURLParam(req, "itemId", "not-a-uuid")
	UpdateItem(eng, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestDeleteItemCascadesAndIsIdempotent(t *testing.T) {
	eng := testEngine(t)
	rice := seedItem(t, eng, "Rice", 10)

	// A recipe that only needs rice disappears with it.
	mealResp := httptest.NewRecorder()
	mealBody := `{"name":"Lunch","lines":[{"item_id":"` + rice.ID.String() + `","usage_per_person":0.5}]}`
	CreateMeal(eng, testLogger())(mealResp, httptest.NewRequest(http.MethodPost, "/api/v1/meals", strings.NewReader(mealBody)))
	if mealResp.Code != http.StatusCreated {
		t.Fatalf("creating meal: %d: %s", mealResp.Code, mealResp.Body.String())
	}

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/items/"+rice.ID.String(), nil)
		req = withURLParam(req, "itemId", rice.ID.String())
		DeleteItem(eng, testLogger())(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("delete attempt %d: unexpected status %d", i+1, resp.Code)
		}
	}

	if got := len(eng.Meals()); got != 0 {
		t.Fatalf("expected cascade to remove the recipe, found %d", got)
	}
}

func TestRecordUsageInsufficientStock(t *testing.T) {
	eng := testEngine(t)
	rice := seedItem(t, eng, "Rice", 5)

	mealResp := httptest.NewRecorder()
	mealBody := `{"name":"Lunch","lines":[{"item_id":"` + rice.ID.String() + `","usage_per_person":0.5}]}`
	CreateMeal(eng, testLogger())(mealResp, httptest.NewRequest(http.MethodPost, "/api/v1/meals", strings.NewReader(mealBody)))
	var mealEnvelope struct {
		Data engine.MealRecipe `json:"data"`
	}
	if err := json.NewDecoder(mealResp.Body).Decode(&mealEnvelope); err != nil {
		t.Fatalf("decoding meal: %v", err)
	}

	// 20 people at 0.5kg each needs 10kg; only 5 on hand.
	resp := httptest.NewRecorder()
	body := `{"meal_id":"` + mealEnvelope.Data.ID.String() + `","date":"2026-03-10","people_count":20}`
	RecordUsage(eng, testLogger())(resp, httptest.NewRequest(http.MethodPost, "/api/v1/usage", strings.NewReader(body)))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !strings.Contains(envelope.Error.Message, "Rice") {
		t.Fatalf("expected shortage message to name the item, got %q", envelope.Error.Message)
	}
	if got := len(eng.Usage()); got != 0 {
		t.Fatalf("expected no usage recorded, found %d", got)
	}
}

func TestRecordUsageDeductsStock(t *testing.T) {
	eng := testEngine(t)
	rice := seedItem(t, eng, "Rice", 100)

	mealResp := httptest.NewRecorder()
	mealBody := `{"name":"Lunch","lines":[{"item_id":"` + rice.ID.String() + `","usage_per_person":0.5}]}`
	CreateMeal(eng, testLogger())(mealResp, httptest.NewRequest(http.MethodPost, "/api/v1/meals", strings.NewReader(mealBody)))
	var mealEnvelope struct {
		Data engine.MealRecipe `json:"data"`
	}
	if err := json.NewDecoder(mealResp.Body).Decode(&mealEnvelope); err != nil {
		t.Fatalf("decoding meal: %v", err)
	}

	resp := httptest.NewRecorder()
	body := `{"meal_id":"` + mealEnvelope.Data.ID.String() + `","date":"2026-03-10","people_count":20}`
	RecordUsage(eng, testLogger())(resp, httptest.NewRequest(http.MethodPost, "/api/v1/usage", strings.NewReader(body)))

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}

	items := eng.Items(engine.ItemFilter{})
	if len(items) != 1 || items[0].Quantity != 90 {
		t.Fatalf("expected 90kg remaining, got %+v", items)
	}
}

func TestMonthlyStatsRejectsBadMonth(t *testing.T) {
	eng := testEngine(t)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/monthly?year=2026&month=13", nil)
	MonthlyStats(eng, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestMonthlyStatsReportsMealsPrepared(t *testing.T) {
	eng := testEngine(t)
	rice := seedItem(t, eng, "Rice", 100)

	mealResp := httptest.NewRecorder()
	mealBody := `{"name":"Lunch","lines":[{"item_id":"` + rice.ID.String() + `","usage_per_person":0.5}]}`
	CreateMeal(eng, testLogger())(mealResp, httptest.NewRequest(http.MethodPost, "/api/v1/meals", strings.NewReader(mealBody)))
	var mealEnvelope struct {
		Data engine.MealRecipe `json:"data"`
	}
	if err := json.NewDecoder(mealResp.Body).Decode(&mealEnvelope); err != nil {
		t.Fatalf("decoding meal: %v", err)
	}

	usageResp := httptest.NewRecorder()
	usageBody := `{"meal_id":"` + mealEnvelope.Data.ID.String() + `","date":"2026-03-10","people_count":10}`
	RecordUsage(eng, testLogger())(usageResp, httptest.NewRequest(http.MethodPost, "/api/v1/usage", strings.NewReader(usageBody)))
	if usageResp.Code != http.StatusCreated {
		t.Fatalf("recording usage: %d", usageResp.Code)
	}

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/monthly?year=2026&month=3", nil)
	MonthlyStats(eng, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Year          int `json:"year"`
			Month         int `json:"month"`
			MealsPrepared int `json:"meals_prepared"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data.MealsPrepared != 1 {
		t.Fatalf("expected 1 meal prepared, got %d", envelope.Data.MealsPrepared)
	}
	if envelope.Data.Year != 2026 || envelope.Data.Month != 3 {
		t.Fatalf("unexpected period %d-%d", envelope.Data.Year, envelope.Data.Month)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	eng := testEngine(t)

	putResp := httptest.NewRecorder()
	UpdatePreferences(eng, testLogger())(putResp,
		httptest.NewRequest(http.MethodPut, "/api/v1/preferences", strings.NewReader(`{"dark_mode":true}`)))
	if putResp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", putResp.Code)
	}

	getResp := httptest.NewRecorder()
	GetPreferences(eng, testLogger())(getResp, httptest.NewRequest(http.MethodGet, "/api/v1/preferences", nil))
	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.NewDecoder(getResp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !envelope.Data["dark_mode"] {
		t.Fatal("expected dark_mode true")
	}
}

func TestUpdatePreferencesRequiresBody(t *testing.T) {
	eng := testEngine(t)

	resp := httptest.NewRecorder()
	UpdatePreferences(eng, testLogger())(resp,
		httptest.NewRequest(http.MethodPut, "/api/v1/preferences", strings.NewReader(`{}`)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestExportItemsWritesCSV(t *testing.T) {
	eng := testEngine(t)
	seedItem(t, eng, "Rice", 10)

	resp := httptest.NewRecorder()
	ExportItems(eng, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/api/v1/items/export", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("unexpected disposition %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(resp.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,name,quantity") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "Rice") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}
