package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/caserito/atelier/internal/domain/models"
	"github.com/caserito/atelier/internal/repository/sheets"
	"github.com/caserito/atelier/internal/server/handlers"
	"github.com/caserito/atelier/internal/server/router"
	"github.com/caserito/atelier/internal/service/engine"
	"github.com/caserito/atelier/internal/service/inventory"
	"github.com/caserito/atelier/internal/service/reporting"
)

type fakeStore struct {
	materials []models.Material
	products  []models.Product
	recipes   []models.RecipeLine
	sales     []models.SaleEvent

	invalidations int
}

func (f *fakeStore) Materials(ctx context.Context) ([]models.Material, error) {
	return append([]models.Material(nil), f.materials...), nil
}

func (f *fakeStore) SaveMaterials(ctx context.Context, items []models.Material) error {
	f.materials = append([]models.Material(nil), items...)
	return nil
}

func (f *fakeStore) Products(ctx context.Context) ([]models.Product, error) {
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeStore) SaveProducts(ctx context.Context, items []models.Product) error {
	f.products = append([]models.Product(nil), items...)
	return nil
}

func (f *fakeStore) RecipeLines(ctx context.Context) ([]models.RecipeLine, error) {
	return append([]models.RecipeLine(nil), f.recipes...), nil
}

func (f *fakeStore) SaveRecipeLines(ctx context.Context, items []models.RecipeLine) error {
	f.recipes = append([]models.RecipeLine(nil), items...)
	return nil
}

func (f *fakeStore) Sales(ctx context.Context) ([]models.SaleEvent, error) {
	return append([]models.SaleEvent(nil), f.sales...), nil
}

func (f *fakeStore) SaveSales(ctx context.Context, items []models.SaleEvent) error {
	f.sales = append([]models.SaleEvent(nil), items...)
	return nil
}

func (f *fakeStore) Invalidate(tables ...sheets.TableName) { f.invalidations++ }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestServer(store *fakeStore) http.Handler {
	inventorySvc := inventory.NewService(store, nil)
	engineSvc := engine.NewService(store, nil)
	reportingSvc := reporting.NewService(store, nil, nil)
	handler := handlers.NewHandler(inventorySvc, engineSvc, reportingSvc, store, nil)
	return router.New(handler, nil)
}

func workshopStore() *fakeStore {
	return &fakeStore{
		materials: []models.Material{
			{ID: "T-001", Name: "Paño", QuantityOnHand: 20, Unit: "Metros", ReorderThreshold: 5, AverageUnitCost: money("45")},
		},
		products: []models.Product{
			{ID: "SACO-A", Name: "Saco", SalePrice: money("350"), QuantityFinished: 2},
			{ID: "SACO-H", Name: "Saco a Medida", SalePrice: money("480")},
		},
		recipes: []models.RecipeLine{
			{ProductID: "SACO-A", MaterialID: "T-001", QuantityPerUnit: 2.5},
		},
	}
}

func doJSON(t *testing.T, srv http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	parsed := map[string]interface{}{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
		}
	}
	return w, parsed
}

func TestPlanProductionFeasible(t *testing.T) {
	srv := newTestServer(workshopStore())

	w, body := doJSON(t, srv, http.MethodPost, "/api/production/plan", `{"product_id":"SACO-A","batch_size":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d (%s)", w.Code, w.Body.String())
	}
	if feasible, _ := body["feasible"].(bool); !feasible {
		t.Errorf("batch of 3 needs 7.5 of 20, must be feasible: %v", body)
	}
	if noRecipe, _ := body["no_recipe"].(bool); noRecipe {
		t.Errorf("SACO-A has a recipe: %v", body)
	}
}

func TestPlanProductionWithoutRecipe(t *testing.T) {
	srv := newTestServer(workshopStore())

	w, body := doJSON(t, srv, http.MethodPost, "/api/production/plan", `{"product_id":"SACO-H","batch_size":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d (%s)", w.Code, w.Body.String())
	}
	if noRecipe, _ := body["no_recipe"].(bool); !noRecipe {
		t.Errorf("plan must flag the missing recipe: %v", body)
	}
	if feasible, _ := body["feasible"].(bool); feasible {
		t.Errorf("no recipe is never feasible: %v", body)
	}
}

func TestCommitProductionInsufficientStockIsConflict(t *testing.T) {
	srv := newTestServer(workshopStore())

	w, body := doJSON(t, srv, http.MethodPost, "/api/production/commit", `{"product_id":"SACO-A","batch_size":9}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status: want 409, got %d (%s)", w.Code, w.Body.String())
	}
	if _, ok := body["requirement"]; !ok {
		t.Errorf("conflict must carry the per-material breakdown: %v", body)
	}
}

func TestCommitProductionWithoutRecipeIsUnprocessable(t *testing.T) {
	srv := newTestServer(workshopStore())

	w, body := doJSON(t, srv, http.MethodPost, "/api/production/commit", `{"product_id":"SACO-H","batch_size":1}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: want 422, got %d (%s)", w.Code, w.Body.String())
	}
	if noRecipe, _ := body["no_recipe"].(bool); !noRecipe {
		t.Errorf("response must prompt for recipe creation: %v", body)
	}
}

func TestCommitProductionAppliesAndResponds(t *testing.T) {
	store := workshopStore()
	srv := newTestServer(store)

	w, _ := doJSON(t, srv, http.MethodPost, "/api/production/commit", `{"product_id":"SACO-A","batch_size":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d (%s)", w.Code, w.Body.String())
	}
	if store.materials[0].QuantityOnHand != 15 {
		t.Errorf("fabric stock after commit: want 15, got %v", store.materials[0].QuantityOnHand)
	}
	if store.products[0].QuantityFinished != 4 {
		t.Errorf("finished stock after commit: want 4, got %d", store.products[0].QuantityFinished)
	}
}

func TestCommitSaleReturnsProfit(t *testing.T) {
	store := workshopStore()
	srv := newTestServer(store)

	// Unit cost 2.5 × 45 = 112.5; 2 × 350 revenue.
	w, body := doJSON(t, srv, http.MethodPost, "/api/sales", `{"product_id":"SACO-A","quantity":2,"total_revenue":"700"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status: want 201, got %d (%s)", w.Code, w.Body.String())
	}
	if profit, _ := body["profit"].(string); profit != "475" {
		t.Errorf("profit: want 700 − 2×112.5 = 475, got %v", body["profit"])
	}
	if len(store.sales) != 1 {
		t.Errorf("journal must hold the sale, got %d rows", len(store.sales))
	}
}

func TestCommitSaleOversellIsConflict(t *testing.T) {
	store := workshopStore()
	srv := newTestServer(store)

	w, _ := doJSON(t, srv, http.MethodPost, "/api/sales", `{"product_id":"SACO-A","quantity":5,"total_revenue":"1750"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status: want 409, got %d (%s)", w.Code, w.Body.String())
	}
	if len(store.sales) != 0 {
		t.Errorf("rejected sale must not reach the journal")
	}
}

func TestUnknownProductIsNotFound(t *testing.T) {
	srv := newTestServer(workshopStore())

	w, _ := doJSON(t, srv, http.MethodPost, "/api/production/plan", `{"product_id":"CAMISA-X","batch_size":1}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: want 404, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestListMaterialsIncludesFormOptions(t *testing.T) {
	srv := newTestServer(workshopStore())

	w, body := doJSON(t, srv, http.MethodGet, "/api/materials", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", w.Code)
	}
	if _, ok := body["categories"]; !ok {
		t.Errorf("materials view must carry the category options: %v", body)
	}
	if _, ok := body["units"]; !ok {
		t.Errorf("materials view must carry the unit options: %v", body)
	}
}

func TestRegisterPurchaseEndpoint(t *testing.T) {
	store := workshopStore()
	srv := newTestServer(store)

	w, _ := doJSON(t, srv, http.MethodPost, "/api/materials", `{"material_id":"H-001","name":"Hilo Negro","category":"Hilos","unit":"Conos","quantity":10,"total_cost":"80","reorder_threshold":2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status: want 201, got %d (%s)", w.Code, w.Body.String())
	}
	if len(store.materials) != 2 {
		t.Errorf("ledger must grow to 2 rows, got %d", len(store.materials))
	}
}

func TestCacheRefreshEndpoint(t *testing.T) {
	store := workshopStore()
	srv := newTestServer(store)

	w, _ := doJSON(t, srv, http.MethodPost, "/api/cache/refresh", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", w.Code)
	}
	if store.invalidations != 1 {
		t.Errorf("refresh must invalidate the store, saw %d calls", store.invalidations)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	srv := newTestServer(workshopStore())

	w, body := doJSON(t, srv, http.MethodGet, "/api/dashboard", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", w.Code)
	}
	if inv, _ := body["inventory_value"].(string); inv != "900" {
		t.Errorf("inventory value: want 20×45=900, got %v", body["inventory_value"])
	}
}
