package reports

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	reportsvc "estatebook-backend/internal/application/reports"
	"estatebook-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReportTest(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Project{}))

	return &Handlers{Service: &reportsvc.Service{DB: db}}, db
}

// TestExportProject_CSVShape checks the BOM, section titles and quoting.
func TestExportProject_CSVShape(t *testing.T) {
	h, db := setupReportTest(t)
	app := fiber.New()
	app.Get("/api/v1/reports/export-project/:id", h.ExportProject)

	p := &domain.Project{
		ID:   uuid.New(),
		Name: `Riverside, "phase 1"`,
		Buyers: []domain.Buyer{
			{ID: "b1", Name: "Buyer, Inc", Phone: "0912", Address: "1 Main St"},
		},
	}
	require.NoError(t, db.Create(p).Error)

	req := httptest.NewRequest("GET", "/api/v1/reports/export-project/"+p.ID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	assert.True(t, strings.HasPrefix(body, "\uFEFF"), "missing UTF-8 BOM")
	assert.Contains(t, body, "=== Buyers ===")
	assert.Contains(t, body, "=== Land lots ===")
	assert.Contains(t, body, "=== Transactions ===")
	// Comma inside a field forces quoting
	assert.Contains(t, body, `"Buyer, Inc"`)
	// Embedded quotes are doubled
	assert.Contains(t, body, `""phase 1""`)
}

// TestExportProject_NotFound returns 404.
func TestExportProject_NotFound(t *testing.T) {
	h, _ := setupReportTest(t)
	app := fiber.New()
	app.Get("/api/v1/reports/export-project/:id", h.ExportProject)

	req := httptest.NewRequest("GET", "/api/v1/reports/export-project/"+uuid.New().String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// TestSummary_SelectedSubset aggregates only the requested projects.
func TestSummary_SelectedSubset(t *testing.T) {
	h, db := setupReportTest(t)
	app := fiber.New()
	app.Post("/api/v1/reports/summary", h.Summary)

	a := &domain.Project{
		ID:   uuid.New(),
		Name: "A",
		Transactions: []domain.Transaction{
			{ID: "t1", Type: domain.TxExpense, Category: "Land cost", Amount: "1000"},
			{ID: "t2", Type: domain.TxIncome, Category: "Final payment", Amount: "2500"},
		},
	}
	b := &domain.Project{
		ID:   uuid.New(),
		Name: "B",
		Transactions: []domain.Transaction{
			{ID: "t3", Type: domain.TxExpense, Category: "Tax", Amount: "9999"},
		},
	}
	require.NoError(t, db.Create(a).Error)
	require.NoError(t, db.Create(b).Error)

	body, _ := json.Marshal(map[string]interface{}{"project_ids": []string{a.ID.String()}})
	req := httptest.NewRequest("POST", "/api/v1/reports/summary", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			TotalExpense float64 `json:"totalExpense"`
			TotalIncome  float64 `json:"totalIncome"`
			NetProfit    float64 `json:"netProfit"`
			ROI          float64 `json:"roi"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, float64(1000), out.Data.TotalExpense)
	assert.Equal(t, float64(2500), out.Data.TotalIncome)
	assert.Equal(t, float64(1500), out.Data.NetProfit)
	assert.Equal(t, float64(150), out.Data.ROI)
}
