package projects

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	projectsvc "estatebook-backend/internal/application/projects"
	"estatebook-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProjectTest(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Project{}))

	service := &projectsvc.Service{DB: db}
	return &Handlers{Service: service}, db
}

func newProjectApp(h *Handlers) *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/projects/create-project", h.CreateProject)
	app.Get("/api/v1/projects/list-projects", h.ListProjects)
	app.Get("/api/v1/projects/view-project/:id", h.ViewProject)
	app.Put("/api/v1/projects/save-project/:id", h.SaveProject)
	app.Delete("/api/v1/projects/delete-project/:id", h.DeleteProject)
	return app
}

func createProject(t *testing.T, db *gorm.DB, name string) *domain.Project {
	p := &domain.Project{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(p).Error)
	return p
}

// TestCreateProject returns 201 and persists a row.
func TestCreateProject(t *testing.T) {
	h, db := setupProjectTest(t)
	app := newProjectApp(h)

	req := httptest.NewRequest("POST", "/api/v1/projects/create-project", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&domain.Project{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestViewProject_NotFound returns 404 for an unknown id.
func TestViewProject_NotFound(t *testing.T) {
	h, _ := setupProjectTest(t)
	app := newProjectApp(h)

	req := httptest.NewRequest("GET", "/api/v1/projects/view-project/"+uuid.New().String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// TestViewProject_BadID returns 400 for a malformed id.
func TestViewProject_BadID(t *testing.T) {
	h, _ := setupProjectTest(t)
	app := newProjectApp(h)

	req := httptest.NewRequest("GET", "/api/v1/projects/view-project/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// TestSaveProject_RecomputesParcelFields checks held area, ping conversion
// and subtotal come back derived from the items, not from the payload.
func TestSaveProject_RecomputesParcelFields(t *testing.T) {
	h, db := setupProjectTest(t)
	app := newProjectApp(h)
	p := createProject(t, db, "Riverside")

	payload := map[string]interface{}{
		"name": "Riverside",
		"lands": []map[string]interface{}{
			{
				"id":      "land-1",
				"section": "East block",
				"items": []map[string]interface{}{
					{
						"id":           "item-1",
						"lotNumber":    "130-2",
						"areaM2":       "100",
						"shareNum":     "1",
						"shareDenom":   "1",
						"pricePerPing": "25000",
					},
				},
				// Client-side derived values must be ignored.
				"holdingAreaM2":   "999.999",
				"holdingAreaPing": "999.999",
				"totalPrice":      1,
			},
		},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PUT", "/api/v1/projects/save-project/"+p.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stored domain.Project
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	require.Len(t, stored.Lands, 1)
	land := stored.Lands[0]
	assert.Equal(t, "100.000", land.HoldingAreaM2)
	assert.Equal(t, "30.250", land.HoldingAreaPing)
	// 30.25 ping * 25000 = 756250
	assert.Equal(t, float64(756250), land.TotalPrice)
	require.Len(t, land.Items, 1)
	assert.Equal(t, "756250", land.Items[0].Subtotal.String())
}

// TestSaveProject_MissingLotNumberRejected returns 400 and leaves the stored
// document untouched.
func TestSaveProject_MissingLotNumberRejected(t *testing.T) {
	h, db := setupProjectTest(t)
	app := newProjectApp(h)
	p := createProject(t, db, "Riverside")

	payload := map[string]interface{}{
		"name": "Changed name",
		"lands": []map[string]interface{}{
			{
				"id":      "land-1",
				"section": "East block",
				"items": []map[string]interface{}{
					{"id": "item-1", "areaM2": "100", "shareNum": "1", "shareDenom": "1"},
				},
			},
		},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PUT", "/api/v1/projects/save-project/"+p.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var stored domain.Project
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.Equal(t, "Riverside", stored.Name)
	assert.Len(t, stored.Lands, 0)
}

// TestSaveProject_UnknownLinkageRejected returns 400 when a new transaction
// points at a land parcel that is not in the document.
func TestSaveProject_UnknownLinkageRejected(t *testing.T) {
	h, db := setupProjectTest(t)
	app := newProjectApp(h)
	p := createProject(t, db, "Riverside")

	payload := map[string]interface{}{
		"name": "Riverside",
		"transactions": []map[string]interface{}{
			{
				"id":         "tx-1",
				"date":       "2025-04-01",
				"type":       "expense",
				"category":   "Land cost",
				"amount":     "1000",
				"linkedId":   "no-such-land",
				"linkedType": "land",
			},
		},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PUT", "/api/v1/projects/save-project/"+p.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// TestSaveProject_EditedAmountMustStayPositive returns 400 when a stored
// transaction's amount is edited to a non-positive value; the untouched amount
// is exempt.
func TestSaveProject_EditedAmountMustStayPositive(t *testing.T) {
	h, db := setupProjectTest(t)
	app := newProjectApp(h)
	p := &domain.Project{
		ID:   uuid.New(),
		Name: "Riverside",
		Transactions: []domain.Transaction{
			{ID: "tx-1", Date: "2025-03-01", Type: domain.TxExpense, Category: "Land cost", Amount: "1000"},
		},
	}
	require.NoError(t, db.Create(p).Error)

	save := func(amount string) int {
		payload := map[string]interface{}{
			"name": "Riverside",
			"transactions": []map[string]interface{}{
				{"id": "tx-1", "date": "2025-03-01", "type": "expense", "category": "Land cost", "amount": amount},
			},
		}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest("PUT", "/api/v1/projects/save-project/"+p.ID.String(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusBadRequest, save("-500"))
	assert.Equal(t, fiber.StatusBadRequest, save("0"))
	assert.Equal(t, fiber.StatusBadRequest, save("abc"))
	// Carried over untouched: accepted.
	assert.Equal(t, fiber.StatusOK, save("1000"))

	var stored domain.Project
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	require.Len(t, stored.Transactions, 1)
	assert.Equal(t, "1000", stored.Transactions[0].Amount.String())
}

// TestListProjects returns projects ordered by name.
func TestListProjects(t *testing.T) {
	h, db := setupProjectTest(t)
	app := newProjectApp(h)
	createProject(t, db, "Zenith court")
	createProject(t, db, "Alder lane")

	req := httptest.NewRequest("GET", "/api/v1/projects/list-projects", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data []domain.Project `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Alder lane", body.Data[0].Name)
	assert.Equal(t, "Zenith court", body.Data[1].Name)
}

// TestDeleteProject removes the row; deleting again returns 404.
func TestDeleteProject(t *testing.T) {
	h, db := setupProjectTest(t)
	app := newProjectApp(h)
	p := createProject(t, db, "Riverside")

	req := httptest.NewRequest("DELETE", "/api/v1/projects/delete-project/"+p.ID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&domain.Project{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/projects/delete-project/"+p.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
