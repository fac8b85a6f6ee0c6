package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	dashboardapp "github.com/programmatrix/backend/internal/application/dashboard"
	"github.com/programmatrix/backend/internal/domain/dashboard"
	"github.com/programmatrix/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryWidgetRepo is an in-memory widget store keyed by org
type memoryWidgetRepo struct {
	widgets  map[uuid.UUID][]dashboard.Widget
	saveErr  error
	orderErr error
}

func newMemoryWidgetRepo() *memoryWidgetRepo {
	return &memoryWidgetRepo{widgets: make(map[uuid.UUID][]dashboard.Widget)}
}

func (r *memoryWidgetRepo) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*dashboard.Widget, error) {
	for i := range r.widgets[orgID] {
		if r.widgets[orgID][i].ID == id {
			w := r.widgets[orgID][i]
			return &w, nil
		}
	}
	return nil, dashboard.ErrWidgetNotFound
}

func (r *memoryWidgetRepo) FindAllForOrg(ctx context.Context, orgID uuid.UUID) ([]dashboard.Widget, error) {
	out := make([]dashboard.Widget, len(r.widgets[orgID]))
	copy(out, r.widgets[orgID])
	return out, nil
}

func (r *memoryWidgetRepo) Save(ctx context.Context, widget *dashboard.Widget) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	list := r.widgets[widget.OrgID]
	for i := range list {
		if list[i].ID == widget.ID {
			list[i] = *widget
			return nil
		}
	}
	r.widgets[widget.OrgID] = append(list, *widget)
	return nil
}

func (r *memoryWidgetRepo) SaveOrder(ctx context.Context, orgID uuid.UUID, widgets []dashboard.Widget) ([]dashboard.Widget, error) {
	if r.orderErr != nil {
		return nil, r.orderErr
	}
	stored := make([]dashboard.Widget, len(widgets))
	copy(stored, widgets)
	r.widgets[orgID] = stored
	out := make([]dashboard.Widget, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *memoryWidgetRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	list := r.widgets[orgID]
	for i := range list {
		if list[i].ID == id {
			r.widgets[orgID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return dashboard.ErrWidgetNotFound
}

func newDashboardRouter(repo dashboard.WidgetRepository) *gin.Engine {
	service := dashboardapp.NewWidgetService(repo, nil, zap.NewNop())
	h := NewDashboardHandler(service)

	router := gin.New()
	api := router.Group("/api/v1")
	h.RegisterRoutes(api)
	return router
}

func seedWidgets(t *testing.T, repo *memoryWidgetRepo, orgID uuid.UUID, titles ...string) []dashboard.Widget {
	t.Helper()
	for i, title := range titles {
		w := dashboard.NewWidget(orgID, title, dashboard.WidgetKindChart, "Financials", dashboard.WidgetSizeMedium, i)
		require.NoError(t, repo.Save(context.Background(), w))
	}
	return repo.widgets[orgID]
}

func TestDashboardHandler_ListWidgets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newMemoryWidgetRepo()
	seedWidgets(t, repo, defaultOrgID, "Budget", "Risks")
	router := newDashboardRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/dashboard/widgets", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    []dashboard.Widget `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Budget", resp.Data[0].Title)
	assert.Equal(t, "Risks", resp.Data[1].Title)
}

func TestDashboardHandler_CreateWidget(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("appends at the end of the order", func(t *testing.T) {
		repo := newMemoryWidgetRepo()
		seedWidgets(t, repo, defaultOrgID, "Existing")
		router := newDashboardRouter(repo)

		body, _ := json.Marshal(CreateWidgetRequest{
			Title:  "Budget Overview",
			Kind:   "chart",
			Source: "Financials",
			Size:   "medium",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/dashboard/widgets", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data dashboard.Widget `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Budget Overview", resp.Data.Title)
		assert.Equal(t, dashboard.WidgetKindChart, resp.Data.Kind)
		assert.Equal(t, 1, resp.Data.Position)
		assert.Equal(t, defaultOrgID, resp.Data.OrgID)
	})

	t.Run("rejects unknown size at binding", func(t *testing.T) {
		router := newDashboardRouter(newMemoryWidgetRepo())

		body, _ := json.Marshal(gin.H{"title": "X", "kind": "chart", "source": "Risks", "size": "gigantic"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/dashboard/widgets", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDashboardHandler_ReorderWidgets(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reorder := func(router *gin.Engine, sourceID, targetID string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(ReorderWidgetsRequest{SourceID: sourceID, TargetID: targetID})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/api/v1/dashboard/widgets/order", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("moves source to target slot", func(t *testing.T) {
		repo := newMemoryWidgetRepo()
		seeded := seedWidgets(t, repo, defaultOrgID, "A", "B", "C")
		router := newDashboardRouter(repo)

		w := reorder(router, seeded[0].ID.String(), seeded[2].ID.String())

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []dashboard.Widget `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 3)
		assert.Equal(t, "B", resp.Data[0].Title)
		assert.Equal(t, "C", resp.Data[1].Title)
		assert.Equal(t, "A", resp.Data[2].Title)
		for i, widget := range resp.Data {
			assert.Equal(t, i, widget.Position)
		}
	})

	t.Run("dropping on itself leaves the order untouched", func(t *testing.T) {
		repo := newMemoryWidgetRepo()
		seeded := seedWidgets(t, repo, defaultOrgID, "A", "B")
		router := newDashboardRouter(repo)

		w := reorder(router, seeded[0].ID.String(), seeded[0].ID.String())

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []dashboard.Widget `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "A", resp.Data[0].Title)
		assert.Equal(t, "B", resp.Data[1].Title)
	})

	t.Run("unknown source widget is a 404", func(t *testing.T) {
		repo := newMemoryWidgetRepo()
		seeded := seedWidgets(t, repo, defaultOrgID, "A")
		router := newDashboardRouter(repo)

		w := reorder(router, uuid.New().String(), seeded[0].ID.String())

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeNotFound)
	})

	t.Run("persistence failure keeps the previous order", func(t *testing.T) {
		repo := newMemoryWidgetRepo()
		seeded := seedWidgets(t, repo, defaultOrgID, "A", "B")
		repo.orderErr = errors.New("store rejected order")
		router := newDashboardRouter(repo)

		w := reorder(router, seeded[0].ID.String(), seeded[1].ID.String())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "A", repo.widgets[defaultOrgID][0].Title)
		assert.Equal(t, "B", repo.widgets[defaultOrgID][1].Title)
	})
}

func TestDashboardHandler_ResizeWidget(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newMemoryWidgetRepo()
	seeded := seedWidgets(t, repo, defaultOrgID, "A")
	router := newDashboardRouter(repo)

	body, _ := json.Marshal(ResizeWidgetRequest{Size: "large"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/v1/dashboard/widgets/"+seeded[0].ID.String()+"/size", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data dashboard.Widget `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dashboard.WidgetSizeLarge, resp.Data.Size)
	assert.Equal(t, dashboard.WidgetSizeLarge, repo.widgets[defaultOrgID][0].Size)
}

func TestDashboardHandler_DeleteWidget(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("removes the widget", func(t *testing.T) {
		repo := newMemoryWidgetRepo()
		seeded := seedWidgets(t, repo, defaultOrgID, "A", "B")
		router := newDashboardRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/api/v1/dashboard/widgets/"+seeded[0].ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		require.Len(t, repo.widgets[defaultOrgID], 1)
		assert.Equal(t, "B", repo.widgets[defaultOrgID][0].Title)
	})

	t.Run("unknown widget is a 404", func(t *testing.T) {
		router := newDashboardRouter(newMemoryWidgetRepo())

		w := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/api/v1/dashboard/widgets/"+uuid.New().String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
