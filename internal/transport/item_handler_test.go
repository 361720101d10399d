package transport

import (
	"net/http"
	"testing"

	"inventory-tracker/internal/activity"
	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemLifecycle(t *testing.T) {
	api := newTestAPI(t)
	token := api.signIn("owner@example.com").AccessToken

	w := api.do(http.MethodPost, "/api/items", token, `{"name":"Flour","quantity":"2","unit":"kg","min_stock":5}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[domain.Item](t, w)
	assert.Equal(t, 2.0, item.Quantity)
	require.NotNil(t, item.MinStock)

	w = api.do(http.MethodGet, "/api/items/"+item.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Flour", decode[domain.Item](t, w).Name)

	w = api.do(http.MethodPost, "/api/items/"+item.ID.String()+"/adjust", token, map[string]float64{"delta": 4})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6.0, decode[domain.Item](t, w).Quantity)

	w = api.do(http.MethodPost, "/api/items/"+item.ID.String()+"/adjust", token, map[string]float64{"delta": -7})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrNegativeQuantity.Error(), errorMessage(t, w))

	w = api.do(http.MethodPut, "/api/items/"+item.ID.String(), token, service.ItemInput{Name: "Rye flour", Quantity: 1, Unit: "kg", MinStock: 5})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/items/low-stock", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	low := decode[[]domain.Item](t, w)
	require.Len(t, low, 1)
	assert.Equal(t, "Rye flour", low[0].Name)

	w = api.do(http.MethodGet, "/api/items?q=rye", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Item](t, w), 1)

	w = api.do(http.MethodDelete, "/api/items/"+item.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodGet, "/api/items/"+item.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/api/activity?limit=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	views := decode[[]activity.View](t, w)
	require.NotEmpty(t, views)
	assert.Equal(t, domain.ActionDelete, views[0].Action)
	assert.Equal(t, "Rye flour", views[0].ItemName)
}

func TestItemValidation(t *testing.T) {
	api := newTestAPI(t)
	token := api.signIn("owner@example.com").AccessToken

	w := api.do(http.MethodPost, "/api/items", token, `{"quantity":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation failed", errorMessage(t, w))

	w = api.do(http.MethodPost, "/api/items", token, `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrItemNameRequired.Error(), errorMessage(t, w))

	w = api.do(http.MethodGet, "/api/items/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/items/"+uuid.NewString()+"/adjust", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemsAreIsolatedBetweenUsers(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signIn("alice@example.com").AccessToken
	bob := api.signIn("bob@example.com").AccessToken

	w := api.do(http.MethodPost, "/api/items", alice, service.ItemInput{Name: "Flour", Quantity: 2})
	require.Equal(t, http.StatusCreated, w.Code)
	item := decode[domain.Item](t, w)

	w = api.do(http.MethodGet, "/api/items", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]domain.Item](t, w))

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/items/"+item.ID.String(), bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/api/items/"+item.ID.String(), bob, nil).Code)
}

func TestItemsRequireAuthentication(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/items", "/api/activity", "/api/reports/inventory.html", "/api/review"} {
		assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, path, "", nil).Code, path)
	}
}

func TestActivityLocalized(t *testing.T) {
	api := newTestAPI(t)
	token := api.signIn("owner@example.com").AccessToken

	w := api.do(http.MethodPost, "/api/items", token, service.ItemInput{Name: "Flour", Quantity: 1.5, Unit: "kg"})
	require.Equal(t, http.StatusCreated, w.Code)

	en := decode[[]activity.View](t, api.do(http.MethodGet, "/api/activity", token, nil))
	fr := decode[[]activity.View](t, api.do(http.MethodGet, "/api/activity", token, nil, "Accept-Language", "fr-FR"))
	require.Len(t, en, 1)
	require.Len(t, fr, 1)
	assert.NotEqual(t, en[0].Label, fr[0].Label)
	assert.Contains(t, fr[0].Summary, "1,5")

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/activity?limit=zero", token, nil).Code)
}
