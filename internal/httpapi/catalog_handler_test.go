package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
)

func TestProducts_CRUD(t *testing.T) {
	api := newTestAPI(t)

	resp, raw := api.do(t, http.MethodPost, "/products",
		map[string]any{"name": "Keripik Singkong", "price": 15000, "stock": 20}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var product domain.Product
	require.NoError(t, json.Unmarshal(raw, &product))
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, int64(15000), product.Price)

	resp, raw = api.do(t, http.MethodPut, "/products/"+product.ID,
		map[string]any{"name": "Keripik Singkong", "price": 17000, "stock": 15}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &product))
	assert.Equal(t, int64(17000), product.Price)

	resp, raw = api.do(t, http.MethodGet, "/products", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []domain.Product
	require.NoError(t, json.Unmarshal(raw, &products))
	assert.Len(t, products, 1)

	resp, _ = api.do(t, http.MethodDelete, "/products/"+product.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = api.do(t, http.MethodDelete, "/products/"+product.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCustomers_CRUD(t *testing.T) {
	api := newTestAPI(t)

	resp, raw := api.do(t, http.MethodPost, "/customers",
		map[string]any{"name": "Budi", "phone": "0812-0000-0000", "address": "Jl. Melati 5"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var customer domain.Customer
	require.NoError(t, json.Unmarshal(raw, &customer))
	assert.NotEmpty(t, customer.ID)

	resp, raw = api.do(t, http.MethodPut, "/customers/"+customer.ID,
		map[string]any{"name": "Budi", "phone": "0813-1111-1111", "address": "Jl. Melati 5"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &customer))
	assert.Equal(t, "0813-1111-1111", customer.Phone)

	resp, _ = api.do(t, http.MethodPut, "/customers/ghost",
		map[string]any{"name": "X"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = api.do(t, http.MethodDelete, "/customers/"+customer.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
