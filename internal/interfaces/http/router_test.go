package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmacia-pro/internal/application/audit"
	"github.com/tu-usuario/farmacia-pro/internal/application/auth"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/inventory"
	"github.com/tu-usuario/farmacia-pro/internal/application/stats"
	"github.com/tu-usuario/farmacia-pro/internal/application/usecase"
	"github.com/tu-usuario/farmacia-pro/internal/infrastructure/memory"
	apphttp "github.com/tu-usuario/farmacia-pro/internal/interfaces/http"
)

// buildAPI arma la API completa sobre los adaptadores en memoria, igual que
// main pero sin PostgreSQL ni Redis.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	products := memory.NewProductRepository()
	movements := memory.NewStockMovementRepository()
	audits := memory.NewStockAuditRepository()
	users := memory.NewUserRepository()
	statsRepo := memory.NewStatsRepository(products, movements, audits)

	ledger := inventory.NewRegisterMovementUseCase(memory.NewTxRunner(products, movements), products, movements)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(users, auth.JWTConfig{
			Secret:     testJWTSecret,
			ExpMinutes: testExpMin,
			Issuer:     testIssuer,
		}),
		ProductUC:        usecase.NewProductUseCase(products),
		RegisterMovement: ledger,
		AuditUC:          audit.NewAuditUseCase(audits, products, ledger),
		StatsUC:          stats.NewStatsUseCase(statsRepo, nil),
		JWTSecret:        testJWTSecret,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerAndLogin crea un usuario con el rol dado y devuelve su token.
func registerAndLogin(t *testing.T, app *fiber.App, role string) string {
	t.Helper()
	email := fmt.Sprintf("%s@farmacia.test", role)
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		BranchID: testBranchID,
		Email:    email,
		Password: "secreto123",
		Name:     "Usuario " + role,
		Role:     role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	loginResp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email:    email,
		Password: "secreto123",
	})
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	login := decode[dto.LoginResponse](t, loginResp)
	require.NotEmpty(t, login.Token)
	return login.Token
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo end-to-end: producto → movimientos → auditoría → conciliación → stats
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_FlujoCompletoDeInventario(t *testing.T) {
	app := buildAPI(t)
	token := registerAndLogin(t, app, "farmaceuta")

	// Crear producto (stock 0).
	resp := doJSON(t, app, http.MethodPost, "/api/products", token, dto.CreateProductRequest{
		SKU:           "PARA-500",
		Name:          "Paracetamol 500mg",
		MinStockLevel: 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	product := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, 0, product.StockQuantity)

	// Entrada de 70 unidades.
	resp = doJSON(t, app, http.MethodPost, "/api/inventory/movements", token, dto.RegisterMovementRequest{
		ProductID: product.ID,
		Type:      "in",
		Quantity:  70,
		Reason:    "recepción inicial",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mov := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, 0, mov.PreviousQuantity)
	assert.Equal(t, 70, mov.NewQuantity)

	// Crear auditoría y contar 65.
	resp = doJSON(t, app, http.MethodPost, "/api/audits", token, dto.CreateAuditRequest{Notes: "conteo mensual"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	auditResp := decode[dto.AuditResponse](t, resp)

	resp = doJSON(t, app, http.MethodPost, "/api/audits/"+auditResp.ID+"/items", token, dto.AddAuditItemRequest{
		ProductID:      product.ID,
		ActualQuantity: 65,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decode[dto.AuditItemResponse](t, resp)
	assert.Equal(t, -5, item.Difference)

	// Completar y conciliar.
	resp = doJSON(t, app, http.MethodPost, "/api/audits/"+auditResp.ID+"/complete", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/audits/"+auditResp.ID+"/reconcile/"+product.ID, token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	adj := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "adjustment", adj.Type)
	assert.Equal(t, 65, adj.NewQuantity)

	// La cantidad del producto quedó alineada con el conteo.
	resp = doJSON(t, app, http.MethodGet, "/api/products/"+product.ID+"/quantity", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	qty := decode[map[string]any](t, resp)
	assert.Equal(t, float64(65), qty["quantity"])

	// Stats refleja productos y movimientos.
	resp = doJSON(t, app, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	statsResp := decode[dto.StatsResponse](t, resp)
	assert.Equal(t, 1, statsResp.TotalProducts)
	assert.Equal(t, 2, statsResp.Movements.Total, "entrada + ajuste de conciliación")
	assert.Equal(t, 1, statsResp.Audits.Completed)
}

func TestAPI_MovimientosProtegidosRequierenToken(t *testing.T) {
	app := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", "", dto.RegisterMovementRequest{
		ProductID: "cualquiera",
		Type:      "in",
		Quantity:  1,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_StockInsuficienteRetorna409(t *testing.T) {
	app := buildAPI(t)
	token := registerAndLogin(t, app, "farmaceuta")

	resp := doJSON(t, app, http.MethodPost, "/api/products", token, dto.CreateProductRequest{
		SKU:  "IBUP-400",
		Name: "Ibuprofeno 400mg",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	product := decode[dto.ProductResponse](t, resp)

	resp = doJSON(t, app, http.MethodPost, "/api/inventory/movements", token, dto.RegisterMovementRequest{
		ProductID: product.ID,
		Type:      "out",
		Quantity:  1,
		Reason:    "venta",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
}

func TestAPI_VendedorNoPuedeDescontinuarProducto(t *testing.T) {
	app := buildAPI(t)
	adminToken := registerAndLogin(t, app, "admin")
	vendedorToken := registerAndLogin(t, app, "vendedor")

	resp := doJSON(t, app, http.MethodPost, "/api/products", adminToken, dto.CreateProductRequest{
		SKU:  "AMOX-500",
		Name: "Amoxicilina 500mg",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	product := decode[dto.ProductResponse](t, resp)

	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+product.ID, vendedorToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+product.ID, adminToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_RegistroDuplicadoRetorna409(t *testing.T) {
	app := buildAPI(t)
	_ = registerAndLogin(t, app, "admin")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		BranchID: testBranchID,
		Email:    "admin@farmacia.test",
		Password: "otra-clave",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
