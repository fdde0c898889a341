package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pskitchenware/storefront/config"
	"github.com/pskitchenware/storefront/internal/app"
	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/webserver"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Meta    *webserver.Meta `json:"meta"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

type testServer struct {
	t       *testing.T
	app     *app.Application
	handler http.Handler
	token   string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	cfg.System.Location = "UTC"
	a, err := app.NewMemoryApplication(&cfg)
	require.NoError(t, err)

	s := webserver.Init(a)
	Init()
	return &testServer{t: t, app: a, handler: s.Handler()}
}

func (s *testServer) do(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) login() {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/v1/admin/login", loginPayload{Username: "admin", Password: "storefront"})
	require.Equal(s.t, http.StatusOK, rec.Code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	s.token = data.Token
}

func TestCheckCredential(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, checkCredential(config.AdminConfig{Username: "admin", Password: string(hash)}, "admin", "s3cret"))
	assert.False(t, checkCredential(config.AdminConfig{Username: "admin", Password: string(hash)}, "admin", "wrong"))
	assert.True(t, checkCredential(config.AdminConfig{Username: "admin", Password: "plain"}, "admin", "plain"))
	assert.False(t, checkCredential(config.AdminConfig{Username: "admin", Password: "plain"}, "root", "plain"))
	assert.False(t, checkCredential(config.AdminConfig{}, "", ""))
}

func TestLoginSetsCookie(t *testing.T) {
	s := setupServer(t)

	rec, env := s.do(http.MethodPost, "/api/v1/admin/login", loginPayload{Username: "admin", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/admin/login", loginPayload{Username: "admin", Password: "storefront"})
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, webserver.AuthCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 86400, cookies[0].MaxAge)

	// the cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/session", nil)
	req.AddCookie(cookies[0])
	out := httptest.NewRecorder()
	s.handler.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/admin/logout", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := setupServer(t)
	rec, env := s.do(http.MethodGet, "/api/v1/admin/content", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Code)

	s.token = "not-a-jwt"
	rec, _ = s.do(http.MethodGet, "/api/v1/admin/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestContentEditing(t *testing.T) {
	s := setupServer(t)
	s.login()

	rec, env := s.do(http.MethodPost, "/api/v1/admin/content/categories", categoryPayload{Name: "Tea Pots", ImageURL: "/img/tea.png"})
	require.Equal(t, http.StatusOK, rec.Code)
	var cat domain.Category
	require.NoError(t, json.Unmarshal(env.Data, &cat))
	assert.Equal(t, "/category/tea-pots", cat.Href)

	rec, env = s.do(http.MethodPost, "/api/v1/admin/content/categories/"+cat.ID+"/subcategories", subcategoryPayload{
		Name:  "Copper Pot",
		Sizes: []domain.ProductSize{{Name: "S", Price: domain.Float(100)}, {Name: "L", Price: domain.Float(150)}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var sub domain.SubCategory
	require.NoError(t, json.Unmarshal(env.Data, &sub))
	assert.Equal(t, "/category/tea-pots/copper-pot", sub.Href)

	rec, _ = s.do(http.MethodPut, "/api/v1/admin/content/hero", []domain.HeroProduct{{ProductID: sub.ID, Tagline: "New"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodPut, "/api/v1/admin/content/hero", []domain.HeroProduct{{ProductID: "ghost"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CONTENT", env.Code)

	rec, _ = s.do(http.MethodPut, "/api/v1/admin/content/categories/"+cat.ID, categoryPayload{Name: "Kettles"})
	require.Equal(t, http.StatusOK, rec.Code)

	content := s.app.Catalog().Load(context.Background())
	last := content.Categories[len(content.Categories)-1]
	assert.Equal(t, "/category/kettles", last.Href)
	assert.Equal(t, "/category/kettles/copper-pot", last.Subcategories[0].Href)
	assert.Equal(t, "/img/tea.png", last.ImageURL)
	require.Len(t, content.HeroProducts, 1)

	// deleting the category drops the hero entry that pointed into it
	rec, _ = s.do(http.MethodDelete, "/api/v1/admin/content/categories/"+cat.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	content = s.app.Catalog().Load(context.Background())
	assert.Len(t, content.Categories, 7)
	assert.Empty(t, content.HeroProducts)

	rec, _ = s.do(http.MethodDelete, "/api/v1/admin/content/categories/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReplaceContentAcceptsNumericStrings(t *testing.T) {
	s := setupServer(t)
	s.login()

	doc := map[string]interface{}{
		"heroProducts": []interface{}{},
		"categories": []interface{}{
			map[string]interface{}{
				"id": "c1", "name": "Jara's", "href": "/category/jaras", "imageUrl": "/a.png",
				"subcategories": []interface{}{
					map[string]interface{}{"id": "p1", "name": "Jara", "price": "49.5"},
				},
			},
		},
	}
	rec, _ := s.do(http.MethodPut, "/api/v1/admin/content", doc)
	require.Equal(t, http.StatusOK, rec.Code)

	p, err := s.app.Catalog().Product(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 49.5, *p.Price)
}

func seedOrders(t *testing.T, a *app.Application) {
	ctx := context.Background()
	for _, in := range []domain.OrderInput{
		{ProductName: "Steel Laddle", Quantity: 2, Price: domain.Float(10), ImageURL: "http://x/a.png"},
		{ProductName: "Brass Doya", Quantity: 1, Price: domain.Float(25), Size: "L", ImageURL: "http://x/b.png"},
		{ProductName: "Steel Laddle", Quantity: 1, ImageURL: "http://x/a.png"},
	} {
		_, err := a.Orders().Append(ctx, in)
		require.NoError(t, err)
	}
}

func TestListOrdersPaged(t *testing.T) {
	s := setupServer(t)
	s.login()
	seedOrders(t, s.app)

	rec, env := s.do(http.MethodGet, "/api/v1/admin/orders?page=1&perPage=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.EqualValues(t, 3, env.Meta.Total)
	var orders []domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Len(t, orders, 2)
}

func TestExportOrders(t *testing.T) {
	s := setupServer(t)
	s.login()
	seedOrders(t, s.app)

	rec, _ := s.do(http.MethodGet, "/api/v1/admin/orders/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "id,date,product_name"))
	assert.Contains(t, rec.Body.String(), "Brass Doya,L,1,25.00,25.00")

	rec, _ = s.do(http.MethodGet, "/api/v1/admin/orders/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec, env := s.do(http.MethodGet, "/api/v1/admin/orders/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FORMAT", env.Code)
}

func TestDashboard(t *testing.T) {
	s := setupServer(t)
	s.login()
	seedOrders(t, s.app)

	rec, env := s.do(http.MethodGet, "/api/v1/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dash struct {
		TotalOrders   int     `json:"totalOrders"`
		TodaysRevenue float64 `json:"todaysRevenue"`
		TopProduct    struct {
			Name     string `json:"name"`
			Quantity int    `json:"quantity"`
		} `json:"topProduct"`
		DailyOrders []json.RawMessage `json:"dailyOrders"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Equal(t, 3, dash.TotalOrders)
	assert.Equal(t, 45.0, dash.TodaysRevenue)
	assert.Equal(t, "Steel Laddle", dash.TopProduct.Name)
	assert.Equal(t, 3, dash.TopProduct.Quantity)
	assert.Len(t, dash.DailyOrders, 30)

	rec, env = s.do(http.MethodGet, "/api/v1/admin/dashboard?from=2024-03-01&to=2024-03-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Equal(t, 0, dash.TotalOrders)
	assert.Len(t, dash.DailyOrders, 3)

	rec, env = s.do(http.MethodGet, "/api/v1/admin/dashboard?from=not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DATE", env.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupServer(t)
	s.login()

	rec, _ := s.do(http.MethodGet, "/api/v1/admin/metrics/checkout_total", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/admin/metrics/cpu", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCellName(t *testing.T) {
	assert.Equal(t, "A1", cellName(0, 1))
	assert.Equal(t, "I2", cellName(8, 2))
	assert.Equal(t, "AA10", cellName(26, 10))
}

func TestJobsAndDigest(t *testing.T) {
	s := setupServer(t)
	s.login()

	rec, env := s.do(http.MethodGet, "/api/v1/admin/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"cron":"0 0 8 * * *"`)

	// no SMTP host configured
	rec, env = s.do(http.MethodPost, "/api/v1/admin/jobs/digest/run", runDigestPayload{Day: "2024-03-01"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Email service is not configured.", env.Message)

	rec, env = s.do(http.MethodPost, "/api/v1/admin/jobs/digest/run", runDigestPayload{Day: "not-a-date"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DATE", env.Code)
}

func TestListTables(t *testing.T) {
	s := setupServer(t)
	s.login()
	seedOrders(t, s.app)

	rec, env := s.do(http.MethodGet, "/api/v1/admin/system/tables", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tables []DBMSTableInfo
	require.NoError(t, json.Unmarshal(env.Data, &tables))
	counts := make(map[string]int64)
	for _, tbl := range tables {
		assert.True(t, tbl.Exists, tbl.Name)
		counts[tbl.Name] = tbl.RowCount
	}
	assert.EqualValues(t, 3, counts["orders"])
	assert.Contains(t, counts, "site_content")
}

func TestOrdersDegradeWhenQueryFails(t *testing.T) {
	s := setupServer(t)
	s.login()
	seedOrders(t, s.app)
	require.NoError(t, s.app.DB().Migrator().DropTable("orders"))

	rec, env := s.do(http.MethodGet, "/api/v1/admin/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.EqualValues(t, 0, env.Meta.Total)
	assert.JSONEq(t, "[]", string(env.Data))

	rec, _ = s.do(http.MethodGet, "/api/v1/admin/orders/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Steel Laddle")
}

func TestCustomerAddresses(t *testing.T) {
	s := setupServer(t)
	s.login()
	ctx := context.Background()
	user, err := s.app.Users().FindOrCreateUser(ctx, "Meena@Example.com", "Meena", "9876543210")
	require.NoError(t, err)
	home, err := s.app.Users().FindOrCreateAddress(ctx, user.ID, domain.Address{
		Name: "Meena", Phone: "9876543210", Address: "12 Temple Street, Madurai", Pincode: "625001",
	})
	require.NoError(t, err)
	office, err := s.app.Users().FindOrCreateAddress(ctx, user.ID, domain.Address{
		Name: "Meena", Phone: "9876543210", Address: "4 Mill Road, Coimbatore", Pincode: "641001",
	})
	require.NoError(t, err)

	type customer struct {
		User      domain.User           `json:"user"`
		Addresses []domain.SavedAddress `json:"addresses"`
	}

	rec, env := s.do(http.MethodGet, "/api/v1/admin/customers/"+user.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got customer
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "meena@example.com", got.User.Email)
	require.Len(t, got.Addresses, 2)
	assert.ElementsMatch(t, []string{home.ID, office.ID}, []string{got.Addresses[0].ID, got.Addresses[1].ID})

	rec, env = s.do(http.MethodPut, "/api/v1/admin/customers/"+user.ID+"/addresses/"+office.ID+"/default", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got = customer{}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got.Addresses, 2)
	assert.Equal(t, office.ID, got.Addresses[0].ID)
	assert.True(t, got.Addresses[0].IsDefault)
	assert.False(t, got.Addresses[1].IsDefault)

	rec, env = s.do(http.MethodPut, "/api/v1/admin/customers/"+user.ID+"/addresses/addr_missing/default", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/admin/customers/user_missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Code)
}
