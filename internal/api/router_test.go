package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vitrine/catalog-admin/internal/core/domain"
	"github.com/vitrine/catalog-admin/internal/core/ports"
	"github.com/vitrine/catalog-admin/internal/infrastructure/db/redis"
	"github.com/vitrine/catalog-admin/internal/infrastructure/db/sqldb"
	"github.com/vitrine/catalog-admin/internal/infrastructure/security"
)

const testSecret = "router-test-secret"

type testServer struct {
	e      *echo.Echo
	tokens *security.JWTManager
	users  *sqldb.CredentialRepository
}

type captureRecorder struct {
	entries []domain.Activity
}

func (r *captureRecorder) Record(a domain.Activity) { r.entries = append(r.entries, a) }

func newTestServer(t *testing.T, throttle ports.LoginThrottle, activity ports.ActivityRecorder) *testServer {
	t.Helper()

	ctx := context.Background()
	db, err := sqldb.Open(ctx, sqldb.Config{Driver: sqldb.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqldb.CreateSchema(ctx, db); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	adminHash, err := hasher.Hash("admin-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := sqldb.Seed(ctx, db, sqldb.SeedAdmin{Name: "Admin", Email: "admin@exemplo.com", PasswordHash: adminHash}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tokens := security.NewJWTManager(testSecret, security.DefaultTokenTTL)
	e := NewRouter(Dependencies{
		DB:       db,
		Hasher:   hasher,
		Tokens:   tokens,
		Throttle: throttle,
		Activity: activity,
		Registry: prometheus.NewRegistry(),
		Log:      zerolog.Nop(),
	})
	return &testServer{e: e, tokens: tokens, users: sqldb.NewUserRepository(db)}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, email, password string) (string, domain.PublicPrincipal) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string                 `json:"token"`
		User  domain.PublicPrincipal `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp.Token, resp.User
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	msg, _ := body["message"].(string)
	return msg
}

func TestRouter_RegisterLoginForbidden(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := s.do(t, http.MethodPost, "/cadastro", `{"name":"A","email":"a@x.com","password":"p1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var created map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	if _, ok := created["password"]; ok {
		t.Fatalf("password leaked: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("hash leaked: %s", rec.Body.String())
	}

	token, user := s.login(t, "a@x.com", "p1")
	if user.Role != domain.RoleUser {
		t.Fatalf("expected user role, got %q", user.Role)
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Role != domain.RoleUser || claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	rec = s.do(t, http.MethodPost, "/category", `{"name":"Livros"}`, token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "access denied, admin only" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRouter_AdminLoginAndCatalog(t *testing.T) {
	recorder := &captureRecorder{}
	s := newTestServer(t, nil, recorder)

	token, admin := s.login(t, "admin@exemplo.com", "admin-pass")
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", admin.Role)
	}

	rec := s.do(t, http.MethodPost, "/category", `{"name":"Livros"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var category domain.Category
	_ = json.Unmarshal(rec.Body.Bytes(), &category)

	rec = s.do(t, http.MethodPost, "/category", `{"name":"Livros"}`, token)
	if rec.Code != http.StatusBadRequest || decodeMessage(t, rec) != "name already in use" {
		t.Fatalf("duplicate category: got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/subcategory", `{"name":"Romances","category_id":`+itoa(category.ID)+`}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create subcategory: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var sub domain.SubCategory
	_ = json.Unmarshal(rec.Body.Bytes(), &sub)

	body := `{"name":"Dom Casmurro","description":"Machado de Assis","price":39.9,"stock":12,"subcategory_id":` + itoa(sub.ID) + `}`
	rec = s.do(t, http.MethodPost, "/add_product", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var product domain.Product
	_ = json.Unmarshal(rec.Body.Bytes(), &product)
	if product.CategoryID == nil || *product.CategoryID != category.ID {
		t.Fatalf("expected category to be inferred from the subcategory: %+v", product)
	}

	rec = s.do(t, http.MethodGet, "/product/name/casmurro", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodGet, "/product/name/inexistente", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("search miss: expected 404, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodDelete, "/category/"+itoa(category.ID), "", token)
	if rec.Code != http.StatusBadRequest || decodeMessage(t, rec) != "resource is still referenced" {
		t.Fatalf("delete in-use category: got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodDelete, "/product/"+itoa(product.ID), "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete product: expected 204, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodGet, "/product/"+itoa(product.ID), "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted product: expected 404, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/product", "", "")
	var products []domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected the two seeded products, got %d", len(products))
	}

	mutations := 0
	for _, a := range recorder.entries {
		if a.Action == domain.ActionAdminMutation {
			mutations++
			if a.Actor != "admin@exemplo.com" {
				t.Errorf("unexpected actor %q", a.Actor)
			}
		}
	}
	if mutations != 6 {
		t.Fatalf("expected 6 audited mutations, got %d", mutations)
	}
}

func TestRouter_MovingSubCategoryKeepsProductsConsistent(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token, _ := s.login(t, "admin@exemplo.com", "admin-pass")

	rec := s.do(t, http.MethodPut, "/subcategory/1", `{"name":"Smartphones","category_id":2}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("move subcategory: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/product/1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get product: expected 200, got %d", rec.Code)
	}
	var product domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &product); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	if product.CategoryID == nil || *product.CategoryID != 2 {
		t.Fatalf("expected product to follow its subcategory into category 2: %+v", product)
	}

	body := `{"name":"Smartphone X","description":"Smartphone topo de linha","price":3500,"stock":10,` +
		`"category_id":2,"subcategory_id":1}`
	rec = s.do(t, http.MethodPut, "/product/1", body, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("re-save product: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ProductWithForeignSubCategory(t *testing.T) {
	s := newTestServer(t, nil, nil)
	token, _ := s.login(t, "admin@exemplo.com", "admin-pass")

	body := `{"name":"Cadeira","description":"d","price":10,"stock":1,"category_id":1,"subcategory_id":2}`
	rec := s.do(t, http.MethodPost, "/add_product", body, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeMessage(t, rec); !strings.HasPrefix(msg, "subcategory does not belong to category") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRouter_AdminRouteWithoutToken(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := s.do(t, http.MethodPost, "/add_product", `{"name":"X","description":"d","price":1,"stock":1}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_CurrentUserTokenErrors(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := s.do(t, http.MethodGet, "/user", "", "")
	if rec.Code != http.StatusUnauthorized || decodeMessage(t, rec) != "token not provided" {
		t.Fatalf("missing token: got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/user", "", "garbage")
	if rec.Code != http.StatusUnauthorized || decodeMessage(t, rec) != "invalid token" {
		t.Fatalf("garbage token: got %d %s", rec.Code, rec.Body.String())
	}

	past := time.Now().Add(-8 * 24 * time.Hour)
	stale := security.NewJWTManager(testSecret, security.DefaultTokenTTL, security.WithClock(func() time.Time { return past }))
	expired, err := stale.Issue(domain.Claims{PrincipalID: 1, Email: "admin@exemplo.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec = s.do(t, http.MethodGet, "/user", "", expired)
	if rec.Code != http.StatusUnauthorized || decodeMessage(t, rec) != "token expired" {
		t.Fatalf("expired token: got %d %s", rec.Code, rec.Body.String())
	}

	token, admin := s.login(t, "admin@exemplo.com", "admin-pass")
	rec = s.do(t, http.MethodGet, "/user", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("current user: expected 200, got %d", rec.Code)
	}
	var me domain.PublicPrincipal
	_ = json.Unmarshal(rec.Body.Bytes(), &me)
	if me != admin {
		t.Fatalf("expected %+v, got %+v", admin, me)
	}
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	s := newTestServer(t, nil, nil)

	body := `{"name":"A","email":"dup@x.com","password":"p1"}`
	if rec := s.do(t, http.MethodPost, "/cadastro", body, ""); rec.Code != http.StatusOK {
		t.Fatalf("first register: expected 200, got %d", rec.Code)
	}
	rec := s.do(t, http.MethodPost, "/cadastro", `{"name":"B","email":"DUP@x.com","password":"p2"}`, "")
	if rec.Code != http.StatusBadRequest || decodeMessage(t, rec) != "email already registered" {
		t.Fatalf("duplicate register: got %d %s", rec.Code, rec.Body.String())
	}

	stored, err := s.users.FindByEmail(context.Background(), "dup@x.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Name != "A" {
		t.Fatalf("original record was overwritten: %+v", stored)
	}

	rec = s.do(t, http.MethodGet, "/check-email?email=dup@x.com", "", "")
	if strings.TrimSpace(rec.Body.String()) != `{"exists":true}` {
		t.Fatalf("check-email: %s", rec.Body.String())
	}
}

func TestRouter_LoginFailures(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := s.do(t, http.MethodPost, "/login", `{"email":"ghost@x.com","password":"p"}`, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown email: expected 404, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/login", `{"email":"admin@exemplo.com","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/login", `{"email":"admin@exemplo.com"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password: expected 400, got %d", rec.Code)
	}
}

func TestRouter_LoginThrottle(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.Connect(context.Background(), redis.Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	s := newTestServer(t, redis.NewLoginThrottle(client, 2, time.Minute), nil)

	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/login", `{"email":"admin@exemplo.com","password":"wrong"}`, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, rec.Code)
		}
	}

	rec := s.do(t, http.MethodPost, "/login", `{"email":"admin@exemplo.com","password":"admin-pass"}`, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once locked, got %d", rec.Code)
	}

	mr.FastForward(time.Minute + time.Second)
	s.login(t, "admin@exemplo.com", "admin-pass")
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil, nil)

	if rec := s.do(t, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec := s.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "catalog_admin_requests_total") {
		t.Fatalf("HTTP metrics of the injected registry missing from /metrics")
	}
	if rec := s.do(t, http.MethodGet, "/nowhere", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", rec.Code)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
