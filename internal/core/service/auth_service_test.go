package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitrine/catalog-admin/internal/core/domain"
	"github.com/vitrine/catalog-admin/internal/infrastructure/security"
)

type stubCredentialRepo struct {
	role    string
	byEmail map[string]*domain.Principal
	nextID  int64
	findErr error
}

func newStubCredentialRepo(role string) *stubCredentialRepo {
	return &stubCredentialRepo{role: role, byEmail: make(map[string]*domain.Principal)}
}

func clonePrincipal(p *domain.Principal) *domain.Principal {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubCredentialRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	if _, exists := r.byEmail[p.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	r.nextID++
	stored := clonePrincipal(p)
	stored.ID = r.nextID
	stored.Role = r.role
	r.byEmail[stored.Email] = stored
	return clonePrincipal(stored), nil
}

func (r *stubCredentialRepo) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return clonePrincipal(p), nil
}

func (r *stubCredentialRepo) FindByID(_ context.Context, id int64) (*domain.Principal, error) {
	for _, p := range r.byEmail {
		if p.ID == id {
			return clonePrincipal(p), nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

// stubHasher keeps service tests fast; bcrypt itself is covered in the security package.
type stubHasher struct{}

func (stubHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (stubHasher) Verify(p, digest string) bool  { return digest == "hashed:"+p }

type stubThrottle struct {
	locked   bool
	lockErr  error
	failures map[string]int
	resets   []string
}

func (t *stubThrottle) Locked(context.Context, string) (bool, error) { return t.locked, t.lockErr }

func (t *stubThrottle) RegisterFailure(_ context.Context, email string) error {
	if t.failures == nil {
		t.failures = make(map[string]int)
	}
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	t.resets = append(t.resets, email)
	return nil
}

type captureRecorder struct {
	activities []domain.Activity
}

func (r *captureRecorder) Record(a domain.Activity) { r.activities = append(r.activities, a) }

type authFixture struct {
	svc      *AuthService
	admins   *stubCredentialRepo
	users    *stubCredentialRepo
	tokens   *security.JWTManager
	throttle *stubThrottle
	recorder *captureRecorder
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		admins:   newStubCredentialRepo(domain.RoleAdmin),
		users:    newStubCredentialRepo(domain.RoleUser),
		tokens:   security.NewJWTManager("secret", time.Hour),
		throttle: &stubThrottle{},
		recorder: &captureRecorder{},
	}
	f.svc = NewAuthService(AuthDeps{
		Admins:   f.admins,
		Users:    f.users,
		Hasher:   stubHasher{},
		Issuer:   f.tokens,
		Throttle: f.throttle,
		Activity: f.recorder,
		Log:      zerolog.Nop(),
	})
	return f
}

func (f *authFixture) seedAdmin(t *testing.T, email, password string) {
	t.Helper()
	if _, err := f.admins.Create(context.Background(), &domain.Principal{
		Name: "Admin", Email: email, PasswordHash: "hashed:" + password,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.Register(context.Background(), "A", "a@x.com", "p1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == 0 || user.Role != domain.RoleUser {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash != "hashed:p1" {
		t.Fatalf("expected password to be hashed, got %q", user.PasswordHash)
	}

	raw, _ := json.Marshal(user)
	if strings.Contains(string(raw), "password") || strings.Contains(string(raw), "hashed:") {
		t.Fatalf("serialized user leaks password: %s", raw)
	}
	if len(f.recorder.activities) != 1 || f.recorder.activities[0].Action != domain.ActionRegister {
		t.Fatalf("expected register activity, got %+v", f.recorder.activities)
	}
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.Register(context.Background(), " A ", "  A@X.com ", "p1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "a@x.com" || user.Name != "A" {
		t.Fatalf("unexpected normalization: %+v", user)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newAuthFixture()

	cases := []struct{ name, email, password string }{
		{"", "a@x.com", "p1"},
		{"A", "", "p1"},
		{"A", "a@x.com", ""},
		{"A", "not-an-email", "p1"},
		{"A", "a@x.com", strings.Repeat("x", 73)},
	}
	for _, tc := range cases {
		if _, err := f.svc.Register(context.Background(), tc.name, tc.email, tc.password); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", tc, err)
		}
	}
	if len(f.users.byEmail) != 0 {
		t.Fatalf("expected no users created, got %d", len(f.users.byEmail))
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Register(context.Background(), "A", "a@x.com", "p1"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := f.svc.Register(context.Background(), "B", "a@x.com", "p2"); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(f.users.byEmail) != 1 || f.users.byEmail["a@x.com"].Name != "A" {
		t.Fatalf("expected exactly the original record, got %+v", f.users.byEmail)
	}
}

func TestAuthService_Login_User(t *testing.T) {
	f := newAuthFixture()
	if _, err := f.svc.Register(context.Background(), "A", "a@x.com", "p1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := f.svc.Login(context.Background(), "a@x.com", "p1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Principal.Role != domain.RoleUser || res.Principal.Email != "a@x.com" || res.Principal.Name != "A" {
		t.Fatalf("unexpected principal: %+v", res.Principal)
	}

	claims, err := f.tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Role != domain.RoleUser || claims.PrincipalID != res.Principal.ID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if len(f.throttle.resets) != 1 {
		t.Fatalf("expected throttle reset on success")
	}
}

func TestAuthService_Login_Admin(t *testing.T) {
	f := newAuthFixture()
	f.seedAdmin(t, "admin@x.com", "root")

	res, err := f.svc.Login(context.Background(), "admin@x.com", "root")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := f.tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Role != domain.RoleAdmin || res.Principal.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got claims=%+v principal=%+v", claims, res.Principal)
	}
}

func TestAuthService_Login_AdminTakesPrecedence(t *testing.T) {
	f := newAuthFixture()
	f.seedAdmin(t, "both@x.com", "admin-pass")
	if _, err := f.svc.Register(context.Background(), "U", "both@x.com", "user-pass"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := f.svc.Login(context.Background(), "both@x.com", "admin-pass")
	if err != nil || res.Principal.Role != domain.RoleAdmin {
		t.Fatalf("expected admin login, got %+v, %v", res, err)
	}

	if _, err := f.svc.Login(context.Background(), "both@x.com", "user-pass"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected user password to be checked against admin row, got %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture()
	_, _ = f.svc.Register(context.Background(), "D", "d@x.com", "goodpass")

	if _, err := f.svc.Login(context.Background(), "d@x.com", "badpass"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if f.throttle.failures["d@x.com"] != 1 {
		t.Fatalf("expected failure to be registered, got %+v", f.throttle.failures)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Login(context.Background(), "ghost@x.com", "pass"); !errors.Is(err, domain.ErrUnknownEmail) {
		t.Fatalf("expected ErrUnknownEmail, got %v", err)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Login(context.Background(), "", "pass"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	f := newAuthFixture()
	_, _ = f.svc.Register(context.Background(), "A", "a@x.com", "p1")
	f.throttle.locked = true

	if _, err := f.svc.Login(context.Background(), "a@x.com", "p1"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_ThrottleFailureFailsOpen(t *testing.T) {
	f := newAuthFixture()
	_, _ = f.svc.Register(context.Background(), "A", "a@x.com", "p1")
	f.throttle.lockErr = errors.New("redis down")

	if _, err := f.svc.Login(context.Background(), "a@x.com", "p1"); err != nil {
		t.Fatalf("expected login to proceed, got %v", err)
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	f := newAuthFixture()
	boom := errors.New("connection refused")
	f.admins.findErr = boom

	_, err := f.svc.Login(context.Background(), "a@x.com", "p1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
	if errors.Is(err, domain.ErrUnknownEmail) {
		t.Fatalf("store failure must not be reported as unknown email")
	}
}

func TestAuthService_CurrentPrincipal(t *testing.T) {
	f := newAuthFixture()
	f.seedAdmin(t, "admin@x.com", "root")
	user, _ := f.svc.Register(context.Background(), "A", "a@x.com", "p1")

	got, err := f.svc.CurrentPrincipal(context.Background(), domain.Claims{PrincipalID: user.ID, Role: domain.RoleUser})
	if err != nil || got.Email != "a@x.com" {
		t.Fatalf("unexpected user lookup: %+v, %v", got, err)
	}

	got, err = f.svc.CurrentPrincipal(context.Background(), domain.Claims{PrincipalID: 1, Role: domain.RoleAdmin})
	if err != nil || got.Email != "admin@x.com" {
		t.Fatalf("unexpected admin lookup: %+v, %v", got, err)
	}

	if _, err := f.svc.CurrentPrincipal(context.Background(), domain.Claims{PrincipalID: 99, Role: domain.RoleUser}); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestAuthService_EmailExists(t *testing.T) {
	f := newAuthFixture()
	_, _ = f.svc.Register(context.Background(), "A", "a@x.com", "p1")

	if ok, err := f.svc.EmailExists(context.Background(), "A@x.com"); err != nil || !ok {
		t.Fatalf("expected existing email, got %v, %v", ok, err)
	}
	if ok, err := f.svc.EmailExists(context.Background(), "b@x.com"); err != nil || ok {
		t.Fatalf("expected missing email, got %v, %v", ok, err)
	}
	if _, err := f.svc.EmailExists(context.Background(), " "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
