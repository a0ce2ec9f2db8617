package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cafe_pos/internal/appstate"
	"github.com/Skotchmaster/cafe_pos/internal/csvimport"
	"github.com/Skotchmaster/cafe_pos/internal/events"
	"github.com/Skotchmaster/cafe_pos/internal/receipt"
	"github.com/Skotchmaster/cafe_pos/internal/reports"
	"github.com/Skotchmaster/cafe_pos/internal/repo"
	"github.com/Skotchmaster/cafe_pos/internal/service"
	pkgdb "github.com/Skotchmaster/cafe_pos/pkg/db"
	authmw "github.com/Skotchmaster/cafe_pos/pkg/middleware/auth"
	"github.com/Skotchmaster/cafe_pos/pkg/middleware/csrf"
)

const testHost = "pos.local"

type testEnv struct {
	E      *echo.Echo
	Repo   *repo.GormRepo
	Deps   *Deps
	Events *events.Memory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	db, err := pkgdb.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate(ctx))

	secret := []byte("test-secret")
	authSvc, err := service.NewAuthService(secret)
	require.NoError(t, err)

	loc := time.FixedZone("CET", 3600)
	mem := &events.Memory{}
	state := appstate.New(r)
	printer := service.Printer{
		Shop:    receipt.Shop{Name: "Kafe Test", Currency: "RSD", Footer: "Hvala!", Loc: loc},
		Warning: "Ovo nije fiskalni račun",
	}

	d := &Deps{
		Repo:    r,
		Auth:    &AuthHTTP{Svc: authSvc},
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: mem, Classifier: csvimport.DefaultClassifier()}},
		Layout:  &LayoutHTTP{Svc: &service.LayoutService{Repo: r}},
		Orders:  &OrderHTTP{Svc: &service.OrderService{Repo: r, Events: mem}, Printer: printer},
		Receipts: &ReceiptHTTP{
			Svc:     &service.ReceiptService{Repo: r, Events: mem, Loc: loc},
			Printer: printer,
		},
		Reports: &ReportHTTP{
			Svc: &service.ReportService{
				Repo:   r,
				State:  state,
				Clock:  reports.Clock{Loc: loc, CutoffHour: 15},
				Events: mem,
			},
			Printer: printer,
		},
		Settings: &SettingsHTTP{Svc: &service.SettingsService{State: state}},
		Session:  authmw.NewSessionMiddleware(secret, false),
		CSRF:     csrf.DefaultConfig(),
	}

	e := echo.New()
	Register(e, d)
	return &testEnv{E: e, Repo: r, Deps: d, Events: mem}
}

// doJSONRequest builds a context for calling a handler directly.
func (env *testEnv) doJSONRequest(method, target string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

// serve runs a request through the full router. Unsafe requests get a
// matching CSRF cookie and header.
func (env *testEnv) serve(method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Host = testHost
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if method != http.MethodGet {
		req.Header.Set("Origin", "http://"+testHost)
		req.Header.Set("X-CSRF-Token", "test-csrf")
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "test-csrf"})
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, env *testEnv) *http.Cookie {
	t.Helper()
	rec := env.serve(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "robertobadjo"})
	require.Equal(t, http.StatusOK, rec.Code)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "session" {
			return &http.Cookie{Name: ck.Name, Value: ck.Value}
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
