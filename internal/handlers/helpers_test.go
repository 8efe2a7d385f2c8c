package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/harishn/shopapi/internal/email"
	"github.com/harishn/shopapi/internal/handlers"
	mwauth "github.com/harishn/shopapi/internal/middleware/auth"
	"github.com/harishn/shopapi/internal/models"
	"github.com/harishn/shopapi/internal/repo"
	authsvc "github.com/harishn/shopapi/internal/service/auth"
	"github.com/harishn/shopapi/internal/tokens"
	httpserver "github.com/harishn/shopapi/internal/transport/http"
)

var testDBSeq atomic.Int64

type fakeSender struct {
	mu   sync.Mutex
	sent []email.Message
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, email.Message{To: to, Subject: subject, Body: body})
	return nil
}

func (f *fakeSender) Sent() []email.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]email.Message(nil), f.sent...)
}

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Svc      *authsvc.Service
	Sender   *fakeSender
	Notifier *email.Notifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:handlerstest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}, &models.Favorite{}))

	svc := &authsvc.Service{
		Repo:  &repo.UserRepo{DB: db},
		Codec: tokens.NewCodec([]byte("test-secret"), 15*time.Minute, 7*24*time.Hour),
	}

	sender := &fakeSender{}
	notifier := email.NewNotifier(sender, slog.Default(), 8)
	notifier.Start()
	t.Cleanup(notifier.Close)

	deps := httpserver.Deps{
		Gate:            &mwauth.Gate{Svc: svc},
		AuthHandler:     &handlers.AuthHandler{Svc: svc},
		ProductHandler:  &handlers.ProductHandler{DB: db},
		AdminHandler:    &handlers.AdminProductHandler{DB: db, Index: "product"},
		CartHandler:     &handlers.CartHandler{DB: db},
		FavoriteHandler: &handlers.FavoriteHandler{DB: db},
		EmailHandler:    &handlers.EmailHandler{Notifier: notifier},
	}

	e := echo.New()
	httpserver.Register(e, &deps)

	return &testEnv{T: t, E: e, DB: db, Svc: svc, Sender: sender, Notifier: notifier}
}

func (env *testEnv) doJSON(method, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	env.T.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(env.T, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doForm(path string, form url.Values) *httptest.ResponseRecorder {
	env.T.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) map[string]string {
	return map[string]string{echo.HeaderAuthorization: "Bearer " + token}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (env *testEnv) signup(username, email, password string) {
	env.T.Helper()
	rec := env.doJSON(http.MethodPost, "/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
}

// login returns the token pair for an existing account.
func (env *testEnv) login(email, password string) map[string]interface{} {
	env.T.Helper()
	rec := env.doForm("/auth/login", url.Values{"username": {email}, "password": {password}})
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody(env.T, rec)
}

// loginAdmin provisions an admin through the trusted path and logs it in.
func (env *testEnv) loginAdmin() map[string]interface{} {
	env.T.Helper()
	require.NoError(env.T, env.Svc.CreateAdmin(context.Background(), "root", "root@x.com", "rootpw1"))
	return env.login("root@x.com", "rootpw1")
}

func (env *testEnv) seedProduct(name, category string, price float64) *models.Product {
	env.T.Helper()
	p := &models.Product{
		Name:          name,
		Category:      category,
		Description:   "seeded product",
		Price:         price,
		StockQuantity: 10,
	}
	require.NoError(env.T, env.DB.Create(p).Error)
	return p
}
