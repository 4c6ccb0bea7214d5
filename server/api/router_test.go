package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/astcodec"
	"github.com/touist-lang/touist/internal/cache"
	"github.com/touist-lang/touist/server/dao"
	"github.com/touist-lang/touist/server/dao/inmem"
	"github.com/touist-lang/touist/server/svc"
)

func newTestAPI(t *testing.T) (API, dao.Account) {
	t.Helper()

	backend := svc.Service{DB: inmem.NewDatastore(), Compiled: &cache.Store{}}
	admin, err := backend.CreateAccount(context.Background(), "admin", "password", dao.Admin)
	assert.NoError(t, err)

	a := API{Backend: backend, UnauthDelay: 0, Secret: []byte("test-secret-at-least-32-bytes-long!")}
	return a, admin
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func loginAs(t *testing.T, handler http.Handler, name, password string) string {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/login", "", LoginRequest{Name: name, Password: password})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp LoginResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	return resp.Token
}

func Test_Router_loginThenGetInfo(t *testing.T) {
	a, _ := newTestAPI(t)
	router := a.Router()

	tok := loginAs(t, router, "admin", "password")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/info", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var info InfoModel
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.NotEmpty(t, info.Version.Touist)
}

func Test_Router_loginRejectsBadPassword(t *testing.T) {
	a, _ := newTestAPI(t)
	router := a.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/login", "", LoginRequest{Name: "admin", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_Router_createAccountRequiresAdmin(t *testing.T) {
	a, _ := newTestAPI(t)
	router := a.Router()

	_, err := a.Backend.CreateAccount(context.Background(), "normal", "password", dao.Normal)
	assert.NoError(t, err)
	tok := loginAs(t, router, "normal", "password")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/accounts", tok, AccountCreateRequest{Name: "other", Password: "password"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func Test_Router_submitAndFetchJob(t *testing.T) {
	a, _ := newTestAPI(t)
	router := a.Router()
	tok := loginAs(t, router, "admin", "password")

	astBytes, err := astcodec.Encode(ast.TouistCode{Stmts: []ast.Node{ast.Prop{Name: "a"}}})
	assert.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/jobs", tok, CompileRequest{AST: astBytes})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var job CompileJobModel
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Equal(t, "done", job.Status)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/jobs/"+job.ID, tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_Router_requiresAuthForProtectedRoutes(t *testing.T) {
	a, _ := newTestAPI(t)
	router := a.Router()

	rec := doJSON(t, router, http.MethodGet, "/api/v1/accounts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
