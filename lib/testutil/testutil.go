package testutil

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	configlibsql "toolbox-backend/lib/configutil/libsql"
	"toolbox-backend/lib/telemetry"

	"github.com/labstack/echo/v4"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(fmt.Sprintf("test:%s", params.Name))
	if params.DbSchema == "" {
		return ServiceResult{}, cleanup
	}

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = ":memory:"
	}
	db, err := configlibsql.Struct{File: dbpath}.OpenDB(params.DbSchema)
	if err != nil {
		t.Fatal(err)
	}
	// every connection to :memory: is a new database
	db.SetMaxOpenConns(1)

	return ServiceResult{DB: db}, func() {
		db.Close()
		cleanup()
	}
}

// Upstream starts a fake third party server for the lifetime of the test.
func Upstream(t testing.TB, handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// Do sends a request through an echo instance and returns the recorder.
func Do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

// Fixture reads a file from the testdata directory next to the calling
// test file.
func Fixture(t testing.TB, name string) []byte {
	_, caller, _, ok := runtime.Caller(1)
	if !ok {
		t.Fatal("failed to resolve caller")
	}
	contents, err := os.ReadFile(filepath.Join(filepath.Dir(caller), "testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return contents
}
