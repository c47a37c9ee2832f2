package app

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/retvol/config"
)

// TestInitPostgres_InvalidHost expects ping failure.
func TestInitPostgres_InvalidHost(t *testing.T) {
	cfg := config.Config{Postgres: config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329, // unlikely mapped
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}}
	db, err := InitPostgres(cfg)
	if err == nil {
		_ = db.Close()
		t.Fatalf("expected error connecting to invalid DB")
	}
}

// TestInitializeApp_DBFailure ensures InitializeApp returns error when DB cannot connect.
func TestInitializeApp_DBFailure(t *testing.T) {
	// Backup and override global config
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = config.Config{Postgres: config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329,
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}}

	r, cleanup, err := InitializeApp()
	if err == nil || r != nil || cleanup != nil {
		if cleanup != nil {
			cleanup()
		}
		t.Fatalf("expected error from InitializeApp with invalid DB config")
	}
}

func TestInitializeApp_HappyPath(t *testing.T) {
	// Override opener to return a sqlmock DB that pings successfully
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	// Expect a ping during InitializeApp's health handler (db.Ping used elsewhere as well)
	mock.ExpectPing()

	old := postgresOpener
	postgresOpener = func(cfg config.Config) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() {
		postgresOpener = old
		_ = db.Close()
	})

	router, cleanup, err := InitializeApp()
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: err set or nil components")
	}

	// Hit health endpoints and the API surface
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", w.Code)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	router.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("readyz status=%d", w2.Code)
	}

	for _, path := range []string{"/metrics", "/api/v1/monthly"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code == http.StatusNotFound && path == "/metrics" {
			t.Fatalf("%s not mounted", path)
		}
		if path == "/api/v1/monthly" && w.Code != http.StatusBadRequest {
			t.Fatalf("monthly without ticker: status=%d", w.Code)
		}
	}

	// Call cleanup and ensure it doesn't panic
	cleanup()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeAnalysis(t *testing.T) {
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = config.Config{Data: config.DataConfig{Dir: t.TempDir(), PriceColumn: "adj_close"}}

	t.Run("no persistence needs no database", func(t *testing.T) {
		oldOpener := postgresOpener
		postgresOpener = func(config.Config) (*sql.DB, error) {
			t.Fatalf("database must not be opened")
			return nil, nil
		}
		t.Cleanup(func() { postgresOpener = oldOpener })

		svc, cleanup, err := InitializeAnalysis(false)
		if err != nil || svc == nil || cleanup == nil {
			t.Fatalf("svc=%v err=%v", svc, err)
		}
		cleanup()
	})

	t.Run("persistence opens database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock new: %v", err)
		}
		mock.ExpectClose()
		oldOpener := postgresOpener
		postgresOpener = func(config.Config) (*sql.DB, error) { return db, nil }
		t.Cleanup(func() { postgresOpener = oldOpener })

		svc, cleanup, err := InitializeAnalysis(true)
		if err != nil || svc == nil {
			t.Fatalf("svc=%v err=%v", svc, err)
		}
		cleanup()
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("persistence surfaces connection error", func(t *testing.T) {
		oldOpener := postgresOpener
		postgresOpener = func(config.Config) (*sql.DB, error) { return nil, errors.New("down") }
		t.Cleanup(func() { postgresOpener = oldOpener })

		if _, _, err := InitializeAnalysis(true); err == nil {
			t.Fatalf("expected error")
		}
	})
}
