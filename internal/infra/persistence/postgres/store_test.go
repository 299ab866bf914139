package postgres

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

func TestNewStoreOpenFailure(t *testing.T) {
	boom := errors.New("dial refused")
	restore := OverrideSQLOpen(func(driverName, dsn string) (*sql.DB, error) {
		if driverName != "pgx" {
			t.Fatalf("expected pgx driver, got %s", driverName)
		}
		return nil, boom
	})
	defer restore()

	_, err := NewStore("postgres://example/chromax", domain.NewRulesEngine())
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("expected open failure, got %v", err)
	}
}

func TestNewStoreDefaultDSN(t *testing.T) {
	var seen string
	restore := OverrideSQLOpen(func(_, dsn string) (*sql.DB, error) {
		seen = dsn
		return nil, errors.New("stop here")
	})
	defer restore()

	_, _ = NewStore("", nil)
	if !strings.Contains(seen, "chromax") {
		t.Fatalf("expected default DSN to target chromax, got %s", seen)
	}
}
