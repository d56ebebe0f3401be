package database

import "testing"

func TestDialect_Rebind(t *testing.T) {
	pg := dialect{driver: driverPostgres}
	got := pg.rebind("SELECT * FROM users WHERE id = ? AND version = ?")
	expected := "SELECT * FROM users WHERE id = $1 AND version = $2"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	lite := dialect{driver: driverSQLite}
	if got := lite.rebind("id = ?"); got != "id = ?" {
		t.Errorf("Expected sqlite query unchanged, got %q", got)
	}
}

func TestDialect_ForUpdate(t *testing.T) {
	if got := (dialect{driver: driverPostgres}).forUpdate("SELECT 1"); got != "SELECT 1 FOR UPDATE" {
		t.Errorf("Expected FOR UPDATE suffix, got %q", got)
	}
	if got := (dialect{driver: driverSQLite}).forUpdate("SELECT 1"); got != "SELECT 1" {
		t.Errorf("Expected sqlite query unchanged, got %q", got)
	}
}

func TestPairKey_Unordered(t *testing.T) {
	if pairKey("a", "b") != pairKey("b", "a") {
		t.Errorf("Expected pair key to ignore order")
	}
}
