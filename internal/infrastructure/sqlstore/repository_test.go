package sqlstore

import (
	"context"
	"testing"
)

func TestRebind(t *testing.T) {
	query := `SELECT name FROM hierarchy_node WHERE doctype = ? AND lft > ? AND rgt < ?`

	if got := Rebind(DriverMySQL, query); got != query {
		t.Errorf("MySQL mantém os marcadores: %s", got)
	}
	want := `SELECT name FROM hierarchy_node WHERE doctype = $1 AND lft > $2 AND rgt < $3`
	if got := Rebind(DriverPostgres, query); got != want {
		t.Errorf("esperado %s, obtido %s", want, got)
	}
}

func TestOpenWithoutDSN(t *testing.T) {
	if _, err := Open(context.Background(), DriverPostgres, ""); err == nil {
		t.Error("esperado erro sem DSN")
	}
}
