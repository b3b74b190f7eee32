package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

func TestMigrate_SkipsApplied(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS schema_migration`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT version FROM schema_migration`)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE two`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schema_migration (version, name) VALUES (?, ?)`)).
		WithArgs(2, "two").
		WillReturnResult(sqlmock.NewResult(1, 1))

	n, err := Migrate(context.Background(), db, []Migration{
		{Version: 1, Name: "one", Statements: []string{`CREATE TABLE one (id INT)`}},
		{Version: 2, Name: "two", Statements: []string{`CREATE TABLE two (id INT)`}},
	})
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if n != 1 {
		t.Fatalf("applied = %d, want 1", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestMigrate_RejectsUnsorted(t *testing.T) {
	raw, _, _ := sqlmock.New()
	defer raw.Close()

	_, err := Migrate(context.Background(), sqlx.NewDb(raw, "sqlmock"), []Migration{
		{Version: 2}, {Version: 1},
	})
	if err == nil {
		t.Fatal("expected ordering error")
	}
}

func TestErrorClassifiers(t *testing.T) {
	if !IsDuplicate(&mysql.MySQLError{Number: 1062}) {
		t.Error("1062 should be duplicate")
	}
	if !IsReferenced(&mysql.MySQLError{Number: 1451}) {
		t.Error("1451 should be referenced")
	}
	if !IsMissingParent(&mysql.MySQLError{Number: 1452}) {
		t.Error("1452 should be missing parent")
	}
	if IsDuplicate(nil) {
		t.Error("nil is not a duplicate")
	}
}

func TestPool_NoDSN(t *testing.T) {
	p := NewPool("", DefaultOptions())
	if _, err := p.DB(context.Background()); err == nil {
		t.Fatal("expected ErrUnavailable")
	}
}
