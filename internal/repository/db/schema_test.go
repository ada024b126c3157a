package db

import (
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestEnsureSchema_AppliesAllStatements(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	mock.ExpectBegin()
	for range schema {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	if err := ensureSchema(db); err != nil {
		t.Fatalf("ensureSchema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestEnsureSchema_RollsBackOnFailure(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS equipment").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS readings").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = ensureSchema(db)
	if err == nil || !strings.Contains(err.Error(), "statement 2") {
		t.Fatalf("expected statement 2 failure, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestInitDB_UnknownDriver(t *testing.T) {
	if _, err := InitDB(Options{Driver: "mysql"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestInitDB_SQLiteFile(t *testing.T) {
	path := t.TempDir() + "/test.db"
	db, err := InitDB(Options{Driver: DriverSQLite, Path: path})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM cooldown_checks`); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 0 {
		t.Fatalf("want empty table, got %d rows", n)
	}
}
