package db

import (
	"errors"
	"fmt"
	"testing"

	"peiban/config"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"mysql 1062", &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql other", &mysqlDriver.MySQLError{Number: 1452, Message: "fk"}, false},
		{"sqlite", errors.New("constraint failed: UNIQUE constraint failed: checkins.user_id, checkins.checkin_date (2067)"), true},
		{"not found", gorm.ErrRecordNotFound, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDuplicateKey(tc.err); got != tc.want {
				t.Errorf("IsDuplicateKey(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestInitDBSQLite(t *testing.T) {
	orm, err := InitDB(config.DatabaseConfig{
		Driver:   "sqlite",
		Database: "file:db_test?mode=memory&cache=shared",
		MaxOpen:  1,
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer CloseDB(orm)

	if err := HealthCheck(orm); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}

func TestInitDBUnknownDriver(t *testing.T) {
	if _, err := InitDB(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestSqliteDSNEnablesForeignKeys(t *testing.T) {
	if got := sqliteDSN("app.db"); got != "app.db?_pragma=foreign_keys(1)" {
		t.Errorf("unexpected dsn %s", got)
	}
	if got := sqliteDSN("file:x?mode=memory"); got != "file:x?mode=memory&_pragma=foreign_keys(1)" {
		t.Errorf("unexpected dsn %s", got)
	}
}
