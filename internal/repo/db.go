// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and the billing triggers.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-billing-errors/internal/domain"
)

// triggers enforce the billing rules inside the database. Business-rule
// aborts use the "BUSINESS_RULE: <text>" form so the error translator turns
// them into 409 responses with a code derived from the text.
var triggers = []string{
	`CREATE TRIGGER IF NOT EXISTS trg_payments_invoice_void
BEFORE INSERT ON payments
FOR EACH ROW
WHEN (SELECT status FROM invoices WHERE id = NEW.invoice_id) = 'void'
BEGIN
	SELECT RAISE(ABORT, 'BUSINESS_RULE: Invoice is void');
END;`,
	`CREATE TRIGGER IF NOT EXISTS trg_payments_no_overpay
BEFORE INSERT ON payments
FOR EACH ROW
WHEN NEW.amount_cents > (SELECT amount_cents - paid_cents FROM invoices WHERE id = NEW.invoice_id)
BEGIN
	SELECT RAISE(ABORT, 'BUSINESS_RULE: Overpayment not allowed');
END;`,
	`CREATE TRIGGER IF NOT EXISTS trg_payments_apply
AFTER INSERT ON payments
FOR EACH ROW
BEGIN
	UPDATE invoices
	SET paid_cents = paid_cents + NEW.amount_cents,
	    status = CASE WHEN paid_cents + NEW.amount_cents >= amount_cents THEN 'paid' ELSE 'partial' END
	WHERE id = NEW.invoice_id;
END;`,
}

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs and
// installs the OpenTelemetry tracing plugin.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(withPragmas(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Query values may carry customer PII; spans keep the statement shape only.
	if err := db.Use(tracing.NewPlugin(tracing.WithoutQueryVariables())); err != nil {
		return nil, fmt.Errorf("gorm tracing: %w", err)
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// withPragmas adds per-connection pragmas to the DSN; the Exec calls above
// only reach whichever pooled connection served them.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// AutoMigrate creates the billing schema and its triggers.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Customer{},
		&domain.Invoice{},
		&domain.Payment{},
	); err != nil {
		return err
	}
	for _, stmt := range triggers {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create trigger: %w", err)
		}
	}
	return nil
}
