package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/tbourn/go-billing-errors/internal/config"
	"github.com/tbourn/go-billing-errors/internal/dberr"
)

func TestNewExtractor_DefaultDialect(t *testing.T) {
	x, err := newExtractor(config.Config{DBDialect: dberr.DialectPostgres})
	if err != nil {
		t.Fatalf("newExtractor: %v", err)
	}
	if got := x.RuleSet("").Name; got != dberr.DialectPostgres {
		t.Fatalf("default rule set=%q", got)
	}
}

func TestNewExtractor_TriggerMarker(t *testing.T) {
	x, err := newExtractor(config.Config{
		DBDialect:       dberr.DialectMySQL,
		DBTriggerMarker: `RULE>\s*(?P<text>.+)$`,
	})
	if err != nil {
		t.Fatalf("newExtractor: %v", err)
	}
	if v := x.RuleSet(dberr.DialectMySQL).Version; v != dberr.MySQL.Version+"+marker" {
		t.Fatalf("version=%q", v)
	}
	if v := x.RuleSet(dberr.DialectSQLite).Version; v != dberr.SQLite.Version {
		t.Fatalf("other dialects changed: %q", v)
	}

	if _, err := newExtractor(config.Config{DBDialect: dberr.DialectMySQL, DBTriggerMarker: `no group`}); err == nil {
		t.Fatalf("marker without text group accepted")
	}
}

type sqliteErr struct{ msg string }

func (e sqliteErr) Error() string { return e.msg }
func (e sqliteErr) Code() int     { return 1811 }

func TestNewExtractor_SQLiteTriggerMarker(t *testing.T) {
	x, err := newExtractor(config.Config{
		DBDialect:       dberr.DialectSQLite,
		DBTriggerMarker: `RULE\[(?P<text>[^\]]+)\]`,
	})
	if err != nil {
		t.Fatalf("newExtractor: %v", err)
	}
	d, ok := dberr.FromError(fmt.Errorf("record payment: %w", sqliteErr{"RULE[Overpayment not allowed]"}))
	if !ok {
		t.Fatalf("sqlite error not recognised")
	}
	got := x.Extract(d)
	if got.Rule != dberr.RuleTrigger || got.Status != http.StatusConflict || got.Code != "OVERPAYMENT_NOT_ALLOWED" {
		t.Fatalf("custom sqlite marker: %+v", got)
	}
}
