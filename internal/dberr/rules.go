// Package dberr turns raw database-engine failures into client-safe
// (message, code, status) triples.
//
// The package is split the same way as a classic analyzer/factory pair:
//   - RuleSet is per-engine data: which error states mean "user-defined
//     trigger", "integrity violation", "deadlock", and the regular expressions
//     that pull values out of the vendor's free text.
//   - RuleSet.Extract applies the nine ordered rules. It is pure, never panics
//     on odd input, and is the only place in the service that parses vendor
//     message text.
//   - FromError adapts driver error values (*mysql.MySQLError,
//     *pgconn.PgError, SQLite errors) into failure.Database.
//
// Rule sets are versioned; bump Version whenever a pattern changes so logs
// can be correlated with the rule table that produced a message.
package dberr

import (
	"fmt"
	"regexp"

	"github.com/jackc/pgerrcode"

	"github.com/tbourn/go-billing-errors/internal/failure"
)

// Dialect names understood by the extractor.
const (
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// RuleSet is the engine-specific data the extraction rules run against.
//
// Named capture groups:
//   - TriggerMarker:    "text" (required)
//   - DuplicateKey:     "key" and, optionally, "value"
//   - ForeignKeyDelete: "constraint" (optional)
//
// A nil pattern disables the rule that depends on it.
type RuleSet struct {
	Name    string
	Version string

	TriggerStates    []string
	IntegrityPrefix  string
	DeadlockStates   []string
	SyntaxPrefix     string
	ConnectionPrefix string

	// InferTriggerState marks engines without a native trigger state: a
	// TriggerMarker match in the message selects TriggerStates[0].
	InferTriggerState bool

	TriggerMarker    *regexp.Regexp
	DuplicateKey     *regexp.Regexp
	ForeignKeyInsert *regexp.Regexp
	ForeignKeyDelete *regexp.Regexp
	Deadlock         *regexp.Regexp

	// Label derivation for key and constraint names.
	KeyPrefixes        []string
	ConstraintPrefixes []string
	TenantSuffixes     []string
}

var (
	defaultKeyPrefixes        = []string{"uk_", "unique_", "idx_", "fk_"}
	defaultConstraintPrefixes = []string{"fk_"}
	defaultTenantSuffixes     = []string{"_franchise_id", "_franchise", "_tenant_id", "_tenant"}
)

// MySQL is the rule set for MySQL/MariaDB. SIGNAL SQLSTATE '45000' surfaces
// as error 1644, which is the trigger marker.
var MySQL = RuleSet{
	Name:    DialectMySQL,
	Version: "mysql/2",

	TriggerStates:    []string{"45000"},
	IntegrityPrefix:  "23000",
	DeadlockStates:   []string{"40001"},
	SyntaxPrefix:     "42",
	ConnectionPrefix: "08",

	TriggerMarker:    regexp.MustCompile(`(?m)\b1644\b(?:\s*\(\w{5}\))?:?\s+(?P<text>\S[^\n]*?)\s*$`),
	DuplicateKey:     regexp.MustCompile(`Duplicate entry '(?P<value>.*)' for key '(?P<key>[^']+)'`),
	ForeignKeyInsert: regexp.MustCompile(`Cannot add or update a child row`),
	ForeignKeyDelete: regexp.MustCompile("(?s)Cannot delete or update a parent row(?:.*?CONSTRAINT `(?P<constraint>[^`]+)`)?"),
	Deadlock:         regexp.MustCompile(`(?i)deadlock`),

	KeyPrefixes:        defaultKeyPrefixes,
	ConstraintPrefixes: defaultConstraintPrefixes,
	TenantSuffixes:     defaultTenantSuffixes,
}

// Postgres is the rule set for PostgreSQL. Duplicate values live in the
// error detail, which the adapter appends to the message on its own line.
var Postgres = RuleSet{
	Name:    DialectPostgres,
	Version: "postgres/1",

	TriggerStates:    []string{pgerrcode.RaiseException},
	IntegrityPrefix:  "23",
	DeadlockStates:   []string{pgerrcode.DeadlockDetected, pgerrcode.SerializationFailure},
	SyntaxPrefix:     "42",
	ConnectionPrefix: "08",

	TriggerMarker:    regexp.MustCompile(`^(?:ERROR:\s*)?(?P<text>\S[^\n]*?)(?:\s*\(SQLSTATE \w{5}\))?(?:\n|$)`),
	DuplicateKey:     regexp.MustCompile(`(?s)duplicate key value violates unique constraint "(?P<key>[^"]+)"(?:.*?Key \([^)]*\)=\((?P<value>.*?)\) already exists)?`),
	ForeignKeyInsert: regexp.MustCompile(`insert or update on table "[^"]+" violates foreign key constraint`),
	ForeignKeyDelete: regexp.MustCompile(`update or delete on table "[^"]+" violates foreign key constraint(?: "(?P<constraint>[^"]+)")?`),
	Deadlock:         regexp.MustCompile(`(?i)deadlock detected`),

	KeyPrefixes:        defaultKeyPrefixes,
	ConstraintPrefixes: defaultConstraintPrefixes,
	TenantSuffixes:     defaultTenantSuffixes,
}

// SQLite has no SQLSTATE; the adapter assigns MySQL-style states from the
// driver text (see sqliteState). Triggers must RAISE(ABORT, 'BUSINESS_RULE: ...')
// for rule 1 to pick them up. SQLite reports the same text for insert- and
// delete-time foreign key failures, so only the insert rule is enabled.
var SQLite = RuleSet{
	Name:    DialectSQLite,
	Version: "sqlite/1",

	TriggerStates:    []string{"45000"},
	IntegrityPrefix:  "23",
	DeadlockStates:   []string{"40001"},
	SyntaxPrefix:     "42",
	ConnectionPrefix: "08",

	InferTriggerState: true,

	TriggerMarker:    regexp.MustCompile(`BUSINESS_RULE:\s*(?P<text>[^()\n]*[^()\s])\s*(?:\(\d+\))?\s*$`),
	DuplicateKey:     regexp.MustCompile(`UNIQUE constraint failed: (?P<key>[\w.]+(?:,\s*[\w.]+)*)`),
	ForeignKeyInsert: regexp.MustCompile(`FOREIGN KEY constraint failed`),
	Deadlock:         regexp.MustCompile(`database (?:table )?is locked`),

	KeyPrefixes:        defaultKeyPrefixes,
	ConstraintPrefixes: defaultConstraintPrefixes,
	TenantSuffixes:     defaultTenantSuffixes,
}

// WithTriggerMarker returns a copy of rs using pattern as the rule 1 marker.
// The pattern must compile and declare a "text" named group.
func (rs RuleSet) WithTriggerMarker(pattern string) (RuleSet, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return rs, fmt.Errorf("trigger marker: %w", err)
	}
	if re.SubexpIndex("text") < 0 {
		return rs, fmt.Errorf("trigger marker %q has no (?P<text>...) group", pattern)
	}
	rs.TriggerMarker = re
	rs.Version += "+marker"
	return rs, nil
}

// State returns the error state the rules should see for d. For engines
// that infer trigger states, a message matching this rule set's own
// TriggerMarker is reported as TriggerStates[0] whatever the adapter chose.
func (rs RuleSet) State(d failure.Database) string {
	if rs.InferTriggerState && len(rs.TriggerStates) > 0 &&
		rs.TriggerMarker != nil && rs.TriggerMarker.MatchString(d.Message) {
		return rs.TriggerStates[0]
	}
	return d.State
}
