package dberr

import (
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-billing-errors/internal/failure"
)

// Rule numbers, in evaluation order. The order is part of the contract:
// vendor text can satisfy more than one check.
const (
	RuleTrigger = iota + 1
	RuleDuplicate
	RuleForeignKeyInsert
	RuleForeignKeyDelete
	RuleIntegrity
	RuleDeadlock
	RuleSyntax
	RuleConnection
	RuleFallback
)

// Client messages produced by the rules.
const (
	MsgBusinessRule      = "Business rule violation"
	MsgReferenceMissing  = "Referenced record does not exist"
	MsgIntegrity         = "Data integrity violation"
	MsgDeadlock          = "Database conflict. Please try again."
	MsgQuery             = "Database query error"
	MsgConnection        = "Database connection error"
	MsgDependentsGeneric = "Cannot delete this record because other records depend on it"
	MsgDuplicateGeneric  = "A record with these values already exists"
)

// Result is the outcome of one extraction.
type Result struct {
	Rule    int
	Status  int
	Code    string
	Message string
}

// Facts converts r into response facts.
func (r Result) Facts() failure.Facts {
	return failure.Facts{Status: r.Status, Code: r.Code, Message: r.Message}
}

// Extract applies the ordered rules to an engine error state and vendor
// message. It is deterministic and never fails: when a rule's capture groups
// come back empty, that rule's fallback text is used.
func (rs RuleSet) Extract(state, message string) Result {
	state = strings.ToUpper(strings.TrimSpace(state))

	// 1) user-defined / trigger signal
	if contains(rs.TriggerStates, state) {
		if text := strings.TrimSpace(group(rs.TriggerMarker, message, "text")); text != "" {
			if code := failure.CodeFromText(text); code != "" {
				return Result{Rule: RuleTrigger, Status: http.StatusConflict, Code: code, Message: text}
			}
		}
		return Result{Rule: RuleTrigger, Status: http.StatusConflict, Code: failure.CodeBusinessRule, Message: MsgBusinessRule}
	}

	integrity := rs.IntegrityPrefix != "" && strings.HasPrefix(state, rs.IntegrityPrefix)
	if integrity {
		// 2) duplicate key
		if m := match(rs.DuplicateKey, message); m != nil {
			return Result{Rule: RuleDuplicate, Status: http.StatusConflict, Code: failure.CodeDuplicateEntry,
				Message: rs.duplicateMessage(m["key"], m["value"], hasGroup(rs.DuplicateKey, "value"))}
		}
		// 3) foreign key, insert time
		if rs.ForeignKeyInsert != nil && rs.ForeignKeyInsert.MatchString(message) {
			return Result{Rule: RuleForeignKeyInsert, Status: http.StatusConflict, Code: failure.CodeForeignKeyViolation, Message: MsgReferenceMissing}
		}
		// 4) foreign key, delete time
		if m := match(rs.ForeignKeyDelete, message); m != nil {
			msg := MsgDependentsGeneric
			if entity := rs.label(m["constraint"], rs.ConstraintPrefixes); entity != "" {
				msg = "Cannot delete " + entity + " because other records depend on it"
			}
			return Result{Rule: RuleForeignKeyDelete, Status: http.StatusConflict, Code: failure.CodeForeignKeyDelete, Message: msg}
		}
		// 5) any other integrity violation
		return Result{Rule: RuleIntegrity, Status: http.StatusConflict, Code: failure.CodeIntegrityViolation, Message: MsgIntegrity}
	}

	// 6) deadlock / serialization
	if contains(rs.DeadlockStates, state) || (rs.Deadlock != nil && rs.Deadlock.MatchString(message)) {
		return Result{Rule: RuleDeadlock, Status: http.StatusServiceUnavailable, Code: failure.CodeServiceUnavailable, Message: MsgDeadlock}
	}
	// 7) syntax / access rule
	if rs.SyntaxPrefix != "" && strings.HasPrefix(state, rs.SyntaxPrefix) {
		return Result{Rule: RuleSyntax, Status: http.StatusInternalServerError, Code: failure.CodeDatabase, Message: MsgQuery}
	}
	// 8) connection family
	if rs.ConnectionPrefix != "" && strings.HasPrefix(state, rs.ConnectionPrefix) {
		return Result{Rule: RuleConnection, Status: http.StatusServiceUnavailable, Code: failure.CodeServiceUnavailable, Message: MsgConnection}
	}
	// 9) fallback
	return Result{Rule: RuleFallback, Status: http.StatusInternalServerError, Code: failure.CodeDatabase, Message: failure.MessageDatabase}
}

func (rs RuleSet) duplicateMessage(key, value string, valueCaptured bool) string {
	field := rs.keyLabel(key)
	if field == "" {
		return MsgDuplicateGeneric
	}
	if !valueCaptured || value == "" {
		return "A record with this " + field + " already exists"
	}
	return "A record with this " + field + " already exists: '" + value + "'"
}

// keyLabel derives a field label from a (possibly composite) key name.
// Tenant columns are dropped from composite keys.
func (rs RuleSet) keyLabel(key string) string {
	var labels []string
	for _, part := range strings.Split(key, ",") {
		part = strings.TrimSpace(part)
		if i := strings.LastIndexByte(part, '.'); i >= 0 {
			part = part[i+1:]
		}
		if part == "" || rs.isTenantColumn(part) {
			continue
		}
		if l := rs.label(part, rs.KeyPrefixes); l != "" {
			labels = append(labels, l)
		}
	}
	return strings.Join(labels, " and ")
}

// label strips one known prefix and one tenant suffix, turns underscores into
// spaces and title-cases the result.
func (rs RuleSet) label(name string, prefixes []string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	lower := strings.ToLower(name)
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) && len(name) > len(p) {
			name, lower = name[len(p):], lower[len(p):]
			break
		}
	}
	for _, s := range rs.TenantSuffixes {
		if strings.HasSuffix(lower, s) && len(name) > len(s) {
			name = name[:len(name)-len(s)]
			break
		}
	}
	name = strings.Join(strings.Fields(strings.ReplaceAll(name, "_", " ")), " ")
	if name == "" {
		return ""
	}
	return cases.Title(language.English).String(name)
}

func (rs RuleSet) isTenantColumn(col string) bool {
	col = strings.ToLower(col)
	for _, s := range rs.TenantSuffixes {
		if col == strings.TrimPrefix(s, "_") {
			return true
		}
	}
	return false
}

// match returns the named groups of the first match, or nil when re is nil
// or does not match.
func match(re *regexp.Regexp, s string) map[string]string {
	if re == nil {
		return nil
	}
	sub := re.FindStringSubmatch(s)
	if sub == nil {
		return nil
	}
	out := make(map[string]string, len(sub))
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(sub) {
			out[name] = sub[i]
		}
	}
	return out
}

func group(re *regexp.Regexp, s, name string) string {
	return match(re, s)[name]
}

func hasGroup(re *regexp.Regexp, name string) bool {
	return re != nil && re.SubexpIndex(name) >= 0
}

func contains(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// Extractor selects a rule set by dialect and extracts from it.
// It is safe for concurrent use; rule sets are read-only after construction.
type Extractor struct {
	def  string
	sets map[string]RuleSet
}

// NewExtractor builds an extractor over the built-in rule sets plus any
// overrides in sets (matched by Name). defaultDialect is used for failures
// that carry no dialect; unknown names fall back to MySQL.
func NewExtractor(defaultDialect string, sets ...RuleSet) *Extractor {
	x := &Extractor{
		sets: map[string]RuleSet{
			DialectMySQL:    MySQL,
			DialectPostgres: Postgres,
			DialectSQLite:   SQLite,
		},
	}
	for _, rs := range sets {
		x.sets[rs.Name] = rs
	}
	if _, ok := x.sets[defaultDialect]; !ok {
		defaultDialect = DialectMySQL
	}
	x.def = defaultDialect
	return x
}

// RuleSet returns the rule set for dialect, or the default one.
func (x *Extractor) RuleSet(dialect string) RuleSet {
	if rs, ok := x.sets[strings.ToLower(dialect)]; ok {
		return rs
	}
	return x.sets[x.def]
}

// Extract resolves d through the rule set matching its dialect.
func (x *Extractor) Extract(d failure.Database) Result {
	rs := x.RuleSet(d.Dialect)
	return rs.Extract(rs.State(d), d.Message)
}
