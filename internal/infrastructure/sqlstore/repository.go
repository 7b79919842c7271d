// Package sqlstore implementa o repositório de regras e o armazenamento de
// transações sobre database/sql, com Postgres (pgx) ou MySQL.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/infrastructure"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
)

const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// Repository guarda cada regra como documento JSON, com as colunas usadas nas
// pesquisas em separado; os valores de âmbito ficam em pricing_rule_scope e as
// hierarquias em hierarchy_node com intervalos lft/rgt.
type Repository struct {
	db     *sql.DB
	driver string
}

var (
	_ interfaces.RuleRepository   = (*Repository)(nil)
	_ interfaces.TransactionStore = (*Repository)(nil)
)

// Open abre a ligação e confirma-a com um ping.
func Open(ctx context.Context, driver, dsn string) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("database dsn not set")
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return New(db, driver), nil
}

func New(db *sql.DB, driver string) *Repository {
	return &Repository{db: db, driver: driver}
}

func (r *Repository) Close() error { return r.db.Close() }

// rebind converte os marcadores "?" para "$n" no Postgres.
func (r *Repository) rebind(query string) string {
	return Rebind(r.driver, query)
}

func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS pricing_rule (
		name VARCHAR(140) PRIMARY KEY,
		apply_on VARCHAR(20) NOT NULL,
		disabled BOOLEAN NOT NULL DEFAULT FALSE,
		selling BOOLEAN NOT NULL DEFAULT FALSE,
		buying BOOLEAN NOT NULL DEFAULT FALSE,
		position INTEGER NOT NULL DEFAULT 0,
		doc TEXT NOT NULL,
		tables_doc TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pricing_rule_scope (
		rule_name VARCHAR(140) NOT NULL,
		scope_value VARCHAR(140) NOT NULL,
		PRIMARY KEY (rule_name, scope_value)
	)`,
	`CREATE TABLE IF NOT EXISTS hierarchy_node (
		doctype VARCHAR(40) NOT NULL,
		name VARCHAR(140) NOT NULL,
		lft INTEGER NOT NULL,
		rgt INTEGER NOT NULL,
		PRIMARY KEY (doctype, name)
	)`,
	`CREATE TABLE IF NOT EXISTS scheme_transaction (
		name VARCHAR(140) PRIMARY KEY,
		revision INTEGER NOT NULL,
		doc TEXT NOT NULL
	)`,
}

// Migrate cria as tabelas em falta.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (r *Repository) FindRules(ctx context.Context, scope domain.ApplyOn, scopeValue string, activeOnly bool) ([]domain.PricingRule, error) {
	query := `SELECT p.doc FROM pricing_rule p WHERE p.apply_on = ?`
	args := []any{string(scope)}
	if scope != domain.ApplyOnTransaction {
		query = `SELECT p.doc FROM pricing_rule p
			JOIN pricing_rule_scope s ON s.rule_name = p.name
			WHERE p.apply_on = ? AND s.scope_value = ?`
		args = append(args, scopeValue)
	}
	if activeOnly {
		query += ` AND p.disabled = ?`
		args = append(args, false)
	}
	query += ` ORDER BY p.position, p.name`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	var out []domain.PricingRule
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var rule domain.PricingRule
		if err := json.Unmarshal([]byte(doc), &rule); err != nil {
			return nil, fmt.Errorf("decode rule: %w", err)
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *Repository) LoadRule(ctx context.Context, name string) (*domain.PricingRule, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, r.rebind(`SELECT doc FROM pricing_rule WHERE name = ?`), name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRuleNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load rule %s: %w", name, err)
	}
	var rule domain.PricingRule
	if err := json.Unmarshal([]byte(doc), &rule); err != nil {
		return nil, fmt.Errorf("decode rule %s: %w", name, err)
	}
	return &rule, nil
}

func (r *Repository) LoadRuleTables(ctx context.Context, name string) (*domain.RuleTables, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, r.rebind(`SELECT tables_doc FROM pricing_rule WHERE name = ?`), name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRuleNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load rule tables %s: %w", name, err)
	}
	var tables domain.RuleTables
	if err := json.Unmarshal([]byte(doc), &tables); err != nil {
		return nil, fmt.Errorf("decode rule tables %s: %w", name, err)
	}
	return &tables, nil
}

func (r *Repository) HierarchySpan(ctx context.Context, doctype, name string) (int, int, bool, error) {
	var lft, rgt int
	err := r.db.QueryRowContext(ctx,
		r.rebind(`SELECT lft, rgt FROM hierarchy_node WHERE doctype = ? AND name = ?`),
		doctype, name).Scan(&lft, &rgt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("hierarchy span %s/%s: %w", doctype, name, err)
	}
	return lft, rgt, true, nil
}

func (r *Repository) HierarchyMembersWithin(ctx context.Context, doctype string, lft, rgt int) ([]string, error) {
	return r.names(ctx,
		`SELECT name FROM hierarchy_node WHERE doctype = ? AND lft > ? AND rgt < ? ORDER BY lft`,
		doctype, lft, rgt)
}

func (r *Repository) HierarchyAncestors(ctx context.Context, doctype, name string) ([]string, error) {
	lft, rgt, found, err := r.HierarchySpan(ctx, doctype, name)
	if err != nil || !found {
		return nil, err
	}
	return r.names(ctx,
		`SELECT name FROM hierarchy_node WHERE doctype = ? AND lft < ? AND rgt > ? ORDER BY lft DESC`,
		doctype, lft, rgt)
}

func (r *Repository) names(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) RuleExistsForTransactionType(ctx context.Context, txType domain.TransactionType) (bool, error) {
	column := "selling"
	if txType == domain.Buying {
		column = "buying"
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		r.rebind(`SELECT COUNT(*) FROM pricing_rule WHERE disabled = ? AND `+column+` = ?`),
		false, true).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count rules: %w", err)
	}
	return n > 0, nil
}

// SaveRule insere ou substitui uma regra e os seus valores de âmbito.
func (r *Repository) SaveRule(ctx context.Context, rc domain.RuleConfig, position int) error {
	doc, err := json.Marshal(rc.PricingRule)
	if err != nil {
		return err
	}
	tables, err := json.Marshal(rc.Tables)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []struct {
		query string
		args  []any
	}{
		{`DELETE FROM pricing_rule_scope WHERE rule_name = ?`, []any{rc.Name}},
		{`DELETE FROM pricing_rule WHERE name = ?`, []any{rc.Name}},
		{`INSERT INTO pricing_rule (name, apply_on, disabled, selling, buying, position, doc, tables_doc) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			[]any{rc.Name, string(rc.ApplyOn), rc.Disabled, rc.Selling, rc.Buying, position, string(doc), string(tables)}},
	} {
		if _, err := tx.ExecContext(ctx, r.rebind(stmt.query), stmt.args...); err != nil {
			return fmt.Errorf("save rule %s: %w", rc.Name, err)
		}
	}
	for _, v := range rc.Items {
		if _, err := tx.ExecContext(ctx, r.rebind(`INSERT INTO pricing_rule_scope (rule_name, scope_value) VALUES (?, ?)`), rc.Name, v); err != nil {
			return fmt.Errorf("save rule scope %s: %w", rc.Name, err)
		}
	}
	return tx.Commit()
}

// SaveHierarchyNode insere ou substitui um nó já numerado.
func (r *Repository) SaveHierarchyNode(ctx context.Context, doctype, name string, lft, rgt int) error {
	if _, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM hierarchy_node WHERE doctype = ? AND name = ?`), doctype, name); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		r.rebind(`INSERT INTO hierarchy_node (doctype, name, lft, rgt) VALUES (?, ?, ?, ?)`),
		doctype, name, lft, rgt)
	return err
}

func (r *Repository) LoadTransaction(ctx context.Context, name string) (*domain.Transaction, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, r.rebind(`SELECT doc FROM scheme_transaction WHERE name = ?`), name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load transaction %s: %w", name, err)
	}
	var tx domain.Transaction
	if err := json.Unmarshal([]byte(doc), &tx); err != nil {
		return nil, fmt.Errorf("decode transaction %s: %w", name, err)
	}
	return &tx, nil
}

func (r *Repository) SaveTransaction(ctx context.Context, t *domain.Transaction) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return err
	}
	query := `INSERT INTO scheme_transaction (name, revision, doc) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET revision = EXCLUDED.revision, doc = EXCLUDED.doc`
	if r.driver == DriverMySQL {
		query = `INSERT INTO scheme_transaction (name, revision, doc) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE revision = VALUES(revision), doc = VALUES(doc)`
	}
	if _, err := r.db.ExecContext(ctx, r.rebind(query), t.Name, t.Revision, string(doc)); err != nil {
		return fmt.Errorf("save transaction %s: %w", t.Name, err)
	}
	return nil
}

// ImportRulePack grava todas as regras e árvores de um pacote.
func (r *Repository) ImportRulePack(ctx context.Context, pack *domain.RulePackDefinition) error {
	for i, rc := range pack.Rules {
		if err := r.SaveRule(ctx, rc, i); err != nil {
			return err
		}
	}
	for doctype, roots := range pack.Trees {
		for _, n := range infrastructure.NumberTree(roots) {
			if err := r.SaveHierarchyNode(ctx, doctype, n.Name, n.Lft, n.Rgt); err != nil {
				return fmt.Errorf("save %s node %s: %w", doctype, n.Name, err)
			}
		}
	}
	return nil
}
