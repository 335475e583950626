package data

import (
	"context"
	"database/sql"

	"github.com/mchmarny/ucdash/pkg/alloc"
	"github.com/mchmarny/ucdash/pkg/score"
	"github.com/pkg/errors"
)

const (
	selectUseCasesSQL = `SELECT name, revenue, cost, ease, human, budget
		FROM use_case
		ORDER BY position
	`

	selectPlanSQL = `SELECT total, bucket_a_percent, bucket_b_percent, bucket_a_label, bucket_b_label
		FROM plan
		ORDER BY id
		LIMIT 1
	`

	selectComponentsSQL = `SELECT name, amount FROM plan_component ORDER BY position`

	insertVersionSQL   = `INSERT INTO schema_version (version) VALUES (?)`
	insertPlanSQL      = `INSERT INTO plan (id, total, bucket_a_percent, bucket_b_percent, bucket_a_label, bucket_b_label) VALUES (?, ?, ?, ?, ?, ?)`
	insertComponentSQL = `INSERT INTO plan_component (position, name, amount) VALUES (?, ?, ?)`
	insertUseCaseSQL   = `INSERT INTO use_case (position, name, revenue, cost, ease, human, budget) VALUES (?, ?, ?, ?, ?, ?, ?)`
)

// DBSource reads the table and plan from a SQL database.
type DBSource struct {
	DB *sql.DB
}

func (s *DBSource) LoadUseCases(ctx context.Context) ([]score.UseCase, error) {
	return GetUseCases(ctx, s.DB)
}

func (s *DBSource) LoadPlan(ctx context.Context) (*alloc.Plan, error) {
	return GetPlan(ctx, s.DB)
}

// Close closes the underlying database.
func (s *DBSource) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// GetUseCases returns the use cases in table order.
func GetUseCases(ctx context.Context, db *sql.DB) ([]score.UseCase, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.QueryContext(ctx, selectUseCasesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute use case select statement")
	}
	defer rows.Close()

	list := make([]score.UseCase, 0)
	for rows.Next() {
		var u score.UseCase
		if err := rows.Scan(&u.Name, &u.Revenue, &u.Cost, &u.Ease, &u.Human, &u.Budget); err != nil {
			return nil, errors.Wrap(err, "failed to scan use case row")
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate use case rows")
	}

	return list, nil
}

// GetPlan returns the allocation plan with its bucket A components.
func GetPlan(ctx context.Context, db *sql.DB) (*alloc.Plan, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	p := &alloc.Plan{}
	err := db.QueryRowContext(ctx, selectPlanSQL).Scan(
		&p.Total, &p.BucketAPercent, &p.BucketBPercent, &p.BucketALabel, &p.BucketBLabel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("allocation plan not found")
		}
		return nil, errors.Wrap(err, "failed to scan plan row")
	}

	rows, err := db.QueryContext(ctx, selectComponentsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute component select statement")
	}
	defer rows.Close()

	for rows.Next() {
		var c alloc.Component
		if err := rows.Scan(&c.Name, &c.Amount); err != nil {
			return nil, errors.Wrap(err, "failed to scan component row")
		}
		p.SubAllocation = append(p.SubAllocation, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate component rows")
	}

	return p, nil
}

func seed(ctx context.Context, db *sql.DB, driver string, d *Document) error {
	if db == nil {
		return errDBNotInitialized
	}
	if d == nil || d.Plan == nil {
		return errors.New("document with plan required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	if err := seedTx(ctx, tx, driver, d); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return errors.Wrapf(rerr, "failed to rollback transaction after: %v", err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func seedTx(ctx context.Context, tx *sql.Tx, driver string, d *Document) error {
	if _, err := tx.ExecContext(ctx, rebind(driver, insertVersionSQL), schemaVersion); err != nil {
		return errors.Wrap(err, "failed to insert schema version")
	}

	p := d.Plan
	if _, err := tx.ExecContext(ctx, rebind(driver, insertPlanSQL), 1,
		p.Total, p.BucketAPercent, p.BucketBPercent, p.BucketALabel, p.BucketBLabel); err != nil {
		return errors.Wrap(err, "failed to insert plan")
	}

	for i, c := range p.SubAllocation {
		if _, err := tx.ExecContext(ctx, rebind(driver, insertComponentSQL), i+1, c.Name, c.Amount); err != nil {
			return errors.Wrapf(err, "failed to insert component: %s", c.Name)
		}
	}

	for i, u := range d.UseCases {
		if _, err := tx.ExecContext(ctx, rebind(driver, insertUseCaseSQL), i+1,
			u.Name, u.Revenue, u.Cost, u.Ease, u.Human, u.Budget); err != nil {
			return errors.Wrapf(err, "failed to insert use case: %s", u.Name)
		}
	}
	return nil
}
