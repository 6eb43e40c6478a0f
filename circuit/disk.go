package circuit

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	tableOps = "ops"
)

// DiskCircuit is a sequence of operations stored in a sqlite database.
// A database holds many runs, each identified by its RunID.
type DiskCircuit struct {
	Path  string
	RunID string

	db *sql.DB
}

// NewDiskCircuit starts a new run in the database at dbPath.
func NewDiskCircuit(dbPath string) (*DiskCircuit, error) {
	return OpenDiskCircuit(dbPath, uuid.NewString())
}

// OpenDiskCircuit opens the run runID in the database at dbPath.
func OpenDiskCircuit(dbPath, runID string) (*DiskCircuit, error) {
	c := &DiskCircuit{Path: dbPath, RunID: runID}
	var err error
	c.db, err = newDB(c.Path)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return c, nil
}

func (c *DiskCircuit) Close() error {
	return c.db.Close()
}

// Append stores the operations of seq after the ones already in the run, and returns the number stored.
// Transactions take the write lock when they begin, so concurrent appends to a run are serialized.
func (c *DiskCircuit) Append(ctx context.Context, seq iter.Seq[Op]) (int, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	n, err := countOps(ctx, tx, c.RunID)
	if err != nil {
		tx.Rollback()
		return -1, errors.Wrap(err, "")
	}
	stored, err := appendOps(ctx, tx, c.RunID, n, seq)
	if err != nil {
		tx.Rollback()
		return -1, errors.Wrap(err, "")
	}
	if err := tx.Commit(); err != nil {
		return -1, errors.Wrap(err, "")
	}
	return stored, nil
}

func appendOps(ctx context.Context, tx *sql.Tx, runID string, offset int, seq iter.Seq[Op]) (int, error) {
	sqlStr := fmt.Sprintf(`INSERT INTO %s (run, i, gate, qubits, angle) VALUES (?, ?, ?, ?, ?)`, tableOps)
	stmt, err := tx.PrepareContext(ctx, sqlStr)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	defer stmt.Close()

	var stored int
	for op := range seq {
		args := []any{runID, offset + stored, op.Gate.String(), formatQubits(op.Qubits), op.Angle}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return -1, errors.Wrap(err, fmt.Sprintf("%s %#v", sqlStr, args))
		}
		stored++
	}
	return stored, nil
}

// Ops returns the operations of the run in order.
func (c *DiskCircuit) Ops(ctx context.Context) ([]Op, error) {
	sqlStr := fmt.Sprintf(`SELECT gate, qubits, angle FROM %s WHERE run=? ORDER BY i`, tableOps)
	rows, err := c.db.QueryContext(ctx, sqlStr, c.RunID)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()

	ops := make([]Op, 0)
	for rows.Next() {
		var gateStr, qubitsStr string
		var op Op
		if err := rows.Scan(&gateStr, &qubitsStr, &op.Angle); err != nil {
			return nil, errors.Wrap(err, "")
		}
		op.Gate, err = ParseGate(gateStr)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%d", len(ops)))
		}
		op.Qubits, err = parseQubits(qubitsStr)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%d", len(ops)))
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return ops, nil
}

// Len returns the number of operations in the run.
func (c *DiskCircuit) Len(ctx context.Context) (int, error) {
	n, err := countOps(ctx, c.db, c.RunID)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	return n, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func countOps(ctx context.Context, db queryRower, runID string) (int, error) {
	sqlStr := fmt.Sprintf("SELECT count(1) FROM %s WHERE run=?", tableOps)
	var n int
	if err := db.QueryRowContext(ctx, sqlStr, runID).Scan(&n); err != nil {
		return -1, errors.Wrap(err, "")
	}
	return n, nil
}

// Runs lists the run ids in the database.
func (c *DiskCircuit) Runs(ctx context.Context) ([]string, error) {
	sqlStr := fmt.Sprintf(`SELECT DISTINCT run FROM %s ORDER BY run`, tableOps)
	rows, err := c.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()

	runs := make([]string, 0)
	for rows.Next() {
		var run string
		if err := rows.Scan(&run); err != nil {
			return nil, errors.Wrap(err, "")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return runs, nil
}

func formatQubits(qubits []Qubit) string {
	ss := make([]string, 0, len(qubits))
	for _, q := range qubits {
		ss = append(ss, strconv.Itoa(int(q)))
	}
	return strings.Join(ss, ",")
}

func parseQubits(s string) ([]Qubit, error) {
	qubits := make([]Qubit, 0, 3)
	for _, qs := range strings.Split(s, ",") {
		q, err := strconv.Atoi(qs)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%#v", s))
		}
		qubits = append(qubits, Qubit(q))
	}
	return qubits, nil
}

func newDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=10000", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}

	return db, nil
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (run TEXT, i INTEGER, gate TEXT, qubits TEXT, angle REAL, PRIMARY KEY (run, i)) STRICT`, tableOps)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
