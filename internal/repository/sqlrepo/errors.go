package sqlrepo

import (
	"context"
	"database/sql/driver"
	"errors"
	"eshop/internal/domain"
	"net"
	"regexp"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// MySQL server error numbers.
const (
	mysqlDupEntry           = 1062
	mysqlRowIsReferenced    = 1217
	mysqlRowIsReferenced2   = 1451
	mysqlNoReferencedRow    = 1216
	mysqlNoReferencedRow2   = 1452
	pgUniqueViolation       = "23505"
	pgForeignKeyViolation   = "23503"
	pgStillReferencedPhrase = "is still referenced"
)

type violation int

const (
	noViolation violation = iota
	uniqueViolation
	// missingReference: an insert or update points at a parent row that does not exist.
	missingReference
	// referencedRow: a delete hits a parent row that children still point at.
	referencedRow
)

var mysqlDupKey = regexp.MustCompile(`Duplicate entry '(.*)' for key '(?:[^']*\.)?([^'.]+)'`)

// indexFields names the column behind each unique index.
var indexFields = map[string]string{
	"idx_categories_name": "name",
}

// classifyConstraint inspects a MySQL or Postgres driver error. For unique
// violations it also returns the index name and, when the driver reports it,
// the offending value.
func classifyConstraint(err error) (v violation, index, value string) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDupEntry:
			if m := mysqlDupKey.FindStringSubmatch(myErr.Message); m != nil {
				return uniqueViolation, m[2], m[1]
			}
			return uniqueViolation, "", ""
		case mysqlNoReferencedRow, mysqlNoReferencedRow2:
			return missingReference, "", ""
		case mysqlRowIsReferenced, mysqlRowIsReferenced2:
			return referencedRow, "", ""
		}
		return noViolation, "", ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return uniqueViolation, pgErr.ConstraintName, pgDetailValue(pgErr.Detail)
		case pgForeignKeyViolation:
			if strings.Contains(pgErr.Detail, pgStillReferencedPhrase) {
				return referencedRow, pgErr.ConstraintName, ""
			}
			return missingReference, pgErr.ConstraintName, ""
		}
	}
	return noViolation, "", ""
}

// pgDetailValue pulls X out of `Key (name)=(X) already exists.`
func pgDetailValue(detail string) string {
	start := strings.Index(detail, ")=(")
	if start < 0 {
		return ""
	}
	rest := detail[start+3:]
	end := strings.LastIndex(rest, ")")
	if end < 0 {
		return ""
	}
	return rest[:end]
}

func fieldForIndex(index string) string {
	if f, ok := indexFields[index]; ok {
		return f
	}
	return index
}

// translateError maps non-constraint driver failures.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return domain.NewStoreError(domain.KindTimeout, domain.CodeStoreTimeout, op, err)
	}
	if isConnectionError(err) {
		return domain.NewStoreError(domain.KindUnavailable, domain.CodeDatabaseError, op, err)
	}
	return domain.NewStoreError(domain.KindInternal, domain.CodeDatabaseError, op, err)
}

func isConnectionError(err error) bool {
	var (
		opErr   *net.OpError
		connErr *pgconn.ConnectError
	)
	return errors.As(err, &opErr) ||
		errors.As(err, &connErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, syscall.ECONNREFUSED)
}
