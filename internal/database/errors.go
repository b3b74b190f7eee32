package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers we react to.
const (
	errDupEntry        = 1062 // ER_DUP_ENTRY
	errRowIsReferenced = 1451 // ER_ROW_IS_REFERENCED_2
	errNoReferencedRow = 1452 // ER_NO_REFERENCED_ROW_2
)

// IsDuplicate reports a unique-index violation.
func IsDuplicate(err error) bool { return mysqlNumber(err) == errDupEntry }

// IsReferenced reports a delete blocked by a child row (ON DELETE RESTRICT).
func IsReferenced(err error) bool { return mysqlNumber(err) == errRowIsReferenced }

// IsMissingParent reports an insert or update whose foreign key points
// nowhere.
func IsMissingParent(err error) bool { return mysqlNumber(err) == errNoReferencedRow }

func mysqlNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}
