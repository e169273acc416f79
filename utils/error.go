package utils

import (
	"errors"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrorRecordNotFound = errors.New("record not found")

func ErrorDuplicate(column string) error {
	return errors.New("duplicate " + column)
}

// IsDuplicateKeyError reports whether an insert failed on a unique index.
// The validate pre-checks catch most duplicates; this covers the race where
// two requests pass validation concurrently.
func IsDuplicateKeyError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
