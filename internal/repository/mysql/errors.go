package mysql

import (
	"context"
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/Guyuepp/go-clean-social/domain"
)

const mysqlErrDuplicateEntry = 1062

// translateError maps store errors onto domain errors. Anything it does not
// recognise is returned unchanged and surfaces as an internal error.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case isDuplicateKey(err):
		return domain.ErrConflict
	default:
		return err
	}
}

// isDuplicateKey recognises unique index violations. gorm translates them to
// ErrDuplicatedKey when TranslateError is on; the raw driver error is checked
// too so the repositories behave the same with translation off.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlErrDuplicateEntry
}

type groupCount struct {
	ID    int64
	Total int64
}

// countGrouped runs one COUNT(*) ... GROUP BY column over ids. column must be a
// trusted identifier.
func countGrouped(ctx context.Context, db *gorm.DB, table any, column string, ids []int64) (map[int64]int64, error) {
	res := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	var rows []groupCount
	err := db.WithContext(ctx).
		Model(table).
		Select(column+" AS id, COUNT(*) AS total").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		res[row.ID] = row.Total
	}
	return res, nil
}
