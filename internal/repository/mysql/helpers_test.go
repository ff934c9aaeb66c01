package mysql

import (
	"errors"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/go-clean-social/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestTranslateError(t *testing.T) {
	other := errors.New("connection reset")

	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, translateError(gorm.ErrDuplicatedKey), domain.ErrConflict)
	assert.ErrorIs(t, translateError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}), domain.ErrConflict)
	assert.Equal(t, other, translateError(other))
}
