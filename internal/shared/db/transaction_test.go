package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type counterModel struct {
	ID      uint `gorm:"primaryKey"`
	Value   int
	Version int
}

func setupTestDB(t *testing.T) *gorm.DB {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&counterModel{}))
	return database
}

func TestTransactionManager_RunInTransaction(t *testing.T) {
	database := setupTestDB(t)
	tm := NewTransactionManager(database)
	ctx := context.Background()

	t.Run("commit on success", func(t *testing.T) {
		err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
			assert.True(t, InTransaction(txCtx))
			return GetTxFromContext(txCtx, database).Create(&counterModel{Value: 1}).Error
		})
		require.NoError(t, err)

		var count int64
		database.Model(&counterModel{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
			if err := GetTxFromContext(txCtx, database).Create(&counterModel{Value: 2}).Error; err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		var count int64
		database.Model(&counterModel{}).Where("value = ?", 2).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestRunInTx_ReusesOuterTransaction(t *testing.T) {
	database := setupTestDB(t)
	tm := NewTransactionManager(database)
	ctx := context.Background()
	assert.False(t, InTransaction(ctx))

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := RunInTx(txCtx, database, func(tx *gorm.DB) error {
			return tx.Create(&counterModel{Value: 3}).Error
		}); err != nil {
			return err
		}
		return errors.New("abort outer")
	})
	require.Error(t, err)

	var count int64
	database.Model(&counterModel{}).Where("value = ?", 3).Count(&count)
	assert.Equal(t, int64(0), count, "inner write must roll back with the outer transaction")
}

func TestAtVersion(t *testing.T) {
	database := setupTestDB(t)
	row := counterModel{Value: 1, Version: 1}
	require.NoError(t, database.Create(&row).Error)

	result := database.Model(&counterModel{}).Scopes(AtVersion(0)).Where("id = ?", row.ID).Update("value", 5)
	require.NoError(t, result.Error)
	assert.Equal(t, int64(0), result.RowsAffected)

	result = database.Model(&counterModel{}).Scopes(AtVersion(1)).Where("id = ?", row.ID).Updates(map[string]interface{}{"value": 5, "version": 2})
	require.NoError(t, result.Error)
	assert.Equal(t, int64(1), result.RowsAffected)
}
