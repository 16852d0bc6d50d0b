package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbsqlite "github.com/volumetricpixels/questy/db/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbsqlite.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestAutoMigrate(t *testing.T) {
	db := newTestDB(t)
	for _, m := range allModels {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestAccount_UniqueUsername(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&Account{Username: "alice", PasswordHash: "x"}).Error)
	err := db.Create(&Account{Username: "alice", PasswordHash: "y"}).Error
	assert.Error(t, err)
}

func TestAccount_DefaultStatus(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&Account{Username: "alice", PasswordHash: "x"}).Error)
	var acc Account
	require.NoError(t, db.Where("username = ?", "alice").First(&acc).Error)
	assert.Equal(t, 1, acc.Status)
}

func TestProgressRecord_UniqueKey(t *testing.T) {
	db := newTestDB(t)

	row := ProgressRecord{
		Category:  CategoryCurrent,
		Quester:   "alice",
		QuestName: "Woodcutter",
		Blob:      "{}",
	}
	require.NoError(t, db.Create(&row).Error)

	dup := ProgressRecord{
		Category:  CategoryCurrent,
		Quester:   "alice",
		QuestName: "Woodcutter",
		Blob:      "{}",
	}
	assert.Error(t, db.Create(&dup).Error)

	// The same key in the other category is fine.
	other := ProgressRecord{
		Category:  CategoryCompleted,
		Quester:   "alice",
		QuestName: "Woodcutter",
		Blob:      "3",
	}
	assert.NoError(t, db.Create(&other).Error)
}
