package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/anonto42/pulse/backend/internal/models"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory sqlite database with foreign keys enforced
// and the full schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:pulse_test_%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// CreateUser inserts a user whose identity id and display name derive from username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		FirebaseUID: "uid-" + username,
		Username:    username,
		DisplayName: username,
		Email:       username + "@example.com",
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

func CreatePost(t *testing.T, db *gorm.DB, author *models.User, content string) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author.ID, Content: content}
	require.NoError(t, db.Create(p).Error)
	return p
}

func Follow(t *testing.T, db *gorm.DB, follower, following *models.User) {
	t.Helper()
	require.NoError(t, db.Create(&models.Follow{FollowerID: follower.ID, FollowingID: following.ID}).Error)
}
