package cache

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 需要 POSTGRES_DSN，未设置或连不上时跳过
func newTestGorm(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("未设置 POSTGRES_DSN")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Skipf("postgres 不可用: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	if err := sqlDB.Ping(); err != nil {
		t.Skipf("postgres 不可用: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestGormStore(t *testing.T) {
	db := newTestGorm(t)
	ctx := context.Background()
	s := NewGormStore(db)
	require.NoError(t, s.AutoMigrate())
	t.Cleanup(func() { _ = s.Delete(ctx, "test:gorm:k") })

	var got []record
	require.NoError(t, s.Delete(ctx, "test:gorm:k"))
	assert.ErrorIs(t, s.Get(ctx, "test:gorm:k", &got), ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "test:gorm:k", []record{{"aa", 1}}))
	require.NoError(t, s.Get(ctx, "test:gorm:k", &got))
	assert.Equal(t, []record{{"aa", 1}}, got)

	// 同 key 再写一次走 upsert
	require.NoError(t, s.Set(ctx, "test:gorm:k", []record{{"bb", 2}, {"cc", 3}}))
	got = nil
	require.NoError(t, s.Get(ctx, "test:gorm:k", &got))
	assert.Equal(t, []record{{"bb", 2}, {"cc", 3}}, got)
}
