package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/matnas-digital/questionnaire-service/internal/cache"
	"github.com/matnas-digital/questionnaire-service/internal/models"
	"github.com/matnas-digital/questionnaire-service/pkg"
)

func newCompletionTestStore(t *testing.T) (*gorm.DB, *cache.CacheManager, *miniredis.Miniredis) {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := pkg.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return db, cache.NewCacheManager(client), mr
}

func waitForKey(t *testing.T, mr *miniredis.Miniredis, key string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mr.Exists(key) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected cache key %s to appear", key)
}

func TestCompletionPostgreSQL_ListByUserCache(t *testing.T) {
	db, cm, mr := newCompletionTestStore(t)
	repo := NewCompletionPostgreSQL(db, cm)
	ctx := context.Background()

	userID := uuid.NewString()
	firstQuestionnaire := uuid.NewString()
	year := time.Now().Year()

	if err := repo.Upsert(ctx, nil, &models.QuestionnaireCompletion{
		UserID:             userID,
		QuestionnaireID:    firstQuestionnaire,
		Year:               year,
		ProgressPercentage: 50,
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	rows, err := repo.ListByUser(ctx, nil, userID)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 completion, got %d", len(rows))
	}

	cacheKey := fmt.Sprintf("progress:user:%s:completions", userID)
	waitForKey(t, mr, cacheKey)

	t.Run("serves the cached list while the entry lives", func(t *testing.T) {
		if err := db.Where("user_id = ?", userID).
			Delete(&models.QuestionnaireCompletion{}).Error; err != nil {
			t.Fatalf("failed to delete completions: %v", err)
		}

		rows, err := repo.ListByUser(ctx, nil, userID)
		if err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("expected the cached completion, got %d rows", len(rows))
		}
	})

	t.Run("upsert drops the cached entry", func(t *testing.T) {
		secondQuestionnaire := uuid.NewString()
		if err := repo.Upsert(ctx, nil, &models.QuestionnaireCompletion{
			UserID:             userID,
			QuestionnaireID:    secondQuestionnaire,
			Year:               year,
			ProgressPercentage: 25,
		}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}

		rows, err := repo.ListByUser(ctx, nil, userID)
		if err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if len(rows) != 1 || rows[0].QuestionnaireID != secondQuestionnaire {
			t.Errorf("expected a fresh read after invalidation, got %+v", rows)
		}
	})
}
