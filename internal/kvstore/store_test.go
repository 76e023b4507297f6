package kvstore

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

type record struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// runStoreContract exercises the behaviour every Store implementation shares.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		var r record
		assert.ErrorIs(t, s.Get(ctx, "event:nope", &r), ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "event:1", record{ID: "1", Title: "Jazz Night"}))
		require.NoError(t, s.Set(ctx, "event:1", record{ID: "1", Title: "Jazz Night II"}))

		got, err := GetAs[record](ctx, s, "event:1")
		require.NoError(t, err)
		assert.Equal(t, "Jazz Night II", got.Title)
	})

	t.Run("create is insert only", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, "useremail:a@b.com", "u1"))
		assert.ErrorIs(t, s.Create(ctx, "useremail:a@b.com", "u2"), ErrKeyExists)

		var id string
		require.NoError(t, s.Get(ctx, "useremail:a@b.com", &id))
		assert.Equal(t, "u1", id)
	})

	t.Run("set many and prefix scan", func(t *testing.T) {
		s := newStore(t)
		idx := Indexed{Kind: "booking", ID: "b1", UserID: "u1", EventID: "e1"}
		require.NoError(t, s.SetMany(ctx, idx.Values(record{ID: "b1"})))
		require.NoError(t, s.Set(ctx, "booking:user:u2:b2", record{ID: "b2"}))

		byUser, err := ListAs[record](ctx, s, ByUserPrefix("booking", "u1"))
		require.NoError(t, err)
		require.Len(t, byUser, 1)
		assert.Equal(t, "b1", byUser[0].ID)

		byEvent, err := ListAs[record](ctx, s, ByEventPrefix("booking", "e1"))
		require.NoError(t, err)
		assert.Equal(t, byUser, byEvent)

		all, err := s.GetByPrefix(ctx, "booking:")
		require.NoError(t, err)
		require.Len(t, all, 4)
		for i := 1; i < len(all); i++ {
			assert.Less(t, all[i-1].Key, all[i].Key)
		}
	})

	t.Run("prefix metacharacters match literally", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, "a_b:1", record{ID: "1"}))
		require.NoError(t, s.Set(ctx, "axb:2", record{ID: "2"}))
		require.NoError(t, s.Set(ctx, "a%:3", record{ID: "3"}))

		got, err := s.GetByPrefix(ctx, "a_b:")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a_b:1", got[0].Key)

		got, err = s.GetByPrefix(ctx, "a%")
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("delete many", func(t *testing.T) {
		s := newStore(t)
		idx := Indexed{Kind: "submission", ID: "s1", UserID: "u1", EventID: "e1"}
		require.NoError(t, s.SetMany(ctx, idx.Values(record{ID: "s1"})))
		require.NoError(t, s.DeleteMany(ctx, idx.Keys()))
		require.NoError(t, s.Delete(ctx, "submission:id:missing"))

		got, err := s.GetByPrefix(ctx, "submission:")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("set many rejects unencodable value atomically", func(t *testing.T) {
		s := newStore(t)
		err := s.SetMany(ctx, map[string]any{
			"booking:id:x":      record{ID: "x"},
			"booking:user:u:x":  make(chan int),
			"booking:event:e:x": record{ID: "x"},
		})
		require.Error(t, err)

		got, err := s.GetByPrefix(ctx, "booking:")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Set(ctx, "k", 1), context.Canceled)
	assert.Equal(t, 0, s.Len())
}

// Postgres-backed run; set KVSTORE_TEST_DSN to a disposable database.
func TestGormStore(t *testing.T) {
	dsn := os.Getenv("KVSTORE_TEST_DSN")
	if dsn == "" {
		t.Skip("KVSTORE_TEST_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	runStoreContract(t, func(t *testing.T) Store {
		s := NewGormStore(db)
		require.NoError(t, s.Migrate())
		require.NoError(t, db.Exec("DELETE FROM kv_store").Error)
		return s
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `booking:user:a\_b:`, EscapeLike("booking:user:a_b:"))
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\\b`, EscapeLike(`a\b`))
}
