package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry is the row backing every stored record.
type KVEntry struct {
	Key       string         `gorm:"primaryKey;type:text" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (KVEntry) TableName() string { return "kv_store" }

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the kv_store table if needed.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&KVEntry{})
}

func (s *GormStore) Get(ctx context.Context, key string, dst any) error {
	var row KVEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(row.Value, dst)
}

func (s *GormStore) Set(ctx context.Context, key string, value any) error {
	b, err := encode(key, value)
	if err != nil {
		return err
	}
	row := KVEntry{Key: key, Value: datatypes.JSON(b)}
	return s.db.WithContext(ctx).Clauses(upsert()).Create(&row).Error
}

func (s *GormStore) Create(ctx context.Context, key string, value any) error {
	b, err := encode(key, value)
	if err != nil {
		return err
	}
	row := KVEntry{Key: key, Value: datatypes.JSON(b)}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrKeyExists
	}
	return nil
}

func (s *GormStore) SetMany(ctx context.Context, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	rows := make([]KVEntry, 0, len(values))
	for _, key := range sortedKeys(values) {
		b, err := encode(key, values[key])
		if err != nil {
			return err
		}
		rows = append(rows, KVEntry{Key: key, Value: datatypes.JSON(b)})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(upsert()).Create(&rows).Error
	})
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&KVEntry{}).Error
}

func (s *GormStore) DeleteMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("key IN ?", keys).Delete(&KVEntry{}).Error
	})
}

func (s *GormStore) GetByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	var rows []KVEntry
	err := s.db.WithContext(ctx).
		Where("key LIKE ? ESCAPE '\\'", EscapeLike(prefix)+"%").
		Order("key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, Entry{Key: r.Key, Value: json.RawMessage(r.Value)})
	}
	return out, nil
}

func upsert() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}
}

// EscapeLike escapes LIKE metacharacters so a prefix matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
