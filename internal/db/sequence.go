package db

import (
	"context"

	"github.com/uptrace/bun"
)

// Counter backs the named sequences used for employee and roll numbers.
type Counter struct {
	bun.BaseModel `bun:"table:counters,alias:counter"`

	Name  string `bun:"name,pk"`
	Value int64  `bun:"value,notnull,default:0"`
}

// NextSequence atomically increments the named counter and returns its new
// value. The upsert makes the read-increment-write a single statement, so
// concurrent callers never observe the same value.
func NextSequence(ctx context.Context, idb bun.IDB, name string) (int64, error) {
	counter := &Counter{Name: name, Value: 1}
	_, err := idb.NewInsert().
		Model(counter).
		On("CONFLICT (name) DO UPDATE").
		Set("value = counter.value + 1").
		Returning("value").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}
