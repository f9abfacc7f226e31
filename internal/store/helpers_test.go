package store_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/prompt-playground/internal/store"
)

var errBackendDown = errors.New("connection refused")

// failingBlobs fails every operation
type failingBlobs struct{}

func (failingBlobs) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errBackendDown
}
func (failingBlobs) Put(context.Context, string, []byte) error { return errBackendDown }
func (failingBlobs) Delete(context.Context, string) error      { return errBackendDown }
func (failingBlobs) Ping(context.Context) error                { return errBackendDown }
func (failingBlobs) Close() error                              { return nil }

func testOptions() []store.Option {
	base := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	tick := 0
	seq := 0
	return []store.Option{
		store.WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
		store.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	}
}
