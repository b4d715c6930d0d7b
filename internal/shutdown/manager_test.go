package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestShutdownRunsInReverseOrder(t *testing.T) {
	m := New(time.Second, zap.NewNop())

	var orden []string
	m.Add("mongo", func(context.Context) error { orden = append(orden, "mongo"); return nil })
	m.Add("dispatcher", func(context.Context) error { orden = append(orden, "dispatcher"); return errors.New("boom") })
	m.Add("http", func(context.Context) error { orden = append(orden, "http"); return nil })

	m.Shutdown()

	assert.Equal(t, []string{"http", "dispatcher", "mongo"}, orden)
}

func TestWaitReturnsOnContextCancel(t *testing.T) {
	m := New(time.Second, zap.NewNop())
	llamado := false
	m.Add("x", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		llamado = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.Wait(ctx)

	assert.True(t, llamado)
}
