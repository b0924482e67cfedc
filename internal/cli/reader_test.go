package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	reader := NewNonBlockingReader(strings.NewReader("  hello world  \nsecond\n"))

	line, err := reader.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello world", line)

	line, err = reader.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", line)
}

func TestReadLine_ContextCancelled(t *testing.T) {
	// A reader that never produces input.
	blocked, _ := blockedReader()
	reader := NewNonBlockingReader(blocked)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := reader.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

// blockedReader returns a reader whose Read never returns until closed.
func blockedReader() (*blockingReader, func()) {
	ch := make(chan struct{})
	return &blockingReader{ch: ch}, func() { close(ch) }
}

type blockingReader struct {
	ch chan struct{}
}

func (b *blockingReader) Read(_ []byte) (int, error) {
	<-b.ch
	return 0, nil
}
