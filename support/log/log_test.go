package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	entry := New().WithField("service", "corerunner")
	ctx := Context(context.Background(), entry)

	got := Ctx(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "corerunner", got.Data["service"])
}

func TestCtxWithoutAttachedEntryReturnsDefault(t *testing.T) {
	got := Ctx(context.Background())
	require.NotNil(t, got)
}

func TestWithFields(t *testing.T) {
	entry := WithFields(F{"a": 1, "b": "two"})
	assert.Equal(t, 1, entry.Data["a"])
	assert.Equal(t, "two", entry.Data["b"])
}
