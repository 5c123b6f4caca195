package mock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ferndale-io/textgate/internal/provider/mock"
	"github.com/ferndale-io/textgate/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- NewProvider ---

func TestNewProvider_Name(t *testing.T) {
	p := mock.NewProvider()
	assert.Equal(t, "mock", p.Name())
}

func TestNewProvider_Generate(t *testing.T) {
	p := mock.NewProvider()

	gen, err := p.Generator("mock-v1")
	require.NoError(t, err)
	assert.Equal(t, "mock-v1", gen.Model().ID)

	text, err := gen.Generate(context.Background(), "hello", models.GenerateOptions{})
	require.NoError(t, err)
	assert.Contains(t, text, "hello")
	assert.Equal(t, int64(1), p.GenerateCalls.Load())
}

func TestNewProvider_UnknownModel(t *testing.T) {
	p := mock.NewProvider()

	_, err := p.Generator("other-model")
	assert.ErrorIs(t, err, models.ErrUnsupportedModel)
	assert.False(t, p.Supports("other-model"))
}

func TestNewProvider_ModelsFor(t *testing.T) {
	p := mock.NewProvider()

	infos := p.ModelsFor(models.CapabilityTextGeneration)
	require.Len(t, infos, 1)
	assert.Equal(t, "mock-v1", infos[0].ID)

	assert.Empty(t, p.ModelsFor("image-generation"))
}

// --- NewFailingProvider ---

func TestNewFailingProvider(t *testing.T) {
	boom := errors.New("synthetic failure")
	p := mock.NewFailingProvider(boom)
	assert.Equal(t, "mock-failing", p.Name())

	gen, err := p.Generator("mock-v1")
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "hello", models.GenerateOptions{})
	assert.ErrorIs(t, err, boom)
}

// --- NewTimeoutProvider ---

func TestNewTimeoutProvider(t *testing.T) {
	p := mock.NewTimeoutProvider()

	gen, err := p.Generator("mock-v1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = gen.Generate(ctx, "hello", models.GenerateOptions{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
