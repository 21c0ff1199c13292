package cart

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranavchugh1/alveera/internal/domain"
	"github.com/pranavchugh1/alveera/internal/storage"
	"github.com/pranavchugh1/alveera/internal/storage/memory"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func sareeProduct(id string, price float64) domain.Product {
	return domain.Product{
		ID:       id,
		DesignNo: "ALV-" + id,
		Name:     "Silk Saree " + id,
		Price:    price,
		Material: "silk",
		Color:    "red",
		ImageURL: "https://cdn.example.com/" + id + ".jpg",
		Category: "silk",
		InStock:  true,
	}
}

func TestAdd_NewLine(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, memory.New(), newTestLogger())

	require.NoError(t, store.Add(ctx, sareeProduct("p1", 1999), 1))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, "Silk Saree p1", lines[0].Product.Name)
	assert.Equal(t, 1999.0, lines[0].Product.Price)
}

func TestAdd_SameProductMergesQuantities(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, memory.New(), newTestLogger())

	require.NoError(t, store.Add(ctx, sareeProduct("p1", 1999), 2))
	require.NoError(t, store.Add(ctx, sareeProduct("p1", 1999), 3))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAdd_LargeQuantitiesKeptAsGiven(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, memory.New(), newTestLogger())

	require.NoError(t, store.Add(ctx, sareeProduct("p1", 1999), 150))
	require.NoError(t, store.Add(ctx, sareeProduct("p1", 1999), 75))
	assert.Equal(t, 225, store.Lines()[0].Quantity)

	store.UpdateQuantity(ctx, "p1", 500)
	assert.Equal(t, 500, store.Lines()[0].Quantity)
}

func TestAdd_InvalidInput(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, memory.New(), newTestLogger())

	assert.Error(t, store.Add(ctx, domain.Product{}, 1))
	assert.Error(t, store.Add(ctx, sareeProduct("p1", 10), 0))
	assert.Error(t, store.Add(ctx, sareeProduct("p1", 10), -2))
	assert.Empty(t, store.Lines())
}

func TestUpdateQuantity_SetsNewQuantity(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, memory.New(), newTestLogger())

	require.NoError(t, store.Add(ctx, sareeProduct("p1", 100), 2))
	store.UpdateQuantity(ctx, "p1", 7)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, memory.New(), newTestLogger())

	require.NoError(t, store.Add(ctx, sareeProduct("p1", 100), 2))
	store.UpdateQuantity(ctx, "p1", 0)

	assert.Empty(t, store.Lines())
	assert.Zero(t, store.ItemCount())
}

func TestUpdateQuantity_AbsentProductIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, memory.New(), newTestLogger())

	require.NoError(t, store.Add(ctx, sareeProduct("p1", 100), 2))
	store.UpdateQuantity(ctx, "missing", 5)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, memory.New(), newTestLogger())

	require.NoError(t, store.Add(ctx, sareeProduct("p1", 100), 1))
	require.NoError(t, store.Add(ctx, sareeProduct("p2", 200), 1))

	store.Remove(ctx, "p1")
	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].ProductID)

	// Removing an absent product is a no-op, not an error.
	store.Remove(ctx, "p1")
	assert.Len(t, store.Lines(), 1)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, memory.New(), newTestLogger())

	require.NoError(t, store.Add(ctx, sareeProduct("p1", 100), 2))
	require.NoError(t, store.Add(ctx, sareeProduct("p2", 50), 1))

	store.Clear(ctx)
	assert.Empty(t, store.Lines())
	assert.Zero(t, store.Total())
}

func TestTotalAndItemCount(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, memory.New(), newTestLogger())

	require.NoError(t, store.Add(ctx, sareeProduct("p1", 100), 2))
	require.NoError(t, store.Add(ctx, sareeProduct("p2", 50), 1))

	assert.InDelta(t, 250.0, store.Total(), 1e-9)
	assert.Equal(t, 3, store.ItemCount())
}

func TestPersistence_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	store := NewStore(ctx, st, newTestLogger())
	require.NoError(t, store.Add(ctx, sareeProduct("p1", 1999), 2))
	require.NoError(t, store.Add(ctx, sareeProduct("p2", 4999), 1))
	store.UpdateQuantity(ctx, "p1", 3)

	// A fresh store over the same storage restores the identical lines.
	reloaded := NewStore(ctx, st, newTestLogger())
	assert.Equal(t, store.Lines(), reloaded.Lines())
	assert.Equal(t, store.Total(), reloaded.Total())
}

func TestLoad_UnparsablePayloadStartsEmpty(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Save(ctx, storage.KeyCart, []byte("{not json")))

	store := NewStore(ctx, st, newTestLogger())
	assert.Empty(t, store.Lines())

	// The store remains usable after the swallowed parse failure.
	require.NoError(t, store.Add(ctx, sareeProduct("p1", 10), 1))
	assert.Len(t, store.Lines(), 1)
}

func TestLinesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, memory.New(), newTestLogger())

	require.NoError(t, store.Add(ctx, sareeProduct("p1", 10), 1))

	lines := store.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, store.Lines()[0].Quantity)
}
