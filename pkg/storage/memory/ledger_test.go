package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasJalles/controle-vendas/pkg/sale"
)

func TestInsertPrepends(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()
	t0 := time.UnixMilli(1000)

	_, err := l.Insert(ctx, sale.Sale{ClientName: "first", Timestamp: t0})
	require.NoError(t, err)
	_, err = l.Insert(ctx, sale.Sale{ClientName: "second", Timestamp: t0.Add(time.Second)})
	require.NoError(t, err)

	list, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].ClientName)
	assert.Equal(t, "2000", list[0].ID)
	assert.Equal(t, "1000", list[1].ID)
}

func TestInsertBumpsCollidingIDs(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()
	at := time.UnixMilli(5000)

	a, _ := l.Insert(ctx, sale.Sale{Timestamp: at})
	b, _ := l.Insert(ctx, sale.Sale{Timestamp: at})
	c, _ := l.Insert(ctx, sale.Sale{Timestamp: at.Add(-time.Second)})

	assert.Equal(t, "5000", a.ID)
	assert.Equal(t, "5001", b.ID)
	assert.Equal(t, "5002", c.ID)
}

func TestDeleteKeepsOthers(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()
	for i := int64(1); i <= 3; i++ {
		_, err := l.Insert(ctx, sale.Sale{Timestamp: time.UnixMilli(i)})
		require.NoError(t, err)
	}

	require.NoError(t, l.Delete(ctx, "2"))
	assert.ErrorIs(t, l.Delete(ctx, "2"), sale.ErrNotFound)

	list, _ := l.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "3", list[0].ID)
	assert.Equal(t, "1", list[1].ID)
}

func TestListReturnsCopies(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()
	_, err := l.Insert(ctx, sale.Sale{Items: []sale.CartLine{{ProductID: "water", Quantity: 1}}, Timestamp: time.UnixMilli(1)})
	require.NoError(t, err)

	list, _ := l.List(ctx)
	list[0].Items[0].Quantity = 9

	again, _ := l.List(ctx)
	assert.Equal(t, 1, again[0].Items[0].Quantity)
}
