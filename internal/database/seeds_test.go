package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driprats/storefront-admin/internal/models"
)

type recordingWriter struct {
	ensured bool
	orders  []models.Order
	putErr  error
}

func (w *recordingWriter) EnsureTable(context.Context) error {
	w.ensured = true
	return nil
}

func (w *recordingWriter) PutOrder(_ context.Context, order models.Order) error {
	if w.putErr != nil {
		return w.putErr
	}
	w.orders = append(w.orders, order)
	return nil
}

func TestSampleOrdersAreConsistent(t *testing.T) {
	orders := SampleOrders()

	statuses := map[models.OrderStatus]bool{}
	for _, o := range orders {
		assert.True(t, o.Status.Valid(), o.OrderID)
		statuses[o.Status] = true

		total, _ := o.ComputedTotal().Float64()
		assert.Equal(t, total, o.TotalAmount, o.OrderID)
		assert.Equal(t, o.Items[0].Name, o.FirstItemName)
		assert.NotEmpty(t, o.Address().FullName, o.OrderID)
	}
	assert.Len(t, statuses, len(models.OrderStatuses), "every status is represented")
}

func TestSeedOrders(t *testing.T) {
	w := &recordingWriter{}
	n, err := SeedOrders(context.Background(), w)
	require.NoError(t, err)
	assert.True(t, w.ensured)
	assert.Equal(t, len(SampleOrders()), n)
	assert.Len(t, w.orders, n)

	w = &recordingWriter{putErr: errors.New("table missing")}
	_, err = SeedOrders(context.Background(), w)
	assert.ErrorIs(t, err, w.putErr)
}
