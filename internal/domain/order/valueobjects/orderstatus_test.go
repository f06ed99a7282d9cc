package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_Predicates(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		resolved bool
		paid     bool
		payable  bool
	}{
		{OrderStatusPending, false, false, true},
		{OrderStatusFailed, false, false, true},
		{OrderStatusOnHold, true, false, false},
		{OrderStatusProcessing, true, true, false},
		{OrderStatusCompleted, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.True(t, tt.status.IsValid())
			assert.Equal(t, tt.resolved, tt.status.IsResolved())
			assert.Equal(t, tt.paid, tt.status.IsPaid())
			assert.Equal(t, tt.payable, tt.status.IsPayable())
		})
	}
}

func TestNewOrderStatus(t *testing.T) {
	s, err := NewOrderStatus("on-hold")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusOnHold, s)

	_, err = NewOrderStatus("refunded")
	assert.Error(t, err)
}
