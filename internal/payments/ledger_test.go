package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigbridge/gigbridge/internal/apperr"
)

func TestFee(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		wantFee float64
		wantNet float64
	}{
		{"round amount", 100, 10, 90},
		{"cents survive", 99.99, 10, 89.99},
		{"small amount", 1, 0.1, 0.9},
		{"fee rounds to cents", 33.33, 3.33, 30},
		{"zero amount", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, net := Fee(tt.amount)
			assert.InDelta(t, tt.wantFee, fee, 0.0001)
			assert.InDelta(t, tt.wantNet, net, 0.0001)
			assert.InDelta(t, tt.amount, fee+net, 0.0001, "fee and net must add up")
		})
	}
}

func TestProcessTransition(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		action  string
		want    Status
		wantErr bool
		kind    apperr.Kind
	}{
		{"release pending", StatusPending, "release", StatusPaid, false, 0},
		{"release processing", StatusProcessing, "release", StatusPaid, false, 0},
		{"release paid fails", StatusPaid, "release", StatusPaid, true, apperr.KindState},
		{"release refunded fails", StatusRefunded, "release", StatusRefunded, true, apperr.KindState},
		{"refund pending", StatusPending, "refund", StatusRefunded, false, 0},
		{"refund paid", StatusPaid, "refund", StatusRefunded, false, 0},
		{"refund failed entry fails", StatusFailed, "refund", StatusFailed, true, apperr.KindState},
		{"refund twice fails", StatusRefunded, "refund", StatusRefunded, true, apperr.KindState},
		{"unknown action", StatusPending, "void", StatusPending, true, apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := ProcessTransition(tt.current, tt.action)
			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, tt.kind, err.Kind)
				assert.Equal(t, tt.current, next, "status must not move on error")
			} else {
				require.Nil(t, err)
				assert.Equal(t, tt.want, next)
			}
		})
	}
}
