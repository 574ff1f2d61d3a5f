package repair

import (
	"testing"

	"github.com/fleetrepair/backend/internal/domain/device"
	"github.com/stretchr/testify/assert"
)

func TestDeviceStatusForRepairStatus(t *testing.T) {
	tests := []struct {
		repairStatus string
		expected     string
	}{
		{StatusUnrepairableRecycling, device.StatusRecycled},
		{StatusUnrepairableReturnToCustomer, device.StatusBrokenDownReturnToCustomer},
		{StatusWaiting, device.StatusBrokenDown},
		{StatusReceivedImproper, device.StatusBrokenDown},
		{StatusShipped, device.StatusOperational},
		{StatusReceived, device.StatusUnderMaintenance},
		{StatusReceivedCompliant, device.StatusUnderMaintenance},
		{StatusRepaired, device.StatusUnderMaintenance},
		{StatusSwapped, device.StatusUnderMaintenance},
		{"anything_else", device.StatusUnderMaintenance},
	}

	for _, tt := range tests {
		t.Run(tt.repairStatus, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeviceStatusForRepairStatus(tt.repairStatus))
		})
	}
}
