package repair

import "github.com/fleetrepair/backend/internal/domain/device"

// DeviceStatusForRepairStatus projects a repair status onto the status
// of the repaired device. Open intake and in-progress states keep the
// device under maintenance; terminal states release or retire it.
func DeviceStatusForRepairStatus(repairStatus string) string {
	switch repairStatus {
	case StatusUnrepairableRecycling:
		return device.StatusRecycled
	case StatusUnrepairableReturnToCustomer:
		return device.StatusBrokenDownReturnToCustomer
	case StatusWaiting, StatusReceivedImproper:
		return device.StatusBrokenDown
	case StatusShipped:
		return device.StatusOperational
	default:
		return device.StatusUnderMaintenance
	}
}
