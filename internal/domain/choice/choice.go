package choice

import "context"

// Known choice types
const (
	TypeRepairStatus = "repair_status"
	TypeDeviceStatus = "device_status"
	TypeCouponStatus = "coupon_status"
)

// Token is an enumerated status value configured at runtime.
// Tokens are stored in the database and referenced by value; the set of
// values for a type is deployment configuration, not code.
type Token struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// Manager resolves a (type, value) pair to a configured token.
//
// A nil value requests the default token of the type. A (nil, nil) return
// means the token is not configured; callers must treat that as "skip the
// optional mutation" unless the operation documents it as a hard error.
type Manager interface {
	GetChoice(ctx context.Context, choiceType string, value *string) (*Token, error)
}
