package models

import (
	"github.com/fleetrepair/backend/internal/domain/choice"
)

// ChoiceModel stores a configured enumerated value (status token).
// The value sets are deployment data, seeded by migrations and editable
// at runtime.
type ChoiceModel struct {
	BaseModel
	Type      string `gorm:"type:varchar(50);not null;uniqueIndex:idx_choice_type_value,priority:1"`
	Value     string `gorm:"type:varchar(100);not null;uniqueIndex:idx_choice_type_value,priority:2"`
	Label     string `gorm:"type:varchar(200);not null"`
	IsDefault bool   `gorm:"not null;default:false"`
	Position  int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ChoiceModel) TableName() string {
	return "choices"
}

// ToDomain converts the persistence model to a domain choice token.
func (m *ChoiceModel) ToDomain() *choice.Token {
	return &choice.Token{
		Type:  m.Type,
		Value: m.Value,
		Label: m.Label,
	}
}
