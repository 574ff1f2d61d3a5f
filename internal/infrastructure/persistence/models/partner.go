package models

import (
	"github.com/fleetrepair/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// AccountModel is the persistence model for the Account aggregate.
type AccountModel struct {
	AggregateModel
	Name        string     `gorm:"type:varchar(200);not null"`
	Supplier    bool       `gorm:"not null;default:false"`
	PriceListID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account.
func (m *AccountModel) ToDomain() *partner.Account {
	a := &partner.Account{
		Name:        m.Name,
		Supplier:    m.Supplier,
		PriceListID: m.PriceListID,
	}
	m.PopulateAggregateRoot(&a.BaseAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain Account.
func (m *AccountModel) FromDomain(a *partner.Account) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Name = a.Name
	m.Supplier = a.Supplier
	m.PriceListID = a.PriceListID
}

// AccountModelFromDomain creates a new persistence model from a domain Account.
func AccountModelFromDomain(a *partner.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}
