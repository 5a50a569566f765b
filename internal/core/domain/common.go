package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// MoneyScale is the number of fractional digits kept for every monetary value.
const MoneyScale = 2

// MaxAmount is the largest value a NUMERIC(14,2) money column can hold.
var MaxAmount = decimal.RequireFromString("999999999999.99")
