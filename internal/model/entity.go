package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntityType enum constants
const (
	EntityTypeIndividual = "individual"
	EntityTypeBusiness   = "business"
	EntityTypeCompany    = "company"
)

// Entity is the taxed party — an individual taxpayer, a sole-proprietor
// business, or a registered company. All source records and summaries hang
// off an entity.
type Entity struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"` // FK to users.id
	Owner      *User     `gorm:"foreignKey:OwnerID" json:"-"`
	EntityType string    `gorm:"type:varchar(20);not null;index" json:"entity_type"` // individual, business, company
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	TIN        string    `gorm:"column:tin;type:varchar(20);index" json:"tin"` // FIRS tax identification number
	RCNumber   string    `gorm:"column:rc_number;type:varchar(20)" json:"rc_number,omitempty"`
	State      string    `gorm:"type:varchar(50)" json:"state"` // State of residence/registration

	// AnnualTurnover drives the CIT small/large classification when the
	// invoice aggregate for the year is not representative (new companies).
	AnnualTurnover decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"annual_turnover"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
