package models

import (
	"time"

	"gorm.io/gorm"
)

// Objective tracks a user's progress toward a savings goal. Progress is
// recomputed from the amounts on every save.
type Objective struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	ObjectiveName    string         `gorm:"not null" json:"objective_name"`
	CurrentAmount    float64        `gorm:"not null;default:0" json:"current_amount"`
	AmountToComplete float64        `gorm:"not null" json:"amount_to_complete"`
	Progress         float64        `gorm:"not null;default:0" json:"progress"`
	Completed        bool           `gorm:"not null;default:false" json:"completed"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for GORM
func (Objective) TableName() string {
	return "objectives"
}

// Recalculate refreshes Progress and Completed from the current amounts.
func (o *Objective) Recalculate() {
	if o.AmountToComplete <= 0 {
		o.Progress = 0
		o.Completed = false
		return
	}
	o.Progress = o.CurrentAmount / o.AmountToComplete * 100
	if o.Progress > 100 {
		o.Progress = 100
	}
	o.Completed = o.CurrentAmount >= o.AmountToComplete
}

// BeforeSave keeps derived fields consistent on every write.
func (o *Objective) BeforeSave(_ *gorm.DB) error {
	o.Recalculate()
	return nil
}
