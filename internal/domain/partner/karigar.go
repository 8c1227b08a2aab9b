package partner

import (
	"fmt"
	"strings"
	"time"

	"github.com/goldbook/backend/internal/domain/shared"
)

// KarigarID identifies a karigar (freelance job worker)
type KarigarID int64

// Karigar is an artisan to whom gold is issued for job work
type Karigar struct {
	ID             KarigarID  `gorm:"column:freelancer_id;primaryKey;autoIncrement"`
	FullName       string     `gorm:"type:varchar(200);not null"`
	Specialization string     `gorm:"type:varchar(100)"`
	Phone          string     `gorm:"type:varchar(50)"`
	Address        string     `gorm:"type:text"`
	BankDetails    string     `gorm:"type:text"`
	JoinedDate     *time.Time `gorm:"type:date"`
	IsActive       bool       `gorm:"not null;default:true"`
	CreatedAt      time.Time  `gorm:"column:created_date;not null"`
}

// TableName returns the table name for GORM
func (Karigar) TableName() string {
	return "freelancers"
}

// KarigarDetails groups the optional karigar fields
type KarigarDetails struct {
	Specialization string
	Phone          string
	Address        string
	BankDetails    string
	JoinedDate     *time.Time
}

// NewKarigar creates an active karigar
func NewKarigar(fullName string, details KarigarDetails) (*Karigar, error) {
	k := &Karigar{IsActive: true, CreatedAt: time.Now()}
	if err := k.apply(fullName, details); err != nil {
		return nil, err
	}
	return k, nil
}

// Update replaces the karigar's fields
func (k *Karigar) Update(fullName string, details KarigarDetails, active bool) error {
	if err := k.apply(fullName, details); err != nil {
		return err
	}
	k.IsActive = active
	return nil
}

// Label is the display text used in pickers
func (k *Karigar) Label() string {
	return fmt.Sprintf("%d - %s", k.ID, k.FullName)
}

func (k *Karigar) apply(fullName string, details KarigarDetails) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return shared.InvalidInput("Full name is required")
	}
	k.FullName = fullName
	k.Specialization = strings.TrimSpace(details.Specialization)
	k.Phone = strings.TrimSpace(details.Phone)
	k.Address = details.Address
	k.BankDetails = details.BankDetails
	k.JoinedDate = details.JoinedDate
	return nil
}
