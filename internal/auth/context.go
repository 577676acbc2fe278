package auth

import (
	"github.com/suraja9/ocl-services/internal/booking/model"
)

// Operator roles. Admin sees everything, office runs bookings and the admin
// scan desk, medicine only runs the medicine scan desk.
const (
	RoleAdmin    = "admin"
	RoleOffice   = "office"
	RoleMedicine = "medicine"
)

// Operator is a staff account identified by its bearer token.
type Operator struct {
	model.BaseModel
	Name   string `gorm:"not null" json:"name"`
	Token  string `gorm:"uniqueIndex;not null" json:"-"`
	Role   string `gorm:"not null" json:"role"`
	Active bool   `gorm:"default:true" json:"active"`
}

func (Operator) TableName() string {
	return "operators"
}

// CanAccess reports whether the operator's role grants a given role's
// surface. Admin implies every role.
func (o *Operator) CanAccess(role string) bool {
	if o == nil || !o.Active {
		return false
	}
	return o.Role == RoleAdmin || o.Role == role
}
