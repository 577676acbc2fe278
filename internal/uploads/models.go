package uploads

import (
	"github.com/suraja9/ocl-services/internal/booking/model"
)

// Document categories accepted by the booking flow.
const (
	CategoryPackageImage    = "package_image"
	CategoryInsurancePolicy = "insurance_policy"
	CategoryDeclaration     = "declaration"
	CategoryOther           = "other"
)

// Attachment is a stored document. It is created unbound at upload time and
// bound to a booking reference when the booking is submitted.
type Attachment struct {
	model.BaseModel
	Key              string `gorm:"uniqueIndex;not null" json:"key"`
	Name             string `gorm:"not null" json:"name"`
	Category         string `gorm:"not null;index" json:"category"`
	MimeType         string `json:"mimeType"`
	Size             int64  `json:"size"`
	URL              string `json:"url"`
	BookingReference string `gorm:"index" json:"bookingReference,omitempty"`
	Finalized        bool   `gorm:"default:false" json:"finalized"`
}

func (Attachment) TableName() string {
	return "attachments"
}
