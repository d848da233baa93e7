package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

// StringList stores an ordered list of URLs as a JSON-encoded text column so
// the same model works on Postgres and the sqlite test driver.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

type Listing struct {
	ID            uint64      `gorm:"primarykey" json:"id"`
	UserID        uint64      `gorm:"not null;index" json:"user_id"`
	Name          string      `gorm:"type:varchar(255);not null" json:"name"`
	Description   string      `gorm:"type:text" json:"description"`
	Address       string      `gorm:"type:varchar(255)" json:"address"`
	Type          ListingType `gorm:"type:varchar(10);not null" json:"type"`
	Bedrooms      int         `gorm:"not null;default:1" json:"bedrooms"`
	Bathrooms     int         `gorm:"not null;default:1" json:"bathrooms"`
	RegularPrice  int64       `gorm:"not null" json:"regular_price"`
	DiscountPrice int64       `json:"discount_price"`
	Parking       bool        `gorm:"not null;default:false" json:"parking"`
	Furnished     bool        `gorm:"not null;default:false" json:"furnished"`
	Offer         bool        `gorm:"not null;default:false" json:"offer"`
	ImageURLs     StringList  `gorm:"type:text" json:"image_urls"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	// Relations
	Owner User `gorm:"foreignKey:UserID" json:"-"`
}
