package shopdb

import (
	"time"

	"github.com/uptrace/bun"
)

type Phone struct {
	bun.BaseModel `bun:"table:phones,alias:p"`

	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	ModelName       string    `bun:"model_name,notnull,unique" json:"model_name"`
	Year            int       `bun:"year,notnull" json:"year"`
	ChipsetName     string    `bun:"chipset_name,notnull" json:"chipset_name"`
	RAMSize         string    `bun:"ram_size,notnull" json:"ram_size"`
	StorageSize     string    `bun:"storage_size,notnull" json:"storage_size"`
	DisplaySize     string    `bun:"display_size,notnull" json:"display_size"`
	BatteryCapacity string    `bun:"battery_capacity,notnull" json:"battery_capacity"`
	OperatingSystem string    `bun:"operating_system,notnull" json:"operating_system"`
	Price           float64   `bun:"price,notnull" json:"price"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"-"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"-"`

	CameraFeatures   []*CameraFeature   `bun:"rel:has-many,join:id=phone_id" json:"-"`
	ChargingFeatures []*ChargingFeature `bun:"rel:has-many,join:id=phone_id" json:"-"`
	Offers           []*Offer           `bun:"rel:has-many,join:id=phone_id" json:"-"`
	Inventory        *InventoryRecord   `bun:"rel:has-one,join:id=phone_id" json:"-"`
}

type CameraFeature struct {
	bun.BaseModel `bun:"table:camera_features,alias:cf"`

	ID      int64  `bun:"id,pk,autoincrement" json:"-"`
	PhoneID int64  `bun:"phone_id,notnull" json:"-"`
	Feature string `bun:"feature,notnull" json:"feature"`
}

type ChargingFeature struct {
	bun.BaseModel `bun:"table:charging_features,alias:chf"`

	ID      int64  `bun:"id,pk,autoincrement" json:"-"`
	PhoneID int64  `bun:"phone_id,notnull" json:"-"`
	Feature string `bun:"feature,notnull" json:"feature"`
}

// Offer has a lifecycle independent from its phone; PhoneID stays nullable so
// shop-wide promotions survive phone deletions.
type Offer struct {
	bun.BaseModel `bun:"table:offers,alias:o"`

	ID                 int64      `bun:"id,pk,autoincrement" json:"id"`
	PhoneID            *int64     `bun:"phone_id" json:"phone_id,omitempty"`
	Title              string     `bun:"title,notnull" json:"title"`
	Description        string     `bun:"description" json:"description,omitempty"`
	DiscountPercentage *float64   `bun:"discount_percentage" json:"discount_percentage,omitempty"`
	DiscountAmount     *float64   `bun:"discount_amount" json:"discount_amount,omitempty"`
	OriginalPrice      *float64   `bun:"original_price" json:"original_price,omitempty"`
	OfferPrice         *float64   `bun:"offer_price" json:"offer_price,omitempty"`
	StartDate          *time.Time `bun:"start_date" json:"start_date,omitempty"`
	EndDate            *time.Time `bun:"end_date" json:"end_date,omitempty"`
	IsActive           bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt          time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"-"`

	Phone *Phone `bun:"rel:belongs-to,join:phone_id=id" json:"-"`
}

// ActiveAt reports whether the offer applies at the given instant. An offer
// with no end date never expires.
func (o *Offer) ActiveAt(now time.Time) bool {
	if !o.IsActive {
		return false
	}
	if o.StartDate != nil && now.Before(*o.StartDate) {
		return false
	}
	if o.EndDate != nil && now.After(*o.EndDate) {
		return false
	}
	return true
}

type InventoryRecord struct {
	bun.BaseModel `bun:"table:inventory,alias:i"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	PhoneID          int64     `bun:"phone_id,notnull,unique" json:"phone_id"`
	StockQuantity    int       `bun:"stock_quantity,notnull,default:0" json:"stock_quantity"`
	ReservedQuantity int       `bun:"reserved_quantity,notnull,default:0" json:"reserved_quantity"`
	LastUpdated      time.Time `bun:"last_updated,nullzero,notnull,default:current_timestamp" json:"-"`

	Phone *Phone `bun:"rel:belongs-to,join:phone_id=id" json:"-"`
}

// Available is the sellable quantity after reservations.
func (r *InventoryRecord) Available() int {
	return r.StockQuantity - r.ReservedQuantity
}
