package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/cafe_pos/internal/icons"
)

const MaxGuest = 5

type Category struct {
	ID   uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string     `gorm:"not null"                 json:"name"`
	Sort int        `gorm:"not null;index"           json:"sort"`
	Icon icons.Icon `gorm:"type:varchar(32);not null" json:"icon"`
}

// Product.CategoryID may point at a deleted category; readers treat that
// as "no category".
type Product struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name       string          `gorm:"not null;index"             json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CategoryID *uint           `gorm:"index"                      json:"category_id"`
}

// PosTable keeps both position encodings. XPct/YPct win when set; X/Y is
// the older 24x14 grid.
type PosTable struct {
	ID   uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string   `gorm:"not null"                 json:"name"`
	XPct *float64 `json:"xpct,omitempty"`
	YPct *float64 `json:"ypct,omitempty"`
	X    *int     `json:"x,omitempty"`
	Y    *int     `json:"y,omitempty"`
}

func (PosTable) TableName() string { return "pos_tables" }

const OrderOpen = "open"

// Order with a nil TableID is a quick order; those only exist inside the
// print transaction.
type Order struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	TableID   *uint       `gorm:"index"                    json:"table_id"`
	Status    string      `gorm:"not null;default:open"    json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem.PriceEach is the product price at the moment the line was
// first added. Guest 0 means the line is not assigned to a guest.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	OrderID   uint            `gorm:"not null;index"             json:"order_id"`
	ProductID uint            `gorm:"not null;index"             json:"product_id"`
	Name      string          `gorm:"not null"                   json:"name"`
	Qty       int             `gorm:"not null"                   json:"qty"`
	PriceEach decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_each"`
	Guest     int             `gorm:"not null;default:0"         json:"guest"`
	CreatedAt time.Time       `json:"created_at"`
}

func (i OrderItem) Amount() decimal.Decimal {
	return i.PriceEach.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// ArchivedOrder is a printed receipt. ArchivedAt is the single effective
// timestamp used by every report.
type ArchivedOrder struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	ReceiptNo  uuid.UUID       `gorm:"type:varchar(36);uniqueIndex" json:"receipt_no"`
	OrderID    uint            `gorm:"not null;index"             json:"order_id"`
	TableID    *uint           `gorm:"index"                      json:"table_id"`
	Label      string          `gorm:"not null"                   json:"label"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	ArchivedAt time.Time       `gorm:"not null;index"             json:"archived_at"`
	Items      []ArchivedItem  `gorm:"foreignKey:ArchivedOrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (o *ArchivedOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ReceiptNo == uuid.Nil {
		o.ReceiptNo = uuid.New()
	}
	return nil
}

func (o ArchivedOrder) Quick() bool { return o.TableID == nil }

// ArchivedItem.ID is the dedup key for shift closing.
type ArchivedItem struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement"   json:"id"`
	ArchivedOrderID uint            `gorm:"not null;index"             json:"archived_order_id"`
	ProductID       *uint           `gorm:"index"                      json:"product_id"`
	Name            string          `gorm:"not null"                   json:"name"`
	Qty             int             `gorm:"not null"                   json:"qty"`
	PriceEach       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_each"`
	Guest           int             `gorm:"not null;default:0"         json:"guest"`
}

func (i ArchivedItem) Amount() decimal.Decimal {
	return i.PriceEach.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// Sale is the flattened row written next to every archived item. Rows
// imported from elsewhere may carry only Day.
type Sale struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	ArchivedItemID  uint64          `gorm:"index"                      json:"archived_item_id"`
	ArchivedOrderID uint            `gorm:"index"                      json:"archived_order_id"`
	TableID         *uint           `json:"table_id"`
	ProductID       *uint           `json:"product_id"`
	Name            string          `gorm:"not null"                   json:"name"`
	Qty             int             `gorm:"not null"                   json:"qty"`
	PriceEach       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_each"`
	At              *time.Time      `gorm:"index"                      json:"at"`
	Day             string          `gorm:"type:varchar(10)"           json:"day,omitempty"`
}

type KVEntry struct {
	Key       string    `gorm:"column:name;primaryKey;type:varchar(64)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func All() []any {
	return []any{
		&Category{}, &Product{}, &PosTable{},
		&Order{}, &OrderItem{},
		&ArchivedOrder{}, &ArchivedItem{}, &Sale{},
		&KVEntry{},
	}
}
