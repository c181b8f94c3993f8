package schema

import "time"

// Prize represents the prizes table - inventory-bearing reward types.
// Stock and EmittedTotal are only ever mutated through the conditional
// decrement in the store; application code must never read-then-write them.
type Prize struct {
	// ID is the prize identifier
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Label is the human-facing display name
	Label string `gorm:"column:label;not null;type:text"`
	// Color is the display color used on admin surfaces and print previews
	Color string `gorm:"column:color;type:text"`
	// Stock is the remaining inventory; never negative
	Stock int `gorm:"column:stock;not null;default:0"`
	// EmittedTotal is the monotonic count of tokens ever minted for this prize
	EmittedTotal int `gorm:"column:emitted_total;not null;default:0"`
	// Active marks whether the prize may appear in new batches
	Active bool `gorm:"column:active;not null;default:true"`
	// CreatedAt is the record creation time
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the last mutation time
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Prize model
func (Prize) TableName() string {
	return "prizes"
}
