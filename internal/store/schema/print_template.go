package schema

import (
	"time"

	"gorm.io/datatypes"
)

// PrintTemplate represents the print_templates table - background rasters
// plus tiling metadata. Placement holds the visual-code rectangle in
// millimeters as JSONB; it is parsed best-effort at composition time and
// malformed fields fall back to documented defaults.
type PrintTemplate struct {
	// ID is the template identifier
	ID string `gorm:"column:id;primaryKey;type:text"`
	// FilePath locates the background image on the template volume
	FilePath string `gorm:"column:file_path;not null;type:text"`
	// DPI is the target print resolution used for all mm-to-px conversion
	DPI int `gorm:"column:dpi;not null;default:300"`
	// Cols is the tile grid width per page
	Cols int `gorm:"column:cols;not null;default:2"`
	// Rows is the tile grid height per page
	Rows int `gorm:"column:rows;not null;default:5"`
	// Placement is the code rectangle {x_mm, y_mm, width_mm, rotation_deg}
	Placement datatypes.JSON `gorm:"column:placement;type:jsonb"`
	// CreatedAt is the record creation time; "most recent" lookups sort by it
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the PrintTemplate model
func (PrintTemplate) TableName() string {
	return "print_templates"
}
