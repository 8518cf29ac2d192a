package sequence

import (
	"gorm.io/gorm"
)

// Sequence is one named counter row. Document numbers (QUO-, RFQ-, PAY-)
// are minted from these, never from row counts, so concurrent writers
// cannot mint duplicates.
type Sequence struct {
	Name  string `gorm:"primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

func (Sequence) TableName() string {
	return "sequences"
}

// Next atomically increments the named counter and returns the new
// value, creating the row on first use.
func Next(db *gorm.DB, name string) (int64, error) {
	var value int64
	err := db.Raw(`
		INSERT INTO sequences (name, value) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value`, name).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
