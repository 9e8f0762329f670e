package models

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryFood  Category = "food"
	CategoryDrink Category = "drink"
	CategorySnack Category = "snack"
)

func (c Category) IsValid() bool {
	return c == CategoryFood || c == CategoryDrink || c == CategorySnack
}

type MenuItem struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	Category    Category  `db:"category" json:"category"`
	Image       string    `db:"image" json:"image"`
	Available   bool      `db:"available" json:"available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
