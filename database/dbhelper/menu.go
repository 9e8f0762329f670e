package dbhelper

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kantin-app/kantin/database"
	"github.com/kantin-app/kantin/models"
)

func ListMenuItems() ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0)
	err := database.Kantin.Select(&items, `
		SELECT id, name, description, price, category, image, available, created_at, updated_at
		FROM menu_items
		ORDER BY created_at DESC`)
	return items, errors.Wrap(err, "failed to list menu items")
}

// GetMenuItem returns sql.ErrNoRows when the item is absent.
func GetMenuItem(id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := database.Kantin.Get(&item, `
		SELECT id, name, description, price, category, image, available, created_at, updated_at
		FROM menu_items
		WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func CreateMenuItem(item *models.MenuItem) error {
	err := database.Kantin.QueryRow(`
		INSERT INTO menu_items (name, description, price, category, image, available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		item.Name, item.Description, item.Price, item.Category, item.Image, item.Available,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	return errors.Wrap(err, "failed to insert menu item")
}

// UpdateMenuItem overwrites all mutable fields. Returns sql.ErrNoRows when
// the item is absent.
func UpdateMenuItem(item *models.MenuItem) error {
	return database.Kantin.QueryRow(`
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category = $4, image = $5,
		    available = $6, updated_at = now()
		WHERE id = $7
		RETURNING created_at, updated_at`,
		item.Name, item.Description, item.Price, item.Category, item.Image,
		item.Available, item.ID,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
}

// DeleteMenuItem removes the item permanently. Historical order lines keep
// their captured reference; nothing cascades. Reports whether a row existed.
func DeleteMenuItem(id uuid.UUID) (bool, error) {
	res, err := database.Kantin.Exec(`DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return false, errors.Wrap(err, "failed to delete menu item")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}
	return n > 0, nil
}
