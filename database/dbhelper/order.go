package dbhelper

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kantin-app/kantin/database"
	"github.com/kantin-app/kantin/models"
)

// CreateOrder persists the order header and its lines in one transaction
// and fills in the generated id and timestamps.
func CreateOrder(order *models.Order) error {
	return database.Tx(func(tx *sqlx.Tx) error {
		err := tx.QueryRow(`
			INSERT INTO orders (user_id, total_price, status, notes)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
			order.UserID, order.TotalPrice, order.Status, order.Notes,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return errors.Wrap(err, "failed to insert order")
		}
		return insertOrderLines(tx, order.ID, order.Items)
	})
}

// SaveOrderLines replaces the order's lines, total and notes atomically.
// Used for customer edits of pending orders.
func SaveOrderLines(order *models.Order) error {
	return database.Tx(func(tx *sqlx.Tx) error {
		err := tx.QueryRow(`
			UPDATE orders
			SET total_price = $1, notes = $2, updated_at = now()
			WHERE id = $3
			RETURNING updated_at`,
			order.TotalPrice, order.Notes, order.ID,
		).Scan(&order.UpdatedAt)
		if err != nil {
			return errors.Wrap(err, "failed to update order")
		}
		if _, err := tx.Exec(`DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
			return errors.Wrap(err, "failed to clear order lines")
		}
		return insertOrderLines(tx, order.ID, order.Items)
	})
}

func insertOrderLines(tx *sqlx.Tx, orderID uuid.UUID, items []models.OrderLine) error {
	for _, it := range items {
		_, err := tx.Exec(`
			INSERT INTO order_items (order_id, menu_item_id, quantity, price)
			VALUES ($1, $2, $3, $4)`,
			orderID, it.MenuID, it.Quantity, it.Price)
		if err != nil {
			return errors.Wrap(err, "failed to insert order line")
		}
	}
	return nil
}

// GetOrder returns the order with its owner summary and resolved lines.
// Returns sql.ErrNoRows when absent.
func GetOrder(id uuid.UUID) (*models.Order, error) {
	var row struct {
		models.Order
		OwnerName  string `db:"owner_name"`
		OwnerEmail string `db:"owner_email"`
	}
	err := database.Kantin.Get(&row, `
		SELECT o.id, o.user_id, o.total_price, o.status, o.notes, o.created_at, o.updated_at,
		       u.name AS owner_name, u.email AS owner_email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1`, id)
	if err != nil {
		return nil, err
	}

	order := row.Order
	order.User = &models.UserSummary{ID: order.UserID, Name: row.OwnerName, Email: row.OwnerEmail}
	if err := attachOrderLines([]*models.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns every order, newest first, with owner summaries.
func ListOrders() ([]*models.Order, error) {
	rows, err := database.Kantin.Queryx(`
		SELECT o.id, o.user_id, o.total_price, o.status, o.notes, o.created_at, o.updated_at,
		       u.name AS owner_name, u.email AS owner_email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		var row struct {
			models.Order
			OwnerName  string `db:"owner_name"`
			OwnerEmail string `db:"owner_email"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, errors.Wrap(err, "failed to scan order")
		}
		order := row.Order
		order.User = &models.UserSummary{ID: order.UserID, Name: row.OwnerName, Email: row.OwnerEmail}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate orders")
	}
	return orders, attachOrderLines(orders)
}

// ListOrdersByUser returns the user's own orders, newest first.
func ListOrdersByUser(userID uuid.UUID) ([]*models.Order, error) {
	plain := make([]models.Order, 0)
	err := database.Kantin.Select(&plain, `
		SELECT id, user_id, total_price, status, notes, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*models.Order, 0, len(plain))
	for i := range plain {
		orders = append(orders, &plain[i])
	}
	return orders, attachOrderLines(orders)
}

// UpdateOrderStatus overwrites the status. Returns sql.ErrNoRows when the
// order is absent.
func UpdateOrderStatus(id uuid.UUID, status models.OrderStatus) error {
	var updated sql.NullTime
	return database.Kantin.QueryRow(`
		UPDATE orders SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING updated_at`,
		status, id,
	).Scan(&updated)
}

// DeleteOrder removes the order; lines go with it via cascade. Reports
// whether a row existed.
func DeleteOrder(id uuid.UUID) (bool, error) {
	res, err := database.Kantin.Exec(`DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, errors.Wrap(err, "failed to delete order")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}
	return n > 0, nil
}

// attachOrderLines fetches the lines for all given orders in one query and
// resolves each line's menu item. Deleted menu items resolve to nil.
func attachOrderLines(orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(orders))
	byID := make(map[uuid.UUID]*models.Order, len(orders))
	for _, o := range orders {
		o.Items = make([]models.OrderLine, 0)
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	rows, err := database.Kantin.Query(`
		SELECT oi.order_id, oi.menu_item_id, oi.quantity, oi.price,
		       m.id, m.name, m.description, m.price, m.category, m.image,
		       m.available, m.created_at, m.updated_at
		FROM order_items oi
		LEFT JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`, pq.Array(ids))
	if err != nil {
		return errors.Wrap(err, "failed to fetch order lines")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			line    models.OrderLine
			menu    models.MenuItem

			menuID    uuid.NullUUID
			name      sql.NullString
			desc      sql.NullString
			price     sql.NullFloat64
			category  sql.NullString
			image     sql.NullString
			available sql.NullBool
			createdAt sql.NullTime
			updatedAt sql.NullTime
		)
		err := rows.Scan(&orderID, &line.MenuID, &line.Quantity, &line.Price,
			&menuID, &name, &desc, &price, &category, &image,
			&available, &createdAt, &updatedAt)
		if err != nil {
			return errors.Wrap(err, "failed to scan order line")
		}

		if menuID.Valid {
			menu = models.MenuItem{
				ID:          menuID.UUID,
				Name:        name.String,
				Description: desc.String,
				Price:       price.Float64,
				Category:    models.Category(category.String),
				Image:       image.String,
				Available:   available.Bool,
				CreatedAt:   createdAt.Time,
				UpdatedAt:   updatedAt.Time,
			}
			line.Menu = &menu
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, line)
		}
	}
	return errors.Wrap(rows.Err(), "failed to iterate order lines")
}
