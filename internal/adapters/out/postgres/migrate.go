package postgres

import (
	"bookstore/internal/adapters/out/postgres/bookrepo"
	"bookstore/internal/adapters/out/postgres/cartrepo"
	"bookstore/internal/adapters/out/postgres/categoryrepo"
	"bookstore/internal/adapters/out/postgres/orderrepo"
	"bookstore/internal/adapters/out/postgres/reviewrepo"
	"bookstore/internal/adapters/out/postgres/userrepo"

	"gorm.io/gorm"
)

// Tables lists every table owned by the repositories, in an order safe for TRUNCATE.
var Tables = []string{"order_items", "orders", "cart_items", "carts", "reviews", "books", "categories", "users"}

// Migrate creates or updates the schema of all repositories.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userrepo.UserDTO{},
		&categoryrepo.CategoryDTO{},
		&bookrepo.BookDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&cartrepo.CartDTO{},
		&cartrepo.CartItemDTO{},
		&reviewrepo.ReviewDTO{},
	)
}
