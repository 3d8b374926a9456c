package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/cart"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/lojinha/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.CartRepository using GORM.
// Item statements always filter by cart_id, which is how ownership is enforced.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// EnsureForUser returns the user's cart, inserting it first when absent.
// The insert is a no-op on conflict, so racing requests read the same row.
func (r *GormCartRepository) EnsureForUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	fresh, err := cart.NewCart(userID)
	if err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(models.CartModelFromDomain(fresh)).Error; err != nil {
		return nil, err
	}

	return r.FindByUser(ctx, userID)
}

// FindByUser returns the user's cart
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListLines returns the cart's items expanded with product data, oldest first
func (r *GormCartRepository) ListLines(ctx context.Context, cartID uuid.UUID) ([]cart.CartLine, error) {
	var rows []models.CartLineRow
	if err := r.linesQuery(ctx).
		Where("ci.cart_id = ?", cartID).
		Order("ci.created_at ASC, ci.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]cart.CartLine, len(rows))
	for i := range rows {
		lines[i] = rows[i].ToDomain()
	}
	return lines, nil
}

// FindLine returns one expanded line of the cart
func (r *GormCartRepository) FindLine(ctx context.Context, cartID, itemID uuid.UUID) (*cart.CartLine, error) {
	var rows []models.CartLineRow
	if err := r.linesQuery(ctx).
		Where("ci.id = ? AND ci.cart_id = ?", itemID, cartID).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	line := rows[0].ToDomain()
	return &line, nil
}

func (r *GormCartRepository) linesQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("cart_items AS ci").
		Select(`ci.id AS item_id, ci.product_id, ci.quantity,
			p.name AS product_name, p.slug AS product_slug, p.image_url,
			p.price AS unit_price, p.stock`).
		Joins("JOIN products p ON p.id = ci.product_id")
}

// UpsertItem inserts the line or increments the existing one in a single
// INSERT ... ON CONFLICT statement. With enforceStock the update branch
// only fires while the summed quantity fits the product stock; a refused
// update affects no rows.
func (r *GormCartRepository) UpsertItem(ctx context.Context, item *cart.CartItem, enforceStock bool) (*cart.UpsertResult, error) {
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "quantity"}, Value: gorm.Expr("cart_items.quantity + excluded.quantity")},
			{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
		},
	}
	if enforceStock {
		onConflict.Where = clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "cart_items.quantity + excluded.quantity <= (SELECT stock FROM products WHERE products.id = excluded.product_id)"},
		}}
	}

	db := r.db.WithContext(ctx)
	result := db.Clauses(onConflict).Create(models.CartItemModelFromDomain(item))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return nil, shared.ErrNotFound
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrInsufficientStock
	}

	var stored models.CartItemModel
	if err := db.Where("cart_id = ? AND product_id = ?", item.CartID, item.ProductID).
		First(&stored).Error; err != nil {
		return nil, err
	}

	return &cart.UpsertResult{
		Item:    stored.ToDomain(),
		Created: stored.ID == item.ID,
	}, nil
}

// SetItemQuantity overwrites the quantity of one item of the cart
func (r *GormCartRepository) SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*cart.CartItem, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.CartItemModel{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Updates(map[string]any{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}

	var stored models.CartItemModel
	if err := db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return stored.ToDomain(), nil
}

// DeleteItem removes one item of the cart
func (r *GormCartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ClearItems removes every item of the cart
func (r *GormCartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItemModel{})
	return result.RowsAffected, result.Error
}
