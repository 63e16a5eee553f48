package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-marketplace/internal/database"
	"go-marketplace/internal/model"
)

type ProductRepository struct {
	db database.DBTX
}

func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindHeartedByUser lists the products a user has hearted, oldest heart first.
// ImageURL is the product's first example image.
func (r *ProductRepository) FindHeartedByUser(ctx context.Context, userID int64) ([]model.HeartDataProduct, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.price, p.description, p.created_at,
		        COALESCE((SELECT ei.image_url FROM example_images ei
		                  WHERE ei.product_id = p.id ORDER BY ei.id LIMIT 1), ''),
		        COALESCE((SELECT string_agg(c.title, ',' ORDER BY c.id)
		                  FROM product_categories pc JOIN categories c ON c.id = pc.category_id
		                  WHERE pc.product_id = p.id), '')
		 FROM hearts h
		 JOIN data_products p ON p.id = h.product_id
		 WHERE h.user_id = $1
		 ORDER BY h.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list hearted products: %w", err)
	}
	defer rows.Close()

	products := make([]model.HeartDataProduct, 0)
	for rows.Next() {
		var p model.HeartDataProduct
		var categories string
		if err := rows.Scan(&p.ProductID, &p.Title, &p.Price, &p.Description, &p.CreatedAt,
			&p.ImageURL, &categories); err != nil {
			return nil, fmt.Errorf("scan hearted product: %w", err)
		}
		p.CategoriesName = []string{}
		if categories != "" {
			p.CategoriesName = strings.Split(categories, ",")
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) AddHeart(ctx context.Context, userID int64, productID int64) (model.Heart, error) {
	heart := model.Heart{UserID: userID, ProductID: productID, CreatedAt: time.Now().UTC()}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO hearts (user_id, product_id, created_at) VALUES ($1, $2, $3) RETURNING id`,
		userID, productID, heart.CreatedAt).Scan(&heart.ID)

	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return model.Heart{}, model.ErrDuplicatedHeart
	case pgForeignKeyViolation:
		return model.Heart{}, model.ErrNotFoundDataProduct
	}
	if err != nil {
		return model.Heart{}, fmt.Errorf("add heart: %w", err)
	}
	return heart, nil
}
