package model

import "time"

type HeartDataProduct struct {
	ProductID      int64     `json:"product_id"`
	Title          string    `json:"title"`
	Price          int64     `json:"price"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	ImageURL       string    `json:"image_url"`
	CategoriesName []string  `json:"categories_name"`
}

type Heart struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}
