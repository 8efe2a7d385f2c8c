package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"not null"                 json:"username"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`

	// bcrypt hash of the currently valid refresh token. Nil means no
	// active session. Overwritten on every login/refresh, cleared on logout.
	HashedRefreshToken *string `json:"-"`
}

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"not null;index"           json:"name"`
	Category      string    `gorm:"not null;index"           json:"category"`
	Description   string    `gorm:"not null"                 json:"description"`
	Price         float64   `gorm:"not null"                 json:"price"`
	URL           string    `json:"url"`
	Likes         uint      `json:"likes"`
	StockQuantity uint      `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                                  json:"id"`
	UserID    uint `gorm:"index:idx_cart_user_product,unique;not null" json:"user_id"`
	ProductID uint `gorm:"index:idx_cart_user_product,unique;not null" json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"                  json:"quantity"`
}

type Favorite struct {
	ID        uint `gorm:"primaryKey"                                 json:"id"`
	UserID    uint `gorm:"index:idx_fav_user_product,unique;not null" json:"user_id"`
	ProductID uint `gorm:"index:idx_fav_user_product,unique;not null" json:"product_id"`
}
