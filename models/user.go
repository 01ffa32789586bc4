package models

// User owns at most one portfolio. The unique index on Portfolio.UserID
// backs the one-portfolio-per-user rule at the schema level.
type User struct {
	UserID   uint   `gorm:"primaryKey" json:"userID"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	IsAdmin  bool   `gorm:"default:false" json:"is_admin"`

	Portfolio *Portfolio `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
