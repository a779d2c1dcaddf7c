package models

// User is a registered student. Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID       int64  `db:"id" gorm:"primaryKey"`
	Username string `db:"username" gorm:"uniqueIndex;not null"`
	Email    string `db:"email" gorm:"uniqueIndex;not null"`
	Password string `db:"password" gorm:"not null"`
}

func (User) TableName() string {
	return "user"
}
