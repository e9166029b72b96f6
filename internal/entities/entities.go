package entities

import (
	"time"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type ReadingStatus string

const (
	StatusToRead    ReadingStatus = "to_read"
	StatusReading   ReadingStatus = "reading"
	StatusCompleted ReadingStatus = "completed"
	StatusAbandoned ReadingStatus = "abandoned"
)

// Valid reports whether s is one of the known reading statuses.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

type User struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Email        string        `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string        `gorm:"size:255;not null" json:"-"`
	Name         string        `gorm:"size:255;not null" json:"name"`
	Role         UserRole      `gorm:"size:20;not null;default:'user'" json:"role"`
	Books        []Book        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews      []Review      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ReadingGoals []ReadingGoal `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// PublicUser is the projection of a user that is safe to return to clients.
// The password hash never leaves the service layer.
type PublicUser struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the client-facing projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Category is shared across users; books reference categories through the
// book_categories join table.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Books       []Book    `gorm:"many2many:book_categories;" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Book struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UserID      uint          `gorm:"index;not null" json:"userId"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	Author      string        `gorm:"size:255;not null" json:"author"`
	ISBN        string        `gorm:"size:20" json:"isbn,omitempty"`
	TotalPages  int           `gorm:"not null" json:"totalPages"`
	CurrentPage int           `gorm:"not null;default:0" json:"currentPage"`
	Status      ReadingStatus `gorm:"size:20;not null;default:'to_read'" json:"status"`
	Rating      *int          `json:"rating"`
	CoverImage  string        `gorm:"type:text" json:"coverImage,omitempty"`
	StartDate   *time.Time    `json:"startDate"`
	FinishDate  *time.Time    `json:"finishDate"`

	User       User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Categories []Category `gorm:"many2many:book_categories;constraint:OnDelete:CASCADE" json:"categories"`
	Reviews    []Review   `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`

	// Review is the requesting user's own review, populated during
	// hydration. At most one exists per (book, user).
	Review *Review `gorm:"-" json:"review"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_reviews_book_user" json:"bookId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_book_user" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Book      Book      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReadingGoal tracks a per-user, per-year target of books to finish.
type ReadingGoal struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_goals_user_year" json:"userId"`
	Year         int       `gorm:"not null;uniqueIndex:idx_goals_user_year" json:"year"`
	TargetBooks  int       `gorm:"not null" json:"targetBooks"`
	CurrentBooks int       `gorm:"not null;default:0" json:"currentBooks"`
	User         User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string        { return "users" }
func (Category) TableName() string    { return "categories" }
func (Book) TableName() string        { return "books" }
func (Review) TableName() string      { return "reviews" }
func (ReadingGoal) TableName() string { return "reading_goals" }
