package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/booktracker/internal/auth"
	"github.com/mrlokans/booktracker/internal/entities"
)

// SeedDemoData populates the database with a couple of demo accounts and
// libraries. Intended for local development; it is a no-op when users
// already exist.
func SeedDemoData(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&entities.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		log.Printf("Skipping demo seed: users already exist")
		return nil
	}

	passwordHash, err := auth.HashPassword("password123", 10)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	demoUsers := []entities.User{
		{Email: "jan.kowalski@example.com", PasswordHash: passwordHash, Name: "Jan Kowalski", Role: entities.UserRoleUser},
		{Email: "anna.nowak@example.com", PasswordHash: passwordHash, Name: "Anna Nowak", Role: entities.UserRoleUser},
		{Email: "admin@example.com", PasswordHash: passwordHash, Name: "Admin User", Role: entities.UserRoleAdmin},
	}
	if err := db.Create(&demoUsers).Error; err != nil {
		return fmt.Errorf("failed to create demo users: %w", err)
	}

	var cats []entities.Category
	if err := db.Order("id ASC").Find(&cats).Error; err != nil {
		return err
	}
	catByName := make(map[string]uint, len(cats))
	for _, c := range cats {
		catByName[c.Name] = c.ID
	}

	date := func(value string) *time.Time {
		t, _ := time.Parse("2006-01-02", value)
		return &t
	}
	rating := func(value int) *int { return &value }

	jan, anna := demoUsers[0], demoUsers[1]

	demoBooks := []struct {
		book       entities.Book
		categories []string
		review     string
	}{
		{
			book: entities.Book{
				UserID: jan.ID, Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien",
				ISBN: "9780547928210", TotalPages: 576, CurrentPage: 576,
				Status: entities.StatusCompleted, Rating: rating(5),
				StartDate: date("2024-01-15"), FinishDate: date("2024-02-20"),
			},
			categories: []string{"Fantasy", "Fiction"},
			review:     "An amazing fantasy epic. Tolkien built a world full of detail with an unforgettable cast.",
		},
		{
			book: entities.Book{
				UserID: jan.ID, Title: "The Hobbit", Author: "J.R.R. Tolkien",
				ISBN: "9780547928227", TotalPages: 304, CurrentPage: 150,
				Status: entities.StatusReading, StartDate: date("2024-11-01"),
			},
			categories: []string{"Fantasy"},
		},
		{
			book: entities.Book{
				UserID: jan.ID, Title: "Dune", Author: "Frank Herbert",
				ISBN: "9780441172719", TotalPages: 704, CurrentPage: 0,
				Status: entities.StatusToRead,
			},
			categories: []string{"Science Fiction"},
		},
		{
			book: entities.Book{
				UserID: jan.ID, Title: "Foundation", Author: "Isaac Asimov",
				ISBN: "9780553293357", TotalPages: 296, CurrentPage: 296,
				Status: entities.StatusCompleted, Rating: rating(4),
				StartDate: date("2024-09-01"), FinishDate: date("2024-09-25"),
			},
			categories: []string{"Science Fiction"},
			review:     "Classic science fiction. The concept of psychohistory is fascinating.",
		},
		{
			book: entities.Book{
				UserID: jan.ID, Title: "Nineteen Eighty-Four", Author: "George Orwell",
				ISBN: "9780451524935", TotalPages: 328, CurrentPage: 328,
				Status: entities.StatusCompleted, Rating: rating(5),
				StartDate: date("2024-06-01"), FinishDate: date("2024-06-15"),
			},
			categories: []string{"Science Fiction", "Fiction"},
			review:     "A terrifying vision of totalitarianism that still holds up. Required reading.",
		},
		{
			book: entities.Book{
				UserID: jan.ID, Title: "Brave New World", Author: "Aldous Huxley",
				ISBN: "9780060850524", TotalPages: 288, CurrentPage: 50,
				Status: entities.StatusAbandoned,
			},
			categories: []string{"Science Fiction"},
		},
		{
			book: entities.Book{
				UserID: anna.ID, Title: "Murder on the Orient Express", Author: "Agatha Christie",
				ISBN: "9780062693662", TotalPages: 256, CurrentPage: 256,
				Status: entities.StatusCompleted, Rating: rating(4),
				StartDate: date("2024-10-01"), FinishDate: date("2024-10-15"),
			},
			categories: []string{"Mystery"},
			review:     "Christie at her best. A great puzzle with a brilliant ending.",
		},
		{
			book: entities.Book{
				UserID: anna.ID, Title: "Pride and Prejudice", Author: "Jane Austen",
				ISBN: "9780141439518", TotalPages: 432, CurrentPage: 432,
				Status: entities.StatusCompleted, Rating: rating(5),
				StartDate: date("2024-08-01"), FinishDate: date("2024-08-20"),
			},
			categories: []string{"Romance", "Fiction"},
		},
		{
			book: entities.Book{
				UserID: anna.ID, Title: "Steve Jobs", Author: "Walter Isaacson",
				ISBN: "9781451648539", TotalPages: 656, CurrentPage: 656,
				Status: entities.StatusCompleted, Rating: rating(5),
				StartDate: date("2024-05-01"), FinishDate: date("2024-05-30"),
			},
			categories: []string{"Biography"},
		},
		{
			book: entities.Book{
				UserID: anna.ID, Title: "Atomic Habits", Author: "James Clear",
				ISBN: "9780735211292", TotalPages: 320, CurrentPage: 160,
				Status: entities.StatusReading, StartDate: date("2025-01-15"),
			},
			categories: []string{"Self-Help"},
		},
		{
			book: entities.Book{
				UserID: anna.ID, Title: "Zero to One", Author: "Peter Thiel",
				ISBN: "9780804139298", TotalPages: 224, CurrentPage: 0,
				Status: entities.StatusToRead,
			},
			categories: []string{"Business"},
		},
	}

	for _, entry := range demoBooks {
		book := entry.book
		if err := db.Omit("Categories", "User", "Reviews").Create(&book).Error; err != nil {
			return fmt.Errorf("failed to create demo book %q: %w", book.Title, err)
		}
		for _, name := range entry.categories {
			categoryID, ok := catByName[name]
			if !ok {
				continue
			}
			link := map[string]any{"book_id": book.ID, "category_id": categoryID}
			if err := db.Table("book_categories").Create(link).Error; err != nil {
				return fmt.Errorf("failed to link demo category %q: %w", name, err)
			}
		}
		if entry.review != "" {
			review := entities.Review{BookID: book.ID, UserID: book.UserID, Content: entry.review}
			if err := db.Create(&review).Error; err != nil {
				return fmt.Errorf("failed to create demo review: %w", err)
			}
		}
	}

	demoGoals := []entities.ReadingGoal{
		{UserID: jan.ID, Year: 2024, TargetBooks: 20, CurrentBooks: 3},
		{UserID: jan.ID, Year: 2025, TargetBooks: 25},
		{UserID: anna.ID, Year: 2024, TargetBooks: 15, CurrentBooks: 3},
		{UserID: anna.ID, Year: 2025, TargetBooks: 20},
	}
	if err := db.Create(&demoGoals).Error; err != nil {
		return fmt.Errorf("failed to create demo goals: %w", err)
	}

	log.Printf("Seeded demo data: %d users, %d books", len(demoUsers), len(demoBooks))
	log.Printf("Demo credentials: jan.kowalski@example.com / password123")

	return nil
}
