// Package seed creates demo data for local development. Never run it against
// a production database.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"devfreebies/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder builds and persists fake users and resources.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seedable data.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.Bookmark{}, &models.Upvote{}, &models.Resource{}, &models.User{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// EnsureAdmin creates (or reuses) the bootstrap admin account.
func (s *Seeder) EnsureAdmin(email, password string) (*models.User, error) {
	if email == "" {
		email = "admin@devfreebies.dev"
	}
	if password == "" {
		password = "changeme123"
	}

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Username:           "admin",
		Email:              email,
		Password:           string(hash),
		Role:               models.RoleAdmin,
		Avatar:             models.DefaultAvatar,
		EmailNotifications: true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return nil, err
	}
	log.Printf("Created admin account %s", email)
	return admin, nil
}

// SeedUsers creates n fake users with a shared known password.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username:           fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:              fmt.Sprintf("user%d_%s", i, gofakeit.Email()),
			Password:           string(hash),
			Role:               models.RoleUser,
			Avatar:             fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", gofakeit.FirstName()),
			EmailNotifications: gofakeit.Bool(),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))
	return users, nil
}

// SeedResources creates n fake resources spread across the seeded users.
// Roughly two thirds are approved, and a handful of those get featured.
func (s *Seeder) SeedResources(n int, users []*models.User) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to attribute resources to")
	}

	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]

		status := models.StatusPending
		switch s.rand.Intn(10) {
		case 0:
			status = models.StatusFeatured
		case 1, 2, 3, 4, 5, 6:
			status = models.StatusApproved
		}

		resource := &models.Resource{
			Title:         gofakeit.AppName(),
			Description:   gofakeit.Sentence(12),
			URL:           fmt.Sprintf("https://%s/%s", gofakeit.DomainName(), gofakeit.UUID()),
			Category:      models.ResourceCategories[s.rand.Intn(len(models.ResourceCategories))],
			Tags:          s.randomTags(),
			Status:        status,
			Visits:        s.rand.Intn(500),
			SubmittedByID: author.ID,
			CreatedAt:     time.Now().Add(-time.Duration(s.rand.Intn(90*24)) * time.Hour),
		}
		resource.SetDomain()

		if err := s.db.Create(resource).Error; err != nil {
			return err
		}

		// Reward the author the same way the live create path does.
		err := s.db.Model(&models.User{}).
			Where("id = ?", author.ID).
			UpdateColumn("contribution_score", gorm.Expr("contribution_score + ?", 5)).Error
		if err != nil {
			return err
		}

		// A few organic upvotes and bookmarks from random users.
		for _, voter := range s.pickUsers(users, s.rand.Intn(6)) {
			s.db.Create(&models.Upvote{UserID: voter.ID, ResourceID: resource.ID})
		}
		for _, reader := range s.pickUsers(users, s.rand.Intn(3)) {
			s.db.Create(&models.Bookmark{UserID: reader.ID, ResourceID: resource.ID})
		}
	}
	log.Printf("Created %d resources", n)
	return nil
}

func (s *Seeder) randomTags() []string {
	count := s.rand.Intn(models.MaxTags + 1)
	tags := make([]string, 0, count)
	seen := map[string]bool{}
	for len(tags) < count {
		tag := models.ResourceTags[s.rand.Intn(len(models.ResourceTags))]
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

func (s *Seeder) pickUsers(users []*models.User, n int) []*models.User {
	if n > len(users) {
		n = len(users)
	}
	shuffled := make([]*models.User, len(users))
	copy(shuffled, users)
	s.rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
