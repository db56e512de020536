// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"plusnine/internal/auth"
	"plusnine/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password every generated account gets.
const DefaultPassword = "password123"

// SeedOptions tunes factory behaviour.
type SeedOptions struct {
	// DryRun logs what would be created without touching the database.
	DryRun bool
	// SkipHashing stores a fixed digest instead of deriving one per user.
	// Much faster for large seeds; generated accounts cannot log in.
	SkipHashing bool
	// MaxDays bounds how far in the past created_at timestamps are spread.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db     *gorm.DB
	opts   SeedOptions
	hasher *auth.Hasher
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, hasher: auth.NewHasher(), nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Role:     models.RoleMember,
	}

	if f.opts.SkipHashing {
		user.PasswordHash = []byte("seed-hash")
		user.PasswordSalt = []byte("seed-salt")
	} else {
		hash, salt, err := f.hasher.Hash(DefaultPassword)
		if err != nil {
			return nil, fmt.Errorf("hash seed password: %w", err)
		}
		user.PasswordHash = hash
		user.PasswordSalt = salt
	}

	user.CreatedAt = f.spreadTimestamp()

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: username=%s email=%s role=%s", user.Username, user.Email, user.Role)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFriendRequest persists a directed friend request between two users
// in the given state. Accepted requests do not create the friendship edge;
// use CreateFriendship for that.
func (f *Factory) CreateFriendRequest(sender, receiver *models.User, status models.FriendRequestStatus) (*models.FriendRequest, error) {
	request := &models.FriendRequest{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Status:     status,
	}

	if f.opts.DryRun {
		f.nextID++
		request.ID = f.nextID
		log.Printf("[dry-run] CreateFriendRequest: %d -> %d (%s)", sender.ID, receiver.ID, status)
		return request, nil
	}

	if err := f.db.Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// CreateFriendship persists the symmetric friendship edge between two users.
func (f *Factory) CreateFriendship(a, b *models.User) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateFriendship: %d <-> %d", a.ID, b.ID)
		return nil
	}
	edge := models.NewFriendship(a.ID, b.ID)
	return f.db.Create(&edge).Error
}

// CreateObjective constructs and persists a savings objective for the given
// user. Progress and completion are derived on save.
func (f *Factory) CreateObjective(user *models.User, overrides ...func(*models.Objective)) (*models.Objective, error) {
	target := float64(gofakeit.Number(100, 5000))
	objective := &models.Objective{
		UserID:           user.ID,
		ObjectiveName:    fmt.Sprintf("%s %s", gofakeit.AdjectiveDescriptive(), gofakeit.NounConcrete()),
		CurrentAmount:    target * float64(gofakeit.Number(0, 100)) / 100,
		AmountToComplete: target,
		CreatedAt:        f.spreadTimestamp(),
	}

	for _, override := range overrides {
		override(objective)
	}

	if f.opts.DryRun {
		f.nextID++
		objective.ID = f.nextID
		log.Printf("[dry-run] CreateObjective: user=%d name=%q target=%.2f", objective.UserID, objective.ObjectiveName, objective.AmountToComplete)
		return objective, nil
	}

	if err := f.db.Create(objective).Error; err != nil {
		return nil, err
	}
	return objective, nil
}

// spreadTimestamp returns a created_at in the recent past so seeded data
// does not all share a single timestamp.
func (f *Factory) spreadTimestamp() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}
