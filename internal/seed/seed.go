package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"plusnine/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	// NumUsers is how many generated accounts to create on top of any
	// fixture users.
	NumUsers int
	// ObjectivesPerUser is the upper bound of objectives per account.
	ObjectivesPerUser int
	// FriendDensity is the fraction (0..1) of user pairs that end up
	// friends. The rest get a mix of pending and rejected requests.
	FriendDensity float64
	// FixturesPath optionally points at a YAML file of deterministic
	// accounts created before the generated ones.
	FixturesPath string
	// ShouldClean truncates existing data first.
	ShouldClean bool
	// DryRun and SkipHashing are passed through to the factory.
	DryRun      bool
	SkipHashing bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users...", opts.NumUsers)

	if opts.ShouldClean && !opts.DryRun {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	factory := NewFactory(db, SeedOptions{DryRun: opts.DryRun, SkipHashing: opts.SkipHashing})

	users := make([]*models.User, 0, opts.NumUsers)

	if opts.FixturesPath != "" {
		fixtures, err := LoadFixtures(opts.FixturesPath)
		if err != nil {
			return err
		}
		byName, err := fixtures.Apply(db, factory)
		if err != nil {
			return fmt.Errorf("failed to apply fixtures: %w", err)
		}
		for _, u := range byName {
			users = append(users, u)
		}
		log.Printf("✓ %d fixture users applied", len(byName))
	}

	generated, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	users = append(users, generated...)
	log.Printf("✓ %d generated users created", len(generated))

	accepted, pending, rejected, err := createFriendGraph(factory, users, opts.FriendDensity)
	if err != nil {
		return fmt.Errorf("failed to create friend graph: %w", err)
	}
	log.Printf("✓ friend graph: %d friendships, %d pending, %d rejected", accepted, pending, rejected)

	objectives, err := createObjectives(factory, users, opts.ObjectivesPerUser)
	if err != nil {
		return fmt.Errorf("failed to create objectives: %w", err)
	}
	log.Printf("✓ %d objectives created", objectives)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE objectives, friendships, friend_requests, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			// Username collisions are possible with generated names.
			log.Printf("Skipping user %d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

// createFriendGraph walks every user pair once and rolls it into one of
// four buckets: friends (request accepted plus the edge), pending in a
// random direction, rejected, or no relationship at all.
func createFriendGraph(factory *Factory, users []*models.User, density float64) (accepted, pending, rejected int, err error) {
	if density <= 0 {
		density = 0.2
	}
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			a, b := users[i], users[j]
			if r.Intn(2) == 1 {
				a, b = b, a
			}

			roll := r.Float64()
			switch {
			case roll < density:
				if _, err = factory.CreateFriendRequest(a, b, models.FriendRequestAccepted); err != nil {
					return
				}
				if err = factory.CreateFriendship(a, b); err != nil {
					return
				}
				accepted++
			case roll < density+0.1:
				if _, err = factory.CreateFriendRequest(a, b, models.FriendRequestPending); err != nil {
					return
				}
				pending++
			case roll < density+0.15:
				if _, err = factory.CreateFriendRequest(a, b, models.FriendRequestRejected); err != nil {
					return
				}
				rejected++
			}
		}
	}
	return
}

func createObjectives(factory *Factory, users []*models.User, perUser int) (int, error) {
	if perUser <= 0 {
		perUser = 3
	}
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	total := 0
	for _, user := range users {
		for n := r.Intn(perUser + 1); n > 0; n-- {
			if _, err := factory.CreateObjective(user); err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
