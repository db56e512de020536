// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"plusnine/internal/bootstrap"
	"plusnine/internal/config"
	"plusnine/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	objectives := flag.Int("objectives", 3, "Max objectives per user")
	density := flag.Float64("density", 0.2, "Fraction of user pairs that become friends")
	fixtures := flag.String("fixtures", "", "YAML file of deterministic accounts to create first")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	fast := flag.Bool("fast", false, "Skip password hashing (seeded accounts cannot log in)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, density=%.2f, clean=%v\n", *numUsers, *density, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("❌ Refusing to seed a production database")
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = seed.Seed(db, seed.Options{
		NumUsers:          *numUsers,
		ObjectivesPerUser: *objectives,
		FriendDensity:     *density,
		FixturesPath:      *fixtures,
		ShouldClean:       *shouldClean,
		DryRun:            *dryRun,
		SkipHashing:       *fast,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 Generated users have the password: %s", seed.DefaultPassword)
}
