package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedInterests = []string{
	"hiking", "jazz", "cooking", "travel", "gaming",
	"yoga", "photography", "wine", "running", "art",
}

// SeedTestData resets the database and populates it with demo users,
// preferences, interests and a randomized swipe mix.
//
// Behavior:
//  1. Clears engine tables.
//  2. Creates 20 users (10 male, 10 female) around central London with
//     hashed passwords, ages 22..41 and 2-4 interest tags each.
//  3. Gives everyone an age/gender preference window.
//  4. Generates swipes with ~70% likes; every 3rd decision also gets a
//     reciprocal like so mutual matches exist out of the box.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(database *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"daily_analytics", "queue_entries", "matches", "swipes", "user_interests", "preferences", "users"} {
		if err := database.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch database.Dialector.Name() {
	case "mysql":
		database.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
		database.Exec("ALTER TABLE swipes AUTO_INCREMENT = 1")
		database.Exec("ALTER TABLE matches AUTO_INCREMENT = 1")
	case "sqlite":
		database.Exec("DELETE FROM sqlite_sequence WHERE name IN ('users', 'swipes', 'matches')")
	}

	log.Println("Cleared existing data")

	// --- Seed users ---
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	for i := 1; i <= 20; i++ {
		gender := "male"
		if i > 10 {
			gender = "female"
		}

		// jitter around central London
		lat := 51.5074 + (r.Float64()-0.5)*0.3
		lon := -0.1278 + (r.Float64()-0.5)*0.3

		user := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Gender:       gender,
			Age:          22 + r.Intn(20),
			Lat:          &lat,
			Lon:          &lon,
			Active:       true,
			LastActiveAt: time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := database.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		wanted := "female"
		if gender == "female" {
			wanted = "male"
		}
		pref := Preference{
			UserID:        user.ID,
			GenderFilter:  wanted,
			AgeMin:        20,
			AgeMax:        45,
			MaxDistanceKm: 50,
		}
		if err := database.Create(&pref).Error; err != nil {
			return fmt.Errorf("failed to seed preference: %w", err)
		}

		for _, idx := range r.Perm(len(seedInterests))[:2+r.Intn(3)] {
			tag := UserInterest{UserID: user.ID, Tag: seedInterests[idx]}
			if err := database.Create(&tag).Error; err != nil {
				return fmt.Errorf("failed to seed interest: %w", err)
			}
		}
	}
	log.Println("Seeded 20 users with preferences and interests.")

	// --- Seed swipes ---
	var users []User
	if err := database.Find(&users).Error; err != nil {
		return err
	}
	byID := make(map[uint64]User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	counter := 0
	for _, actor := range users {
		for j := 0; j < 12; j++ {
			target, ok := byID[users[r.Intn(len(users))].ID]
			if !ok || actor.ID == target.ID || actor.Gender == target.Gender {
				continue
			}

			kind := KindPass
			if r.Intn(100) < 70 {
				kind = KindLike
			}
			if r.Intn(100) < 5 {
				kind = KindSuperLike
			}

			// guarantee mutual likes every 3rd decision
			if counter%3 == 0 {
				kind = KindLike
				recip := Swipe{ActorID: target.ID, TargetID: actor.ID, Kind: KindLike, Active: seedActive()}
				database.Create(&recip) // duplicate pairs just fail the unique index
			}

			swipe := Swipe{ActorID: actor.ID, TargetID: target.ID, Kind: kind, Active: seedActive()}
			database.Create(&swipe)

			counter++
		}
	}
	log.Printf("Seeded ~%d swipes.", counter)

	return nil
}

func seedActive() *bool {
	b := true
	return &b
}
