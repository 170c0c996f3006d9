package main

import (
	"fmt"
	"time"

	"linkup/pkg/config"
	"linkup/pkg/database"
	"linkup/pkg/logger"
	"linkup/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	testUsers := []struct {
		name     string
		email    string
		password string
	}{
		{"Alice Carter", "alice@test.com", "password123"},
		{"Bob Mehta", "bob@test.com", "password123"},
		{"Charlie Nguyen", "charlie@test.com", "password123"},
		{"Diana Okafor", "diana@test.com", "password123"},
	}

	userIDs := make([]uint, 0, len(testUsers))

	for _, userData := range testUsers {
		var existing models.User
		result := db.Where("email = ?", userData.email).First(&existing)
		if result.Error == nil {
			log.Info("User %s already exists, skipping", userData.email)
			userIDs = append(userIDs, existing.ID)
			continue
		}

		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)
		hashed := string(hashedPassword)
		user := &models.User{
			Email:      userData.email,
			Password:   &hashed,
			IsVerified: true,
		}
		if err := db.Create(user).Error; err != nil {
			log.Error("Failed to create user %s: %v", userData.email, err)
			continue
		}

		if err := db.Create(&models.Profile{UserID: user.ID, Name: userData.name}).Error; err != nil {
			log.Error("Failed to create profile for %s: %v", userData.email, err)
		}

		log.Info("Created user: %s (%s)", userData.name, userData.email)
		userIDs = append(userIDs, user.ID)
	}

	if len(userIDs) < 2 {
		return fmt.Errorf("not enough users to seed posts")
	}

	contents := []string{
		"Excited to share that I've started a new role as a backend engineer! #newjob #golang",
		"Hot take: code review is the highest-leverage hour of your week. #engineering",
		"Wrapped up a migration from REST polling to webhooks today. Latency dropped 10x.",
		"Looking for recommendations: best talks on distributed transactions? #databases",
		"Our team is hiring! DM me if you love Postgres and clean APIs. #hiring",
		"Three years at the same company this week. Grateful for the people I get to build with.",
	}

	postIDs := make([]uint, 0, len(contents))
	for i, content := range contents {
		post := &models.Post{
			UserID:   userIDs[i%len(userIDs)],
			Content:  content,
			PostType: models.PostTypePublic,
		}
		if err := db.Create(post).Error; err != nil {
			log.Error("Failed to create post: %v", err)
			continue
		}
		postIDs = append(postIDs, post.ID)
	}
	log.Info("Created %d posts", len(postIDs))

	// Cross-engagement: every user likes and comments on the posts of others.
	// Counters are written alongside the rows so the feed looks lived-in.
	for _, postID := range postIDs {
		var post models.Post
		if err := db.First(&post, postID).Error; err != nil {
			continue
		}

		likes, comments := 0, 0
		for _, userID := range userIDs {
			if userID == post.UserID {
				continue
			}

			if err := db.Create(&models.Like{PostID: postID, UserID: userID}).Error; err == nil {
				likes++
			}

			if comments < 2 {
				comment := &models.Comment{
					PostID:  postID,
					UserID:  userID,
					Content: "Congrats, well deserved!",
				}
				if err := db.Create(comment).Error; err == nil {
					comments++
				}
			}
		}

		db.Model(&models.Post{}).Where("id = ?", postID).Updates(map[string]interface{}{
			"like_count":       likes,
			"comment_count":    comments,
			"last_activity_at": time.Now(),
		})
	}

	log.Info("Created test engagement")
	return nil
}
