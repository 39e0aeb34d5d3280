// Seeds a local database with members, communities, posts, events and
// registrations so the discover feed has something to compose. Writes
// go straight to Postgres: the feed service itself is read-only.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/SnooSpace/discover-service/internal/store"
)

func envOrDefault(key, d string) string {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	return v
}

const (
	numMembers     = 40
	numCommunities = 8
	numPosts       = 200
	numEvents      = 12
)

func main() {
	gofakeit.Seed(time.Now().UnixNano())

	dbHost := envOrDefault("DB_HOST", "localhost")
	dbPort := envOrDefault("DB_PORT", "5432")
	dbName := envOrDefault("DB_NAME", "snoospace_db")
	dbUser := envOrDefault("DB_USER", "snoospace_user")
	dbPass := envOrDefault("DB_PASS", "snoospace")

	pgUrl := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", pgUrl)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := store.RunMigrations(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	memberIDs := make([]string, 0, numMembers)
	for i := 0; i < numMembers; i++ {
		id := uuid.New().String()
		_, err := db.Exec(`INSERT INTO members (id, name, username, avatar_url) VALUES ($1,$2,$3,$4)`,
			id, gofakeit.Name(), gofakeit.Username(), gofakeit.ImageURL(128, 128))
		if err != nil {
			log.Fatalf("insert member: %v", err)
		}
		memberIDs = append(memberIDs, id)
	}

	communityIDs := make([]string, 0, numCommunities)
	for i := 0; i < numCommunities; i++ {
		id := uuid.New().String()
		_, err := db.Exec(`INSERT INTO communities (id, name, username, avatar_url) VALUES ($1,$2,$3,$4)`,
			id, gofakeit.Company(), gofakeit.Username(), gofakeit.ImageURL(128, 128))
		if err != nil {
			log.Fatalf("insert community: %v", err)
		}
		communityIDs = append(communityIDs, id)
	}

	for i := 0; i < numPosts; i++ {
		authorID := memberIDs[gofakeit.Number(0, numMembers-1)]
		authorType := "member"
		if gofakeit.Bool() && gofakeit.Bool() {
			authorID = communityIDs[gofakeit.Number(0, numCommunities-1)]
			authorType = "community"
		}
		images := fmt.Sprintf(`["%s"]`, gofakeit.ImageURL(640, 480))
		createdAt := time.Now().Add(-time.Duration(gofakeit.Number(0, 30*24)) * time.Hour)
		_, err := db.Exec(`INSERT INTO posts (id, author_id, author_type, caption, image_urls, like_count, comment_count, created_at)
VALUES ($1,$2,$3,$4,$5::jsonb,$6,$7,$8)`,
			uuid.New().String(), authorID, authorType, gofakeit.Sentence(12), images,
			gofakeit.Number(0, 300), gofakeit.Number(0, 60), createdAt)
		if err != nil {
			log.Fatalf("insert post: %v", err)
		}
	}

	for i := 0; i < numEvents; i++ {
		eventID := uuid.New().String()
		start := time.Now().Add(time.Duration(gofakeit.Number(-3*24, 21*24)) * time.Hour)
		_, err := db.Exec(`INSERT INTO events (id, community_id, title, description, location, banner_url, start_datetime, is_published)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			eventID, communityIDs[gofakeit.Number(0, numCommunities-1)],
			gofakeit.HipsterSentence(4), gofakeit.Paragraph(1, 3, 10, " "),
			gofakeit.City(), gofakeit.ImageURL(960, 320), start, gofakeit.Number(0, 9) > 1)
		if err != nil {
			log.Fatalf("insert event: %v", err)
		}

		for r := gofakeit.Number(0, 25); r > 0; r-- {
			status := "registered"
			if gofakeit.Number(0, 9) == 0 {
				status = "cancelled"
			}
			_, err := db.Exec(`INSERT INTO event_registrations (id, event_id, member_id, registration_status) VALUES ($1,$2,$3,$4)`,
				uuid.New().String(), eventID, memberIDs[gofakeit.Number(0, numMembers-1)], status)
			if err != nil {
				log.Fatalf("insert registration: %v", err)
			}
		}
	}

	log.Printf("seeded %d members, %d communities, %d posts, %d events", numMembers, numCommunities, numPosts, numEvents)
}
