// Package main seeds a CookFeed data directory with demo users, recipes
// and engagement, for local development.
//
// Run it while the server is stopped; the search index is written directly.
//
// Usage:
//
//	DATA_PATH=~/cookfeed go run ./cmd/seed
//	DATA_PATH=~/cookfeed go run ./cmd/seed --users 8 --recipes 5
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/cookfeed/cookfeed-server/internal/auth"
	"github.com/cookfeed/cookfeed-server/internal/domain"
	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/logger"
	"github.com/cookfeed/cookfeed-server/internal/policy"
	"github.com/cookfeed/cookfeed-server/internal/search"
	"github.com/cookfeed/cookfeed-server/internal/service"
	"github.com/cookfeed/cookfeed-server/internal/store/sqlite"
)

var (
	userCount   = flag.Int("users", 5, "Number of demo users to create")
	recipeCount = flag.Int("recipes", 4, "Recipes per user")
)

// seedPassword is shared by every demo account.
const seedPassword = "cookfeed-demo"

var dishes = []struct {
	title string
	tags  []string
}{
	{"Cacio e Pepe", []string{"Pasta", "Italian", "Quick"}},
	{"Shakshuka", []string{"Breakfast", "Vegetarian"}},
	{"Chicken Adobo", []string{"Filipino", "Dinner"}},
	{"Miso Soup", []string{"Japanese", "Soup", "Quick"}},
	{"Lemon Risotto", []string{"Italian", "Vegetarian"}},
	{"Beef Pho", []string{"Vietnamese", "Soup"}},
	{"Chana Masala", []string{"Indian", "Vegan"}},
	{"Banana Bread", []string{"Baking", "Dessert"}},
	{"Fish Tacos", []string{"Mexican", "Dinner"}},
	{"Greek Salad", []string{"Salad", "Vegetarian", "Quick"}},
}

var names = []string{"Ada", "Bao", "Carmen", "Dev", "Eun-ji", "Farah", "Gus", "Hana", "Ines", "Jomo"}

var comments = []string{
	"Made this last night, the whole family loved it.",
	"Added extra garlic. No regrets.",
	"How long does this keep in the fridge?",
	"Perfect weeknight dinner.",
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/cookfeed")
	}
	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		log.Fatalf("Failed to create data path: %v", err)
	}

	fmt.Printf("Seeding data path: %s\n", dataPath)

	quiet := logger.Discard().Logger
	db, err := sqlite.Open(filepath.Join(dataPath, "cookfeed.db"), quiet)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	index, err := search.Open(search.Options{DataPath: dataPath, Logger: quiet})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	key, err := auth.LoadOrGenerateKey(dataPath)
	if err != nil {
		log.Fatalf("Failed to load auth key: %v", err)
	}
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	pol := policy.New()
	authService := service.NewAuthService(db, tokens, service.NewSessionService(db, tokens, quiet), quiet)
	recipes := service.NewRecipeService(db, pol, service.NewSearchService(index, db, quiet), quiet)
	engagement := service.NewEngagementService(db, pol, quiet)
	social := service.NewSocialService(db, pol, quiet)
	commentService := service.NewCommentService(db, pol, quiet)

	ctx := context.Background()
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

	n := min(*userCount, len(names))
	userIDs := make([]string, 0, n)
	for i := range n {
		email := fmt.Sprintf("%s@example.com", domainSafe(names[i]))
		resp, err := authService.Register(ctx, service.RegisterRequest{
			Email:    email,
			Password: seedPassword,
			Name:     names[i],
		})
		if err != nil {
			if isConflict(err) {
				fmt.Printf("  user %s already exists, skipping\n", email)
				continue
			}
			log.Fatalf("Failed to create user %s: %v", email, err)
		}
		userIDs = append(userIDs, resp.User.ID)
		fmt.Printf("  created user %s (%s)\n", names[i], email)
	}

	var recipeIDs []string
	for _, userID := range userIDs {
		for range *recipeCount {
			dish := dishes[rng.IntN(len(dishes))]
			visibility := domain.VisibilityPublic
			if rng.IntN(5) == 0 {
				visibility = domain.VisibilityPrivate
			}
			summary, err := recipes.Create(ctx, userID, service.CreateRecipeRequest{
				Title:        dish.title,
				Description:  "A household favorite.",
				CookTime:     fmt.Sprintf("%d min", 15+rng.IntN(60)),
				Servings:     fmt.Sprintf("%d", 2+rng.IntN(4)),
				Visibility:   visibility,
				Tags:         dish.tags,
				Ingredients:  []string{"salt", "pepper", "olive oil"},
				Instructions: []string{"Prep everything.", "Cook it.", "Serve."},
			})
			if err != nil {
				log.Fatalf("Failed to create recipe: %v", err)
			}
			if visibility == domain.VisibilityPublic {
				recipeIDs = append(recipeIDs, summary.Recipe.ID)
			}
		}
	}
	fmt.Printf("  created %d public recipes\n", len(recipeIDs))

	// Everyone follows a few people and engages with a few recipes.
	var likes, follows, commented int
	for _, userID := range userIDs {
		for _, other := range userIDs {
			if other != userID && rng.IntN(2) == 0 {
				if _, err := social.Follow(ctx, userID, other); err == nil {
					follows++
				}
			}
		}
		for _, recipeID := range recipeIDs {
			switch rng.IntN(4) {
			case 0:
				if _, err := engagement.Like(ctx, userID, recipeID); err == nil {
					likes++
				}
			case 1:
				_, err := commentService.Add(ctx, userID, recipeID, service.CommentRequest{
					Content: comments[rng.IntN(len(comments))],
				})
				if err == nil {
					commented++
				}
			}
		}
	}

	fmt.Printf("  %d follows, %d likes, %d comments\n", follows, likes, commented)
	fmt.Printf("\nDone. Every demo account uses the password %q.\n", seedPassword)
}

func isConflict(err error) bool {
	var domainErr *domainerrors.Error
	return errors.As(err, &domainErr) && domainErr.Code == domainerrors.CodeConflict
}

// domainSafe lowercases a display name into an email local part.
func domainSafe(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
		}
	}
	return string(out)
}
