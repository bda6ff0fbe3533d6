package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"piq/internal/config"
	"piq/internal/database"
	"piq/internal/logging"
	"piq/internal/modules/auth"
	"piq/internal/modules/review"
	"piq/internal/pkg/apperr"
	"piq/internal/pkg/jwt"
	"piq/internal/repository"
)

type demoProfile struct {
	email, nickname, gender, mbti string
	age                           int
}

var demoProfiles = []demoProfile{
	{"aru@piq.kz", "aru", "FEMALE", "ENFP", 23},
	{"dana@piq.kz", "dana", "FEMALE", "ISTJ", 26},
	{"timur@piq.kz", "timur", "MALE", "INTP", 25},
	{"ali@piq.kz", "ali", "MALE", "ESFJ", 28},
}

const demoPassword = "demo1234!"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()
	logger := logging.New(cfg.App.Env, cfg.App.LogLevel)

	db, err := database.Connect(cfg.App.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(ctx, db, repository.Models()...); err != nil {
		log.Fatal("migrate failed:", err)
	}

	users := repository.NewUserRepository(db)
	codec := jwt.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	issuer := jwt.NewIssuer(codec, cfg.Auth.JWTAccessTTL, cfg.Auth.RefreshTTL)

	// seeding never logs anyone in, so no refresh token store is needed
	authService := auth.NewService(users, nil, issuer, jwt.NewValidator(codec), logger, false)
	authService.BootstrapAdmin(ctx, cfg.Admin.Enabled, cfg.Admin.Email, cfg.Admin.Password)

	if seedDemo, _ := strconv.ParseBool(os.Getenv("SEED_DEMO")); !seedDemo {
		log.Println("Seed completed (set SEED_DEMO=true for demo profiles)")
		return
	}

	reviews := review.NewService(repository.NewReviewRepository(db), users)

	log.Println("Creating demo profiles...")
	for i, p := range demoProfiles {
		u, err := authService.SignUp(ctx, auth.SignUpRequest{
			Email:       p.email,
			Nickname:    p.nickname,
			Password:    demoPassword,
			KakaoTalkID: p.nickname + "_kakao",
			Age:         p.age,
			Gender:      p.gender,
			MBTI:        p.mbti,
			Introduce:   fmt.Sprintf("Hi, I am %s.", p.nickname),
		})
		if errors.Is(err, apperr.AlreadyRegistered) {
			log.Printf("skip %s: already registered", p.email)
			continue
		}
		if err != nil {
			log.Fatalf("create %s: %v", p.email, err)
		}

		if _, err := reviews.Create(ctx, u.ID, review.CreateReviewRequest{
			Title:   "Great party",
			Content: "Met a lot of people.",
			Rate:    4 + i%2,
		}); err != nil {
			log.Fatalf("review for %s: %v", p.email, err)
		}
		log.Printf("created %s / %s", p.email, demoPassword)
	}

	log.Println("Seed completed")
}
