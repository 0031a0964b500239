package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"juicebox/internal/apperror"
	"juicebox/internal/config"
	"juicebox/internal/models"
	"juicebox/internal/repositories"
)

type seedUser struct {
	username, password, name, location string
}

type seedPost struct {
	author, title, content string
	tags                   []string
}

var seedUsers = []seedUser{
	{"albert", "bertie99", "Al Bert", "Sidney, Australia"},
	{"sandra", "2sandy4me", "Just Sandra", "Ain't tellin'"},
	{"glamgal", "soglam", "Joshua", "Upper East Side"},
}

var seedPosts = []seedPost{
	{"albert", "First Post", "This is my first post. I hope I love writing blogs as much as I love writing them.", []string{"#happy", "#youcandoanything"}},
	{"sandra", "How does this work?", "Seriously, does this even do anything?", []string{"#happy", "#worst-day-ever"}},
	{"glamgal", "Living the Glam Life", "Do you even? I swear that half of you are posing.", []string{"#happy", "#youcandoanything", "#canmandoeverything"}},
}

// seedDatabase loads the demo data. Users that already exist are left alone,
// and posts are only created for authors without any.
func seedDatabase(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	opts := []repositories.Option{repositories.WithOpTimeout(cfg.Database.OpTimeout)}
	userRepo := repositories.NewGORMUserRepository(db, opts...)
	postRepo := repositories.NewGORMPostRepository(db, opts...)

	ids := make(map[string]uint, len(seedUsers))
	for _, su := range seedUsers {
		user, err := userRepo.GetByUsername(ctx, su.username)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		if user == nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", su.username, err)
			}
			user = &models.User{
				Username: su.username,
				Password: string(hash),
				Name:     su.name,
				Location: su.location,
				Active:   true,
			}
			if err := userRepo.Create(ctx, user); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", su.username, err)
			}
			logger.Info("seeded user", zap.String("username", su.username), zap.Uint("id", user.ID))
		}
		ids[su.username] = user.ID
	}

	for _, sp := range seedPosts {
		authorID := ids[sp.author]
		existing, err := postRepo.GetByAuthor(ctx, authorID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}

		post, err := postRepo.Create(ctx, authorID, sp.title, sp.content, sp.tags)
		if err != nil {
			return fmt.Errorf("failed to seed post %q: %w", sp.title, err)
		}
		logger.Info("seeded post", zap.Uint("id", post.ID), zap.String("author", sp.author))
	}
	return nil
}
