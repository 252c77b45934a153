package testutil

import (
	"context"

	"github.com/pointward/backend/internal/entity"
	"github.com/pointward/backend/internal/repository"
)

var (
	Admin = entity.User{
		Base:         entity.Base{ID: "admin"},
		Name:         "admin",
		Role:         entity.RoleAdmin,
		ReferralCode: "ADMINCODE",
	}

	User1 = entity.User{
		Base:           entity.Base{ID: "user1"},
		Name:           "user1",
		Role:           entity.RoleUser,
		Points:         10000,
		LifetimePoints: 10000,
		ReferralCode:   "USER1CODE",
	}

	User2 = entity.User{
		Base:         entity.Base{ID: "user2"},
		Name:         "user2",
		Role:         entity.RoleUser,
		ReferralCode: "USER2CODE",
	}

	Mission1 = entity.Mission{
		Base:          entity.Base{ID: "mission1"},
		Title:         "Follow us on social media",
		Points:        100,
		RequiresProof: false,
		Status:        entity.MissionActive,
		CreatedBy:     Admin.ID,
	}

	Mission2 = entity.Mission{
		Base:          entity.Base{ID: "mission2"},
		Title:         "Share a screenshot of your review",
		Points:        200,
		RequiresProof: true,
		Status:        entity.MissionActive,
		CreatedBy:     Admin.ID,
	}
)

func CreateFixtureDb(ctx context.Context) {
	insertUsers(ctx)
	insertMissions(ctx)
}

func insertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, user := range []entity.User{Admin, User1, User2} {
		u := user
		if err := userRepo.Create(ctx, &u); err != nil {
			panic(err)
		}
	}
}

func insertMissions(ctx context.Context) {
	missionRepo := repository.NewMissionRepository()
	for _, mission := range []entity.Mission{Mission1, Mission2} {
		m := mission
		if err := missionRepo.Create(ctx, &m); err != nil {
			panic(err)
		}
	}
}
