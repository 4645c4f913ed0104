package postgres

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"devconnector-api/internal/domain"
	"devconnector-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
)

// ProfileRepoIntegrationSuite runs against a real PostgreSQL named by
// TEST_DATABASE_URL. The schema is migrated once and truncated between tests.
type ProfileRepoIntegrationSuite struct {
	suite.Suite
	pool     *pgxpool.Pool
	profiles domain.ProfileRepository
	users    domain.UserRepository
}

func TestProfileRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	suite.Run(t, &ProfileRepoIntegrationSuite{})
}

func (s *ProfileRepoIntegrationSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	s.Require().NoError(database.Migrate(dsn))

	pool, err := database.NewPostgresConnection(context.Background(), dsn)
	s.Require().NoError(err)
	s.pool = pool
	s.profiles = NewProfileRepository(pool)
	s.users = NewUserRepository(pool)
}

func (s *ProfileRepoIntegrationSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *ProfileRepoIntegrationSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE profiles, users`)
	s.Require().NoError(err)
}

func (s *ProfileRepoIntegrationSuite) seedUser(name string) string {
	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.users.Create(context.Background(), user))
	return user.ID
}

func (s *ProfileRepoIntegrationSuite) TestRepeatedUpsertKeepsOneProfile() {
	ctx := context.Background()
	owner := s.seedUser("alice")

	first, err := s.profiles.Upsert(ctx, domain.ProfileFields{UserID: owner, Status: "Developer", Skills: []string{"go"}})
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		again, err := s.profiles.Upsert(ctx, domain.ProfileFields{UserID: owner, Status: "Lead", Skills: []string{"go", "sql"}})
		s.Require().NoError(err)
		s.Equal(first.ID, again.ID)
	}

	list, err := s.profiles.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Lead", list[0].Status)
	s.Equal([]string{"go", "sql"}, list[0].Skills)
	s.Equal("alice", list[0].User.Name)
}

func (s *ProfileRepoIntegrationSuite) TestUpsertKeepsAbsentFieldsAndMergesSocial() {
	ctx := context.Background()
	owner := s.seedUser("bob")
	company, bio := "Acme", "hello"
	twitter, youtube := "@bob", "bobtube"

	_, err := s.profiles.Upsert(ctx, domain.ProfileFields{
		UserID: owner, Status: "Developer", Skills: []string{"go"},
		Company: &company, Bio: &bio,
		Social: domain.SocialFields{Twitter: &twitter},
	})
	s.Require().NoError(err)

	empty := ""
	_, err = s.profiles.Upsert(ctx, domain.ProfileFields{
		UserID: owner, Status: "Developer", Skills: []string{"go"},
		Bio:    &empty,
		Social: domain.SocialFields{YouTube: &youtube},
	})
	s.Require().NoError(err)

	p, err := s.profiles.GetByUserID(ctx, owner)
	s.Require().NoError(err)
	s.Equal("Acme", p.Company)
	s.Equal("", p.Bio)
	s.Equal("@bob", p.Social.Twitter)
	s.Equal("bobtube", p.Social.YouTube)
}

func (s *ProfileRepoIntegrationSuite) TestConcurrentUpsertsCreateOneProfile() {
	ctx := context.Background()
	owner := s.seedUser("carol")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.profiles.Upsert(ctx, domain.ProfileFields{
				UserID: owner, Status: fmt.Sprintf("status-%d", i), Skills: []string{"go"},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	var count int
	s.Require().NoError(s.pool.QueryRow(ctx, `SELECT count(*) FROM profiles WHERE user_id = $1`, owner).Scan(&count))
	s.Equal(1, count)
}

func (s *ProfileRepoIntegrationSuite) TestConcurrentExperienceAddsAreAllKept() {
	ctx := context.Background()
	owner := s.seedUser("dave")
	_, err := s.profiles.Upsert(ctx, domain.ProfileFields{UserID: owner, Status: "Developer", Skills: []string{"go"}})
	s.Require().NoError(err)

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.profiles.MutateExperience(ctx, owner, func(list *domain.Experiences) error {
				return list.Prepend(domain.Experience{ID: uuid.NewString(), Title: "Engineer", Company: "Acme"})
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	p, err := s.profiles.GetByUserID(ctx, owner)
	s.Require().NoError(err)
	s.Equal(writers, p.Experience.Len())
}

func (s *ProfileRepoIntegrationSuite) TestLookupsOfMissingOrMalformedIDs() {
	ctx := context.Background()

	_, err := s.profiles.GetByUserID(ctx, uuid.NewString())
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.profiles.GetByUserID(ctx, "not-a-uuid")
	s.ErrorIs(err, domain.ErrNotFound)
	s.ErrorIs(s.profiles.DeleteByUserID(ctx, uuid.NewString()), domain.ErrNotFound)
}

func (s *ProfileRepoIntegrationSuite) TestUserWithProfileCannotBeDeletedFirst() {
	ctx := context.Background()
	owner := s.seedUser("erin")
	_, err := s.profiles.Upsert(ctx, domain.ProfileFields{UserID: owner, Status: "Developer", Skills: []string{"go"}})
	s.Require().NoError(err)

	s.Error(s.users.Delete(ctx, owner))
	s.Require().NoError(s.profiles.DeleteByUserID(ctx, owner))
	s.NoError(s.users.Delete(ctx, owner))
}
