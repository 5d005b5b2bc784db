package repository

import (
	"testing"

	"github.com/ddj1226/SpendSense/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db, DriverSQLite)
	require.NoError(t, repo.Migrate())
	return repo
}

func createUser(t *testing.T, repo *Repository, email string) *models.User {
	t.Helper()
	u := &models.User{FirstName: "Alex", LastName: "Doe", Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(u))
	return u
}

func TestMigrateIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	assert.NoError(t, repo.Migrate())
}

func TestMigrateUnknownDriver(t *testing.T) {
	repo := newTestRepository(t)
	repo.driver = "mysql"
	assert.ErrorContains(t, repo.Migrate(), "unsupported database driver")
}

func TestCreateAndFindUser(t *testing.T) {
	repo := newTestRepository(t)
	u := createUser(t, repo, "alex@example.com")
	assert.NotZero(t, u.ID)

	byEmail, err := repo.FindUserByEmail("alex@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "Alex", byEmail.FirstName)
	assert.Equal(t, "hash", byEmail.PasswordHash)
	assert.False(t, byEmail.BankConnected())

	byID, err := repo.FindUserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", byID.Email)

	_, err = repo.FindUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindUserByID(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	createUser(t, repo, "alex@example.com")

	err := repo.CreateUser(&models.User{FirstName: "Other", Email: "alex@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSetAccessToken(t *testing.T) {
	repo := newTestRepository(t)
	u := createUser(t, repo, "alex@example.com")

	require.NoError(t, repo.SetAccessToken(u.ID, "sealed-token"))
	got, err := repo.FindUserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "sealed-token", got.AccessToken)
	assert.True(t, got.BankConnected())

	assert.ErrorIs(t, repo.SetAccessToken(999, "x"), ErrNotFound)
}

func TestSaveGoalUpserts(t *testing.T) {
	repo := newTestRepository(t)
	u := createUser(t, repo, "alex@example.com")

	_, err := repo.FindGoal(u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.SaveGoal(&models.Goal{UserID: u.ID, TargetAmount: decimal.RequireFromString("5000.50"), TargetDate: "2027-01-01"}))
	require.NoError(t, repo.SaveGoal(&models.Goal{UserID: u.ID, TargetAmount: decimal.NewFromInt(8000), TargetDate: "2027-06-30"}))

	goal, err := repo.FindGoal(u.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(8000).Equal(goal.TargetAmount))
	assert.Equal(t, "2027-06-30", goal.TargetDate)
}

func TestListDigestTargets(t *testing.T) {
	repo := newTestRepository(t)
	linked := createUser(t, repo, "linked@example.com")
	unlinked := createUser(t, repo, "unlinked@example.com")
	createUser(t, repo, "nogoal@example.com")

	require.NoError(t, repo.SetAccessToken(linked.ID, "sealed"))
	require.NoError(t, repo.SaveGoal(&models.Goal{UserID: linked.ID, TargetAmount: decimal.NewFromInt(100), TargetDate: "2027-01-01"}))
	require.NoError(t, repo.SaveGoal(&models.Goal{UserID: unlinked.ID, TargetAmount: decimal.NewFromInt(200), TargetDate: "2027-01-01"}))

	targets, err := repo.ListDigestTargets()
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, linked.ID, targets[0].User.ID)
	assert.Equal(t, "linked@example.com", targets[0].User.Email)
	assert.Equal(t, "sealed", targets[0].User.AccessToken)
	assert.Equal(t, linked.ID, targets[0].Goal.UserID)
	assert.True(t, decimal.NewFromInt(100).Equal(targets[0].Goal.TargetAmount))
}
