//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/seesakulchai/scc-api/internal/model"
	repo "github.com/seesakulchai/scc-api/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "scc_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/scc_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConnection(context.Background(), dsn, 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func createAdmin(t *testing.T, ar *repo.AdminRepository, email string) model.Admin {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	saved, err := ar.Create(context.Background(), model.Admin{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: []byte("$2a$04$hash"),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return saved
}

func TestAdminRepository(t *testing.T) {
	ctx := context.Background()
	ar := repo.NewAdminRepository(connect(t))

	saved := createAdmin(t, ar, "admin@scc.co.th")

	byEmail, err := ar.GetByEmail(ctx, "admin@scc.co.th")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byEmail.ID)
	assert.Equal(t, []byte("$2a$04$hash"), byEmail.PasswordHash)

	byID, err := ar.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Email, byID.Email)

	_, err = ar.GetByEmail(ctx, "ghost@scc.co.th")
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = ar.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = ar.Create(ctx, model.Admin{Email: "admin@scc.co.th", PasswordHash: []byte("x"), CreatedAt: time.Now(), UpdatedAt: time.Now()})
	require.ErrorIs(t, err, model.ErrAlreadyExists)
}

func TestRefreshTokenRepository(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ar := repo.NewAdminRepository(conn)
	rr := repo.NewRefreshTokenRepository(conn)

	admin := createAdmin(t, ar, "tokens@scc.co.th")
	now := time.Now()

	newToken := func(jti string) model.RefreshToken {
		return model.RefreshToken{
			JTI:       jti,
			AdminID:   admin.ID,
			TokenHash: []byte("hash-" + jti),
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
		}
	}

	require.NoError(t, rr.Create(ctx, newToken("jti-1")))
	require.NoError(t, rr.Create(ctx, newToken("jti-2")))

	got, err := rr.GetByJTI(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.AdminID)
	assert.Nil(t, got.RevokedAt)

	require.NoError(t, rr.RevokeByJTI(ctx, "jti-1"))
	got, err = rr.GetByJTI(ctx, "jti-1")
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)
	firstRevoke := *got.RevokedAt

	require.ErrorIs(t, rr.RevokeByJTI(ctx, "jti-1"), model.ErrTokenRevoked)
	got, err = rr.GetByJTI(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, firstRevoke.Equal(*got.RevokedAt))

	// Concurrent revocations of one live token: exactly one wins.
	require.NoError(t, rr.Create(ctx, newToken("jti-3")))
	const racers = 8
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		go func() { results <- rr.RevokeByJTI(ctx, "jti-3") }()
	}
	var won int
	for i := 0; i < racers; i++ {
		if err := <-results; err == nil {
			won++
		} else {
			require.ErrorIs(t, err, model.ErrTokenRevoked)
		}
	}
	assert.Equal(t, 1, won)

	require.ErrorIs(t, rr.RevokeByJTI(ctx, "missing"), model.ErrNotFound)
	_, err = rr.GetByJTI(ctx, "missing")
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, rr.RevokeAllByAdmin(ctx, admin.ID))
	got, err = rr.GetByJTI(ctx, "jti-2")
	require.NoError(t, err)
	assert.NotNil(t, got.RevokedAt)
}
