//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"benchwatch/internal/syncrun"
	"benchwatch/pkg/platform/sentinel"
	"benchwatch/pkg/testutil/containers"
)

type PostgresRunsSuite struct {
	suite.Suite

	ctx   context.Context
	pg    *containers.PostgresContainer
	store *Postgres
}

func TestPostgresRunsSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRunsSuite))
}

func (s *PostgresRunsSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
}

func (s *PostgresRunsSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "sync_runs"))
}

func (s *PostgresRunsSuite) begin(id uuid.UUID) {
	s.Require().NoError(s.store.Begin(s.ctx, syncrun.Run{
		ID:        id,
		Type:      syncrun.TypeScheduled,
		Status:    syncrun.StatusStarted,
		Options:   []byte(`{"batch_size": 10}`),
		StartedAt: time.Now().UTC(),
	}))
}

func (s *PostgresRunsSuite) TestCompleteLifecycle() {
	id := uuid.New()
	s.begin(id)

	run, err := s.store.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(syncrun.StatusStarted, run.Status)
	s.JSONEq(`{"batch_size": 10}`, string(run.Options))

	now := time.Now().UTC()
	s.Require().NoError(s.store.Complete(s.ctx, id, syncrun.Run{
		Result:      []byte(`{"processed": 12}`),
		CompletedAt: &now,
		Duration:    1500 * time.Millisecond,
	}))

	run, err = s.store.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(syncrun.StatusCompleted, run.Status)
	s.JSONEq(`{"processed": 12}`, string(run.Result))
	s.Equal(1500*time.Millisecond, run.Duration)
	s.Require().NotNil(run.CompletedAt)
}

func (s *PostgresRunsSuite) TestFailLifecycle() {
	id := uuid.New()
	s.begin(id)

	now := time.Now().UTC()
	s.Require().NoError(s.store.Fail(s.ctx, id, syncrun.Run{
		Error:       "sync run aborted: store offline",
		CompletedAt: &now,
		Duration:    time.Second,
	}))

	run, err := s.store.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(syncrun.StatusFailed, run.Status)
	s.Equal("sync run aborted: store offline", run.Error)
}

func (s *PostgresRunsSuite) TestTerminalStateGuard() {
	id := uuid.New()
	s.begin(id)

	now := time.Now().UTC()
	s.Require().NoError(s.store.Complete(s.ctx, id, syncrun.Run{CompletedAt: &now}))

	err := s.store.Fail(s.ctx, id, syncrun.Run{Error: "late", CompletedAt: &now})
	s.ErrorIs(err, sentinel.ErrInvalidState)

	err = s.store.Complete(s.ctx, id, syncrun.Run{CompletedAt: &now})
	s.ErrorIs(err, sentinel.ErrInvalidState)
}

func (s *PostgresRunsSuite) TestGetUnknownRun() {
	_, err := s.store.Get(s.ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
