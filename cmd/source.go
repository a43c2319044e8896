package cmd

import (
	"context"

	"github.com/abhisek/pathwise/internal/apiclient"
	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/tutor"
)

// localSource runs generation in-process.
type localSource struct {
	t *tutor.Tutor
}

func (s localSource) create(ctx context.Context, in capability.NewLearner) (capability.Profile, error) {
	return s.t.CreateLearner(ctx, in)
}

func (s localSource) get(ctx context.Context, id string) (capability.Profile, error) {
	return s.t.Profile(ctx, id)
}

func (s localSource) backend(id string) session.Backend {
	return s.t.ForLearner(id)
}

// remoteSource talks to a pathwise server.
type remoteSource struct {
	c *apiclient.Client
}

func (s remoteSource) create(ctx context.Context, in capability.NewLearner) (capability.Profile, error) {
	return s.c.CreateLearner(ctx, in)
}

func (s remoteSource) get(ctx context.Context, id string) (capability.Profile, error) {
	return s.c.Learner(ctx, id)
}

func (s remoteSource) backend(id string) session.Backend {
	return s.c.ForLearner(id)
}
