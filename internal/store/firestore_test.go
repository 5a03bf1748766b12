package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestDocGetError(t *testing.T) {
	missing := docGetError(status.Error(codes.NotFound, "document missing"))
	assert.ErrorIs(t, missing, ErrNotFound)

	unavailable := docGetError(status.Error(codes.Unavailable, "backend down"))
	assert.NotErrorIs(t, unavailable, ErrNotFound,
		"an outage must surface as an internal failure, not a 404")
	assert.ErrorContains(t, unavailable, "failed to load reminder")

	timeout := docGetError(status.Error(codes.DeadlineExceeded, "deadline exceeded"))
	assert.NotErrorIs(t, timeout, ErrNotFound)
}
