package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type namedJob string

func (n namedJob) Name() string              { return string(n) }
func (n namedJob) Run(context.Context) error { return nil }

func TestRegistryKeepsOrderAndCopies(t *testing.T) {
	registry := NewRegistry(namedJob("presence_prune"), nil, namedJob("chat_retention"))
	require.Equal(t, []string{"presence_prune", "chat_retention"}, registry.Names())

	jobs := registry.Jobs()
	jobs[0] = nil
	require.NotNil(t, registry.Jobs()[0], "callers must not reach the internal slice")
}

func TestRegistryRejectsBadNames(t *testing.T) {
	registry := NewRegistry(namedJob("chat_retention"))

	require.Error(t, registry.Register(namedJob("chat_retention")))
	require.Error(t, registry.Register(namedJob("  ")))
	require.Error(t, registry.Register(nil))
	require.Len(t, registry.Jobs(), 1)

	require.Panics(t, func() { NewRegistry(namedJob("a"), namedJob("a")) })
}
