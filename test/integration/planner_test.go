//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/focusplanner/backend/test/integration/framework"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, name string, opts ...framework.ServerOption) *framework.TestServer {
	t.Helper()
	framework.RequireServerBinary(t)

	s, err := framework.NewTestServer(framework.BinaryPath, name, opts...)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	return s
}

func TestPlanner_WorkScenario(t *testing.T) {
	for _, store := range []string{"file", "relational"} {
		t.Run(store, func(t *testing.T) {
			s := startServer(t, "work-"+store, framework.WithStore(store))
			defer s.Stop()

			ctx := context.Background()
			c := s.Client()

			list, err := c.AddList(ctx, "Work")
			require.NoError(t, err)
			task, err := c.AddTask(ctx, list.ID, "Ship report", "2024-05-01", "")
			require.NoError(t, err)
			_, err = c.ToggleTask(ctx, list.ID, task.ID)
			require.NoError(t, err)

			lists, err := c.GetData(ctx)
			require.NoError(t, err)
			require.Len(t, lists, 1)
			require.Len(t, lists[0].Tasks, 1)
			got := lists[0].Tasks[0]
			assert.Equal(t, "Ship report", got.Text)
			assert.True(t, got.Done)
			require.NotNil(t, got.DueDate)
			assert.Equal(t, "2024-05-01", *got.DueDate)
			assert.Nil(t, got.DueTime)

			require.NoError(t, c.RemoveList(ctx, list.ID))
			lists, err = c.GetData(ctx)
			require.NoError(t, err)
			assert.Empty(t, lists)
		})
	}
}

func TestPlanner_SurvivesRestart(t *testing.T) {
	for _, store := range []string{"file", "relational"} {
		t.Run(store, func(t *testing.T) {
			first := startServer(t, "restart-"+store, framework.WithStore(store))
			ctx := context.Background()

			list, err := first.Client().AddList(ctx, "Home")
			require.NoError(t, err)
			_, err = first.Client().AddTask(ctx, list.ID, "Water plants", "2024-06-01", "08:30")
			require.NoError(t, err)
			require.NoError(t, first.StopWithCleanup(false))

			second := startServer(t, "restart-"+store,
				framework.WithStore(store),
				framework.WithDataDir(first.DataDir),
				framework.WithPort(first.HTTPPort),
			)
			defer second.Stop()

			lists, err := second.Client().GetData(ctx)
			require.NoError(t, err)
			require.Len(t, lists, 1)
			assert.Equal(t, list.ID, lists[0].ID)
			require.Len(t, lists[0].Tasks, 1)
			require.NotNil(t, lists[0].Tasks[0].DueTime)
			assert.Equal(t, "08:30", *lists[0].Tasks[0].DueTime)
		})
	}
}

func TestPlanner_UnknownListIsNotFound(t *testing.T) {
	s := startServer(t, "notfound")
	defer s.Stop()

	_, err := s.Client().ToggleTask(context.Background(), "missing", "missing")
	require.Error(t, err)
}

func TestPlanner_SecondFileInstanceExits(t *testing.T) {
	first := startServer(t, "primary")
	defer first.Stop()

	second, err := framework.NewTestServer(framework.BinaryPath, "secondary",
		framework.WithDataDir(first.DataDir),
		framework.WithPort(first.HTTPPort),
	)
	require.NoError(t, err)

	code, err := second.Run(15 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	// 原实例不受影响
	_, err = first.Client().GetData(context.Background())
	assert.NoError(t, err)
}
