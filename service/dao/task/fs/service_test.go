package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/taskos/model"
	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/dao"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	journal, err := New(ctx, afs.New(), "mem://localhost/journal")
	require.NoError(t, err)

	infos := []*task.Info{
		{PID: 2, Name: "hello", Status: model.TaskStatusZombie, ParentPID: 0, ExitCode: 3},
		{PID: 0, Name: "init", Status: model.TaskStatusRunning, ParentPID: -1, Children: []int{2}},
		{PID: 1, Name: "sleep", Status: model.TaskStatusReady, ParentPID: 0},
	}
	for _, info := range infos {
		require.NoError(t, journal.Save(ctx, info))
	}
	assert.ErrorIs(t, journal.Save(ctx, nil), dao.ErrNilEntity)

	loaded, err := journal.Load(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, infos[0], loaded)

	all, err := journal.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{all[0].PID, all[1].PID, all[2].PID})

	zombies, err := journal.List(ctx, dao.NewParameter(dao.StatusParameter, string(model.TaskStatusZombie)))
	require.NoError(t, err)
	require.Len(t, zombies, 1)
	assert.Equal(t, "hello", zombies[0].Name)

	require.NoError(t, journal.Delete(ctx, 2))
	_, err = journal.Load(ctx, 2)
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.ErrorIs(t, journal.Delete(ctx, 2), dao.ErrNotFound)
}
