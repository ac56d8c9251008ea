package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/taskos/model"
	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/dao"
	"github.com/viant/taskos/service/mm"
)

func TestService_List(t *testing.T) {
	ctx := context.Background()
	table := New()
	for pid, status := range []model.TaskStatus{model.TaskStatusRunning, model.TaskStatusReady, model.TaskStatusZombie, model.TaskStatusReady} {
		tcb := task.NewControlBlock(pid, "app", task.NewKernelStack(pid), nil, mm.Layout{})
		tcb.SetStatus(status)
		require.NoError(t, table.Save(ctx, tcb))
	}
	pids := func(parameters ...*dao.Parameter) []int {
		items, err := table.List(ctx, parameters...)
		require.NoError(t, err)
		var out []int
		for _, item := range items {
			out = append(out, item.PID)
		}
		return out
	}
	assert.Equal(t, []int{0, 1, 2, 3}, pids())
	assert.Equal(t, []int{1, 3}, pids(dao.NewParameter(dao.StatusParameter, string(model.TaskStatusReady))))
	require.NoError(t, table.Delete(ctx, 2))
	assert.Equal(t, []int{0, 1, 3}, pids())
	loaded, err := table.Load(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.PID)
}
