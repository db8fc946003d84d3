package planner

import "sort"

// Assemble 将任务按 ListID 归入清单
// lists 与 tasks 需已按创建顺序排列；找不到所属清单的任务会被丢弃
func Assemble(lists []*List, tasks []*Task) []*List {
	byID := make(map[string]*List, len(lists))
	for _, list := range lists {
		if list.Tasks == nil {
			list.Tasks = []*Task{}
		}
		byID[list.ID] = list
	}
	for _, task := range tasks {
		list, ok := byID[task.ListID]
		if !ok {
			continue
		}
		list.Tasks = append(list.Tasks, task)
	}
	return lists
}

// SortLists 按创建时间稳定排序清单，时间相同时保持原有顺序
func SortLists(lists []*List) {
	sort.SliceStable(lists, func(i, j int) bool {
		return lists[i].CreatedAt.Before(lists[j].CreatedAt)
	})
}

// SortTasks 按创建时间稳定排序任务，时间相同时保持原有顺序
func SortTasks(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}
