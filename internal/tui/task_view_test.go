package tui

import (
	"reflect"
	"testing"

	"github.com/nlsnlaurensius/tickit/internal/model"
)

func strPtr(s string) *string { return &s }

func newTestTaskModel(t *testing.T) taskModel {
	sess, client := newTestDeps(t, true)
	m := newTaskModel(sess, client)
	return m.resize(100, 40)
}

func loadTodos(t *testing.T, m taskModel, todos []model.Todo) taskModel {
	t.Helper()
	m, _ = m.enter()
	m, _, _ = m.update(todosLoadedMsg{seq: m.todosSeq, todos: todos})
	return m
}

func TestStaleFetchResponseDiscarded(t *testing.T) {
	m := newTestTaskModel(t)
	m, _ = m.enter()
	fresh := []model.Todo{{ID: 1, Title: "fresh"}}
	m, _, _ = m.update(todosLoadedMsg{seq: m.todosSeq, todos: fresh})

	// A slower response from an older fetch generation must not win.
	stale := todosLoadedMsg{seq: m.todosSeq - 1, todos: []model.Todo{{ID: 9, Title: "stale"}}}
	m, _, _ = m.update(stale)

	if len(m.todos) != 1 || m.todos[0].Title != "fresh" {
		t.Fatalf("todos = %+v, want the fresh load to survive", m.todos)
	}
}

func TestTodosLoadDerivesProjectNames(t *testing.T) {
	m := newTestTaskModel(t)
	m = loadTodos(t, m, []model.Todo{
		{ID: 1, Title: "a", ProjectName: strPtr("Work")},
		{ID: 2, Title: "b", ProjectName: strPtr("Chores")},
		{ID: 3, Title: "c"},
	})
	want := []string{"Chores", "Work"}
	if !reflect.DeepEqual(m.names, want) {
		t.Fatalf("names = %v, want %v", m.names, want)
	}
}

func TestCreatedTodoIsPrepended(t *testing.T) {
	m := newTestTaskModel(t)
	m = loadTodos(t, m, []model.Todo{{ID: 1, Title: "old"}})

	created := model.Todo{ID: 2, Title: "Buy milk"}
	statsSeqBefore := m.statsSeq
	m, _, cmd := m.update(todoSavedMsg{todo: &created, created: true})

	if len(m.todos) != 2 || m.todos[0].ID != 2 || m.todos[1].ID != 1 {
		t.Fatalf("todos = %+v, want new item first", m.todos)
	}
	if m.todos[0].Completed {
		t.Fatal("new todo should start incomplete")
	}
	if cmd == nil || m.statsSeq != statsSeqBefore+1 {
		t.Fatal("create must refetch stats")
	}
}

func TestToggleReconcilesSingleRecord(t *testing.T) {
	m := newTestTaskModel(t)
	m = loadTodos(t, m, []model.Todo{
		{ID: 1, Title: "a"},
		{ID: 2, Title: "b", Description: strPtr("keep me")},
	})

	toggled := model.Todo{ID: 2, Title: "b", Description: strPtr("keep me"), Completed: true}
	m, _, _ = m.update(todoSavedMsg{todo: &toggled})

	if !m.todos[1].Completed {
		t.Fatal("toggle result not reconciled")
	}
	if m.todos[0].Completed {
		t.Fatal("wrong record touched")
	}
	if *m.todos[1].Description != "keep me" {
		t.Fatal("other fields must come straight from the returned record")
	}

	// Toggling back restores the original value.
	toggled.Completed = false
	m, _, _ = m.update(todoSavedMsg{todo: &toggled})
	if m.todos[1].Completed {
		t.Fatal("second toggle should restore the original state")
	}
}

func TestDeleteRemovesById(t *testing.T) {
	m := newTestTaskModel(t)
	m = loadTodos(t, m, []model.Todo{
		{ID: 1, Title: "a"},
		{ID: 2, Title: "b"},
		{ID: 3, Title: "c"},
	})

	m, _, _ = m.update(todoDeletedMsg{id: 2})
	got := make([]int, 0, len(m.todos))
	for _, td := range m.todos {
		got = append(got, td.ID)
	}
	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("ids = %v, want [1 3]", got)
	}
}

func TestBulkResultTriggersFullReload(t *testing.T) {
	m := newTestTaskModel(t)
	m = loadTodos(t, m, []model.Todo{{ID: 1, Title: "a"}})

	todosSeq, statsSeq := m.todosSeq, m.statsSeq
	m, _, cmd := m.update(bulkDoneMsg{verb: "Renamed", count: 3})
	if cmd == nil {
		t.Fatal("bulk success must reload todos and stats")
	}
	if m.todosSeq != todosSeq+1 || m.statsSeq != statsSeq+1 {
		t.Fatalf("fetch sequences not advanced: todos %d->%d stats %d->%d",
			todosSeq, m.todosSeq, statsSeq, m.statsSeq)
	}
	if m.statusErr || m.status == "" {
		t.Fatalf("status = %q (err=%v), want a success line", m.status, m.statusErr)
	}
}

func TestFetchErrorSurfacesInStatus(t *testing.T) {
	m := newTestTaskModel(t)
	m, _ = m.enter()
	m, _, _ = m.update(todosLoadedMsg{seq: m.todosSeq, err: errFake("boom")})
	if !m.statusErr || m.status == "" {
		t.Fatalf("status = %q (err=%v), want an error line", m.status, m.statusErr)
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }

func TestStatsLoadedStoresStats(t *testing.T) {
	m := newTestTaskModel(t)
	m, _ = m.enter()
	m, _, _ = m.update(statsLoadedMsg{seq: m.statsSeq, stats: model.Stats{Total: 4, Completed: 1, Pending: 3}})
	if m.stats == nil || m.stats.Total != 4 {
		t.Fatalf("stats = %+v", m.stats)
	}
}
