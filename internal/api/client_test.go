package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/nlsnlaurensius/tickit/internal/model"
	"github.com/nlsnlaurensius/tickit/internal/session"
)

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	t.Setenv(session.EnvToken, "")
	return session.New(t.TempDir())
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := newTestStore(t)
	return New(srv.URL, sess, nil, 0), sess
}

func TestLoginReturnsTokenAndSendsBody(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"token": "abc"},
		})
	})

	token, err := client.Login(context.Background(), "a@b.com", "x")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "abc" {
		t.Fatalf("token = %q, want abc", token)
	}
	if gotPath != "/users/login" {
		t.Fatalf("path = %q, want /users/login", gotPath)
	}
	if gotBody["email"] != "a@b.com" || gotBody["password"] != "x" {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestBearerTokenAttachedAfterLogin(t *testing.T) {
	var gotAuth string
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []model.Todo{}})
	})
	if err := sess.Login("abc"); err != nil {
		t.Fatalf("session login: %v", err)
	}

	if _, err := client.ListTodos(context.Background(), "", ""); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("Authorization = %q, want Bearer abc", gotAuth)
	}
}

func TestListTodosDropsEmptyParams(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []model.Todo{}})
	})

	if _, err := client.ListTodos(context.Background(), "deadline", ""); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := gotQuery.Get("sortBy"); got != "deadline" {
		t.Fatalf("sortBy = %q, want deadline", got)
	}
	if _, present := gotQuery["project"]; present {
		t.Fatal("empty project param should not be sent")
	}
}

func TestErrorShapeFromServer(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Validation failed",
			"details": "title is required",
		})
	})

	_, err := client.CreateTodo(context.Background(), NewTodo{})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Status != 400 {
		t.Errorf("status = %d, want 400", apiErr.Status)
	}
	if apiErr.Message != "Validation failed" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if apiErr.Detail() != "title is required" {
		t.Errorf("detail = %q", apiErr.Detail())
	}
}

func TestErrorFallbacksWhenServerIsSilent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := client.Stats(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Message != "API request failed" {
		t.Errorf("message = %q, want generic fallback", apiErr.Message)
	}
	if apiErr.Detail() != "Unknown error" {
		t.Errorf("detail = %q, want Unknown error", apiErr.Detail())
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	client, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
	})
	if err := sess.Login("stale"); err != nil {
		t.Fatalf("session login: %v", err)
	}
	sess.SetProfile(&model.Profile{ID: 1, Username: "nls"})

	// Any endpoint triggers the teardown, not just auth ones.
	_, err := client.Stats(context.Background())
	if !IsAuthFailure(err) {
		t.Fatalf("expected auth failure, got %v", err)
	}
	if sess.Authenticated() {
		t.Fatal("session token survived a 401")
	}
	if sess.Profile() != nil {
		t.Fatal("profile survived a 401")
	}
}

func TestTransportFailureHasNoStatus(t *testing.T) {
	sess := newTestStore(t)
	// Dialing a closed port fails without a response.
	client := New("http://127.0.0.1:1", sess, nil, 0)

	_, err := client.Stats(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Status != 0 {
		t.Fatalf("status = %d, want 0 for transport failure", apiErr.Status)
	}
}

func TestNonJSONErrorBodyKeepsStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := client.Stats(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Status != 502 {
		t.Fatalf("status = %d, want 502", apiErr.Status)
	}
}

func TestCreateTodoSendsExplicitNulls(t *testing.T) {
	var raw map[string]json.RawMessage
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &raw)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": model.Todo{ID: 7, Title: "Buy milk"},
		})
	})

	todo, err := client.CreateTodo(context.Background(), NewTodo{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if todo.ID != 7 || todo.Title != "Buy milk" {
		t.Fatalf("todo = %+v", todo)
	}
	for _, field := range []string{"deadline", "project_name"} {
		v, present := raw[field]
		if !present {
			t.Errorf("field %s missing from body", field)
			continue
		}
		if string(v) != "null" {
			t.Errorf("field %s = %s, want null", field, v)
		}
	}
}

func TestRenameProjectEscapesNameAndReadsCount(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]int{"updatedCount": 3},
		})
	})

	n, err := client.RenameProject(context.Background(), "Side Quests", "Job")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if n != 3 {
		t.Fatalf("updated count = %d, want 3", n)
	}
	if gotPath != "/todos/projects/Side%20Quests" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestUpdateAccountPasswordReturnsNilProfile(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Password updated",
		})
	})

	cur, next := "old", "new"
	p, err := client.UpdateAccount(context.Background(), AccountUpdate{
		CurrentPassword: &cur,
		Password:        &next,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p != nil {
		t.Fatalf("profile = %+v, want nil for password updates", p)
	}
}
