package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fatpack/fatpack/pkg/errors"
)

type testItem struct {
	ID   int
	Name string
}

func TestRegister(t *testing.T) {
	reg := New[testItem]()

	t.Run("register valid item", func(t *testing.T) {
		err := reg.Register("item1", testItem{ID: 1, Name: "test"})
		if err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}
		if !reg.Has("item1") {
			t.Error("Has() = false after Register")
		}
	})

	t.Run("register with empty name", func(t *testing.T) {
		err := reg.Register("", testItem{ID: 2})
		if !errors.IsErrorCode(err, errors.ErrInvalidInput) {
			t.Errorf("Register() with empty name should return ErrInvalidInput, got %v", err)
		}
	})

	t.Run("register duplicate", func(t *testing.T) {
		err := reg.Register("item1", testItem{ID: 3})
		if !errors.IsErrorCode(err, errors.ErrAlreadyExists) {
			t.Errorf("Register() duplicate should return ErrAlreadyExists, got %v", err)
		}
	})
}

func TestGet(t *testing.T) {
	reg := New[testItem]()
	item := testItem{ID: 1, Name: "test"}
	_ = reg.Register("item1", item)

	t.Run("get existing item", func(t *testing.T) {
		got, err := reg.Get("item1")
		if err != nil {
			t.Fatalf("Get() error = %v, want nil", err)
		}
		if got != item {
			t.Errorf("Get() = %+v, want %+v", got, item)
		}
	})

	t.Run("get missing item", func(t *testing.T) {
		_, err := reg.Get("missing")
		if !errors.IsErrorCode(err, errors.ErrNotFound) {
			t.Errorf("Get() missing should return ErrNotFound, got %v", err)
		}
	})
}

func TestListSorted(t *testing.T) {
	reg := New[testItem]()
	for _, name := range []string{"zebra", "alpha", "mango"} {
		_ = reg.Register(name, testItem{})
	}

	got := reg.List()
	want := []string{"alpha", "mango", "zebra"}

	if len(got) != len(want) {
		t.Fatalf("List() returned %d names, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	reg := New[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = reg.Register(fmt.Sprintf("item%d", n), n)
			_, _ = reg.Get(fmt.Sprintf("item%d", n))
			_ = reg.List()
		}(i)
	}

	wg.Wait()

	if len(reg.List()) != 50 {
		t.Errorf("List() returned %d names, want 50", len(reg.List()))
	}
}
