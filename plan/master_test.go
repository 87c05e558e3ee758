package plan

import (
	"errors"
	"slices"
	"testing"
)

func TestLibraryAddDuplicate(t *testing.T) {
	lib, err := NewLibrary(&Master{Name: "daily_page"})
	if err != nil {
		t.Fatal(err)
	}

	if err := lib.Add(&Master{Name: "daily_page"}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected duplicate name error, got %v", err)
	}
}

func TestLibraryNamesOrder(t *testing.T) {
	lib, err := NewLibrary(
		&Master{Name: "zebra"},
		&Master{Name: "alpha"},
	)
	if err != nil {
		t.Fatal(err)
	}

	if got := lib.Names(); !slices.Equal(got, []string{"zebra", "alpha"}) {
		t.Errorf("names = %v, want declaration order", got)
	}
}

func TestLibrarySuggest(t *testing.T) {
	lib, err := NewLibrary(
		&Master{Name: "daily_page"},
		&Master{Name: "weekly_page"},
		&Master{Name: "notes_page"},
	)
	if err != nil {
		t.Fatal(err)
	}

	got := lib.Suggest("daly_page", 3)
	if len(got) == 0 || got[0] != "daily_page" {
		t.Errorf("Suggest(daly_page) = %v, want daily_page first", got)
	}

	if got := lib.Suggest("qqqq", 3); len(got) != 0 {
		t.Errorf("Suggest(qqqq) = %v, want none", got)
	}
}
