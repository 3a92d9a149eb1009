package panel

import (
	"fmt"

	"github.com/MrSnakeDoc/favorites/internal/domain"
)

// SortState is the sort field and direction the panel shows entries in.
// The zero value sorts by name ascending.
type SortState struct {
	Key   domain.SortKey
	Order domain.SortOrder
}

// ParseSortState reads the query/flag form ("name", "asc").
func ParseSortState(key, order string) (SortState, error) {
	k, err := domain.ParseSortKey(key)
	if err != nil {
		return SortState{}, err
	}
	o, err := domain.ParseSortOrder(order)
	if err != nil {
		return SortState{}, err
	}
	return SortState{Key: k, Order: o}, nil
}

// CycleKey moves to the next field: Name, Type, Added, Modified, then Name.
func (s *SortState) CycleKey() {
	switch s.Key {
	case domain.SortByName:
		s.Key = domain.SortByKind
	case domain.SortByKind:
		s.Key = domain.SortByDateAdded
	case domain.SortByDateAdded:
		s.Key = domain.SortByDateUpdated
	default:
		s.Key = domain.SortByName
	}
}

// ToggleOrder flips between ascending and descending.
func (s *SortState) ToggleOrder() {
	if s.Order == domain.Ascending {
		s.Order = domain.Descending
		return
	}
	s.Order = domain.Ascending
}

// KeyLabel is the button text for a sort field.
func KeyLabel(k domain.SortKey) string {
	switch k {
	case domain.SortByKind:
		return "Type"
	case domain.SortByDateAdded:
		return "Added"
	case domain.SortByDateUpdated:
		return "Modified"
	default:
		return "Name"
	}
}

// OrderLabel is the arrow shown for a direction.
func OrderLabel(o domain.SortOrder) string {
	if o == domain.Descending {
		return "↓"
	}
	return "↑"
}

func (s SortState) String() string {
	return fmt.Sprintf("%s %s", KeyLabel(s.Key), OrderLabel(s.Order))
}
