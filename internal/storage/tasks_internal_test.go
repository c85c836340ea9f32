package storage

import (
	"testing"
)

// TestOrderClause: Uji penerjemahan token sortBy menjadi klausa ORDER BY
func TestOrderClause(t *testing.T) {
	cases := []struct {
		name   string
		sortBy string
		want   string
	}{
		{"empty", "", "ORDER BY id ASC"},
		{"field only", "title", "ORDER BY title ASC"},
		{"explicit asc", "title:asc", "ORDER BY title ASC"},
		{"desc", "dueDate:desc", "ORDER BY due_date DESC"},
		{"snake case alias", "due_date:desc", "ORDER BY due_date DESC"},
		{"unknown direction token", "status:banana", "ORDER BY status ASC"},
		{"unknown field falls back to insert order", "owner:desc", "ORDER BY id ASC"},
		{"injection attempt ignored", "title; DROP TABLE tasks--:desc", "ORDER BY id ASC"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := orderClause(tc.sortBy)
			if got != tc.want {
				t.Errorf("orderClause(%q) = %q, want %q", tc.sortBy, got, tc.want)
			}
		})
	}
}
