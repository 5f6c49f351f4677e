package api

import (
	"sort"
	"strings"
)

// Paging defaults.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is one slice of a client-side list.
type Page[T any] struct {
	Items      []T
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasNext    bool
}

// Paginate returns the 1-based page of items. Out-of-range values are
// clamped: page to [1, TotalPages] and limit to DefaultLimit when not in
// [1, MaxLimit].
func Paginate[T any](items []T, page, limit int) Page[T] {
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	total := len(items)
	totalPages := (total + limit - 1) / limit
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * limit
	end := min(start+limit, total)
	if start > total {
		start = total
	}
	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// CourseFilter narrows a course list. Empty fields match everything, as
// does the category "all".
type CourseFilter struct {
	Query    string
	Category string
}

// FilterCourses keeps the courses whose title or description contains the
// query, case-insensitively, and whose category name matches.
func FilterCourses(courses []Course, f CourseFilter) []Course {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if q != "" && !strings.Contains(strings.ToLower(c.Title), q) && !strings.Contains(strings.ToLower(c.Description), q) {
			continue
		}
		if f.Category != "" && f.Category != "all" && c.CategoryName() != f.Category {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CategoryNames lists the distinct category names in first-seen order.
func CategoryNames(courses []Course) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range courses {
		name := c.CategoryName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

type CourseOrder string

const (
	OrderTitle  CourseOrder = "title"
	OrderNewest CourseOrder = "newest"
	OrderOldest CourseOrder = "oldest"
)

// SortCourses sorts in place. Unknown orders leave the slice untouched.
func SortCourses(courses []Course, by CourseOrder) {
	switch by {
	case OrderTitle:
		sort.SliceStable(courses, func(i, j int) bool {
			return strings.ToLower(courses[i].Title) < strings.ToLower(courses[j].Title)
		})
	case OrderNewest:
		sort.SliceStable(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	case OrderOldest:
		sort.SliceStable(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	}
}
