package api

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// statsFanOut bounds the concurrent per-course calls of InstructorStats.
const statsFanOut = 4

// CourseStat summarises one course for its instructor. Progress values are
// percentages.
type CourseStat struct {
	CourseID         string
	Title            string
	TotalEnrollments int
	TotalSessions    int
	OverallProgress  float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type StudentCourse struct {
	CourseID string
	Title    string
	Progress float64
}

// StudentSummary aggregates one student across the instructor's courses.
type StudentSummary struct {
	UserID          string
	Name            string
	Email           string
	Courses         []StudentCourse
	EnrollmentCount int
	AverageProgress float64
}

type InstructorStats struct {
	Courses       []CourseStat
	Students      []StudentSummary
	TotalSessions int
}

// InstructorStats loads the instructor's courses and the students of each.
func (c *Client) InstructorStats(ctx context.Context, instructorID string) (*InstructorStats, error) {
	courses, err := c.Courses(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	students := make([][]StudentProgress, len(courses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statsFanOut)
	for i, course := range courses {
		g.Go(func() error {
			list, err := c.CourseStudents(gctx, course.ID)
			if err != nil {
				return err
			}
			students[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return BuildInstructorStats(courses, students), nil
}

// BuildInstructorStats combines courses with their students; students[i]
// belongs to courses[i].
func BuildInstructorStats(courses []Course, students [][]StudentProgress) *InstructorStats {
	out := &InstructorStats{Courses: make([]CourseStat, 0, len(courses))}
	byStudent := map[string]*StudentSummary{}
	var order []string

	for i, course := range courses {
		var list []StudentProgress
		if i < len(students) {
			list = students[i]
		}

		sum := 0.0
		for _, sp := range list {
			pct := sp.OverallProgress * 100
			sum += pct

			s, ok := byStudent[sp.UserID]
			if !ok {
				s = &StudentSummary{UserID: sp.UserID, Name: sp.User.Name, Email: sp.User.Email}
				byStudent[sp.UserID] = s
				order = append(order, sp.UserID)
			}
			s.Courses = append(s.Courses, StudentCourse{CourseID: course.ID, Title: course.Title, Progress: pct})
			s.EnrollmentCount++
		}

		stat := CourseStat{
			CourseID:         course.ID,
			Title:            course.Title,
			TotalEnrollments: len(list),
			TotalSessions:    len(course.Sessions),
			CreatedAt:        course.CreatedAt,
			UpdatedAt:        course.UpdatedAt,
		}
		if len(list) > 0 {
			stat.OverallProgress = sum / float64(len(list))
		}
		out.Courses = append(out.Courses, stat)
		out.TotalSessions += len(course.Sessions)
	}

	for _, id := range order {
		s := byStudent[id]
		total := 0.0
		for _, sc := range s.Courses {
			total += sc.Progress
		}
		s.AverageProgress = total / float64(s.EnrollmentCount)
		out.Students = append(out.Students, *s)
	}
	return out
}

// StatFilter narrows course statistics. Zero fields match everything.
type StatFilter struct {
	Query          string
	MinEnrollments int
	MinProgress    float64
}

func FilterStats(stats []CourseStat, f StatFilter) []CourseStat {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]CourseStat, 0, len(stats))
	for _, s := range stats {
		if q != "" && !strings.Contains(strings.ToLower(s.Title), q) {
			continue
		}
		if s.TotalEnrollments < f.MinEnrollments || s.OverallProgress < f.MinProgress {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SortStats sorts in place by "title", "enrollments", "progress" or
// "createdAt". Counts and progress sort descending, dates newest first.
func SortStats(stats []CourseStat, by string) {
	sort.SliceStable(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		switch by {
		case "enrollments":
			return a.TotalEnrollments > b.TotalEnrollments
		case "progress":
			return a.OverallProgress > b.OverallProgress
		case "createdAt":
			return a.CreatedAt.After(b.CreatedAt)
		default:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	})
}

// FilterStudents keeps students whose average progress is at least minProgress.
func FilterStudents(students []StudentSummary, minProgress float64) []StudentSummary {
	out := make([]StudentSummary, 0, len(students))
	for _, s := range students {
		if s.AverageProgress >= minProgress {
			out = append(out, s)
		}
	}
	return out
}

// SortStudents sorts in place by "name", "enrollmentCount" or
// "averageProgress".
func SortStudents(students []StudentSummary, by string) {
	sort.SliceStable(students, func(i, j int) bool {
		a, b := students[i], students[j]
		switch by {
		case "enrollmentCount":
			return a.EnrollmentCount > b.EnrollmentCount
		case "averageProgress":
			return a.AverageProgress > b.AverageProgress
		default:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	})
}
