package api

import (
	"context"
	"net/http"
	"strings"
)

// Enrollments lists the caller's enrollments with their courses.
func (c *Client) Enrollments(ctx context.Context) ([]Enrollment, error) {
	var out []Enrollment
	if err := c.call(ctx, http.MethodGet, "/enrollments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnrolledCourses returns the courses of the caller's enrollments.
func (c *Client) EnrolledCourses(ctx context.Context) ([]Course, error) {
	list, err := c.Enrollments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Course, 0, len(list))
	for _, e := range list {
		if e.Course != nil {
			out = append(out, *e.Course)
		}
	}
	return out, nil
}

func (c *Client) Enroll(ctx context.Context, courseID string) (*Enrollment, error) {
	var out Enrollment
	if err := c.call(ctx, http.MethodPost, "/enrollments", map[string]string{"courseId": courseID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type progressPayload struct {
	Progress        []Progress `json:"progress"`
	Sessions        []Session  `json:"sessions"`
	OverallProgress float64    `json:"overallProgress"`
}

// CourseProgress returns the caller's progress with completion merged into
// the session list.
func (c *Client) CourseProgress(ctx context.Context, courseID string) (*CourseProgress, error) {
	var p progressPayload
	if err := c.call(ctx, http.MethodGet, pathOf("progress", "course", courseID, "progress"), nil, &p); err != nil {
		return nil, err
	}
	out := mergeProgress(p)
	return &out, nil
}

func mergeProgress(p progressPayload) CourseProgress {
	done := make(map[string]bool, len(p.Progress))
	for _, pr := range p.Progress {
		if pr.IsCompleted {
			done[pr.SessionID] = true
		}
	}
	out := CourseProgress{Sessions: make([]SessionProgress, 0, len(p.Sessions)), Overall: p.OverallProgress}
	for _, s := range p.Sessions {
		out.Sessions = append(out.Sessions, SessionProgress{Session: s, Completed: done[s.ID]})
	}
	if out.Overall == 0 && len(out.Sessions) > 0 {
		out.Overall = float64(out.Completed()) / float64(len(out.Sessions))
	}
	return out
}

// MarkComplete records a session as completed or not.
func (c *Client) MarkComplete(ctx context.Context, sessionID string, completed bool) error {
	return c.call(ctx, http.MethodPost, "/progress", Progress{SessionID: sessionID, IsCompleted: completed}, nil)
}

// CourseStudents lists the students of an instructor's course.
func (c *Client) CourseStudents(ctx context.Context, courseID string) ([]StudentProgress, error) {
	var out []StudentProgress
	if err := c.call(ctx, http.MethodGet, pathOf("progress", "course", courseID, "students"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Reviews(ctx context.Context, courseID string) ([]Review, error) {
	var out []Review
	if err := c.call(ctx, http.MethodGet, pathOf("reviews", "course", courseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddReview rates a course. The rating is checked before any call is made.
func (c *Client) AddReview(ctx context.Context, courseID string, rating int, text string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	var out Review
	body := map[string]any{"rating": rating, "text": text}
	if err := c.call(ctx, http.MethodPost, pathOf("reviews", courseID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddComment(ctx context.Context, reviewID, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}
	var out Comment
	if err := c.call(ctx, http.MethodPost, pathOf("reviews", "comment", reviewID), map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HasReviewed reports whether userID already reviewed one of reviews.
func HasReviewed(reviews []Review, userID string) bool {
	for _, r := range reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
