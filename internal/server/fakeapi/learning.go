package fakeapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
)

type enrollRequest struct {
	CourseID string `json:"courseId"`
}

type progressRequest struct {
	SessionID   string `json:"sessionId"`
	IsCompleted bool   `json:"isCompleted"`
}

type reviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

type commentRequest struct {
	Text string `json:"text"`
}

func (s *Server) listEnrollments(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())

	s.mu.Lock()
	out := []Enrollment{}
	for _, e := range s.enrollments {
		if e.UserID != caller.ID {
			continue
		}
		if c, ok := s.courses[e.CourseID]; ok {
			cc := s.withCategoryLocked(c)
			e.Course = &cc
		}
		out = append(out, e)
	}
	s.mu.Unlock()

	writeData(w, http.StatusOK, out)
}

func (s *Server) enroll(w http.ResponseWriter, r *http.Request) {
	var in enrollRequest
	if err := decodeJSON(r, &in); err != nil || in.CourseID == "" {
		writeError(w, http.StatusBadRequest, "Course id is required")
		return
	}
	caller := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[in.CourseID]
	if !ok || !c.IsPublished {
		writeError(w, http.StatusNotFound, "Course not found")
		return
	}
	if s.enrolledLocked(caller.ID, c.ID) {
		writeError(w, http.StatusBadRequest, "Already enrolled in this course")
		return
	}
	e := Enrollment{
		ID:        ulid.Make().String(),
		CourseID:  c.ID,
		UserID:    caller.ID,
		CreatedAt: time.Now().UTC(),
	}
	s.enrollments = append(s.enrollments, e)
	writeData(w, http.StatusCreated, e)
}

// courseProgress reports the caller's completion of an enrolled course.
func (s *Server) courseProgress(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Course not found")
		return
	}
	if !s.enrolledLocked(caller.ID, c.ID) {
		writeError(w, http.StatusForbidden, "Not enrolled in this course")
		return
	}

	out := CourseProgress{Progress: []Progress{}, Sessions: c.snapshot().Sessions}
	done := s.completed[caller.ID]
	for _, sess := range c.Sessions {
		if done[sess.ID] {
			out.Progress = append(out.Progress, Progress{SessionID: sess.ID, IsCompleted: true})
		}
	}
	out.OverallProgress = ratio(len(out.Progress), len(c.Sessions))
	writeData(w, http.StatusOK, out)
}

// courseStudents lists every enrolled student with their completion ratio.
func (s *Server) courseStudents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ownedCourseLocked(w, r)
	if !ok {
		return
	}

	out := []StudentProgress{}
	for _, e := range s.enrollments {
		if e.CourseID != c.ID {
			continue
		}
		acc := s.accounts[e.UserID]
		if acc == nil {
			continue
		}
		n := 0
		for _, sess := range c.Sessions {
			if s.completed[e.UserID][sess.ID] {
				n++
			}
		}
		out = append(out, StudentProgress{
			UserID:          e.UserID,
			User:            acc.User,
			OverallProgress: ratio(n, len(c.Sessions)),
		})
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) markProgress(w http.ResponseWriter, r *http.Request) {
	var in progressRequest
	if err := decodeJSON(r, &in); err != nil || in.SessionID == "" {
		writeError(w, http.StatusBadRequest, "Session id is required")
		return
	}
	caller := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	courseID := ""
	for _, c := range s.courses {
		for _, sess := range c.Sessions {
			if sess.ID == in.SessionID {
				courseID = c.ID
			}
		}
	}
	if courseID == "" {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if !s.enrolledLocked(caller.ID, courseID) {
		writeError(w, http.StatusForbidden, "Not enrolled in this course")
		return
	}

	if s.completed[caller.ID] == nil {
		s.completed[caller.ID] = map[string]bool{}
	}
	if in.IsCompleted {
		s.completed[caller.ID][in.SessionID] = true
	} else {
		delete(s.completed[caller.ID], in.SessionID)
	}
	writeData(w, http.StatusOK, Progress(in))
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := s.courses[id]; !ok {
		writeError(w, http.StatusNotFound, "Course not found")
		return
	}

	out := []Review{}
	for _, rv := range s.reviews[id] {
		cp := *rv
		cp.User = s.userLocked(rv.UserID)
		cp.Comments = make([]Comment, 0, len(rv.Comments))
		for _, cm := range rv.Comments {
			cm.User = s.userLocked(cm.UserID)
			cp.Comments = append(cp.Comments, cm)
		}
		out = append(out, cp)
	}
	writeData(w, http.StatusOK, out)
}

// addReview accepts one review per user and course.
func (s *Server) addReview(w http.ResponseWriter, r *http.Request) {
	var in reviewRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Rating < 1 || in.Rating > 5 {
		writeError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}
	caller := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "courseId")
	if _, ok := s.courses[id]; !ok {
		writeError(w, http.StatusNotFound, "Course not found")
		return
	}
	for _, rv := range s.reviews[id] {
		if rv.UserID == caller.ID {
			writeError(w, http.StatusBadRequest, "You have already reviewed this course")
			return
		}
	}

	rv := &Review{
		ID:        ulid.Make().String(),
		CourseID:  id,
		UserID:    caller.ID,
		Rating:    in.Rating,
		Text:      in.Text,
		Comments:  []Comment{},
		CreatedAt: time.Now().UTC(),
	}
	s.reviews[id] = append(s.reviews[id], rv)
	writeData(w, http.StatusCreated, rv)
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	var in commentRequest
	if err := decodeJSON(r, &in); err != nil || strings.TrimSpace(in.Text) == "" {
		writeError(w, http.StatusBadRequest, "Comment cannot be empty")
		return
	}
	caller := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "reviewId")
	for _, list := range s.reviews {
		for _, rv := range list {
			if rv.ID != id {
				continue
			}
			cm := Comment{
				ID:        ulid.Make().String(),
				ReviewID:  rv.ID,
				UserID:    caller.ID,
				Text:      in.Text,
				CreatedAt: time.Now().UTC(),
			}
			rv.Comments = append(rv.Comments, cm)
			writeData(w, http.StatusCreated, cm)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Review not found")
}

func (s *Server) enrolledLocked(userID, courseID string) bool {
	for _, e := range s.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return true
		}
	}
	return false
}

func (s *Server) userLocked(id string) *User {
	acc := s.accounts[id]
	if acc == nil {
		return nil
	}
	u := acc.User
	return &u
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
