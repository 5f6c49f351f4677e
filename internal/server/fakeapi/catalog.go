package fakeapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type courseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId"`
	IsPublished *bool  `json:"isPublished"`
}

type sessionRequest struct {
	Title       string `json:"title"`
	YoutubeLink string `json:"youtubeLink"`
	Explanation string `json:"explanation"`
}

// listCategories answers {"categories": [...]} without the data envelope.
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]Category(nil), s.categories...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

// listCourses returns published courses, plus the caller's own drafts.
// ?instructorId= narrows the list to one instructor.
func (s *Server) listCourses(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	instructor := r.URL.Query().Get("instructorId")

	s.mu.Lock()
	out := []Course{}
	for _, c := range s.sortedCoursesLocked() {
		if instructor != "" && c.InstructorID != instructor {
			continue
		}
		if !c.IsPublished && c.InstructorID != caller.ID {
			continue
		}
		out = append(out, s.withCategoryLocked(c))
	}
	s.mu.Unlock()

	writeData(w, http.StatusOK, out)
}

func (s *Server) getCourse(w http.ResponseWriter, r *http.Request) {
	c, ok := s.visibleCourse(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	c.Category = nil
	writeData(w, http.StatusOK, c)
}

// getCourseDetails is getCourse with the category resolved.
func (s *Server) getCourseDetails(w http.ResponseWriter, r *http.Request) {
	c, ok := s.visibleCourse(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeData(w, http.StatusOK, c)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	c, ok := s.visibleCourse(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeData(w, http.StatusOK, c.Sessions)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	c, ok := s.visibleCourse(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	sid := chi.URLParam(r, "sid")
	for _, sess := range c.Sessions {
		if sess.ID == sid {
			writeData(w, http.StatusOK, sess)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Session not found")
}

func (s *Server) createCourse(w http.ResponseWriter, r *http.Request) {
	var in courseRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	s.mu.Lock()
	if in.CategoryID != "" && s.categoryLocked(in.CategoryID) == nil {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Unknown category")
		return
	}
	c := Course{Title: in.Title, Description: in.Description, CategoryID: in.CategoryID}
	if in.IsPublished != nil {
		c.IsPublished = *in.IsPublished
	}
	out := s.withCategoryLocked(s.createCourseLocked(userFromContext(r.Context()).ID, c))
	s.mu.Unlock()

	writeData(w, http.StatusCreated, out)
}

func (s *Server) updateCourse(w http.ResponseWriter, r *http.Request) {
	var in courseRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ownedCourseLocked(w, r)
	if !ok {
		return
	}
	if in.CategoryID != "" && s.categoryLocked(in.CategoryID) == nil {
		writeError(w, http.StatusBadRequest, "Unknown category")
		return
	}
	if in.Title != "" {
		c.Title = in.Title
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if in.CategoryID != "" {
		c.CategoryID = in.CategoryID
	}
	if in.IsPublished != nil {
		c.IsPublished = *in.IsPublished
	}
	c.UpdatedAt = time.Now().UTC()
	writeData(w, http.StatusOK, s.withCategoryLocked(c))
}

func (s *Server) deleteCourse(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ownedCourseLocked(w, r)
	if !ok {
		return
	}
	delete(s.courses, c.ID)
	delete(s.reviews, c.ID)
	kept := s.enrollments[:0]
	for _, e := range s.enrollments {
		if e.CourseID != c.ID {
			kept = append(kept, e)
		}
	}
	s.enrollments = kept
	writeData(w, http.StatusOK, map[string]string{"message": "Course deleted"})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var in sessionRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Title == "" || in.YoutubeLink == "" {
		writeError(w, http.StatusBadRequest, "Title and YouTube link are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ownedCourseLocked(w, r)
	if !ok {
		return
	}
	sess := s.addSessionLocked(c, Session{Title: in.Title, YoutubeLink: in.YoutubeLink, Explanation: in.Explanation})
	writeData(w, http.StatusCreated, sess)
}

func (s *Server) updateSession(w http.ResponseWriter, r *http.Request) {
	var in sessionRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ownedCourseLocked(w, r)
	if !ok {
		return
	}
	sid := chi.URLParam(r, "sid")
	for i := range c.Sessions {
		if c.Sessions[i].ID != sid {
			continue
		}
		if in.Title != "" {
			c.Sessions[i].Title = in.Title
		}
		if in.YoutubeLink != "" {
			c.Sessions[i].YoutubeLink = in.YoutubeLink
		}
		if in.Explanation != "" {
			c.Sessions[i].Explanation = in.Explanation
		}
		c.UpdatedAt = time.Now().UTC()
		writeData(w, http.StatusOK, c.Sessions[i])
		return
	}
	writeError(w, http.StatusNotFound, "Session not found")
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ownedCourseLocked(w, r)
	if !ok {
		return
	}
	sid := chi.URLParam(r, "sid")
	for i := range c.Sessions {
		if c.Sessions[i].ID == sid {
			c.Sessions = append(c.Sessions[:i], c.Sessions[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			writeData(w, http.StatusOK, map[string]string{"message": "Session deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Session not found")
}

// visibleCourse looks up a course the caller may see and answers 404
// otherwise.
func (s *Server) visibleCourse(w http.ResponseWriter, r *http.Request, id string) (Course, bool) {
	caller := userFromContext(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok || (!c.IsPublished && c.InstructorID != caller.ID) {
		writeError(w, http.StatusNotFound, "Course not found")
		return Course{}, false
	}
	return s.withCategoryLocked(c), true
}

// ownedCourseLocked returns the course named by the id URL parameter if the
// caller owns it. It answers 404 or 403 otherwise.
func (s *Server) ownedCourseLocked(w http.ResponseWriter, r *http.Request) (*Course, bool) {
	c, ok := s.courses[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Course not found")
		return nil, false
	}
	if c.InstructorID != userFromContext(r.Context()).ID {
		writeError(w, http.StatusForbidden, "Not the course instructor")
		return nil, false
	}
	return c, true
}

func (s *Server) withCategoryLocked(c *Course) Course {
	out := c.snapshot()
	out.Category = s.categoryLocked(c.CategoryID)
	return out
}
