package fakeapi

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/logging"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
)

// BasePath is where the API is mounted.
const BasePath = "/api"

const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Server is an in-memory LearnSphere API. It is safe for concurrent use.
type Server struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        logging.Logger

	mu          sync.Mutex
	accounts    map[string]*account
	byEmail     map[string]string
	refresh     map[string]refreshToken
	revoked     map[string]struct{}
	issued      []string
	categories  []Category
	courses     map[string]*Course
	enrollments []Enrollment
	completed   map[string]map[string]bool
	reviews     map[string][]*Review

	calls        map[string]int
	denyRefresh  bool
	refreshDelay time.Duration
}

type Option func(*Server)

func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

func WithAccessTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.accessTTL = d }
}

func WithRefreshTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.refreshTTL = d }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New returns a server with the default categories and no accounts.
func New(opts ...Option) *Server {
	s := &Server{
		secret:     common.GenerateRandByteArray(32),
		accessTTL:  DefaultAccessTokenTTL,
		refreshTTL: DefaultRefreshTokenTTL,
		log:        logging.Nop(),
		accounts:   map[string]*account{},
		byEmail:    map[string]string{},
		refresh:    map[string]refreshToken{},
		revoked:    map[string]struct{}{},
		courses:    map[string]*Course{},
		completed:  map[string]map[string]bool{},
		reviews:    map[string][]*Review{},
		calls:      map[string]int{},
	}
	for _, name := range []string{"Programming", "Design", "Business", "Data Science"} {
		s.categories = append(s.categories, Category{ID: ulid.Make().String(), Name: name})
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the API router mounted under BasePath.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)

	r.Route(BasePath, func(api chi.Router) {
		api.Use(s.countCalls)

		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", s.register)
			ar.Post("/login", s.login)
			ar.Post("/refresh-token", s.refreshToken)
			ar.Post("/logout", s.logout)
			ar.With(s.requireAuth).Get("/validate", s.validate)
		})

		api.Group(func(pr chi.Router) {
			pr.Use(s.requireAuth)

			pr.Get("/category", s.listCategories)
			pr.Get("/courses", s.listCourses)
			pr.Get("/courses/{id}", s.getCourse)
			pr.Get("/courses/{id}/details", s.getCourseDetails)
			pr.Get("/courses/{id}/sessions", s.listSessions)
			pr.Get("/courses/{id}/sessions/{sid}", s.getSession)

			pr.Get("/enrollments", s.listEnrollments)
			pr.Post("/enrollments", s.enroll)
			pr.Get("/progress/course/{id}/progress", s.courseProgress)
			pr.Post("/progress", s.markProgress)

			pr.Get("/reviews/course/{id}", s.listReviews)
			pr.Post("/reviews/{courseId}", s.addReview)
			pr.Post("/reviews/comment/{reviewId}", s.addComment)

			pr.Group(func(ir chi.Router) {
				ir.Use(requireRole(RoleInstructor))
				ir.Post("/courses", s.createCourse)
				ir.Put("/courses/{id}", s.updateCourse)
				ir.Delete("/courses/{id}", s.deleteCourse)
				ir.Post("/courses/{id}/sessions", s.createSession)
				ir.Put("/courses/{id}/sessions/{sid}", s.updateSession)
				ir.Delete("/courses/{id}/sessions/{sid}", s.deleteSession)
				ir.Get("/progress/course/{id}/students", s.courseStudents)
			})
		})
	})
	return r
}

// ExpireAccessTokens makes every access token issued so far answer 401,
// as if they had all run out at once.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, jti := range s.issued {
		s.revoked[jti] = struct{}{}
	}
	s.issued = s.issued[:0]
}

// DenyRefresh makes the refresh endpoint answer 401 while deny is true.
func (s *Server) DenyRefresh(deny bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denyRefresh = deny
}

// SetRefreshDelay holds every refresh call for d before answering.
func (s *Server) SetRefreshDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshDelay = d
}

// Calls returns how many requests reached path, relative to BasePath.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// Categories returns the fixed category list.
func (s *Server) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Category(nil), s.categories...)
}

// SeedUser creates an account directly, bypassing registration.
func (s *Server) SeedUser(email, name, password, role string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.createAccountLocked(email, name, password, role)
	if err != nil {
		return User{}, err
	}
	return acc.User, nil
}

// SeedCourse stores c as owned by instructorID and returns it with ids set.
func (s *Server) SeedCourse(instructorID string, c Course) Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCourseLocked(instructorID, c).snapshot()
}

// SeedSession adds a session to an existing course.
func (s *Server) SeedSession(courseID string, sess Session) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[courseID]
	if !ok {
		return Session{}, common.ErrorNotFound
	}
	return s.addSessionLocked(c, sess), nil
}

func (s *Server) countCalls(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[strings.TrimPrefix(r.URL.Path, BasePath)]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug(r.Context(), "api request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", r.Header.Get(common.RequestIDHeaderName),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) createCourseLocked(instructorID string, c Course) *Course {
	now := time.Now().UTC()
	c.ID = ulid.Make().String()
	c.InstructorID = instructorID
	c.CreatedAt = now
	c.UpdatedAt = now
	sessions := c.Sessions
	c.Sessions = nil
	stored := &c
	s.courses[c.ID] = stored
	for _, sess := range sessions {
		s.addSessionLocked(stored, sess)
	}
	return stored
}

func (s *Server) addSessionLocked(c *Course, sess Session) Session {
	sess.ID = ulid.Make().String()
	sess.CourseID = c.ID
	sess.CreatedAt = time.Now().UTC()
	c.Sessions = append(c.Sessions, sess)
	c.UpdatedAt = sess.CreatedAt
	return sess
}

func (s *Server) categoryLocked(id string) *Category {
	for i := range s.categories {
		if s.categories[i].ID == id {
			c := s.categories[i]
			return &c
		}
	}
	return nil
}

// sortedCoursesLocked returns the courses in creation order. ULIDs sort by
// time.
func (s *Server) sortedCoursesLocked() []*Course {
	out := make([]*Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// snapshot copies a course so it can be encoded outside the lock.
func (c *Course) snapshot() Course {
	cp := *c
	cp.Sessions = append([]Session(nil), c.Sessions...)
	if cp.Sessions == nil {
		cp.Sessions = []Session{}
	}
	return cp
}
