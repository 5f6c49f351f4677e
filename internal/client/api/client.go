package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/client"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
	"golang.org/x/sync/errgroup"
)

// Requester issues authenticated calls. *session.Manager implements it.
type Requester interface {
	Request(ctx context.Context, method, path string, body any, opts ...client.RequestOption) (*client.Response, error)
}

var (
	ErrInvalidRating = fmt.Errorf("%w: rating must be between 1 and 5", common.ErrInvalidInput)
	ErrEmptyComment  = fmt.Errorf("%w: comment cannot be empty", common.ErrInvalidInput)
	ErrMissingTitle  = fmt.Errorf("%w: title is required", common.ErrInvalidInput)
	ErrMissingVideo  = fmt.Errorf("%w: a YouTube link is required", common.ErrInvalidInput)
)

// Client is the typed LearnSphere API.
type Client struct {
	r Requester
}

func New(r Requester) *Client {
	return &Client{r: r}
}

func (c *Client) call(ctx context.Context, method, path string, body, out any, opts ...client.RequestOption) error {
	resp, err := c.r.Request(ctx, method, path, body, opts...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := resp.Decode(out); err != nil {
		if errors.Is(err, client.ErrEmptyBody) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func pathOf(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}

// Categories lists the course categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out struct {
		Categories []Category `json:"categories"`
	}
	if err := c.call(ctx, http.MethodGet, "/category", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// Courses lists the visible courses. A non-empty instructorID narrows the
// list to that instructor.
func (c *Client) Courses(ctx context.Context, instructorID string) ([]Course, error) {
	var opts []client.RequestOption
	if instructorID != "" {
		opts = append(opts, client.WithQuery("instructorId", instructorID))
	}
	var out []Course
	if err := c.call(ctx, http.MethodGet, "/courses", nil, &out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Course(ctx context.Context, id string) (*Course, error) {
	var out Course
	if err := c.call(ctx, http.MethodGet, pathOf("courses", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CourseDetails is Course with the category and sessions resolved.
func (c *Client) CourseDetails(ctx context.Context, id string) (*Course, error) {
	var out Course
	if err := c.call(ctx, http.MethodGet, pathOf("courses", id, "details"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCourse(ctx context.Context, in CourseInput) (*Course, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrMissingTitle
	}
	var out Course
	if err := c.call(ctx, http.MethodPost, "/courses", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id string, in CourseInput) (*Course, error) {
	var out Course
	if err := c.call(ctx, http.MethodPut, pathOf("courses", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, pathOf("courses", id), nil, nil)
}

func (c *Client) Sessions(ctx context.Context, courseID string) ([]Session, error) {
	var out []Session
	if err := c.call(ctx, http.MethodGet, pathOf("courses", courseID, "sessions"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Session(ctx context.Context, courseID, sessionID string) (*Session, error) {
	var out Session
	if err := c.call(ctx, http.MethodGet, pathOf("courses", courseID, "sessions", sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSession adds a lesson. The link must name a YouTube video.
func (c *Client) CreateSession(ctx context.Context, courseID string, in SessionInput) (*Session, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrMissingTitle
	}
	if _, ok := VideoID(in.YoutubeLink); !ok {
		return nil, ErrMissingVideo
	}
	var out Session
	if err := c.call(ctx, http.MethodPost, pathOf("courses", courseID, "sessions"), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSession(ctx context.Context, courseID, sessionID string, in SessionInput) (*Session, error) {
	if in.YoutubeLink != "" {
		if _, ok := VideoID(in.YoutubeLink); !ok {
			return nil, ErrMissingVideo
		}
	}
	var out Session
	if err := c.call(ctx, http.MethodPut, pathOf("courses", courseID, "sessions", sessionID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSession(ctx context.Context, courseID, sessionID string) error {
	return c.call(ctx, http.MethodDelete, pathOf("courses", courseID, "sessions", sessionID), nil, nil)
}

// CourseWithSessions loads a course and its sessions concurrently.
func (c *Client) CourseWithSessions(ctx context.Context, id string) (*Course, error) {
	var (
		course   *Course
		sessions []Session
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		course, err = c.Course(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = c.Sessions(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	course.Sessions = sessions
	return course, nil
}
