package api

import "time"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CategoryID   string    `json:"categoryId,omitempty"`
	Category     *Category `json:"category,omitempty"`
	InstructorID string    `json:"instructorId"`
	IsPublished  bool      `json:"isPublished"`
	Sessions     []Session `json:"sessions"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CategoryName returns the category name, or "" when uncategorised.
func (c Course) CategoryName() string {
	if c.Category == nil {
		return ""
	}
	return c.Category.Name
}

// CourseInput is the body of course create and update calls. Zero fields
// are left unchanged on update.
type CourseInput struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"categoryId,omitempty"`
	IsPublished *bool  `json:"isPublished,omitempty"`
}

// Session is one video lesson of a course.
type Session struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	YoutubeLink string    `json:"youtubeLink"`
	Explanation string    `json:"explanation"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SessionInput struct {
	Title       string `json:"title,omitempty"`
	YoutubeLink string `json:"youtubeLink,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

type Enrollment struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	UserID    string    `json:"userId"`
	Course    *Course   `json:"course,omitempty"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Progress struct {
	SessionID   string `json:"sessionId"`
	IsCompleted bool   `json:"isCompleted"`
}

// SessionProgress is a session together with the caller's completion.
type SessionProgress struct {
	Session
	Completed bool
}

// CourseProgress is the caller's progress through one course.
type CourseProgress struct {
	Sessions []SessionProgress
	// Overall is the completed share in [0, 1].
	Overall float64
}

// Completed returns the number of completed sessions.
func (p CourseProgress) Completed() int {
	n := 0
	for _, s := range p.Sessions {
		if s.Completed {
			n++
		}
	}
	return n
}

type StudentProgress struct {
	UserID          string  `json:"userId"`
	User            User    `json:"user"`
	OverallProgress float64 `json:"overallProgress"`
}

type Comment struct {
	ID        string    `json:"id"`
	ReviewID  string    `json:"reviewId"`
	UserID    string    `json:"userId"`
	User      *User     `json:"user,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type Review struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	UserID    string    `json:"userId"`
	User      *User     `json:"user,omitempty"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}
