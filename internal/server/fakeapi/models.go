package fakeapi

import "time"

// Roles understood by the API.
const (
	RoleStudent    = "Student"
	RoleInstructor = "Instructor"
)

// User is the public part of an account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type account struct {
	User
	salt     []byte
	verifier []byte
}

type refreshToken struct {
	userID  string
	expires time.Time
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

type Session struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	YoutubeLink string    `json:"youtubeLink"`
	Explanation string    `json:"explanation"`
	CreatedAt   time.Time `json:"createdAt"`
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

type CourseProgress struct {
	Progress        []Progress `json:"progress"`
	Sessions        []Session  `json:"sessions"`
	OverallProgress float64    `json:"overallProgress"`
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
