package server

import (
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/server/fakeapi"
)

// Demo accounts, all with the password DemoPassword.
const (
	DemoInstructorEmail = "instructor@learnsphere.dev"
	DemoStudentEmail    = "student@learnsphere.dev"
	DemoPassword        = "learnsphere"
)

// seedDemo fills api with one instructor, one student and two published
// courses so a fresh client has something to browse.
func seedDemo(api *fakeapi.Server) error {
	instructor, err := api.SeedUser(DemoInstructorEmail, "Grace Hopper", DemoPassword, fakeapi.RoleInstructor)
	if err != nil {
		return err
	}
	if _, err := api.SeedUser(DemoStudentEmail, "Ada Lovelace", DemoPassword, fakeapi.RoleStudent); err != nil {
		return err
	}

	categoryID := func(name string) string {
		for _, c := range api.Categories() {
			if c.Name == name {
				return c.ID
			}
		}
		return ""
	}

	api.SeedCourse(instructor.ID, fakeapi.Course{
		Title:       "Go for Beginners",
		Description: "Types, functions and goroutines from scratch.",
		CategoryID:  categoryID("Programming"),
		IsPublished: true,
		Sessions: []fakeapi.Session{
			{Title: "Hello, Go", YoutubeLink: "https://www.youtube.com/watch?v=YS4e4q9oBaU", Explanation: "Installing the toolchain and writing a first program."},
			{Title: "Concurrency", YoutubeLink: "https://youtu.be/f6kdp27TYZs", Explanation: "Goroutines and channels."},
		},
	})
	api.SeedCourse(instructor.ID, fakeapi.Course{
		Title:       "Design Basics",
		Description: "Color, type and layout.",
		CategoryID:  categoryID("Design"),
		IsPublished: true,
		Sessions: []fakeapi.Session{
			{Title: "Color theory", YoutubeLink: "https://www.youtube.com/watch?v=_2LLXnUdUIc", Explanation: "Hue, saturation and contrast."},
		},
	})
	api.SeedCourse(instructor.ID, fakeapi.Course{
		Title:       "Unfinished Draft",
		Description: "Only visible to its instructor.",
		CategoryID:  categoryID("Business"),
	})
	return nil
}
