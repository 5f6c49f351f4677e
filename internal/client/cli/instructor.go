package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/api"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
)

// NewCourse creates a draft course after prompting for its fields.
func (a *App) NewCourse(ctx context.Context) error {
	cats, err := a.api.Categories(ctx)
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Course title", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	in := api.CourseInput{Title: title, Description: description}
	if len(cats) > 0 {
		names := make([]string, len(cats))
		for i, c := range cats {
			names[i] = c.Name
		}
		choice, err := GetChoice(a.reader, "Category", names, 0, a.out)
		if err != nil {
			return err
		}
		in.CategoryID = cats[choice].ID
	}

	c, err := a.api.CreateCourse(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created draft course %s. Add sessions with 'addsession %s', then 'publish %s'.\n", c.ID, c.ID, c.ID)
	return nil
}

// NewSession adds a lesson to a course: addsession <courseId>
func (a *App) NewSession(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("addsession <courseId>")
	}
	title, err := getSimpleText(a.reader, "Session title", a.out)
	if err != nil {
		return err
	}
	link, err := getSimpleText(a.reader, "YouTube link", a.out)
	if err != nil {
		return err
	}
	explanation, err := GetMultiline(a.reader, "Explanation", a.out)
	if err != nil {
		return err
	}

	s, err := a.api.CreateSession(ctx, args[0], api.SessionInput{Title: title, YoutubeLink: link, Explanation: explanation})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added session %s.\n", s.ID)
	if id, ok := api.VideoID(s.YoutubeLink); ok {
		fmt.Fprintf(a.out, "thumbnail: %s\n", api.ThumbnailURL(id))
	}
	return nil
}

// Publish toggles course visibility: publish [-off] <courseId>
func (a *App) Publish(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	off := fs.Bool("off", false, "unpublish")
	if err := a.parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return a.usage("publish [-off] <courseId>")
	}
	published := !*off
	c, err := a.api.UpdateCourse(ctx, fs.Arg(0), api.CourseInput{IsPublished: &published})
	if err != nil {
		return err
	}
	if c.IsPublished {
		fmt.Fprintf(a.out, "%s is now published.\n", c.Title)
	} else {
		fmt.Fprintf(a.out, "%s is now a draft.\n", c.Title)
	}
	return nil
}

// DeleteCourse removes a course after confirmation: rmcourse <courseId>
func (a *App) DeleteCourse(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("rmcourse <courseId>")
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete course %s with its sessions and reviews?", args[0]), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.api.DeleteCourse(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

// Stats prints the instructor dashboard:
//
//	stats [-q text] [-sort title|enrollments|progress|createdAt] [-min-enrollments n] [-min-progress pct] [-students name|enrollmentCount|averageProgress]
func (a *App) Stats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	query := fs.String("q", "", "filter course titles")
	sortBy := fs.String("sort", "title", "course order")
	minEnrollments := fs.Int("min-enrollments", 0, "hide courses with fewer students")
	minProgress := fs.Float64("min-progress", 0, "hide courses below this average progress, in percent")
	studentsBy := fs.String("students", "averageProgress", "student order")
	if err := a.parseFlags(fs, args); err != nil {
		return err
	}

	id := a.manager.Current()
	if id == nil {
		return common.ErrNotAuthenticated
	}
	stats, err := a.api.InstructorStats(ctx, id.ID)
	if err != nil {
		return err
	}

	courses := api.FilterStats(stats.Courses, api.StatFilter{
		Query:          *query,
		MinEnrollments: *minEnrollments,
		MinProgress:    *minProgress,
	})
	api.SortStats(courses, *sortBy)

	fmt.Fprintf(a.out, "%d courses, %d students, %d sessions\n\n", len(stats.Courses), len(stats.Students), stats.TotalSessions)
	tw := newTable(a.out)
	fmt.Fprintln(tw, "COURSE\tSTUDENTS\tSESSIONS\tAVG PROGRESS")
	for _, c := range courses {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.0f%%\n", c.Title, c.TotalEnrollments, c.TotalSessions, c.OverallProgress)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(stats.Students) == 0 {
		return nil
	}
	students := append([]api.StudentSummary(nil), stats.Students...)
	api.SortStudents(students, *studentsBy)
	fmt.Fprintln(a.out)
	tw = newTable(a.out)
	fmt.Fprintln(tw, "STUDENT\tEMAIL\tCOURSES\tAVG PROGRESS")
	for _, s := range students {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f%%\n", s.Name, s.Email, s.EnrollmentCount, s.AverageProgress)
	}
	return tw.Flush()
}
