package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/api"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
)

var errUsage = fmt.Errorf("%w: bad arguments", common.ErrInvalidInput)

// usage returns errUsage after printing how to call a command.
func (a *App) usage(line string) error {
	fmt.Fprintln(a.out, "Usage:", line)
	return errUsage
}

// parseFlags parses args with fs, printing flag errors to the app output.
func (a *App) parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(a.out)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errUsage
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func (a *App) Categories(ctx context.Context) error {
	cats, err := a.api.Categories(ctx)
	if err != nil {
		return err
	}
	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
	}
	return tw.Flush()
}

// Courses lists the catalogue:
//
//	courses [-q text] [-c category] [-sort title|newest|oldest] [-page n] [-limit n]
func (a *App) Courses(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("courses", flag.ContinueOnError)
	query := fs.String("q", "", "search title and description")
	category := fs.String("c", "all", "category name")
	order := fs.String("sort", string(api.OrderTitle), "title, newest or oldest")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", api.DefaultLimit, "courses per page")
	if err := a.parseFlags(fs, args); err != nil {
		return err
	}

	courses, err := a.api.Courses(ctx, "")
	if err != nil {
		return err
	}
	courses = api.FilterCourses(courses, api.CourseFilter{Query: *query, Category: *category})
	api.SortCourses(courses, api.CourseOrder(*order))
	p := api.Paginate(courses, *page, *limit)

	if p.Total == 0 {
		fmt.Fprintln(a.out, "No courses found.")
		return nil
	}
	a.printCourses(p.Items)
	fmt.Fprintf(a.out, "page %d of %d (%d courses)\n", p.Page, p.TotalPages, p.Total)
	return nil
}

func (a *App) printCourses(courses []api.Course) {
	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSESSIONS\tSTATUS")
	for _, c := range courses {
		status := "draft"
		if c.IsPublished {
			status = "published"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", c.ID, c.Title, c.CategoryName(), len(c.Sessions), status)
	}
	_ = tw.Flush()
}

// Course shows one course with its sessions: course <id>
func (a *App) Course(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("course <courseId>")
	}
	c, err := a.api.CourseWithSessions(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n%s\n", c.Title, strings.Repeat("=", len([]rune(c.Title))))
	if c.Description != "" {
		fmt.Fprintln(a.out, c.Description)
	}
	fmt.Fprintln(a.out)
	a.printSessions(c.Sessions, nil)
	return nil
}

// printSessions lists sessions with their video links. done, when not nil,
// marks the completed ones.
func (a *App) printSessions(sessions []api.Session, done map[string]bool) {
	if len(sessions) == 0 {
		fmt.Fprintln(a.out, "No sessions yet.")
		return
	}
	tw := newTable(a.out)
	for i, s := range sessions {
		mark := ""
		if done != nil {
			mark = "[ ] "
			if done[s.ID] {
				mark = "[x] "
			}
		}
		video := s.YoutubeLink
		if id, ok := api.VideoID(s.YoutubeLink); ok {
			video = api.EmbedURL(id)
		}
		fmt.Fprintf(tw, "%s%d.\t%s\t%s\t%s\n", mark, i+1, s.Title, s.ID, video)
	}
	_ = tw.Flush()
}

func (a *App) Enroll(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("enroll <courseId>")
	}
	if _, err := a.api.Enroll(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Enrolled.")
	return nil
}

// MyCourses lists the courses the caller is enrolled in.
func (a *App) MyCourses(ctx context.Context) error {
	courses, err := a.api.EnrolledCourses(ctx)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		fmt.Fprintln(a.out, "You are not enrolled in any course.")
		return nil
	}
	a.printCourses(courses)
	return nil
}

// Progress shows the caller's completion of a course: progress <courseId>
func (a *App) Progress(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("progress <courseId>")
	}
	p, err := a.api.CourseProgress(ctx, args[0])
	if err != nil {
		return err
	}
	done := make(map[string]bool, len(p.Sessions))
	sessions := make([]api.Session, 0, len(p.Sessions))
	for _, s := range p.Sessions {
		done[s.ID] = s.Completed
		sessions = append(sessions, s.Session)
	}
	a.printSessions(sessions, done)
	fmt.Fprintf(a.out, "%d of %d sessions completed (%.0f%%)\n", p.Completed(), len(p.Sessions), p.Overall*100)
	return nil
}

// Complete marks a session: complete [-undo] <sessionId>
func (a *App) Complete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("complete", flag.ContinueOnError)
	undo := fs.Bool("undo", false, "mark as not completed")
	if err := a.parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return a.usage("complete [-undo] <sessionId>")
	}
	if err := a.api.MarkComplete(ctx, fs.Arg(0), !*undo); err != nil {
		return err
	}
	if *undo {
		fmt.Fprintln(a.out, "Marked as not completed.")
	} else {
		fmt.Fprintln(a.out, "Marked as completed.")
	}
	return nil
}
