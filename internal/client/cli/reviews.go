package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/api"
)

func (a *App) Reviews(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("reviews <courseId>")
	}
	reviews, err := a.api.Reviews(ctx, args[0])
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		fmt.Fprintln(a.out, "No reviews yet.")
		return nil
	}
	for _, r := range reviews {
		fmt.Fprintf(a.out, "%s %s  %s\n", stars(r.Rating), authorName(r.User), r.ID)
		if r.Text != "" {
			fmt.Fprintf(a.out, "  %s\n", r.Text)
		}
		for _, c := range r.Comments {
			fmt.Fprintf(a.out, "    > %s: %s\n", authorName(c.User), c.Text)
		}
	}
	return nil
}

func stars(n int) string {
	n = max(0, min(n, 5))
	return strings.Repeat("*", n) + strings.Repeat(".", 5-n)
}

func authorName(u *api.User) string {
	if u == nil || u.Name == "" {
		return "anonymous"
	}
	return u.Name
}

// Review rates a course: review <courseId>. A second review of the same
// course is refused locally.
func (a *App) Review(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("review <courseId>")
	}
	courseID := args[0]

	reviews, err := a.api.Reviews(ctx, courseID)
	if err != nil {
		return err
	}
	if id := a.manager.Current(); id != nil && api.HasReviewed(reviews, id.ID) {
		fmt.Fprintln(a.out, "You have already reviewed this course.")
		return nil
	}

	answer, err := getSimpleText(a.reader, "Rating (1-5)", a.out)
	if err != nil {
		return err
	}
	rating, err := strconv.Atoi(answer)
	if err != nil {
		return api.ErrInvalidRating
	}
	text, err := GetMultiline(a.reader, "Review text", a.out)
	if err != nil {
		return err
	}

	if _, err := a.api.AddReview(ctx, courseID, rating, text); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Thanks for your review!")
	return nil
}

// Comment replies to a review: comment <reviewId>
func (a *App) Comment(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("comment <reviewId>")
	}
	text, err := GetMultiline(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}
	if _, err := a.api.AddComment(ctx, args[0], text); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Comment added.")
	return nil
}
