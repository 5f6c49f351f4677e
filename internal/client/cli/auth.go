package cli

import (
	"context"
	"fmt"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/services"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/session"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var roles = []session.Role{session.RoleStudent, session.RoleInstructor}

// Register prompts for name, email, password and role and creates the
// account. The user logs in afterwards, as on the web front-end.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	labels := make([]string, len(roles))
	for i, r := range roles {
		labels[i] = string(r)
	}
	choice, err := GetChoice(a.reader, "Select a role", labels, 0, a.out)
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, name, email, password, roles[choice]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Success! You can now log in.")
	return nil
}

// Login prompts for credentials, offering the last used email as default.
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	prompt := "Enter email"
	last := a.auth.LastEmail(ctx)
	if last != "" {
		prompt = fmt.Sprintf("Enter email [%s]", last)
	}
	email, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if email == "" {
		email = last
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.auth.Login(ctx, email, password)
	if err != nil {
		a.log.Info(ctx, "login unsuccessful", "error", err)
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s). Start at: %s\n", id.Name, id.Role, services.Landing(id.Role))
	return nil
}

// Logout ends the session. It never fails; a server that cannot be reached
// still leaves the client logged out.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}
	a.auth.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	id := a.auth.WhoAmI()
	if id == nil {
		return common.ErrNotAuthenticated
	}
	fmt.Fprintf(a.out, "%s <%s>\nrole: %s\nid: %s\n", id.Name, id.Email, id.Role, id.ID)
	if exp, ok := id.TokenExpiry(); ok {
		fmt.Fprintf(a.out, "access token expires: %s\n", exp.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
