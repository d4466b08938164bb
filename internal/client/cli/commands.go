package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/plantdetector/internal/client/client"
	"github.com/dmitrijs2005/plantdetector/internal/client/flows"
	"github.com/dmitrijs2005/plantdetector/internal/client/forms"
	"github.com/dmitrijs2005/plantdetector/internal/client/models"
	"github.com/dmitrijs2005/plantdetector/internal/client/services"
	"github.com/dmitrijs2005/plantdetector/internal/common"
)

// reportSubmit prints field messages after a failed validation. Server and
// transport failures were already shown by the flow's notifier.
func (a *App) reportSubmit(err error, fields map[string]string) error {
	var (
		ve *forms.ValidationError
		de *client.DecodeError
	)
	switch {
	case err == nil:
	case errors.As(err, &de):
	case errors.As(err, &ve):
		fmt.Fprint(a.out, renderFieldErrors(fields))
	case errors.Is(err, flows.ErrSubmitInProgress):
		fmt.Fprintln(a.out, hintStyle.Render("Please wait, the previous request is still running"))
	}
	return err
}

// SignUp prompts for the registration form. Values entered before a failed
// attempt are offered as defaults.
func (a *App) SignUp(ctx context.Context) error {
	prev := a.signUp.Values()

	name, err := getSimpleText(a.reader, "Name", prev.Name, a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", prev.Email, a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	_, err = a.signUp.Submit(ctx, models.RegistrationRequest{
		Name:            name,
		Email:           email,
		Password:        string(password),
		ConfirmPassword: string(confirm),
	})
	if err == nil {
		fmt.Fprintln(a.out, mutedStyle.Render("You can sign in now (signin)"))
	}
	return a.reportSubmit(err, a.signUp.FieldErrors())
}

func (a *App) SignIn(ctx context.Context) error {
	prev := a.signIn.Values()

	email, err := getSimpleText(a.reader, "Email", prev.Email, a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	_, err = a.signIn.Submit(ctx, models.Credentials{Email: email, Password: string(password)})
	return a.reportSubmit(err, a.signIn.FieldErrors())
}

func (a *App) Logout(ctx context.Context) error {
	_, err := a.logout.Submit(ctx, flows.None{})
	return a.reportSubmit(err, nil)
}

func (a *App) WhoAmI(context.Context) error {
	switch {
	case !a.isLoggedIn():
		fmt.Fprintln(a.out, "Not signed in")
	case a.session.Subject() != "":
		fmt.Fprintln(a.out, "Signed in as", a.session.Subject())
	default:
		fmt.Fprintln(a.out, "Signed in")
	}
	return nil
}

// Detect uploads the image at path, prompting for the path when it is empty,
// and shows the diagnosis.
func (a *App) Detect(ctx context.Context, path string) error {
	if path == "" {
		var err error
		if path, err = getSimpleText(a.reader, "Path to image", "", a.out); err != nil {
			return err
		}
	}

	req, err := services.LoadUpload(path)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, common.ErrNotAnImage) {
			msg = "file must be an image"
		}
		a.notifier.Error("Failed to analyze image: " + msg)
		return err
	}

	fmt.Fprintln(a.out, mutedStyle.Render("Analyzing "+req.Filename+"..."))
	res, err := a.upload.Submit(ctx, req)
	if err != nil {
		return a.reportSubmit(err, a.upload.FieldErrors())
	}
	fmt.Fprint(a.out, renderResult(res, a.baseURL))
	return nil
}

func (a *App) History(ctx context.Context) error {
	v := flows.NewHistoryView(a.diseases, a.log)
	items, err := waitList(ctx, a, v, "history")
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No analyses yet")
		return nil
	}
	fmt.Fprintln(a.out, renderHistory(items))
	return nil
}

func (a *App) Diseases(ctx context.Context) error {
	v := flows.NewDiseasesView(a.diseases, a.log)
	items, err := waitList(ctx, a, v, "diseases")
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No diseases known")
		return nil
	}
	fmt.Fprintln(a.out, renderDiseases(items))
	return nil
}

// waitList mounts v, waits for it to settle and reports a failure. The view
// is unmounted on return, so an interrupted fetch is dropped.
func waitList[T any](ctx context.Context, a *App, v *flows.ListView[T], what string) ([]T, error) {
	v.Mount(ctx)
	defer v.Unmount()

	fmt.Fprintln(a.out, mutedStyle.Render("Loading "+what+"..."))
	if err := v.Wait(ctx); err != nil {
		fmt.Fprintln(a.out, hintStyle.Render("Cancelled"))
		return nil, err
	}

	state, items, err := v.Snapshot()
	if state == flows.ListFailed {
		a.notifier.Error(fmt.Sprintf("Failed to load %s: %s", what, client.Message(err)))
		return nil, err
	}
	return items, nil
}

func (a *App) Home(context.Context) error {
	fmt.Fprint(a.out, renderHome())
	return nil
}

func (a *App) About(context.Context) error {
	fmt.Fprint(a.out, renderAbout())
	return nil
}
