package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mlevkov/authd/internal/common"
)

func (a *App) postForm(ctx context.Context, method, path string, form url.Values) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(body), nil
}

func (a *App) Register(ctx context.Context) {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	password, err := GetPassword(a.out, "Enter password")
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	defer common.WipeByteArray(password)

	form := url.Values{"email": {email}, "password": {string(password)}}
	status, body, err := a.postForm(ctx, http.MethodPost, "/users", form)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	if status != http.StatusOK {
		fmt.Fprintf(a.out, "Registration failed: %s\n", body)
		return
	}
	fmt.Fprintln(a.out, "Success!")
}

func (a *App) Login(ctx context.Context) {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	password, err := GetPassword(a.out, "Enter password")
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	defer common.WipeByteArray(password)

	form := url.Values{"email": {email}, "password": {string(password)}}
	status, body, err := a.postForm(ctx, http.MethodPost, "/sessions", form)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	if status != http.StatusOK {
		fmt.Fprintf(a.out, "Login failed: %s\n", body)
		return
	}
	fmt.Fprintln(a.out, "Logged in.")
}

func (a *App) Profile(ctx context.Context) {

	status, body, err := a.postForm(ctx, http.MethodGet, "/profile", nil)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	if status != http.StatusOK {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}
	fmt.Fprintln(a.out, body)
}

func (a *App) Logout(ctx context.Context) {

	status, _, err := a.postForm(ctx, http.MethodDelete, "/sessions", nil)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	// the server answers with a redirect to the welcome page
	if status != http.StatusOK && status != http.StatusFound {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}
	fmt.Fprintln(a.out, "Logged out.")
}

func (a *App) ResetPassword(ctx context.Context) {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	status, body, err := a.postForm(ctx, http.MethodPost, "/reset_password", url.Values{"email": {email}})
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	if status != http.StatusOK {
		fmt.Fprintf(a.out, "Reset request failed: %s\n", body)
		return
	}
	fmt.Fprintf(a.out, "Reset token issued: %s\n", body)

	token, err := GetSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	password, err := GetPassword(a.out, "Enter new password")
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	defer common.WipeByteArray(password)

	form := url.Values{
		"email":        {email},
		"reset_token":  {token},
		"new_password": {string(password)},
	}
	status, body, err = a.postForm(ctx, http.MethodPut, "/reset_password", form)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	if status != http.StatusOK {
		fmt.Fprintf(a.out, "Password update failed: %s\n", body)
		return
	}
	fmt.Fprintln(a.out, "Password updated.")
}
