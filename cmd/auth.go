package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"tunedeck/internal/session"
	"tunedeck/internal/shared"
)

// AuthLogin signs in with email and password and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	password := cmd.StringArg("password")
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
	}

	sess, err := r.sess.Login(ctx, email, password)
	if err != nil {
		return err
	}

	r.writePlain("✓ Signed in as %s\n", sess.Name)
	r.flushToasts()
	return nil
}

// AuthRegister creates an account and signs in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	email := cmd.StringArg("email")
	password := cmd.StringArg("password")
	if name == "" || email == "" || password == "" {
		return fmt.Errorf("%w: name, email and password are required", shared.ErrMissingArgument)
	}

	sess, err := r.sess.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	r.writePlain("✓ Account created, signed in as %s\n", sess.Name)
	r.flushToasts()
	return nil
}

// AuthLogout clears the stored session. The guest device id is left in place
// so a later guest session keeps its picks.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.sess.Logout()
	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami prints the current session state.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	sess, state := r.sess.Current()

	if cmd.Bool("json") {
		payload := map[string]any{"state": state.String()}
		if state == session.StateAuthenticated {
			payload["userId"] = sess.UserID
			payload["name"] = sess.Name
			payload["email"] = sess.Email
		}
		if deviceID, ok := r.ids.DeviceID(); ok {
			payload["deviceId"] = deviceID
		}
		return r.writeJSON(payload, true)
	}

	if state == session.StateAuthenticated {
		r.writePlain("Signed in as %s <%s>\n", sess.Name, sess.Email)
	} else {
		r.writePlain("Browsing as guest\n")
	}
	if deviceID, ok := r.ids.DeviceID(); ok {
		r.writePlain("Device id: %s\n", deviceID)
	}
	return nil
}

// flushToasts prints any pending notifications (e.g. the guest merge toast)
// since the CLI has no persistent toast surface.
func (r *Runner) flushToasts() {
	for _, t := range r.sess.Toasts().Active() {
		r.writePlain("%s\n", t.Message)
		r.sess.Toasts().Dismiss(t.ID)
	}
}
