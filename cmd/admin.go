package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"tunedeck/internal/formatter"
	"tunedeck/internal/gateway"
	"tunedeck/internal/shared"
)

// adminToken resolves the token for management calls: the stored admin
// session wins over the configured static token.
func (r *Runner) adminToken() (string, error) {
	if token := r.sess.AdminToken(); token != "" {
		return token, nil
	}
	if token := r.config.Admin.Token; token != "" {
		return token, nil
	}
	return "", fmt.Errorf("%w: run 'tunedeck admin login' first", shared.ErrNotAdmin)
}

// AdminLogin signs in to the admin area. Non-admin accounts are rejected.
func (r *Runner) AdminLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	password := cmd.StringArg("password")
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
	}

	sess, err := r.sess.AdminLogin(ctx, email, password)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Admin session established for %s\n", sess.Name)
}

// AdminLogout clears the admin session.
func (r *Runner) AdminLogout(ctx context.Context, cmd *cli.Command) error {
	r.sess.AdminLogout()
	return r.writePlain("✓ Admin session cleared\n")
}

// AdminUsersList prints every account.
func (r *Runner) AdminUsersList(ctx context.Context, cmd *cli.Command) error {
	token, err := r.adminToken()
	if err != nil {
		return err
	}

	users, err := r.gw.ListUsers(ctx, token, !cmd.Bool("fresh"))
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(users, true)
	case cmd.Bool("csv"):
		data, err := formatter.UsersToCSV(users)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	default:
		_, err = r.output.Write(formatter.UsersToText(users))
		return err
	}
}

// AdminUsersUpdate updates account fields.
func (r *Runner) AdminUsersUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: user id is required", shared.ErrMissingArgument)
	}

	token, err := r.adminToken()
	if err != nil {
		return err
	}

	fields := map[string]any{}
	if v := cmd.String("name"); v != "" {
		fields["FullName"] = v
	}
	if v := cmd.String("email"); v != "" {
		fields["email"] = v
	}
	if v := cmd.String("type"); v != "" {
		fields["userType"] = v
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	user, err := r.gw.UpdateUser(ctx, token, id, fields)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Updated %s\n", user.ID)
}

// AdminUsersDelete deletes an account.
func (r *Runner) AdminUsersDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: user id is required", shared.ErrMissingArgument)
	}

	token, err := r.adminToken()
	if err != nil {
		return err
	}

	if err := r.gw.DeleteUser(ctx, token, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted %s\n", id)
}

// AdminTracksUpload uploads a new track with its media files.
func (r *Runner) AdminTracksUpload(ctx context.Context, cmd *cli.Command) error {
	token, err := r.adminToken()
	if err != nil {
		return err
	}

	up := gateway.TrackUpload{
		Title:         cmd.String("title"),
		Artist:        cmd.String("artist"),
		Genre:         cmd.String("genre"),
		MusicPath:     cmd.String("audio"),
		ThumbnailPath: cmd.String("thumbnail"),
	}
	if d := cmd.Float("duration"); d > 0 {
		up.Duration = strconv.FormatFloat(d, 'f', -1, 64)
	}

	track, err := r.gw.CreateTrack(ctx, token, up)
	if err != nil {
		return err
	}

	r.logger.Info("track uploaded", "id", track.ID, "title", track.Title)
	return r.writePlain("✓ Uploaded %s (%s)\n", track.Title, track.ID)
}

// AdminTracksUpdate updates track metadata.
func (r *Runner) AdminTracksUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrMissingArgument)
	}

	token, err := r.adminToken()
	if err != nil {
		return err
	}

	fields := map[string]any{}
	if v := cmd.String("title"); v != "" {
		fields["title"] = v
	}
	if v := cmd.String("artist"); v != "" {
		fields["artist"] = v
	}
	if v := cmd.String("genre"); v != "" {
		fields["genre"] = v
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	track, err := r.gw.UpdateTrack(ctx, token, id, fields)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Updated %s\n", track.ID)
}

// AdminTracksDelete deletes a track from the catalog.
func (r *Runner) AdminTracksDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrMissingArgument)
	}

	token, err := r.adminToken()
	if err != nil {
		return err
	}

	if err := r.gw.DeleteTrack(ctx, token, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted %s\n", id)
}
