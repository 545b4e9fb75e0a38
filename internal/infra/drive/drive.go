// Package drive retrieves GPX track logs from Google Drive.
package drive

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/oauth2"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

type Client struct {
	session *Session
}

func NewClient(session *Session) *Client {
	return &Client{session: session}
}

// Fetch lists GPX files modified within [start, end] and downloads up to
// maxFiles of them, newest first. A zero start leaves the range open on the
// left.
func (c *Client) Fetch(ctx context.Context, start, end time.Time, maxFiles int) ([][]byte, error) {
	svc, err := driveapi.NewService(ctx,
		option.WithTokenSource(oauth2.ReuseTokenSource(nil, c.session)))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	query := "name contains '.gpx' and trashed = false"
	if !start.IsZero() {
		query += fmt.Sprintf(" and modifiedTime >= '%s'", start.UTC().Format(time.RFC3339))
	}
	if !end.IsZero() {
		query += fmt.Sprintf(" and modifiedTime <= '%s'", end.UTC().Format(time.RFC3339))
	}

	if maxFiles <= 0 {
		maxFiles = 10
	}

	var ids []string
	pageToken := ""
	for {
		call := svc.Files.List().
			Context(ctx).
			Q(query).
			OrderBy("modifiedTime desc").
			PageSize(int64(maxFiles)).
			Fields("nextPageToken, files(id, name)")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("drive list: %w", err)
		}
		for _, f := range page.Files {
			ids = append(ids, f.Id)
			if len(ids) >= maxFiles {
				break
			}
		}
		if len(ids) >= maxFiles || page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	logs := make([][]byte, 0, len(ids))
	for _, id := range ids {
		resp, err := svc.Files.Get(id).Context(ctx).Download()
		if err != nil {
			return nil, fmt.Errorf("drive download %s: %w", id, err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("drive read %s: %w", id, err)
		}
		logs = append(logs, data)
	}
	return logs, nil
}
