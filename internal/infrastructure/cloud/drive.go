// Package cloud uploads bill backups to Google Drive.
package cloud

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveUploader writes files into one Drive folder
type DriveUploader struct {
	client   *drive.Service
	folderID string
}

// NewDriveUploader creates an uploader from a service account JSON file.
func NewDriveUploader(ctx context.Context, credentialsFile, folderID string) (*DriveUploader, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}

	client, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveUploader{
		client:   client,
		folderID: folderID,
	}, nil
}

// Upload stores data as a JSON file called name and returns its file ID
func (u *DriveUploader) Upload(ctx context.Context, name string, data []byte) (string, error) {
	file := &drive.File{
		Name:     name,
		MimeType: "application/json",
	}
	if u.folderID != "" {
		file.Parents = []string{u.folderID}
	}

	created, err := u.client.Files.Create(file).
		Media(bytes.NewReader(data)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return created.Id, nil
}
