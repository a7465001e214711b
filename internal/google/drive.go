package google

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"donna/internal/logger"
)

// Drive uploads files into Drive folders. An empty destination falls back to
// the shared folder; no destination at all lands the file in the service
// account's private Drive.
type Drive struct {
	svc            *drive.Service
	sharedFolderID string
}

func NewDrive(ctx context.Context, credentialsJSON []byte, sharedFolderID string) (*Drive, error) {
	if err := validateCredentials(credentialsJSON); err != nil {
		return nil, err
	}

	svc, err := drive.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(drive.DriveFileScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Drive{
		svc:            svc,
		sharedFolderID: sharedFolderID,
	}, nil
}

// Upload stores the local file and returns a user-facing confirmation with
// the file link (and folder link when a destination was used).
func (d *Drive) Upload(ctx context.Context, localPath, mimeType, folderID string) (string, error) {
	if folderID == "" {
		folderID = d.sharedFolderID
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	metadata := &drive.File{Name: filepath.Base(localPath)}
	if folderID != "" {
		metadata.Parents = []string{folderID}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	call := d.svc.Files.Create(metadata).
		Fields("id, parents").
		Context(ctx)
	if mimeType != "" {
		call = call.Media(file, googleapi.ContentType(mimeType))
	} else {
		call = call.Media(file)
	}

	uploaded, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("drive upload failed: %w", err)
	}

	logger.Info().Str("file_id", uploaded.Id).Str("name", metadata.Name).Msg("uploaded file to drive")

	response := fmt.Sprintf("✅ File uploaded. File link: https://drive.google.com/file/d/%s/view", uploaded.Id)
	if folderID != "" {
		response += fmt.Sprintf("\n📁 File was uploaded into folder: https://drive.google.com/drive/folders/%s", folderID)
	}
	return response, nil
}
