package attachments

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// driveChunkSize is the resumable upload chunk; files above it report
// progress per chunk.
const driveChunkSize = 8 * 1024 * 1024

// DriveConfig holds the OAuth2 client and target folder for Drive storage.
type DriveConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	RedirectURL  string
	FolderID     string // optional parent folder
}

// Validate reports missing credentials.
func (c DriveConfig) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "" {
		return errors.New("google_client_id, google_client_secret and google_refresh_token are required for gdrive storage")
	}
	return nil
}

// Drive uploads files to Google Drive and makes them readable by anyone
// with the link.
type Drive struct {
	svc      *drive.Service
	folderID string
}

// NewDrive builds a Drive client from a stored refresh token.
func NewDrive(ctx context.Context, cfg DriveConfig) (*Drive, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	redirect := cfg.RedirectURL
	if redirect == "" {
		redirect = "http://localhost"
	}
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
	}
	ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return NewDriveWithService(svc, cfg.FolderID), nil
}

// NewDriveWithService wraps an existing service.
func NewDriveWithService(svc *drive.Service, folderID string) *Drive {
	return &Drive{svc: svc, folderID: folderID}
}

// DriveEmbedLink returns the URL clients embed: a direct view link for
// images and the preview page for anything else.
func DriveEmbedLink(fileID, mimeType string) string {
	if IsImage(mimeType) {
		return "https://drive.google.com/uc?export=view&id=" + fileID
	}
	return "https://drive.google.com/file/d/" + fileID + "/preview"
}

// Put uploads in.Path, grants anyone:reader and returns the file metadata.
func (d *Drive) Put(ctx context.Context, in Input) (Object, error) {
	f, err := os.Open(in.Path)
	if err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrNoFile, err)
	}
	defer f.Close()

	meta := &drive.File{Name: in.Name}
	if d.folderID != "" {
		meta.Parents = []string{d.folderID}
	}

	created, err := d.svc.Files.Create(meta).
		Media(f, googleapi.ContentType(in.MimeType), googleapi.ChunkSize(driveChunkSize)).
		ProgressUpdater(func(current, _ int64) { report(in.Progress, current) }).
		Fields("id", "mimeType").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return Object{}, fmt.Errorf("drive upload: %w", err)
	}
	report(in.Progress, in.Size)

	_, err = d.svc.Permissions.Create(created.Id, &drive.Permission{Role: "reader", Type: "anyone"}).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return Object{}, fmt.Errorf("drive share: %w", err)
	}

	mt := created.MimeType
	if mt == "" {
		mt = in.MimeType
	}
	return Object{
		StorageID: created.Id,
		MimeType:  mt,
		EmbedLink: DriveEmbedLink(created.Id, mt),
	}, nil
}
