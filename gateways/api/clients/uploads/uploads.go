package uploads

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	config "github.com/vaultscribe/backend/config/api"
)

const (
	BackendS3    = "s3"
	BackendAzure = "azure"
	BackendLocal = "local"
)

// Provider is the storage-location collaborator. Given a session id and
// filename it returns an upload target: a presigned S3 PUT URL, an Azure SAS
// write URL, or the local upload endpoint. Backend settings are validated
// here, once, at startup.
type Provider struct {
	backend    string
	expiration time.Duration
	log        *slog.Logger

	// local
	localDir string

	// s3
	presigner *s3.PresignClient
	bucket    string
	region    string

	// azure
	azureCred      *azblob.SharedKeyCredential
	azureAccount   string
	azureContainer string
}

func New(ctx context.Context, cfg *config.Storage, log *slog.Logger) (*Provider, error) {
	p := &Provider{
		backend:    cfg.Backend,
		expiration: time.Duration(cfg.UploadExpiration) * time.Second,
		log:        log,
	}

	switch cfg.Backend {
	case BackendS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("uploads: STORAGE_S3_BUCKET_NAME must be set when using the s3 backend")
		}
		loadOpts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.AWSRegion),
		}
		if cfg.AWSAccessKeyID != "" && cfg.AWSSecretKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, "")))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("uploads: load AWS config: %w", err)
		}
		p.presigner = s3.NewPresignClient(s3.NewFromConfig(awsCfg))
		p.bucket = cfg.S3Bucket
		p.region = cfg.AWSRegion

	case BackendAzure:
		if cfg.AzureAccount == "" || cfg.AzureKey == "" {
			return nil, fmt.Errorf("uploads: STORAGE_AZURE_ACCOUNT_NAME and STORAGE_AZURE_ACCOUNT_KEY must be set when using the azure backend")
		}
		cred, err := azblob.NewSharedKeyCredential(cfg.AzureAccount, cfg.AzureKey)
		if err != nil {
			return nil, fmt.Errorf("uploads: azure credential: %w", err)
		}
		p.azureCred = cred
		p.azureAccount = cfg.AzureAccount
		p.azureContainer = cfg.AzureContainer

	case BackendLocal:
		if err := os.MkdirAll(cfg.LocalDir, 0o755); err != nil {
			return nil, fmt.Errorf("uploads: create local uploads dir: %w", err)
		}
		p.localDir = cfg.LocalDir

	default:
		return nil, fmt.Errorf("uploads: unsupported storage backend %q", cfg.Backend)
	}

	log.Info("upload provider initialized",
		slog.String("backend", cfg.Backend),
		slog.Duration("url_expiration", p.expiration))

	return p, nil
}

func (p *Provider) Backend() string {
	return p.backend
}

// UploadURL returns the target a client should upload the recording to.
func (p *Provider) UploadURL(ctx context.Context, sessionID, filename string) (string, error) {
	switch p.backend {
	case BackendS3:
		return p.s3UploadURL(ctx, sessionID, filename)
	case BackendAzure:
		return p.azureUploadURL(sessionID, filename)
	default:
		return fmt.Sprintf("/api/v1/sessions/%s/upload", sessionID), nil
	}
}

func (p *Provider) s3UploadURL(ctx context.Context, sessionID, filename string) (string, error) {
	req, err := p.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(sessionID + "/" + filename),
		ContentType: aws.String("audio/webm"),
	}, s3.WithPresignExpires(p.expiration))
	if err != nil {
		return "", fmt.Errorf("uploads: presign s3 put: %w", err)
	}
	return req.URL, nil
}

func (p *Provider) azureUploadURL(sessionID, filename string) (string, error) {
	blobName := sessionID + "/" + filename
	params, err := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		ExpiryTime:    time.Now().UTC().Add(p.expiration),
		Permissions:   (&sas.BlobPermissions{Write: true, Create: true}).String(),
		ContainerName: p.azureContainer,
		BlobName:      blobName,
	}.SignWithSharedKey(p.azureCred)
	if err != nil {
		return "", fmt.Errorf("uploads: sign azure sas: %w", err)
	}
	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s?%s",
		p.azureAccount, p.azureContainer, blobName, params.Encode()), nil
}

// SaveLocal writes an uploaded body to disk and returns the stored path.
// Only valid for the local backend; remote backends receive uploads
// directly at the signed URL.
func (p *Provider) SaveLocal(sessionID, filename string, body io.Reader, limit int64) (string, error) {
	if p.backend != BackendLocal {
		return "", fmt.Errorf("uploads: direct upload not supported for %s backend", p.backend)
	}

	dir := filepath.Join(p.localDir, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("uploads: create session dir: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("uploads: create file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(body, limit+1))
	if err != nil {
		return "", fmt.Errorf("uploads: write file: %w", err)
	}
	if written > limit {
		os.Remove(path)
		return "", fmt.Errorf("uploads: file exceeds %d byte limit", limit)
	}

	p.log.Debug("recording stored locally",
		slog.String("session_id", sessionID),
		slog.String("path", path),
		slog.Int64("bytes", written))

	return path, nil
}

// Info reports backend metadata for diagnostics.
func (p *Provider) Info() map[string]any {
	info := map[string]any{
		"backend":                p.backend,
		"url_expiration_seconds": int(p.expiration.Seconds()),
	}
	switch p.backend {
	case BackendS3:
		info["bucket"] = p.bucket
		info["region"] = p.region
	case BackendAzure:
		info["account"] = p.azureAccount
		info["container"] = p.azureContainer
	case BackendLocal:
		info["upload_directory"] = p.localDir
	}
	return info
}
