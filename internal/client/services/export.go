package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/scankeeper/internal/client/config"
	"github.com/dmitrijs2005/scankeeper/internal/client/repositories/history"
	"github.com/dmitrijs2005/scankeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/scankeeper/internal/common"
	"github.com/dmitrijs2005/scankeeper/internal/cryptox"
	"github.com/dmitrijs2005/scankeeper/internal/logging"
	"github.com/dmitrijs2005/scankeeper/internal/rpc"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}

	presignGetObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return s3.NewPresignClient(c).PresignGetObject(ctx, in, optFns...)
	}
)

// exportLinkTTL is how long the download link of an export stays valid.
const exportLinkTTL = 15 * time.Minute

// Snapshot is the JSON document written by Export.
type Snapshot struct {
	ExportedAt time.Time         `json:"exported_at"`
	Items      []rpc.HistoryItem `json:"items"`
}

type ExportResult struct {
	Key   string
	URL   string
	Count int
}

type ExportService struct {
	history  history.Repository
	metadata metadata.Repository
	cfg      config.S3
	logger   logging.Logger
	now      func() time.Time
}

func NewExportService(history history.Repository, metadata metadata.Repository, cfg config.S3, logger logging.Logger) *ExportService {
	return &ExportService{
		history:  history,
		metadata: metadata,
		cfg:      cfg,
		logger:   logger.With("module", "export"),
		now:      time.Now,
	}
}

func (s *ExportService) Enabled() bool { return s.cfg.Bucket != "" }

// exportKey lays exports out by day. Sealed snapshots get a ".sealed.json"
// suffix.
func exportKey(t time.Time, sealed bool) string {
	ext := "json"
	if sealed {
		ext = "sealed.json"
	}
	return fmt.Sprintf("exports/%d/%02d/%02d/%v.%s", t.Year(), t.Month(), t.Day(), uuid.New(), ext)
}

func (s *ExportService) s3Client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(s.cfg.Region)}
	if s.cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.cfg.AccessKey, s.cfg.SecretKey, "")))
	}
	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
			// MinIO and other self-hosted endpoints need path-style URLs.
			o.UsePathStyle = true
		}
	}), nil
}

// Export uploads the whole local history as a JSON snapshot and returns
// the object key together with a time-limited download link.
func (s *ExportService) Export(ctx context.Context) (*ExportResult, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("export: s3 bucket %w", common.ErrorNotConfigured)
	}

	items, err := s.history.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("export: list history: %w", err)
	}

	now := s.now().UTC()
	snap := Snapshot{ExportedAt: now, Items: make([]rpc.HistoryItem, 0, len(items))}
	for _, it := range items {
		snap.Items = append(snap.Items, it.ToWire())
	}
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode snapshot: %w", err)
	}
	sealed := s.cfg.Passphrase != ""
	if sealed {
		if body, err = cryptox.Seal(body, []byte(s.cfg.Passphrase)); err != nil {
			return nil, fmt.Errorf("export: seal snapshot: %w", err)
		}
	}

	c, err := s.s3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: s3 config: %w", err)
	}

	key := exportKey(now, sealed)
	err = putObject(c, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("export: upload: %w", err)
	}

	req, err := presignGetObject(c, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(exportLinkTTL))
	if err != nil {
		return nil, fmt.Errorf("export: presign: %w", err)
	}

	if err := s.metadata.Set(ctx, metadata.KeyLastExportKey, key); err != nil {
		return nil, fmt.Errorf("export: save key: %w", err)
	}

	s.logger.Info(ctx, "history exported", "key", key, "items", len(items), "sealed", sealed)
	return &ExportResult{Key: key, URL: req.URL, Count: len(items)}, nil
}

// LastExport returns the key of the most recent export.
func (s *ExportService) LastExport(ctx context.Context) (string, bool, error) {
	return s.metadata.Get(ctx, metadata.KeyLastExportKey)
}
