package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/recordkeeper/internal/server/config"
	"github.com/dmitrijs2005/recordkeeper/internal/server/models"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Snapshot is the document written to object storage.
type Snapshot struct {
	ExportedAt int64           `json:"exported_at"`
	Count      int             `json:"count"`
	Records    []models.Record `json:"records"`
}

// SnapshotService writes point-in-time copies of the ledger to S3 and hands
// out presigned download links.
type SnapshotService struct {
	ledger *LedgerService
	config *sc.Config
	now    func() time.Time
}

func NewSnapshotService(ledger *LedgerService, cfg *sc.Config) *SnapshotService {
	return &SnapshotService{ledger: ledger, config: cfg, now: time.Now}
}

// snapshotKey builds snapshots/YYYY/MM/DD/<uuid>.json for t.
func snapshotKey(t time.Time) string {
	return fmt.Sprintf("snapshots/%04d/%02d/%02d/%v.json", t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *SnapshotService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export uploads every record as JSON and returns the object key together
// with a presigned GET URL.
func (s *SnapshotService) Export(ctx context.Context) (string, string, error) {
	recs, err := s.ledger.List(ctx)
	if err != nil {
		return "", "", fmt.Errorf("error listing records: %w", err)
	}
	if recs == nil {
		recs = []models.Record{}
	}

	now := s.now()
	body, err := json.Marshal(Snapshot{ExportedAt: now.UnixMilli(), Count: len(recs), Records: recs})
	if err != nil {
		return "", "", err
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := snapshotKey(now)

	if err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return "", "", fmt.Errorf("error uploading snapshot: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.SnapshotURLValidity))
	if err != nil {
		return "", "", fmt.Errorf("error presigning snapshot: %w", err)
	}

	return key, req.URL, nil
}
