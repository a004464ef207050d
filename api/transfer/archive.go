package transfer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"SafImport/api"
)

const (
	archiveDefaultRegion = "eu-west-1"
)

func archiveBucket() string {
	return strings.TrimSpace(os.Getenv("IMPORT_ARCHIVE_S3_BUCKET"))
}

func archiveRegion() string {
	if r := strings.TrimSpace(os.Getenv("IMPORT_ARCHIVE_S3_REGION")); r != "" {
		return r
	}
	return archiveDefaultRegion
}

// isArchiveEnabled controls whether original partner files are copied
// to S3. Off unless a bucket is configured.
func isArchiveEnabled() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("IMPORT_ARCHIVE_S3_ENABLED")))
	if v == "0" || v == "false" || v == "no" {
		return false
	}
	return archiveBucket() != ""
}

// archiveImportFile keeps the original upload for audit. Failures are
// logged, never surfaced to the operator: the import already succeeded.
func archiveImportFile(fileName, sessionID string, body []byte) {
	if !isArchiveEnabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(archiveRegion()))
	if err != nil {
		api.LogError("Archive: load AWS config: %v", err)
		return
	}
	client := s3.NewFromConfig(cfg)

	key := fmt.Sprintf("imports/%s/%s_%s", time.Now().Format("2006/01/02"), sessionID, sanitizeKeySegment(fileName))
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(archiveBucket()),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		api.LogError("Archive: upload %s: %v", key, err)
		return
	}
	api.LogInfo("Archived import file to s3://%s/%s", archiveBucket(), key)
}

func sanitizeKeySegment(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
