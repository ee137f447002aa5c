package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrR2NotConfigured = errors.New("missing required R2 environment variables")

var (
	r2Client     *s3.Client
	r2Bucket     string
	r2PublicBase string
	r2InitErr    error
	initOnce     sync.Once
)

// R2Configured reports whether invoice uploads are enabled.
func R2Configured() bool {
	return os.Getenv("R2_BUCKET") != "" && os.Getenv("R2_ACCOUNT_ID") != "" && os.Getenv("R2_PUBLIC_URL") != ""
}

// initR2 initializes the R2 client once
func initR2() error {
	initOnce.Do(func() {
		r2Bucket = os.Getenv("R2_BUCKET")
		accountID := os.Getenv("R2_ACCOUNT_ID")
		r2PublicBase = os.Getenv("R2_PUBLIC_URL")

		if !R2Configured() {
			r2InitErr = ErrR2NotConfigured
			return
		}

		endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

		cfg, err := config.LoadDefaultConfig(context.Background(),
			config.WithRegion("auto"),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				os.Getenv("R2_ACCESS_KEY_ID"),
				os.Getenv("R2_SECRET_ACCESS_KEY"),
				"",
			)),
		)
		if err != nil {
			r2InitErr = fmt.Errorf("failed to load R2 config: %w", err)
			return
		}

		r2Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	})
	return r2InitErr
}

// UploadToR2 uploads an invoice PDF and returns its public URL.
func UploadToR2(ctx context.Context, fileBytes []byte, filename string) (string, error) {
	if err := initR2(); err != nil {
		return "", err
	}

	key := filepath.Base(filename)
	_, err := r2Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r2Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(fileBytes),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}

	return PublicObjectURL(r2PublicBase, key), nil
}

// DeleteFromR2 deletes a previously uploaded invoice by its public URL.
func DeleteFromR2(ctx context.Context, fileURL string) error {
	if err := initR2(); err != nil {
		return err
	}

	key, err := ObjectKeyFromURL(fileURL)
	if err != nil {
		return err
	}

	_, err = r2Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r2Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete R2 object: %w", err)
	}
	return nil
}

func PublicObjectURL(base, key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), url.PathEscape(key))
}

func ObjectKeyFromURL(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("invalid file URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid file URL: %q", fileURL)
	}
	return filepath.Base(u.Path), nil
}
