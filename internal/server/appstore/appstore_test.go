package appstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestDownloadURL_ConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("cfg-fail")
	}

	st := New(Options{Bucket: "b", ObjectKey: "app.apk"})
	_, err := st.DownloadURL(context.Background())
	if err == nil || err.Error() != "cfg-fail" {
		t.Fatalf("want cfg-fail, got %v", err)
	}
}

func TestDownloadURL_PresignError(t *testing.T) {
	origLoad, origNewS3, origNewPre, origGet := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if in.Bucket == nil || *in.Bucket != "b" {
			t.Fatalf("unexpected bucket: %v", in.Bucket)
		}
		if in.Key == nil || *in.Key != "app.apk" {
			t.Fatalf("unexpected key: %v", in.Key)
		}
		return nil, errors.New("presign-fail")
	}

	st := New(Options{Bucket: "b", ObjectKey: "app.apk"})
	_, err := st.DownloadURL(context.Background())
	if err == nil || err.Error() != "presign-fail" {
		t.Fatalf("want presign-fail, got %v", err)
	}
}

func TestDownloadURL_Success(t *testing.T) {
	origLoad, origNewS3, origNewPre, origGet := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "https://dl.example/app.apk?sig=x"}, nil
	}

	st := New(Options{Bucket: "b", ObjectKey: "app.apk"})
	url, err := st.DownloadURL(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if url != "https://dl.example/app.apk?sig=x" {
		t.Fatalf("unexpected url: %q", url)
	}
}
