/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Backend implements httpcache.Cache on top of an S3 bucket. It backs both
// the tournament store and the http response cache; the two use different
// prefixes within the bucket.
type S3Backend struct {
	// Client may be replaced before use; Init creates one from the default
	// AWS configuration sources otherwise.
	Client *s3.Client

	bucket string
	prefix string
	gzip   bool
	ctx    context.Context
}

// NewS3Backend returns a backend storing objects under prefix in bucket.
// With gzipIn set objects are compressed and get a ".gz" suffix. Callers
// must invoke Init before use.
func NewS3Backend(ctx context.Context, bucket, prefix string,
	gzipIn bool) *S3Backend {

	return &S3Backend{
		ctx:    ctx,
		bucket: bucket,
		prefix: prefix,
		gzip:   gzipIn,
	}
}

// Init loads the default AWS configuration (environment, shared config and
// credentials files) and checks that the bucket is reachable.
func (b *S3Backend) Init() error {
	if b.Client == nil {
		cfg, err := config.LoadDefaultConfig(b.ctx)
		if err != nil {
			return fmt.Errorf("store.init: failed to load AWS config: %w", err)
		}
		b.Client = s3.NewFromConfig(cfg)
	}

	if _, err := b.Client.HeadBucket(b.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucket),
	}); err != nil {
		return fmt.Errorf("store.init: head bucket failed for %s: %w", b.bucket,
			err)
	}

	return nil
}

func (b *S3Backend) Get(key string) ([]byte, bool) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(key)),
	}

	resp, err := b.Client.GetObject(b.ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		// no such key is just a miss
		if !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey") {
			log.Printf("store.s3get: failed to get %v/%v: %v", b.bucket,
				*input.Key, err)
		}
		return nil, false
	}
	defer resp.Body.Close()

	rdr := resp.Body
	if b.gzip {
		rdr, err = gzip.NewReader(rdr)
		if err != nil {
			log.Printf("store.s3get: failed to open compressed %v/%v: %v",
				b.bucket, *input.Key, err)
			return nil, false
		}
		defer rdr.Close()
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		log.Printf("store.s3get: failed to read %v/%v: %v", b.bucket,
			*input.Key, err)
		return nil, false
	}

	return data, true
}

func (b *S3Backend) Set(key string, data []byte) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(key)),
		Body:   bytes.NewReader(data),
	}

	if b.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			log.Printf("store.s3set: failed to gzip %v/%v: %v", b.bucket,
				*input.Key, err)
			return
		}
		if err := gw.Close(); err != nil {
			log.Printf("store.s3set: failed to close gzip writer for %v/%v: %v",
				b.bucket, *input.Key, err)
			return
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := b.Client.PutObject(b.ctx, input); err != nil {
		log.Printf("store.s3set: put failed for %v/%v: %v", b.bucket,
			*input.Key, err)
	}
}

func (b *S3Backend) Delete(key string) {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(key)),
	}

	if _, err := b.Client.DeleteObject(b.ctx, input); err != nil {
		log.Printf("store.s3delete: delete failed for %v/%v: %v", b.bucket,
			*input.Key, err)
	}
}

// objectKey hashes key so arbitrary cache keys (e.g. URLs) map to valid
// object names.
func (b *S3Backend) objectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	objKey := path.Join("/", b.prefix, hex.EncodeToString(h.Sum(nil)))
	if b.gzip {
		objKey += ".gz"
	}

	return objKey
}
