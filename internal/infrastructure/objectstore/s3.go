// Package objectstore lee los lotes subidos a un bucket S3 (o compatible, p. ej. MinIO).
package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/Inventario-stream/pkg/config"
)

// S3Getter descarga objetos completos de S3.
type S3Getter struct {
	client *s3.Client
}

// NewS3Getter crea el cliente con la cadena de credenciales por defecto de AWS.
// Con Endpoint definido se activa path-style (MinIO y similares).
func NewS3Getter(ctx context.Context, cfg config.ObjectsConfig) (*S3Getter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return &S3Getter{client: s3.NewFromConfig(awsCfg, s3opts...)}, nil
}

// GetObject devuelve el cuerpo completo de bucket/key.
func (g *S3Getter) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body: %w", err)
	}
	return body, nil
}
