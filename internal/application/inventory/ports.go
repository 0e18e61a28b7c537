package inventory

import "context"

// ObjectGetter obtiene el contenido de un objeto cargado (S3 o compatible).
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}
