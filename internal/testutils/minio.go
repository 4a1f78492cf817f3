//go:build integration

package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/s3blob"
)

const (
	minioAccessKey = "minioadmin"
	minioSecretKey = "minioadmin"
)

// MinioEnv describes a running minio server with one bucket.
type MinioEnv struct {
	Container testcontainers.Container
	Bucket    string
	Endpoint  string
}

// BucketQuery is the gocloud s3 query string that points at the container.
func (e *MinioEnv) BucketQuery() string {
	return fmt.Sprintf("endpoint=http://%s&use_path_style=true&disable_https=true&region=us-east-1", e.Endpoint)
}

// ObjectURL returns the s3:// asset URL for key.
func (e *MinioEnv) ObjectURL(key string) string {
	return fmt.Sprintf("s3://%s/%s?%s", e.Bucket, key, e.BucketQuery())
}

// Put uploads data under key.
func (e *MinioEnv) Put(ctx context.Context, key string, data []byte, contentType string) error {
	b, err := blob.OpenBucket(ctx, fmt.Sprintf("s3://%s?%s", e.Bucket, e.BucketQuery()))
	if err != nil {
		return fmt.Errorf("open bucket: %w", err)
	}
	defer b.Close()
	return b.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType})
}

// StartMinioContainer starts minio, creates bucketName and exports the
// credentials gocloud reads from the environment. The container is
// terminated when the test ends.
func StartMinioContainer(t *testing.T, ctx context.Context, bucketName string) *MinioEnv {
	t.Helper()

	networkName := fmt.Sprintf("lobby-minio-%d", time.Now().UnixNano())
	network, err := testcontainers.GenericNetwork(ctx, testcontainers.GenericNetworkRequest{
		NetworkRequest: testcontainers.NetworkRequest{Name: networkName},
	})
	if err != nil {
		t.Fatalf("create network: %v", err)
	}
	t.Cleanup(func() { network.Remove(ctx) })

	minio, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          "minio/minio:latest",
			ExposedPorts:   []string{"9000/tcp"},
			Networks:       []string{networkName},
			NetworkAliases: map[string][]string{networkName: {"minio"}},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioAccessKey,
				"MINIO_ROOT_PASSWORD": minioSecretKey,
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/ready").WithPort("9000"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start minio container: %v", err)
	}
	t.Cleanup(func() { minio.Terminate(ctx) })

	// mc creates the bucket and exits.
	mc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:      "minio/mc:latest",
			Networks:   []string{networkName},
			Entrypoint: []string{"/bin/sh", "-c"},
			Cmd: []string{fmt.Sprintf(
				"/usr/bin/mc alias set local http://minio:9000 %s %s && /usr/bin/mc mb local/%s",
				minioAccessKey, minioSecretKey, bucketName,
			)},
			WaitingFor: wait.ForExit(),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start mc container: %v", err)
	}
	defer mc.Terminate(ctx)

	host, err := minio.Host(ctx)
	if err != nil {
		t.Fatalf("get container host: %v", err)
	}
	port, err := minio.MappedPort(ctx, "9000")
	if err != nil {
		t.Fatalf("get container port: %v", err)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", minioAccessKey)
	t.Setenv("AWS_SECRET_ACCESS_KEY", minioSecretKey)

	return &MinioEnv{
		Container: minio,
		Bucket:    bucketName,
		Endpoint:  fmt.Sprintf("%s:%s", host, port.Port()),
	}
}
