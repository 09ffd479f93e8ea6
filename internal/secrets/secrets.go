// Package secrets retrieves credential material (the pass signing
// certificate bundle, the push provider key) from a secret store. The
// values are opaque to the rest of the system.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ErrNotFound is returned when the named secret does not exist.
var ErrNotFound = errors.New("secret not found")

// Store retrieves named secrets.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
}

// SSMStore reads secrets from AWS Systems Manager Parameter Store with
// decryption.
type SSMStore struct {
	client *ssm.Client
}

// NewSSMStore creates a Parameter Store backed secret store.
func NewSSMStore(client *ssm.Client) *SSMStore {
	return &SSMStore{client: client}
}

func (s *SSMStore) Get(ctx context.Context, name string) ([]byte, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("ssm get %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, ErrNotFound
	}
	return []byte(*out.Parameter.Value), nil
}

// DirStore reads secrets from files in a directory; secret names map to
// filenames with path separators flattened. Used for dev and test.
type DirStore struct {
	baseDir string
}

// NewDirStore creates a directory backed secret store.
func NewDirStore(baseDir string) *DirStore {
	return &DirStore{baseDir: baseDir}
}

func (s *DirStore) Get(_ context.Context, name string) ([]byte, error) {
	filename := strings.ReplaceAll(strings.TrimPrefix(name, "/"), "/", "_")

	root, err := os.OpenRoot(s.baseDir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	data, err := root.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, err
}
