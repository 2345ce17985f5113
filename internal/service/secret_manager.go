package service

import (
	"context"
	"fmt"

	"coldopen/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// SecretManagerService reads secrets from GCP Secret Manager.
type SecretManagerService interface {
	AccessLatest(ctx context.Context, secretName string) (string, error)
	Close() error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManagerService(ctx context.Context, projectID string) (SecretManagerService, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GCP project ID is not set")
	}

	var opts []option.ClientOption
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretManagerService{
		client:    client,
		projectID: projectID,
	}, nil
}

func (s *secretManagerService) AccessLatest(ctx context.Context, secretName string) (string, error) {
	resourceName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, secretName)

	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}

	return string(result.Payload.Data), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}

// ResolveLLMAPIKey returns the completion-provider API key: the literal value
// from the environment when set, otherwise the latest version of the
// configured secret.
func ResolveLLMAPIKey(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.LLMAPIKey != "" {
		return cfg.LLMAPIKey, nil
	}
	if cfg.LLMAPIKeySecret == "" {
		return "", fmt.Errorf("neither LLM_API_KEY nor LLM_API_KEY_SECRET_NAME is set")
	}

	sm, err := NewSecretManagerService(ctx, cfg.GCPProjectID)
	if err != nil {
		return "", err
	}
	defer sm.Close()

	key, err := sm.AccessLatest(ctx, cfg.LLMAPIKeySecret)
	if err != nil {
		return "", fmt.Errorf("resolving LLM API key: %w", err)
	}
	return key, nil
}
