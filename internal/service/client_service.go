package service

import (
	"context"

	"lon-tracker/internal/repository"
)

// ============================================
// Client Service
// ============================================

type ClientService interface {
	Create(ctx context.Context, client *repository.Client) (*repository.Client, error)
	GetByID(ctx context.Context, id string) (*repository.Client, error)
	GetAll(ctx context.Context) ([]*repository.Client, error)
	Update(ctx context.Context, client *repository.Client) (*repository.Client, error)
	Delete(ctx context.Context, id string) error
}

type clientService struct {
	clientRepo  repository.ClientRepository
	projectRepo repository.ProjectRepository
}

func NewClientService(clientRepo repository.ClientRepository, projectRepo repository.ProjectRepository) ClientService {
	return &clientService{clientRepo: clientRepo, projectRepo: projectRepo}
}

func (s *clientService) Create(ctx context.Context, client *repository.Client) (*repository.Client, error) {
	if client.Name == "" {
		return nil, ErrInvalidInput
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, id string) (*repository.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrNotFound
	}
	return client, nil
}

func (s *clientService) GetAll(ctx context.Context) ([]*repository.Client, error) {
	return s.clientRepo.FindAll(ctx)
}

func (s *clientService) Update(ctx context.Context, client *repository.Client) (*repository.Client, error) {
	existing, err := s.clientRepo.FindByID(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if client.Name == "" {
		return nil, ErrInvalidInput
	}
	client.CreatedAt = existing.CreatedAt
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete refuses to remove a client that still has projects. The database
// RESTRICT constraint backs this up, but the pre-check gives a clean error.
func (s *clientService) Delete(ctx context.Context, id string) error {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if client == nil {
		return ErrNotFound
	}

	count, err := s.projectRepo.CountByClientID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrClientInUse
	}

	return s.clientRepo.Delete(ctx, id)
}
