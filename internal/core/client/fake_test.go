package client_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rschio/pawnshop/internal/core/client"
)

type fakeStore struct {
	clients map[uuid.UUID]client.Client
	updates int
}

func (s *fakeStore) Create(_ context.Context, c client.Client) error {
	if s.clients == nil {
		s.clients = make(map[uuid.UUID]client.Client)
	}
	s.clients[c.ID] = c
	return nil
}

func (s *fakeStore) Update(_ context.Context, c client.Client) error {
	s.updates++
	s.clients[c.ID] = c
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.clients, id)
	return nil
}

func (s *fakeStore) QueryAll(context.Context) ([]client.Client, error) {
	var cs []client.Client
	for _, c := range s.clients {
		cs = append(cs, c)
	}
	return cs, nil
}

func (s *fakeStore) QueryByID(_ context.Context, id uuid.UUID) (client.Client, error) {
	c, ok := s.clients[id]
	if !ok {
		return client.Client{}, client.ErrNotFound
	}
	return c, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
