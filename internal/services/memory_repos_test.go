package services_test

import (
	"context"
	"sync"

	"github.com/fathima-sithara/contacts-service/internal/repository/repositorytest"
)

func newMemUserRepo() *repositorytest.UserRepo {
	return repositorytest.NewUserRepo()
}

func newMemContactRepo() *repositorytest.ContactRepo {
	return repositorytest.NewContactRepo()
}

type memUserRepo = repositorytest.UserRepo

type memContactRepo = repositorytest.ContactRepo

type sentMail struct {
	to   string
	link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) SendResetEmail(_ context.Context, toEmail, resetLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: toEmail, link: resetLink})
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakePhotoStore struct {
	mu      sync.Mutex
	fail    bool
	uploads []string
}

func (s *fakePhotoStore) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errBucketDown
	}
	s.uploads = append(s.uploads, key)
	return "https://photos.example.com/" + key, nil
}
