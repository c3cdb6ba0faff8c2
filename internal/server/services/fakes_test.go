package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/supportdesk/internal/server/admission"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/documents"
)

var errConnReset = errors.New("connection reset by peer")

type fakeIssuer struct {
	issued []models.Identity
	err    error
}

func (f *fakeIssuer) Issue(id models.Identity) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.issued = append(f.issued, id)
	return "token-for-" + id.Email, nil
}

// brokenAccounts fails every call with an infrastructure error.
type brokenAccounts struct{ err error }

func (b brokenAccounts) Create(context.Context, *models.Account) (*models.Account, error) {
	return nil, b.err
}
func (b brokenAccounts) GetByEmail(context.Context, string) (*models.Account, error) {
	return nil, b.err
}
func (b brokenAccounts) GetByID(context.Context, string) (*models.Account, error) { return nil, b.err }
func (b brokenAccounts) UpdateRole(context.Context, string, models.Role) error     { return b.err }

var _ accounts.Repository = brokenAccounts{}

// recordingDocuments wraps the memory repository and can be told to fail.
type recordingDocuments struct {
	*documents.MemoryRepository
	createErr error
	listErr   error
	deleteErr error
	creates   int
}

func newRecordingDocuments() *recordingDocuments {
	return &recordingDocuments{MemoryRepository: documents.NewMemoryRepository()}
}

func (r *recordingDocuments) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	r.creates++
	if r.createErr != nil {
		return nil, r.createErr
	}
	return r.MemoryRepository.Create(ctx, d)
}

func (r *recordingDocuments) List(ctx context.Context) ([]*models.Document, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.MemoryRepository.List(ctx)
}

func (r *recordingDocuments) Delete(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.MemoryRepository.Delete(ctx, id)
}

// countingPipeline delegates to a real pipeline and counts invocations.
type countingPipeline struct {
	inner Admitter
	calls int
}

func (c *countingPipeline) Admit(ctx context.Context, u admission.Upload) (*admission.Result, error) {
	c.calls++
	return c.inner.Admit(ctx, u)
}

type fakeArchive struct {
	mu         sync.Mutex
	objects    map[string][]byte
	putErr     error
	deleteErr  error
	presignErr error
	deleted    []string
}

func newFakeArchive() *fakeArchive { return &fakeArchive{objects: map[string][]byte{}} }

func (f *fakeArchive) Put(_ context.Context, key string, body []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = append([]byte(nil), body...)
	return nil
}

func (f *fakeArchive) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeArchive) PresignGet(_ context.Context, key string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://archive.example/" + key + "?sig=1", nil
}
