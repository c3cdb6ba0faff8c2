package repomanager

import (
	"context"

	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/documents"
)

// MemoryRepositoryManager keeps everything in process memory.
type MemoryRepositoryManager struct {
	accounts  *accounts.MemoryRepository
	documents *documents.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		accounts:  accounts.NewMemoryRepository(),
		documents: documents.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Accounts() accounts.Repository   { return m.accounts }
func (m *MemoryRepositoryManager) Documents() documents.Repository { return m.documents }

func (m *MemoryRepositoryManager) Migrate(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Ping(context.Context) error    { return nil }
func (m *MemoryRepositoryManager) Close(context.Context) error   { return nil }
