package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
)

// MemoryTransactionStore guarda transações em memória. Cada leitura e escrita
// trabalha com cópias, para que o chamador não altere o estado gravado.
type MemoryTransactionStore struct {
	mu   sync.RWMutex
	docs map[string]domain.Transaction
}

var _ interfaces.TransactionStore = (*MemoryTransactionStore)(nil)

func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{docs: map[string]domain.Transaction{}}
}

func (s *MemoryTransactionStore) LoadTransaction(ctx context.Context, name string) (*domain.Transaction, error) {
	s.mu.RLock()
	tx, ok := s.docs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, name)
	}
	clone, err := CloneTransaction(tx)
	if err != nil {
		return nil, err
	}
	return &clone, nil
}

func (s *MemoryTransactionStore) SaveTransaction(ctx context.Context, tx *domain.Transaction) error {
	clone, err := CloneTransaction(*tx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[tx.Name] = clone
	s.mu.Unlock()
	return nil
}

// MemorySaveGuard é o guarda de gravação de um único processo.
type MemorySaveGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

var _ interfaces.SaveGuard = (*MemorySaveGuard)(nil)

func NewMemorySaveGuard() *MemorySaveGuard {
	return &MemorySaveGuard{seen: map[string]struct{}{}}
}

func (g *MemorySaveGuard) Acquire(ctx context.Context, transaction string, revision int) (bool, error) {
	key := GuardKey(transaction, revision)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[key]; ok {
		return false, nil
	}
	g.seen[key] = struct{}{}
	return true, nil
}

func (g *MemorySaveGuard) Release(ctx context.Context, transaction string, revision int) error {
	g.mu.Lock()
	delete(g.seen, GuardKey(transaction, revision))
	g.mu.Unlock()
	return nil
}

// GuardKey é a chave partilhada pelos guardas de gravação.
func GuardKey(transaction string, revision int) string {
	return fmt.Sprintf("pricing-scheme:save:%s:%d", transaction, revision)
}
