package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	"github.com/Victor-armando18/pricing-scheme/internal/logging"
)

var ErrNoStore = errors.New("no transaction store configured")

// Save corre o ciclo de gravação: totais, auto-apply, totais, validação contra
// o estado gravado, persistência e publicação de eventos. Uma rejeição aborta
// antes de qualquer persistência.
func (e *EngineService) Save(ctx context.Context, tx *domain.Transaction) error {
	if e.store == nil {
		return ErrNoStore
	}
	before, err := e.previous(ctx, tx.Name)
	if err != nil {
		return err
	}
	return e.saveWith(ctx, tx, before, nil)
}

func (e *EngineService) previous(ctx context.Context, name string) (*domain.Transaction, error) {
	before, err := e.store.LoadTransaction(ctx, name)
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return before, nil
}

func (e *EngineService) saveWith(ctx context.Context, tx *domain.Transaction, before *domain.Transaction, events []domain.SchemeEvent) (err error) {
	if e.guard != nil {
		ok, gerr := e.guard.Acquire(ctx, tx.Name, tx.Revision)
		if gerr != nil {
			return fmt.Errorf("save guard: %w", gerr)
		}
		if !ok {
			return fmt.Errorf("%w: %s@%d", domain.ErrAlreadyProcessed, tx.Name, tx.Revision)
		}
		defer func() {
			if err != nil {
				if rerr := e.guard.Release(ctx, tx.Name, tx.Revision); rerr != nil {
					logging.Warn("release save guard", zap.String("transaction", tx.Name), zap.Error(rerr))
				}
			}
		}()
	}

	tx.CalculateTotals()
	stamped, err := e.AutoApply(ctx, tx)
	if err != nil {
		return err
	}
	tx.CalculateTotals()

	if err := e.Validate(ctx, tx, before); err != nil {
		return err
	}

	tx.Revision++
	if err := e.store.SaveTransaction(ctx, tx); err != nil {
		return fmt.Errorf("save %s: %w", tx.Name, err)
	}

	events = append(events, appliedEvents(tx, stamped)...)
	e.publish(ctx, events)
	return nil
}

// appliedEvents agrupa as linhas carimbadas por esquema, pela ordem em que surgem.
func appliedEvents(tx *domain.Transaction, stamped []string) []domain.SchemeEvent {
	var out []domain.SchemeEvent
	index := map[string]int{}
	for _, name := range stamped {
		row := tx.FindItem(name)
		if row == nil {
			continue
		}
		i, ok := index[row.PricingScheme]
		if !ok {
			i = len(out)
			index[row.PricingScheme] = i
			out = append(out, domain.SchemeEvent{Type: domain.SchemeApplied, Transaction: tx.Name, Rule: row.PricingScheme})
		}
		out[i].Lines = append(out[i].Lines, name)
	}
	return out
}

// publish envia os eventos após a gravação; falhas são registadas e não
// revertem a transação já persistida.
func (e *EngineService) publish(ctx context.Context, events []domain.SchemeEvent) {
	if e.publisher == nil {
		return
	}
	for _, ev := range events {
		ev.ID = uuid.NewString()
		if err := e.publisher.Publish(ctx, ev); err != nil {
			logging.Error("publish scheme event",
				zap.String("transaction", ev.Transaction),
				zap.String("rule", ev.Rule),
				zap.String("type", string(ev.Type)),
				zap.Error(err))
		}
	}
}
