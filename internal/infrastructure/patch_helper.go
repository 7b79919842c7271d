package infrastructure

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
)

// ApplyTransactionPatch recebe a transação original e as operações RFC 6902,
// devolvendo a transação atualizada. O original não é alterado.
func ApplyTransactionPatch(original domain.Transaction, patchData []byte) (domain.Transaction, error) {
	originalJSON, err := json.Marshal(original)
	if err != nil {
		return original, err
	}

	patch, err := jsonpatch.DecodePatch(patchData)
	if err != nil {
		return original, fmt.Errorf("decode patch: %w", err)
	}

	modifiedJSON, err := patch.Apply(originalJSON)
	if err != nil {
		return original, fmt.Errorf("apply patch: %w", err)
	}

	var updated domain.Transaction
	if err := json.Unmarshal(modifiedJSON, &updated); err != nil {
		return original, err
	}
	return updated, nil
}

// MergeDelta devolve o merge patch (RFC 7386) que leva before a after, ou seja,
// o que o servidor alterou no documento.
func MergeDelta(before, after domain.Transaction) (json.RawMessage, error) {
	beforeJSON, err := json.Marshal(before)
	if err != nil {
		return nil, err
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		return nil, err
	}
	delta, err := jsonpatch.CreateMergePatch(beforeJSON, afterJSON)
	if err != nil {
		return nil, fmt.Errorf("create merge patch: %w", err)
	}
	return delta, nil
}

// CloneTransaction devolve uma cópia profunda da transação.
func CloneTransaction(tx domain.Transaction) (domain.Transaction, error) {
	data, err := json.Marshal(tx)
	if err != nil {
		return tx, err
	}
	var out domain.Transaction
	if err := json.Unmarshal(data, &out); err != nil {
		return tx, err
	}
	return out, nil
}
