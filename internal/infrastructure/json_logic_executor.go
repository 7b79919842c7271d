package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	ops "github.com/Victor-armando18/pricing-scheme/internal/infrastructure/jsonlogic"
	"github.com/Victor-armando18/pricing-scheme/internal/interfaces"
	"github.com/diegoholiveira/jsonlogic/v3"
)

// JsonLogicExecutor avalia condições de regras. Só os operadores JsonLogic e
// os operadores registados estão disponíveis; não há execução de código arbitrário.
type JsonLogicExecutor struct {
	customOps map[string]func(args ...interface{}) interface{}
}

var _ interfaces.ConditionEvaluator = (*JsonLogicExecutor)(nil)

func NewJsonLogicExecutor() *JsonLogicExecutor {
	j := &JsonLogicExecutor{
		customOps: make(map[string]func(args ...interface{}) interface{}),
	}
	j.RegisterCustomOperator("round", ops.Round)
	j.RegisterCustomOperator("sum_field", ops.SumField)
	j.RegisterCustomOperator("count_where", ops.CountWhere)
	return j
}

func (j *JsonLogicExecutor) RegisterCustomOperator(name string, logic func(args ...interface{}) interface{}) {
	j.customOps[name] = logic
}

// Evaluate interpreta a condição e devolve a sua veracidade.
func (j *JsonLogicExecutor) Evaluate(ctx context.Context, condition string, fields map[string]interface{}) (bool, error) {
	var rule interface{}
	if err := json.Unmarshal([]byte(condition), &rule); err != nil {
		return false, fmt.Errorf("%w: invalid condition: %v", interfaces.ErrConditionFailed, err)
	}
	out, err := j.Execute(ctx, rule, fields)
	if err != nil {
		return false, err
	}
	return ops.Truthy(out), nil
}

// Execute resolve primeiro os operadores customizados (em qualquer nível) e
// delega o resto ao JsonLogic standard.
func (j *JsonLogicExecutor) Execute(ctx context.Context, rule interface{}, data map[string]interface{}) (interface{}, error) {
	reduced, err := j.reduce(rule, data)
	if err != nil {
		return nil, err
	}
	m, ok := reduced.(map[string]interface{})
	if !ok {
		return reduced, nil
	}
	return j.apply(m, data)
}

func (j *JsonLogicExecutor) apply(rule map[string]interface{}, data map[string]interface{}) (interface{}, error) {
	ruleJSON, err := json.Marshal(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrConditionFailed, err)
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrConditionFailed, err)
	}

	var resultBuffer bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(ruleJSON), bytes.NewReader(dataJSON), &resultBuffer); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrConditionFailed, err)
	}

	resultStr := strings.TrimSpace(resultBuffer.String())
	if resultStr == "" || resultStr == "null" {
		return nil, nil
	}

	var res interface{}
	decoder := json.NewDecoder(strings.NewReader(resultStr))
	decoder.UseNumber()
	if err := decoder.Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrConditionFailed, err)
	}
	return finalizeValue(res), nil
}

func (j *JsonLogicExecutor) reduce(node interface{}, data map[string]interface{}) (interface{}, error) {
	switch v := node.(type) {
	case map[string]interface{}:
		if len(v) == 1 {
			for op, raw := range v {
				if fn, ok := j.customOps[op]; ok {
					args, err := j.reduceArgs(raw, data)
					if err != nil {
						return nil, err
					}
					return fn(args...), nil
				}
			}
		}
		out := make(map[string]interface{}, len(v))
		for k, raw := range v {
			r, err := j.reduce(raw, data)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, raw := range v {
			r, err := j.reduce(raw, data)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}
	return node, nil
}

func (j *JsonLogicExecutor) reduceArgs(raw interface{}, data map[string]interface{}) ([]interface{}, error) {
	list, ok := raw.([]interface{})
	if !ok {
		list = []interface{}{raw}
	}
	params := make([]interface{}, 0, len(list))
	for _, item := range list {
		r, err := j.reduce(item, data)
		if err != nil {
			return nil, err
		}
		if sub, isRule := r.(map[string]interface{}); isRule {
			if path, isVar := sub["var"].(string); isVar && len(sub) == 1 {
				params = append(params, resolveVar(path, data))
				continue
			}
			res, err := j.apply(sub, data)
			if err != nil {
				return nil, err
			}
			params = append(params, res)
			continue
		}
		params = append(params, r)
	}
	return params, nil
}

// resolveVar percorre um caminho com pontos ("items.0.qty") em mapas e listas.
func resolveVar(path string, data map[string]interface{}) interface{} {
	if path == "" {
		return data
	}
	var current interface{} = data
	for _, part := range strings.Split(path, ".") {
		switch c := current.(type) {
		case map[string]interface{}:
			current = c[part]
		case []interface{}:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil
			}
			current = c[idx]
		default:
			return nil
		}
		if current == nil {
			return nil
		}
	}
	return finalizeValue(current)
}

func finalizeValue(val interface{}) interface{} {
	if n, ok := val.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return val
}
