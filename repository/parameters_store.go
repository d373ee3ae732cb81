package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"emi-calculator/domain"
)

// ParametersRepository persists the most recently used loan parameters.
type ParametersRepository interface {
	Load(ctx context.Context) (domain.RawInput, bool, error)
	Save(ctx context.Context, params domain.LoanParameters) error
	Delete(ctx context.Context) error
}

// ParametersStore keeps the parameters as one JSON value under a single key.
type ParametersStore struct {
	kv     KeyValueStore
	key    string
	logger *slog.Logger
}

func NewParametersStore(kv KeyValueStore, key string, logger *slog.Logger) *ParametersStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParametersStore{
		kv:     kv,
		key:    key,
		logger: logger.With("component", "parameters_store"),
	}
}

// Load returns the stored fields as text so they go through the same
// coercion as typed input. Missing fields come back empty. ok=false means
// nothing is stored, or the value is not a JSON object, in which case startup
// must not auto-compute anything.
func (s *ParametersStore) Load(ctx context.Context) (domain.RawInput, bool, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return domain.RawInput{}, false, fmt.Errorf("load parameters: %w", err)
	}
	if !ok {
		return domain.RawInput{}, false, nil
	}

	var input domain.RawInput
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		s.logger.WarnContext(ctx, "Ignoring saved parameters that are not an object", "key", s.key)
		return domain.RawInput{}, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		s.logger.WarnContext(ctx, "Ignoring malformed saved parameters", "key", s.key, "error", err)
		return domain.RawInput{}, false, nil
	}

	return input, true, nil
}

func (s *ParametersStore) Save(ctx context.Context, params domain.LoanParameters) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("save parameters: %w", err)
	}
	return nil
}

func (s *ParametersStore) Delete(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete parameters: %w", err)
	}
	return nil
}
