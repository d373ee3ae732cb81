package repository

import "emi-calculator/config"

func configWithBackend(backend string) *config.Config {
	cfg := config.Load()
	cfg.StoreBackend = backend
	return cfg
}
