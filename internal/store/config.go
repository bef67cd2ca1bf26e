package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// config keys
const (
	ConfigKeyPricing = "pricing"
	ConfigKeyPresets = "quota_presets"
)

// GetConfig reads one config value
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("config key %s: %w", key, ErrNotFound)
		}
		return "", err
	}
	return value, nil
}

// SetConfig upserts one config value
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// GetConfigJSON decodes a JSON config value into out
func (s *Store) GetConfigJSON(key string, out any) error {
	value, err := s.GetConfig(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("decode config %s: %w", key, err)
	}
	return nil
}

// SetConfigJSON stores v as a JSON config value
func (s *Store) SetConfigJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode config %s: %w", key, err)
	}
	return s.SetConfig(key, string(data))
}

// GetAllConfig every config value keyed by name
func (s *Store) GetAllConfig() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}

	return config, rows.Err()
}
