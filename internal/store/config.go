package store

import (
	"database/sql"
	"errors"
	"fmt"

	"salesdash/internal/model"
)

// ErrConfigNotFound 配置项不存在
var ErrConfigNotFound = errors.New("config key not found")

const keyLanguage = "language"

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, key)
		}
		return "", err
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// GetAllConfig 获取所有配置项
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

// GetLanguage 读取保存的界面语言，未保存时返回 fallback
func (s *Store) GetLanguage(fallback model.Language) model.Language {
	value, err := s.GetConfig(keyLanguage)
	if err != nil {
		return fallback
	}
	lang := model.Language(value)
	if !lang.Valid() {
		return fallback
	}
	return lang
}

// SetLanguage 保存界面语言
func (s *Store) SetLanguage(lang model.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("unsupported language: %q", lang)
	}
	return s.SetConfig(keyLanguage, string(lang))
}
