package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/pkg/config"
)

var _ billing.ObjectStorage = (*LocalStorage)(nil)

// LocalStorage implementa ObjectStorage sobre el filesystem. Es el backend por
// defecto para desarrollo; las keys se mapean a rutas bajo el directorio base.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage crea el directorio base si no existe.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, errors.New("storage: directorio base requerido")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear directorio %s: %w", baseDir, err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// filePath resuelve la key a una ruta dentro del directorio base. Las keys con
// ".." se rechazan para no escapar del directorio.
func (l *LocalStorage) filePath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("storage: key inválida %q", key)
	}
	return filepath.Join(l.baseDir, clean), nil
}

// Put escribe el objeto, sobrescribiendo si ya existe.
func (l *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	p, err := l.filePath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("storage: crear directorio de %s: %w", key, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("storage: escribir %s: %w", key, err)
	}
	return nil
}

// Get lee el objeto completo. Si no existe retorna domain.ErrNotFound.
func (l *LocalStorage) Get(_ context.Context, key string) ([]byte, error) {
	p, err := l.filePath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storage: leer %s: %w", key, err)
	}
	return data, nil
}

// Delete borra el objeto. Borrar una key inexistente no es error.
func (l *LocalStorage) Delete(_ context.Context, key string) error {
	p, err := l.filePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: borrar %s: %w", key, err)
	}
	return nil
}

// New construye el backend indicado por la configuración: "s3" o "local".
func New(ctx context.Context, cfg config.StorageConfig) (billing.ObjectStorage, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Storage(ctx, cfg)
	case "local", "":
		return NewLocalStorage(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("storage: proveedor desconocido %q", cfg.Provider)
	}
}
