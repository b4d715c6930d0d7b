package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Local guarda las imágenes en disco; el router las sirve bajo PublicPath.
type Local struct {
	Dir        string
	PublicPath string
	now        func() time.Time
}

func NewLocal(dir, publicPath string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de uploads: %w", err)
	}
	return &Local{Dir: dir, PublicPath: strings.TrimRight(publicPath, "/"), now: time.Now}, nil
}

func (l *Local) Configured() bool { return true }

func (l *Local) Upload(ctx context.Context, a Archivo) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := objectKey(a, l.now())
	full := filepath.Join(l.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, a.Data, 0o644); err != nil {
		return "", err
	}
	return l.PublicPath + "/" + key, nil
}
