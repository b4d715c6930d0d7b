package media

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// IsDataURL indica si s trae una imagen embebida (data:image/png;base64,...).
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURL convierte una data URL base64 en un Archivo listo para subir.
func DecodeDataURL(s string, maxBytes int64) (Archivo, error) {
	if !IsDataURL(s) {
		return Archivo{}, fmt.Errorf("%w: no es una data URL", ErrInvalidImage)
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return Archivo{}, fmt.Errorf("%w: data URL sin contenido", ErrInvalidImage)
	}
	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return Archivo{}, fmt.Errorf("%w: solo se acepta base64", ErrInvalidImage)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return Archivo{}, fmt.Errorf("%w: tipo %q", ErrInvalidImage, contentType)
	}
	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return Archivo{}, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Archivo{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return Archivo{}, ErrTooLarge
	}
	return Archivo{Nombre: "editada", ContentType: contentType, Data: data}, nil
}
