package service

import (
	"context"
	"strings"
	"time"

	"floreria-service/internal/apperr"
	"floreria-service/internal/media"
	"floreria-service/internal/model"

	"go.uber.org/zap"
)

// Claves que componen el tema visual del sitio.
const (
	ClaveLogo            = "logo"
	ClaveColorPrimario   = "color_primario"
	ClaveColorSecundario = "color_secundario"
	ClaveColorAcento     = "color_acento"
)

type ConfiguracionInput struct {
	Clave       string
	Valor       *string
	Tipo        string
	Descripcion string
	Archivo     *media.Archivo
}

type TemaInput struct {
	Logo            string
	LogoArchivo     *media.Archivo
	ColorPrimario   string
	ColorSecundario string
	ColorAcento     string
}

type ConfiguracionDetalle struct {
	Valor       string `json:"valor"`
	Tipo        string `json:"tipo"`
	Descripcion string `json:"descripcion,omitempty"`
}

type ConfiguracionService struct {
	repo  ConfiguracionRepository
	media media.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewConfiguracionService(repo ConfiguracionRepository, m media.Store, log *zap.Logger) *ConfiguracionService {
	return &ConfiguracionService{repo: repo, media: m, log: log, now: time.Now}
}

// Publicas nunca falla: ante un error de almacenamiento devuelve un mapa vacío.
func (s *ConfiguracionService) Publicas(ctx context.Context) map[string]string {
	out := make(map[string]string)
	cs, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Warn("no se pudo leer la configuración pública", zap.Error(err))
		return out
	}
	for _, c := range cs {
		out[c.Clave] = c.Valor
	}
	return out
}

func (s *ConfiguracionService) Todas(ctx context.Context) (map[string]ConfiguracionDetalle, error) {
	cs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("Error al obtener configuraciones", err)
	}
	out := make(map[string]ConfiguracionDetalle, len(cs))
	for _, c := range cs {
		out[c.Clave] = ConfiguracionDetalle{Valor: c.Valor, Tipo: c.Tipo, Descripcion: c.Descripcion}
	}
	return out, nil
}

func (s *ConfiguracionService) Obtener(ctx context.Context, clave string) (*model.Configuracion, error) {
	c, err := s.repo.FindByClave(ctx, clave)
	if err != nil {
		return nil, notFoundOr(err, "Configuración no encontrada", "Error al obtener configuración")
	}
	return c, nil
}

func (s *ConfiguracionService) Guardar(ctx context.Context, actor *model.Usuario, in ConfiguracionInput) (*model.Configuracion, error) {
	clave := strings.TrimSpace(in.Clave)
	if clave == "" || in.Valor == nil {
		return nil, apperr.Validation("Clave y valor son requeridos")
	}
	tipo := in.Tipo
	if tipo == "" {
		tipo = "text"
	}

	valor := *in.Valor
	if tipo == "image" && in.Archivo != nil {
		url, err := subir(ctx, s.media, in.Archivo)
		if err != nil {
			return nil, err
		}
		valor = url
	}

	c := &model.Configuracion{
		Clave:       clave,
		Valor:       valor,
		Tipo:        tipo,
		Descripcion: in.Descripcion,
		UpdatedBy:   actor.ID,
	}
	if err := s.repo.Upsert(ctx, c); err != nil {
		return nil, apperr.Internal("Error al guardar configuración", err)
	}
	return s.Obtener(ctx, clave)
}

// ActualizarTema guarda logo y colores y devuelve las cuatro claves del tema.
func (s *ConfiguracionService) ActualizarTema(ctx context.Context, actor *model.Usuario, in TemaInput) (map[string]string, error) {
	var cambios []*model.Configuracion
	add := func(clave, valor, tipo, descripcion string) {
		cambios = append(cambios, &model.Configuracion{
			Clave: clave, Valor: valor, Tipo: tipo, Descripcion: descripcion, UpdatedBy: actor.ID,
		})
	}

	switch {
	case in.LogoArchivo != nil:
		url, err := subir(ctx, s.media, in.LogoArchivo)
		if err != nil {
			return nil, err
		}
		add(ClaveLogo, url, "image", "Logo de la aplicación")
	case in.Logo != "":
		add(ClaveLogo, in.Logo, "image", "Logo de la aplicación")
	}
	if in.ColorPrimario != "" {
		add(ClaveColorPrimario, in.ColorPrimario, "color", "Color primario del tema")
	}
	if in.ColorSecundario != "" {
		add(ClaveColorSecundario, in.ColorSecundario, "color", "Color secundario del tema")
	}
	if in.ColorAcento != "" {
		add(ClaveColorAcento, in.ColorAcento, "color", "Color de acento del tema")
	}

	for _, c := range cambios {
		if err := s.repo.Upsert(ctx, c); err != nil {
			return nil, apperr.Internal("Error al actualizar tema", err)
		}
	}

	cs, err := s.repo.FindAll(ctx, ClaveLogo, ClaveColorPrimario, ClaveColorSecundario, ClaveColorAcento)
	if err != nil {
		return nil, apperr.Internal("Error al actualizar tema", err)
	}
	out := make(map[string]string, len(cs))
	for _, c := range cs {
		out[c.Clave] = c.Valor
	}
	return out, nil
}

func (s *ConfiguracionService) Eliminar(ctx context.Context, clave string) error {
	if err := s.repo.Delete(ctx, clave); err != nil {
		return notFoundOr(err, "Configuración no encontrada", "Error al eliminar configuración")
	}
	return nil
}
