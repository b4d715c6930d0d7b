package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"floreria-service/internal/apperr"
	"floreria-service/internal/media"
	"floreria-service/internal/model"
	"floreria-service/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Claims del token. Solo viaja el id: rol y estado se leen de la base en cada request.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type Sesion struct {
	Token string         `json:"token"`
	User  *model.Usuario `json:"user"`
}

type RegistroInput struct {
	Email    string
	Password string
	Nombre   string
	Apellido string
	Telefono string
}

type PerfilInput struct {
	Nombre    *string
	Apellido  *string
	Telefono  *string
	Direccion *string
	Imagen    *media.Archivo
}

// Servicio de autenticación: emite y valida tokens propios.
type AuthService struct {
	usuarios UsuarioRepository
	media    media.Store
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(usuarios UsuarioRepository, m media.Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		usuarios: usuarios,
		media:    m,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

var telefonoRe = regexp.MustCompile(`^\+\d{1,3}\d{7,12}$`)

// ValidarTelefono exige prefijo internacional: + código de país y número, espacios permitidos.
func ValidarTelefono(tel string) (string, error) {
	tel = strings.TrimSpace(tel)
	if !strings.HasPrefix(tel, "+") {
		return "", apperr.Validation("El teléfono debe incluir código de país (ej: +57 300 123 4567)")
	}
	if !telefonoRe.MatchString(strings.Join(strings.Fields(tel), "")) {
		return "", apperr.Validation("Formato de teléfono inválido. Debe ser: +[código país] [número] (ej: +57 3001234567)")
	}
	return tel, nil
}

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (a *AuthService) IssueToken(userID string) (string, error) {
	ahora := a.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(ahora),
			ExpiresAt: jwt.NewNumericDate(ahora.Add(a.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ValidateToken verifica firma y vencimiento, y devuelve el usuario activo dueño del token.
func (a *AuthService) ValidateToken(ctx context.Context, token string) (*model.Usuario, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || claims.UserID == "" {
		return nil, apperr.Unauthenticated("Token inválido")
	}

	u, err := a.usuarios.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthenticated("Usuario no válido")
	}
	if err != nil {
		return nil, apperr.Internal("Error al validar token", err)
	}
	if !u.Activo {
		return nil, apperr.Unauthenticated("Usuario no válido")
	}
	return u, nil
}

func (a *AuthService) Register(ctx context.Context, in RegistroInput) (*Sesion, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.Nombre) == "" {
		return nil, apperr.Validation("Email, contraseña y nombre son requeridos")
	}
	if strings.TrimSpace(in.Telefono) == "" {
		return nil, apperr.Validation("El teléfono es obligatorio para registrarse")
	}
	tel, err := ValidarTelefono(in.Telefono)
	if err != nil {
		return nil, err
	}

	if _, err := a.usuarios.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("El email ya está registrado")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("Error al registrar usuario", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("Error al registrar usuario", err)
	}

	ahora := a.now().UTC()
	u := &model.Usuario{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  hash,
		Nombre:    strings.TrimSpace(in.Nombre),
		Apellido:  strings.TrimSpace(in.Apellido),
		Telefono:  tel,
		Rol:       model.RolCliente,
		Activo:    true,
		CreatedAt: ahora,
		UpdatedAt: ahora,
	}
	if err := a.usuarios.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Validation("El email ya está registrado")
		}
		return nil, apperr.Internal("Error al registrar usuario", err)
	}
	return a.sesion(u)
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*Sesion, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("Email y contraseña son requeridos")
	}

	u, err := a.usuarios.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unauthenticated("Credenciales inválidas")
	}
	if err != nil {
		return nil, apperr.Internal("Error al iniciar sesión", err)
	}
	if u.Password == "" {
		return nil, apperr.Unauthenticated("Este usuario no tiene contraseña configurada")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, apperr.Unauthenticated("Credenciales inválidas")
	}
	if !u.Activo {
		return nil, apperr.Unauthenticated("Usuario inactivo")
	}
	return a.sesion(u)
}

func (a *AuthService) sesion(u *model.Usuario) (*Sesion, error) {
	token, err := a.IssueToken(u.ID)
	if err != nil {
		return nil, apperr.Internal("Error al generar token", fmt.Errorf("firmando jwt: %w", err))
	}
	return &Sesion{Token: token, User: u}, nil
}

func (a *AuthService) Profile(ctx context.Context, id string) (*model.Usuario, error) {
	u, err := a.usuarios.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Usuario no encontrado", "Error al obtener perfil")
	}
	return u, nil
}

func (a *AuthService) UpdateProfile(ctx context.Context, id string, in PerfilInput) (*model.Usuario, error) {
	u, err := a.usuarios.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Usuario no encontrado", "Error al actualizar perfil")
	}

	tel := ""
	if in.Telefono != nil {
		tel = strings.TrimSpace(*in.Telefono)
	}
	if u.Rol == model.RolCliente && tel == "" {
		return nil, apperr.Validation("El teléfono es obligatorio para clientes")
	}
	if tel != "" {
		if tel, err = ValidarTelefono(tel); err != nil {
			return nil, err
		}
		u.Telefono = tel
	}

	if in.Nombre != nil && strings.TrimSpace(*in.Nombre) != "" {
		u.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Apellido != nil {
		u.Apellido = strings.TrimSpace(*in.Apellido)
	}
	if in.Direccion != nil {
		u.Direccion = strings.TrimSpace(*in.Direccion)
	}
	if in.Imagen != nil {
		url, err := subir(ctx, a.media, in.Imagen)
		if err != nil {
			return nil, err
		}
		u.Imagen = url
	}

	u.UpdatedAt = a.now().UTC()
	if err := a.usuarios.Update(ctx, u); err != nil {
		return nil, notFoundOr(err, "Usuario no encontrado", "Error al actualizar perfil")
	}
	return u, nil
}
