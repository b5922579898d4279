package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Backends BackendsConfig
	Session  SessionConfig
	Redis    RedisConfig
	UI       UIConfig
	Login    LoginConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	LogLevel    string
	SwaggerFile string // vacío = no servir /docs
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
	// ProxyHeader cabecera con la IP real del cliente detrás de un proxy
	// (p. ej. X-Forwarded-For). Vacío: se usa la IP de la conexión.
	ProxyHeader string
	// TrustedProxies IPs o rangos CIDR de los proxies cuya cabecera se acepta.
	TrustedProxies []string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendsConfig URLs base de los servicios REST consumidos.
// Cada servicio vive en un puerto distinto.
type BackendsConfig struct {
	AuthURL       string // se le agrega /auth/login y /auth/logout
	InventarioURL string
	SucursalURL   string
	ValoresURL    string
	Timeout       time.Duration
}

// SessionConfig configuración de la sesión del panel.
type SessionConfig struct {
	TTL          time.Duration // vida fija desde el login (no deslizante)
	CookieName   string
	CookieSecure bool
	Store        string // memory | redis
}

// RedisConfig conexión a Redis para el almacén de sesiones.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr devuelve host:port de Redis.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UIConfig parámetros de las pantallas.
type UIConfig struct {
	ModalCloseDelay time.Duration
}

// LoginConfig límite de intentos de inicio de sesión por IP.
type LoginConfig struct {
	RatePerMinute int
	Burst         int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, AUTH_API_URL, SESSION_TTL, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "sisvam-web"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			SwaggerFile: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 5173),

			ProxyHeader:    getString(v, "HTTP_PROXY_HEADER", ""),
			TrustedProxies: getList(v, "HTTP_TRUSTED_PROXIES"),
		},
		Backends: BackendsConfig{
			AuthURL:       strings.TrimRight(getString(v, "AUTH_API_URL", "http://localhost:8081/api"), "/"),
			InventarioURL: strings.TrimRight(getString(v, "INVENTARIO_API_URL", "http://localhost:8084/api/inventario"), "/"),
			SucursalURL:   strings.TrimRight(getString(v, "SUCURSAL_API_URL", "http://localhost:8083/api/sucursal"), "/"),
			ValoresURL:    strings.TrimRight(getString(v, "VALORES_API_URL", "http://localhost:8082/api/valors"), "/"),
			Timeout:       getDuration(v, "BACKEND_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			TTL:          getDuration(v, "SESSION_TTL", 8*time.Hour),
			CookieName:   getString(v, "SESSION_COOKIE", "sisvam_sid"),
			CookieSecure: getBool(v, "SESSION_COOKIE_SECURE", false),
			Store:        strings.ToLower(getString(v, "SESSION_STORE", "memory")),
		},
		Redis: RedisConfig{
			Host:     getString(v, "REDIS_HOST", "localhost"),
			Port:     getInt(v, "REDIS_PORT", 6379),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		UI: UIConfig{
			ModalCloseDelay: getDuration(v, "MODAL_CLOSE_DELAY", 1500*time.Millisecond),
		},
		Login: LoginConfig{
			RatePerMinute: getInt(v, "LOGIN_RATE_PER_MIN", 20),
			Burst:         getInt(v, "LOGIN_RATE_BURST", 5),
		},
	}

	if cfg.Session.Store != "memory" && cfg.Session.Store != "redis" {
		return nil, fmt.Errorf("SESSION_STORE inválido: %q (memory|redis)", cfg.Session.Store)
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL debe ser positivo")
	}
	if len(cfg.HTTP.TrustedProxies) > 0 && cfg.HTTP.ProxyHeader == "" {
		return nil, fmt.Errorf("HTTP_TRUSTED_PROXIES requiere HTTP_PROXY_HEADER")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

// getList lee una lista separada por comas; los elementos vacíos se omiten.
func getList(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v.GetString(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getDuration acepta "1500ms", "8h" o un entero en milisegundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
