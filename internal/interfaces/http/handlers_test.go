package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sisvam-web/internal/application/auth"
	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/application/usecase"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
	"github.com/jhoicas/sisvam-web/internal/infrastructure/backend"
	"github.com/jhoicas/sisvam-web/internal/infrastructure/store"
	apphttp "github.com/jhoicas/sisvam-web/internal/interfaces/http"
	"github.com/jhoicas/sisvam-web/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const cookieName = "sisvam_sid"

type fakeAuth struct {
	mu     sync.Mutex
	env    *dto.LoginEnvelope
	logins int
}

func (f *fakeAuth) Login(_ context.Context, _ dto.LoginRequest) (*dto.LoginEnvelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	return f.env, nil
}

func (f *fakeAuth) Logout(_ context.Context, _ string) error { return nil }

func (f *fakeAuth) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

// fakeSucursales servicio REST de sucursales en memoria.
type fakeSucursales struct {
	mu     sync.Mutex
	items  []entity.Sucursal
	posts  int32
	status atomic.Int32 // si no es 0, todas las respuestas usan este código
}

func (f *fakeSucursales) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if code := f.status.Load(); code != 0 {
		w.WriteHeader(int(code))
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(f.items)
	case http.MethodPost:
		atomic.AddInt32(&f.posts, 1)
		var s entity.Sucursal
		_ = json.NewDecoder(r.Body).Decode(&s)
		s.ID = entity.ID("99")
		f.items = append(f.items, s)
		_, _ = w.Write([]byte(`{"success":true,"message":"creada"}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type fakePDF struct{ report dto.PanelReport }

func (f *fakePDF) GeneratePanelPDF(_ context.Context, r dto.PanelReport) ([]byte, error) {
	f.report = r
	return []byte("%PDF-1.4 prueba"), nil
}

type entorno struct {
	app     *fiber.App
	gw      *fakeAuth
	backend *fakeSucursales
	pdf     *fakePDF
}

func usuario() *entity.User {
	return &entity.User{
		ID: "7", Nombres: "Ana", Apellidos: "Quispe", CI: "1234567",
		Email: "ana@muni.bo", Rol: "admin", RequiereCambioPassword: entity.FlagOn,
	}
}

// nuevoEntorno arma la aplicación completa con el servicio de auth falso y
// un servidor httptest como backend de sucursales.
func nuevoEntorno(t *testing.T, limiter *apphttp.LoginLimiter) *entorno {
	t.Helper()
	e := &entorno{
		gw: &fakeAuth{env: &dto.LoginEnvelope{
			Success: true, Token: "tok", User: usuario(), Message: "Bienvenido",
			Raw: json.RawMessage(`{"success":true,"message":"Bienvenido","timestamp":"2026-10-19T10:05:00Z"}`),
		}},
		backend: &fakeSucursales{items: []entity.Sucursal{
			{ID: "1", Nombre: "Distrito Centro", Tipo: entity.TipoDistrito, Codigo: "D-01", Estado: entity.FlagOn},
			{ID: "2", Nombre: "Caja Norte", Tipo: entity.TipoCajaRecaudadora, Codigo: "C-02"},
		}},
		pdf: &fakePDF{},
	}
	srv := httptest.NewServer(e.backend)
	t.Cleanup(srv.Close)

	log := logger.Nop()
	storage := auth.NewSessionStorage(store.NewMemorySessionRepository(), 8*time.Hour, log)
	provider := auth.NewProvider(auth.NewService(e.gw, storage, 8*time.Hour, log), log)
	val := usecase.NewValidator()

	sucursalUC := usecase.NewSucursalUseCase(backend.NewSucursalClient(srv.URL, time.Second, provider, log, nil), val, log)
	panel := apphttp.NewCatalogHandler(sucursalUC, apphttp.SucursalPresenter,
		store.NewMemoryFormTokenRepository(), e.pdf, 10*time.Millisecond, log)

	if limiter == nil {
		limiter = apphttp.NewLoginLimiter(600, 100)
	}
	e.app = fiber.New(fiber.Config{Views: apphttp.NewViewEngine()})
	apphttp.Router(e.app, apphttp.RouterDeps{
		Provider:  provider,
		Home:      usecase.NewHomeUseCase(sucursalUC),
		Validator: val,
		Panels:    []apphttp.PanelRoutes{panel},
		Limiter:   limiter,
		Cookie:    apphttp.CookieConfig{Name: cookieName, TTL: 8 * time.Hour},
	})
	return e
}

func (e *entorno) do(t *testing.T, method, target, cookie string, form url.Values) (*http.Response, string) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

// login inicia sesión y devuelve el header Cookie a reutilizar.
func (e *entorno) login(t *testing.T) string {
	t.Helper()
	resp, _ := e.do(t, http.MethodPost, "/auth/sign-in", "", url.Values{"ci": {"1234567"}, "password": {"secreto"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, apphttp.HomeRoute, resp.Header.Get("Location"))
	cookie := sessionCookie(resp)
	require.NotEmpty(t, cookie, "el login debe fijar la cookie de sesión")
	return cookie
}

// sessionCookie última cookie de sesión fijada por la respuesta.
func sessionCookie(resp *http.Response) string {
	out := ""
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			out = c.Name + "=" + c.Value
		}
	}
	return out
}

var tokenRe = regexp.MustCompile(`name="_token" value="([^"]+)"`)

func formToken(t *testing.T, html string) string {
	t.Helper()
	m := tokenRe.FindStringSubmatch(html)
	require.Len(t, m, 2, "el formulario debe llevar token")
	return m[1]
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestSignIn_CarnetNoNumerico_NoLlamaAlServidor(t *testing.T) {
	e := nuevoEntorno(t, nil)
	resp, body := e.do(t, http.MethodPost, "/auth/sign-in", "", url.Values{"ci": {"12A"}, "password": {"x"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "El número de carnet debe contener solo números")
	assert.Equal(t, 0, e.gw.count())
}

func TestSignIn_CarnetConDigitosNoASCII_NoLlamaAlServidor(t *testing.T) {
	e := nuevoEntorno(t, nil)
	for _, ci := range []string{"١٢٣", "１２３", "12３"} {
		resp, body := e.do(t, http.MethodPost, "/auth/sign-in", "", url.Values{"ci": {ci}, "password": {"x"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, ci)
		assert.Contains(t, body, "El número de carnet debe contener solo números", ci)
	}
	assert.Equal(t, 0, e.gw.count())
}

func TestSignIn_CamposVacios_NoLlamaAlServidor(t *testing.T) {
	e := nuevoEntorno(t, nil)
	resp, body := e.do(t, http.MethodPost, "/auth/sign-in", "", url.Values{"ci": {"  "}, "password": {""}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Por favor completa todos los campos")
	assert.Equal(t, 0, e.gw.count())
}

func TestSignIn_Rechazado_MuestraMensaje(t *testing.T) {
	e := nuevoEntorno(t, nil)
	e.gw.env = &dto.LoginEnvelope{Success: false, Message: "Credenciales inválidas"}
	resp, body := e.do(t, http.MethodPost, "/auth/sign-in", "", url.Values{"ci": {"1234567"}, "password": {"malo"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Credenciales inválidas")
}

func TestSignIn_Exitoso_RedirigeAlInicio(t *testing.T) {
	e := nuevoEntorno(t, nil)
	cookie := e.login(t)

	resp, body := e.do(t, http.MethodGet, "/dashboard/home", cookie, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Bienvenido, Ana")
	assert.Contains(t, body, "Debes cambiar tu contraseña", "aviso de política")

	resp, _ = e.do(t, http.MethodGet, "/auth/sign-in", cookie, nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "con sesión el login redirige al inicio")
}

func TestSignIn_RotaLaCookieDeSesion(t *testing.T) {
	e := nuevoEntorno(t, nil)
	fijada := cookieName + "=11111111-2222-3333-4444-555555555555"

	resp, _ := e.do(t, http.MethodGet, "/auth/sign-in", fijada, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, sessionCookie(resp), "un id válido no se reemite antes del login")

	resp, _ = e.do(t, http.MethodPost, "/auth/sign-in", fijada, url.Values{"ci": {"1234567"}, "password": {"secreto"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	nueva := sessionCookie(resp)
	require.NotEmpty(t, nueva, "el login reemite la cookie")
	assert.NotEqual(t, fijada, nueva)

	resp, _ = e.do(t, http.MethodGet, "/dashboard/home", fijada, nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "el id previo al login no queda autenticado")

	resp, body := e.do(t, http.MethodGet, "/dashboard/home", nueva, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Bienvenido, Ana")
}

func TestSignIn_Rechazado_NoReemiteCookie(t *testing.T) {
	e := nuevoEntorno(t, nil)
	e.gw.env = &dto.LoginEnvelope{Success: false, Message: "Credenciales inválidas"}
	fijada := cookieName + "=11111111-2222-3333-4444-555555555555"

	resp, _ := e.do(t, http.MethodPost, "/auth/sign-in", fijada, url.Values{"ci": {"1234567"}, "password": {"malo"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, sessionCookie(resp))
}

func TestSignIn_LimitePorIP(t *testing.T) {
	e := nuevoEntorno(t, apphttp.NewLoginLimiter(1, 1))
	e.login(t)
	resp, body := e.do(t, http.MethodPost, "/auth/sign-in", "", url.Values{"ci": {"1234567"}, "password": {"secreto"}})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body, "Demasiados intentos")
	assert.Equal(t, 1, e.gw.count())
}

func TestLogout_LimpiaLaSesion(t *testing.T) {
	e := nuevoEntorno(t, nil)
	cookie := e.login(t)
	resp, _ := e.do(t, http.MethodPost, "/auth/logout", cookie, url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/sign-in", resp.Header.Get("Location"))

	resp, _ = e.do(t, http.MethodGet, "/dashboard/home", cookie, nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Protección de rutas
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_SinSesion_RedirigeAlLogin(t *testing.T) {
	e := nuevoEntorno(t, nil)
	for _, path := range []string{"/dashboard/home", "/dashboard/sucursales", "/dashboard/profile"} {
		resp, _ := e.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/auth/sign-in", resp.Header.Get("Location"), path)
	}
}

func TestAPI_SinSesion_Responde401JSON(t *testing.T) {
	e := nuevoEntorno(t, nil)
	resp, body := e.do(t, http.MethodGet, "/api/v1/sucursales", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var er dto.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &er))
	assert.Equal(t, "UNAUTHORIZED", er.Code)
}

func TestAPI_Session(t *testing.T) {
	e := nuevoEntorno(t, nil)
	cookie := e.login(t)
	resp, body := e.do(t, http.MethodGet, "/api/v1/session", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var s dto.SessionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &s))
	assert.True(t, s.IsAuthenticated)
	assert.True(t, s.RequiresPasswordChange)
	assert.NotEmpty(t, s.ExpiresAt)
	require.NotNil(t, s.User)
	assert.Equal(t, "Ana", s.User.Nombres)
}

func TestBackend401_CierraSesionYRedirige(t *testing.T) {
	e := nuevoEntorno(t, nil)
	cookie := e.login(t)
	e.backend.status.Store(http.StatusUnauthorized)

	resp, _ := e.do(t, http.MethodGet, "/dashboard/sucursales", cookie, nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/sign-in", resp.Header.Get("Location"))

	e.backend.status.Store(0)
	resp, _ = e.do(t, http.MethodGet, "/dashboard/profile", cookie, nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "la sesión quedó eliminada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Panel de sucursales
// ──────────────────────────────────────────────────────────────────────────────

func TestSucursales_ListaConBusqueda(t *testing.T) {
	e := nuevoEntorno(t, nil)
	cookie := e.login(t)

	resp, body := e.do(t, http.MethodGet, "/dashboard/sucursales?q=centro", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Distrito Centro")
	assert.NotContains(t, body, "Caja Norte")
	assert.Contains(t, body, "Mostrando 1-1 de 1")
}

func TestSucursales_ErrorDeCarga_MuestraBanner(t *testing.T) {
	e := nuevoEntorno(t, nil)
	cookie := e.login(t)
	e.backend.status.Store(http.StatusInternalServerError)

	resp, body := e.do(t, http.MethodGet, "/dashboard/sucursales", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No se pudo cargar la lista")
	assert.NotContains(t, body, "No se encontraron registros")
}

func TestSucursales_Crear_TokenRepetidoNoDuplica(t *testing.T) {
	e := nuevoEntorno(t, nil)
	cookie := e.login(t)

	resp, body := e.do(t, http.MethodGet, "/dashboard/sucursales/new", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := formToken(t, body)

	form := url.Values{
		"_token": {token}, "nombre": {"Distrito Sur"}, "tipo": {"DISTRITO"},
		"codigo": {"D-03"}, "estado": {"1"},
	}
	resp, body = e.do(t, http.MethodPost, "/dashboard/sucursales", cookie, form)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "¡Sucursal creada exitosamente!")
	assert.Contains(t, body, "Sucursales: 3 registros · 2 activos · 1 inactivos", "resumen de la lista recargada")
	assert.Contains(t, body, `url=/dashboard/sucursales`)

	resp, _ = e.do(t, http.MethodPost, "/dashboard/sucursales", cookie, form)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&e.backend.posts))
}

func TestSucursales_Crear_ErrorDeValidacion_SinLlamadaDeRed(t *testing.T) {
	e := nuevoEntorno(t, nil)
	cookie := e.login(t)
	_, body := e.do(t, http.MethodGet, "/dashboard/sucursales/new", cookie, nil)

	resp, body := e.do(t, http.MethodPost, "/dashboard/sucursales", cookie, url.Values{
		"_token": {formToken(t, body)}, "tipo": {"DISTRITO"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "El nombre es requerido")
	assert.Contains(t, body, "El código es requerido")
	assert.Equal(t, int32(0), atomic.LoadInt32(&e.backend.posts))
}

func TestSucursales_APIJSON(t *testing.T) {
	e := nuevoEntorno(t, nil)
	cookie := e.login(t)

	resp, body := e.do(t, http.MethodGet, "/api/v1/sucursales?filtro=active&size=4", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var v dto.PanelView[entity.Sucursal]
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.Equal(t, 4, v.Size)
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, 1, v.Filtered)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "Distrito Centro", v.Items[0].Nombre)
}

func TestSucursales_PDFConListaFiltrada(t *testing.T) {
	e := nuevoEntorno(t, nil)
	cookie := e.login(t)

	resp, body := e.do(t, http.MethodGet, "/dashboard/sucursales/pdf?filtro=inactive", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "%PDF"))

	require.Len(t, e.pdf.report.Rows, 1)
	assert.Contains(t, e.pdf.report.Rows[0], "Caja Norte")
	assert.Equal(t, "Ana Quispe", e.pdf.report.Usuario)
	assert.Contains(t, e.pdf.report.Filtros, "inactivos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestPerfil_DatosProtegidos(t *testing.T) {
	e := nuevoEntorno(t, nil)
	cookie := e.login(t)

	resp, body := e.do(t, http.MethodGet, "/dashboard/profile", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "123*567")
	assert.NotContains(t, body, "ana@muni.bo")
	assert.Contains(t, body, "8 horas")
	assert.Contains(t, body, "Requiere cambio de contraseña")
}

func TestPerfil_CambioDePassword(t *testing.T) {
	e := nuevoEntorno(t, nil)
	cookie := e.login(t)

	resp, body := e.do(t, http.MethodPost, "/dashboard/profile/password", cookie, url.Values{
		"new_password": {"nueva-clave"}, "confirm_password": {"otra-clave"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Las contraseñas no coinciden.")

	resp, body = e.do(t, http.MethodPost, "/dashboard/profile/password", cookie, url.Values{
		"new_password": {"nueva-clave"}, "confirm_password": {"nueva-clave"},
	})
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	assert.Contains(t, body, apphttp.MsgCambioNoDisponible)
	assert.NotContains(t, body, "Contraseña actualizada")
	assert.Contains(t, body, "Debes cambiar tu contraseña", "la política sigue vigente")

	_, body = e.do(t, http.MethodGet, "/api/v1/session", cookie, nil)
	var s dto.SessionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &s))
	assert.True(t, s.RequiresPasswordChange, "las banderas de la sesión no cambian")

	_, body = e.do(t, http.MethodGet, "/dashboard/home", cookie, nil)
	assert.Contains(t, body, "Debes cambiar tu contraseña")
}
