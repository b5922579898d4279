package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sisvam-web/internal/application/auth"
	"github.com/jhoicas/sisvam-web/internal/application/dto"
	"github.com/jhoicas/sisvam-web/internal/domain"
	"github.com/jhoicas/sisvam-web/internal/domain/entity"
	"github.com/jhoicas/sisvam-web/internal/infrastructure/store"
	pkgjwt "github.com/jhoicas/sisvam-web/pkg/jwt"
	"github.com/jhoicas/sisvam-web/pkg/logger"
)

const sid = "sid-prueba"

// fakeGateway servicio de autenticación en memoria.
type fakeGateway struct {
	env         *dto.LoginEnvelope
	err         error
	logoutErr   error
	logoutToken string
	logins      int
}

func (f *fakeGateway) Login(_ context.Context, _ dto.LoginRequest) (*dto.LoginEnvelope, error) {
	f.logins++
	return f.env, f.err
}

func (f *fakeGateway) Logout(_ context.Context, token string) error {
	f.logoutToken = token
	return f.logoutErr
}

// reloj controlable para los tests de vencimiento.
type reloj struct{ t time.Time }

func (r *reloj) now() time.Time          { return r.t }
func (r *reloj) avanzar(d time.Duration) { r.t = r.t.Add(d) }
func nuevoReloj() *reloj                 { return &reloj{t: time.Now()} }

func usuarioCompleto() *entity.User {
	return &entity.User{
		ID: "7", Nombres: "Ana", Apellidos: "Quispe", CI: "1234567",
		Email: "ana@muni.bo", Rol: "admin",
		RequiereCambioPassword: entity.FlagOn,
	}
}

func envelopeOK(token string) *dto.LoginEnvelope {
	return &dto.LoginEnvelope{
		Success: true,
		Token:   token,
		User:    usuarioCompleto(),
		Message: "Bienvenido",
		Raw:     json.RawMessage(`{"success":true,"token":"` + token + `"}`),
	}
}

func buildService(t *testing.T, gw *fakeGateway, r *reloj) (*auth.Service, *auth.SessionStorage) {
	t.Helper()
	storage := auth.NewSessionStorage(store.NewMemorySessionRepository(), 8*time.Hour, logger.Nop())
	svc := auth.NewService(gw, storage, 8*time.Hour, logger.Nop(), auth.WithClock(r.now))
	return svc, storage
}

func TestLogin_CredencialesValidas_GuardaSesion(t *testing.T) {
	ctx := context.Background()
	r := nuevoReloj()
	gw := &fakeGateway{env: envelopeOK("tok-opaco")}
	svc, storage := buildService(t, gw, r)

	res := svc.Login(ctx, sid, dto.LoginRequest{CI: "1234567", Password: "secreta"})
	require.True(t, res.Success)
	assert.Equal(t, "tok-opaco", res.Token)

	sess := storage.Get(ctx, sid)
	require.NotNil(t, sess)
	assert.Equal(t, "tok-opaco", sess.Token)
	assert.Equal(t, "Ana", sess.User.Nombres)
	assert.JSONEq(t, `{"success":true,"token":"tok-opaco"}`, string(sess.LoginResponse))
	assert.Equal(t, r.now().Add(8*time.Hour).UnixMilli(), sess.TokenExpiry)
	assert.True(t, sess.RequiresPasswordChange)
	assert.False(t, sess.PasswordExpired)
	assert.True(t, svc.IsAuthenticated(ctx, sid))
}

func TestLogin_VencimientoRecortadoAlExpDelJWT(t *testing.T) {
	ctx := context.Background()
	r := nuevoReloj()
	tok, err := pkgjwt.Generate("secreto", "1234567", "admin", "sisvam", time.Hour)
	require.NoError(t, err)
	svc, storage := buildService(t, &fakeGateway{env: envelopeOK(tok)}, r)

	require.True(t, svc.Login(ctx, sid, dto.LoginRequest{CI: "1", Password: "x"}).Success)

	exp := storage.Get(ctx, sid).Expiry()
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)
}

func TestLogin_Mensajes(t *testing.T) {
	casos := []struct {
		nombre string
		gw     *fakeGateway
		msg    string
	}{
		{"rechazo del servidor", &fakeGateway{env: &dto.LoginEnvelope{Success: false, Message: "Credenciales inválidas"}}, "Credenciales inválidas"},
		{"rechazo sin mensaje", &fakeGateway{env: &dto.LoginEnvelope{Success: false}}, "Error desconocido"},
		{"error HTTP", &fakeGateway{err: &domain.APIError{Status: 500, Message: "Error HTTP 500"}}, "Error HTTP 500"},
		{"sin conexión", &fakeGateway{err: errors.New("dial tcp: connection refused")}, auth.MsgErrorConexion},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			ctx := context.Background()
			svc, storage := buildService(t, c.gw, nuevoReloj())
			res := svc.Login(ctx, sid, dto.LoginRequest{CI: "1", Password: "x"})
			assert.False(t, res.Success)
			assert.Equal(t, c.msg, res.Message)
			assert.Nil(t, storage.Get(ctx, sid), "un login fallido no guarda sesión")
		})
	}
}

func TestIsAuthenticated_SesionVencida_SeLimpia(t *testing.T) {
	ctx := context.Background()
	r := nuevoReloj()
	svc, storage := buildService(t, &fakeGateway{env: envelopeOK("tok")}, r)
	require.True(t, svc.Login(ctx, sid, dto.LoginRequest{CI: "1", Password: "x"}).Success)

	r.avanzar(8*time.Hour + time.Minute)

	assert.False(t, svc.IsAuthenticated(ctx, sid))
	assert.Nil(t, storage.Get(ctx, sid), "la sesión vencida se elimina")
}

func TestIsAuthenticated_SinVencimiento_EsFalso(t *testing.T) {
	ctx := context.Background()
	svc, storage := buildService(t, &fakeGateway{}, nuevoReloj())
	storage.Set(ctx, sid, &entity.Session{Token: "tok", User: usuarioCompleto()})
	assert.False(t, svc.IsAuthenticated(ctx, sid))
}

func TestLogout_SiempreBorraLaSesion(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{env: envelopeOK("tok-1"), logoutErr: errors.New("servidor caído")}
	svc, storage := buildService(t, gw, nuevoReloj())
	require.True(t, svc.Login(ctx, sid, dto.LoginRequest{CI: "1", Password: "x"}).Success)

	svc.Logout(ctx, sid)

	assert.Equal(t, "tok-1", gw.logoutToken)
	assert.Nil(t, storage.Get(ctx, sid))
	assert.Equal(t, dto.ProfileData{}, svc.GetProfileData(ctx, sid))
}

func TestAuthenticatedRequest_AgregaCabeceras(t *testing.T) {
	ctx := context.Background()
	var authz, ctype string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz = r.Header.Get("Authorization")
		ctype = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc, _ := buildService(t, &fakeGateway{env: envelopeOK("tok-abc")}, nuevoReloj())
	require.True(t, svc.Login(ctx, sid, dto.LoginRequest{CI: "1", Password: "x"}).Success)

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := svc.AuthenticatedRequest(ctx, sid, req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer tok-abc", authz)
	assert.Equal(t, "application/json", ctype)

	req, _ = http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("Authorization", "Bearer propio")
	resp, err = svc.AuthenticatedRequest(ctx, sid, req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer propio", authz, "no se pisa una cabecera del llamador")
}

func TestAuthenticatedRequest_SinToken(t *testing.T) {
	svc, _ := buildService(t, &fakeGateway{}, nuevoReloj())
	req, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1:1", nil)
	_, err := svc.AuthenticatedRequest(context.Background(), sid, req)
	assert.ErrorIs(t, err, domain.ErrNoToken)
}

func TestAuthenticatedRequest_401_CierraSesion(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc, storage := buildService(t, &fakeGateway{env: envelopeOK("tok")}, nuevoReloj())
	require.True(t, svc.Login(ctx, sid, dto.LoginRequest{CI: "1", Password: "x"}).Success)

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := svc.AuthenticatedRequest(ctx, sid, req)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.Nil(t, storage.Get(ctx, sid))
	assert.False(t, svc.IsAuthenticated(ctx, sid))
}

func TestUpdateUser_RecalculaBanderas(t *testing.T) {
	ctx := context.Background()
	svc, storage := buildService(t, &fakeGateway{env: envelopeOK("tok")}, nuevoReloj())
	require.True(t, svc.Login(ctx, sid, dto.LoginRequest{CI: "1", Password: "x"}).Success)

	u := svc.UpdateUser(ctx, sid, map[string]any{"telefono": "70000000", "requiere_cambio_password": 0})
	require.NotNil(t, u)
	assert.Equal(t, "70000000", u.Telefono)
	assert.Equal(t, "Ana", u.Nombres, "los campos no incluidos se conservan")

	sess := storage.Get(ctx, sid)
	assert.False(t, sess.RequiresPasswordChange)
	assert.Equal(t, "70000000", sess.User.Telefono)
}

func TestUpdateUser_SinSesion_Nil(t *testing.T) {
	svc, _ := buildService(t, &fakeGateway{}, nuevoReloj())
	assert.Nil(t, svc.UpdateUser(context.Background(), sid, map[string]any{"nombres": "X"}))
}

func TestSessionStorage_SeisClaves(t *testing.T) {
	ctx := context.Background()
	storage := auth.NewSessionStorage(store.NewMemorySessionRepository(), time.Hour, logger.Nop())
	in := &entity.Session{
		Token:                  "t",
		User:                   usuarioCompleto(),
		LoginResponse:          json.RawMessage(`{"a":1}`),
		TokenExpiry:            time.Now().Add(time.Hour).UnixMilli(),
		RequiresPasswordChange: true,
		PasswordExpired:        true,
	}
	storage.Set(ctx, sid, in)

	out := storage.Get(ctx, sid)
	require.NotNil(t, out)
	assert.Equal(t, in.Token, out.Token)
	assert.Equal(t, in.User, out.User)
	assert.JSONEq(t, string(in.LoginResponse), string(out.LoginResponse))
	assert.Equal(t, in.TokenExpiry, out.TokenExpiry)
	assert.True(t, out.RequiresPasswordChange)
	assert.True(t, out.PasswordExpired)

	storage.Remove(ctx, sid)
	assert.Nil(t, storage.Get(ctx, sid))
}

func TestProvider_PerfilIncompleto_ForzaLogout(t *testing.T) {
	ctx := context.Background()
	env := envelopeOK("tok")
	env.User.Email = ""
	gw := &fakeGateway{env: env}
	svc, storage := buildService(t, gw, nuevoReloj())
	p := auth.NewProvider(svc, logger.Nop())

	st, res, nuevo := p.Login(ctx, sid, dto.LoginRequest{CI: "1", Password: "x"})
	assert.False(t, st.IsAuthenticated)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "email")
	assert.Equal(t, sid, nuevo)
	assert.Nil(t, storage.Get(ctx, sid))
}

func TestProvider_ResolveConPerfilGuardadoIncompleto(t *testing.T) {
	ctx := context.Background()
	svc, storage := buildService(t, &fakeGateway{}, nuevoReloj())
	u := usuarioCompleto()
	u.Rol = ""
	storage.Set(ctx, sid, &entity.Session{Token: "t", User: u, TokenExpiry: time.Now().Add(time.Hour).UnixMilli()})

	st := auth.NewProvider(svc, logger.Nop()).Resolve(ctx, sid)
	assert.False(t, st.IsAuthenticated)
	assert.False(t, st.Loading)
	assert.Nil(t, storage.Get(ctx, sid))
}

func TestProvider_LoginYResolve(t *testing.T) {
	ctx := context.Background()
	svc, _ := buildService(t, &fakeGateway{env: envelopeOK("tok")}, nuevoReloj())
	p := auth.NewProvider(svc, logger.Nop())

	assert.True(t, auth.Pending().Loading)
	st, res, nuevo := p.Login(ctx, sid, dto.LoginRequest{CI: "1", Password: "x"})
	require.True(t, res.Success)
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "tok", st.Token)
	assert.True(t, st.RequiresPasswordChange)

	st = p.Logout(ctx, nuevo)
	assert.False(t, st.IsAuthenticated)
	assert.False(t, p.Resolve(ctx, nuevo).IsAuthenticated)
}

func TestProvider_Login_RotaIDDeSesion(t *testing.T) {
	ctx := context.Background()
	svc, storage := buildService(t, &fakeGateway{env: envelopeOK("tok")}, nuevoReloj())
	p := auth.NewProvider(svc, logger.Nop())

	storage.Set(ctx, sid, &entity.Session{User: usuarioCompleto()})
	_, res, nuevo := p.Login(ctx, sid, dto.LoginRequest{CI: "1", Password: "x"})
	require.True(t, res.Success)
	assert.NotEqual(t, sid, nuevo)
	assert.Nil(t, storage.Get(ctx, sid), "el id anterior no conserva registro")
	assert.False(t, p.Resolve(ctx, sid).IsAuthenticated)
	assert.True(t, p.Resolve(ctx, nuevo).IsAuthenticated)
}

func TestProvider_LoginFallido_ConservaID(t *testing.T) {
	ctx := context.Background()
	svc, storage := buildService(t, &fakeGateway{err: &domain.APIError{Status: 401, Message: "Credenciales inválidas"}}, nuevoReloj())
	p := auth.NewProvider(svc, logger.Nop())

	_, res, nuevo := p.Login(ctx, sid, dto.LoginRequest{CI: "1", Password: "x"})
	assert.False(t, res.Success)
	assert.Equal(t, sid, nuevo)
	assert.Nil(t, storage.Get(ctx, sid))
}

func TestProvider_Do_UsaSesionDelContexto(t *testing.T) {
	ctx := context.Background()
	var authz string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	svc, _ := buildService(t, &fakeGateway{env: envelopeOK("tok-ctx")}, nuevoReloj())
	p := auth.NewProvider(svc, logger.Nop())
	_, res, nuevo := p.Login(ctx, sid, dto.LoginRequest{CI: "1", Password: "x"})
	require.True(t, res.Success)

	req, _ := http.NewRequestWithContext(auth.WithSessionID(ctx, nuevo), http.MethodGet, srv.URL, nil)
	resp, err := p.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer tok-ctx", authz)
}
