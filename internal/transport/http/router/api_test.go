package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gin-gorm-user-service/internal/core/auth"
	"gin-gorm-user-service/internal/core/database"
	"gin-gorm-user-service/internal/domain"
	"gin-gorm-user-service/internal/feature/user"
	"gin-gorm-user-service/internal/repo"
	"gin-gorm-user-service/internal/service"
	"gin-gorm-user-service/internal/transport/http/handler"
	"gin-gorm-user-service/pkg/utils"
)

// spyRepo 统计 FindByID 调用次数
type spyRepo struct {
	domain.UserRepository
	finds atomic.Int64
}

func (s *spyRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	s.finds.Add(1)
	return s.UserRepository.FindByID(ctx, id)
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type errData struct {
	Error   string              `json:"error"`
	Details []domain.FieldError `json:"details"`
}

type APISuite struct {
	suite.Suite
	db     *gorm.DB
	spy    *spyRepo
	users  *service.UserService
	router *gin.Engine
	jwt    *auth.JWTer
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	s.Require().NoError(err)
	s.Require().NoError(user.Migrate(db))
	s.db = db
	s.router = s.build(false)
}

func (s *APISuite) TearDownTest() { _ = database.Close(s.db) }

func (s *APISuite) build(placeholder bool) *gin.Engine {
	s.spy = &spyRepo{UserRepository: repo.NewUserRepo(s.db)}
	hasher := utils.BcryptHasher{Cost: bcrypt.MinCost}
	s.jwt = &auth.JWTer{Secret: []byte("k"), Issuer: "test", TTL: time.Hour}
	revoker := auth.NewMemoryRevoker()
	s.users = service.NewUserService(s.spy, hasher)
	authSvc := service.NewAuthService(s.users, s.spy, hasher, s.jwt, revoker)

	return NewAPIEngine(Deps{
		Users:    handler.NewUserHandler(s.users, placeholder),
		Auth:     handler.NewAuthHandler(authSvc),
		Gate:     auth.NewGate(s.jwt, revoker),
		BasePath: "/api/v1",
		Limits:   DefaultLimits(),
	})
}

func (s *APISuite) do(method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (s *APISuite) errOf(env envelope) errData {
	var e errData
	s.Require().NoError(json.Unmarshal(env.Data, &e))
	return e
}

func (s *APISuite) createUser(name, email, pw string) domain.User {
	w, env := s.do(http.MethodPost, "/api/v1/users", `{"name":"`+name+`","email":"`+email+`","password":"`+pw+`"}`, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var u domain.User
	s.Require().NoError(json.Unmarshal(env.Data, &u))
	return u
}

func (s *APISuite) signUp(name, email, pw string) service.Session {
	w, env := s.do(http.MethodPost, "/api/v1/auth/sign-up", `{"name":"`+name+`","email":"`+email+`","password":"`+pw+`"}`, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var sess service.Session
	s.Require().NoError(json.Unmarshal(env.Data, &sess))
	return sess
}

func (s *APISuite) TestHealth() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, w.Code)
}

func (s *APISuite) TestCreateNormalizesEmail() {
	u := s.createUser("Ann Lee", "ANN@Example.com", "secret1")

	s.Equal("ann@example.com", u.Email)
	s.Equal("Ann Lee", u.Name)
	s.NotEmpty(u.ID)
	s.False(u.CreatedAt.IsZero())
	s.False(u.UpdatedAt.IsZero())
}

func (s *APISuite) TestCreateResponseHidesPassword() {
	w, _ := s.do(http.MethodPost, "/api/v1/users", `{"name":"Ann","email":"a@b.co","password":"secret1"}`, "")
	s.Equal(http.StatusCreated, w.Code)
	s.NotContains(w.Body.String(), "secret1")
	s.NotContains(strings.ToLower(w.Body.String()), "password")
}

func (s *APISuite) TestCreateValidationListsAllFields() {
	w, env := s.do(http.MethodPost, "/api/v1/users", `{"name":"A","email":"bad","password":"123"}`, "")

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(http.StatusBadRequest, env.Code)
	e := s.errOf(env)
	s.Equal("VALIDATION_ERROR", e.Error)
	fields := map[string]bool{}
	for _, f := range e.Details {
		fields[f.Field] = true
	}
	s.Equal(map[string]bool{"name": true, "email": true, "password": true}, fields)
}

func (s *APISuite) TestCreateMalformedJSON() {
	w, env := s.do(http.MethodPost, "/api/v1/users", `{"name":`, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("BAD_REQUEST", s.errOf(env).Error)
}

func (s *APISuite) TestCreateDuplicateEmail() {
	s.createUser("Ann", "ann@example.com", "secret1")

	w, env := s.do(http.MethodPost, "/api/v1/users", `{"name":"Ann","email":"ANN@example.com","password":"secret1"}`, "")
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("DUPLICATE_KEY", s.errOf(env).Error)
}

func (s *APISuite) TestListInCreationOrder() {
	a := s.createUser("Zed", "z@example.com", "secret1")
	b := s.createUser("Amy", "a@example.com", "secret1")

	w, env := s.do(http.MethodGet, "/api/v1/users", "", "")
	s.Equal(http.StatusOK, w.Code)

	var out struct {
		Total int           `json:"total"`
		Items []domain.User `json:"items"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &out))
	s.Equal(2, out.Total)
	s.Equal(a.ID, out.Items[0].ID)
	s.Equal(b.ID, out.Items[1].ID)
}

func (s *APISuite) TestGetByIDWithoutTokenNeverQueriesStore() {
	u := s.createUser("Ann", "ann@example.com", "secret1")

	w, env := s.do(http.MethodGet, "/api/v1/users/"+u.ID, "", "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("AUTHORIZATION_ERROR", s.errOf(env).Error)

	w, _ = s.do(http.MethodGet, "/api/v1/users/"+u.ID, "", "not-a-token")
	s.Equal(http.StatusUnauthorized, w.Code)

	s.Equal(int64(0), s.spy.finds.Load())
}

func (s *APISuite) TestGetByIDWithToken() {
	sess := s.signUp("Ann", "ann@example.com", "secret1")
	other := s.createUser("Bob", "bob@example.com", "secret1")

	w, env := s.do(http.MethodGet, "/api/v1/users/"+other.ID, "", sess.Token)
	s.Require().Equal(http.StatusOK, w.Code)
	var got domain.User
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.Equal(other.ID, got.ID)
	s.Equal("bob@example.com", got.Email)

	w, env = s.do(http.MethodGet, "/api/v1/users/missing", "", sess.Token)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("NOT_FOUND", s.errOf(env).Error)
}

func (s *APISuite) TestUpdate() {
	u := s.createUser("Ann", "ann@example.com", "secret1")

	w, env := s.do(http.MethodPut, "/api/v1/users/"+u.ID, `{"name":" Annie ","email":"ANNIE@example.com"}`, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var got domain.User
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.Equal("Annie", got.Name)
	s.Equal("annie@example.com", got.Email)
	s.False(got.UpdatedAt.Before(u.UpdatedAt))

	w, env = s.do(http.MethodPut, "/api/v1/users/"+u.ID, `{"name":"A"}`, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("VALIDATION_ERROR", s.errOf(env).Error)

	w, _ = s.do(http.MethodPut, "/api/v1/users/"+u.ID, `{}`, "")
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPut, "/api/v1/users/missing", `{"name":"Bob"}`, "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestUpdateDuplicateEmail() {
	s.createUser("Ann", "ann@example.com", "secret1")
	b := s.createUser("Bob", "bob@example.com", "secret1")

	w, env := s.do(http.MethodPut, "/api/v1/users/"+b.ID, `{"email":"ann@example.com"}`, "")
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("DUPLICATE_KEY", s.errOf(env).Error)
}

func (s *APISuite) TestDelete() {
	u := s.createUser("Ann", "ann@example.com", "secret1")

	w, _ := s.do(http.MethodDelete, "/api/v1/users/"+u.ID, "", "")
	s.Equal(http.StatusOK, w.Code)

	for i := 0; i < 2; i++ {
		w, env := s.do(http.MethodDelete, "/api/v1/users/"+u.ID, "", "")
		s.Equal(http.StatusNotFound, w.Code)
		s.Equal("NOT_FOUND", s.errOf(env).Error)
	}
}

func (s *APISuite) TestSignInAndSignOut() {
	s.signUp("Ann", "ann@example.com", "secret1")

	w, env := s.do(http.MethodPost, "/api/v1/auth/sign-in", `{"email":"ann@example.com","password":"secret1"}`, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var sess service.Session
	s.Require().NoError(json.Unmarshal(env.Data, &sess))
	s.NotEmpty(sess.Token)

	w, _ = s.do(http.MethodGet, "/api/v1/users/"+sess.User.ID, "", sess.Token)
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/auth/sign-out", "", sess.Token)
	s.Equal(http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/users/"+sess.User.ID, "", sess.Token)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("AUTHORIZATION_ERROR", s.errOf(env).Error)
}

func (s *APISuite) TestSignInWrongPassword() {
	s.signUp("Ann", "ann@example.com", "secret1")

	w, env := s.do(http.MethodPost, "/api/v1/auth/sign-in", `{"email":"ann@example.com","password":"nope123"}`, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("AUTHORIZATION_ERROR", s.errOf(env).Error)
}

func (s *APISuite) TestSignOutWithoutToken() {
	w, env := s.do(http.MethodPost, "/api/v1/auth/sign-out", "", "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("AUTHORIZATION_ERROR", s.errOf(env).Error)
}

func (s *APISuite) TestPlaceholderWrites() {
	s.router = s.build(true)

	cases := []struct{ method, path, title string }{
		{http.MethodPost, "/api/v1/users", "CREATE new user"},
		{http.MethodPut, "/api/v1/users/any", "UPDATE user"},
		{http.MethodDelete, "/api/v1/users/any", "DELETE user"},
	}
	for _, c := range cases {
		w, env := s.do(c.method, c.path, `{"name":"Ann","email":"a@b.co","password":"secret1"}`, "")
		s.Equal(http.StatusOK, w.Code)
		var ack map[string]string
		s.Require().NoError(json.Unmarshal(env.Data, &ack))
		s.Equal(c.title, ack["title"])
	}

	all, err := s.users.List(context.Background())
	s.Require().NoError(err)
	s.Empty(all)
}
