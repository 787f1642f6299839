package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gin-gorm-user-service/internal/core/auth"
	"gin-gorm-user-service/internal/domain"
	"gin-gorm-user-service/internal/service"
	httpez "gin-gorm-user-service/internal/transport/http/ez"
)

type AuthHandler struct{ svc *service.AuthService }

func NewAuthHandler(svc *service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

type signUpIn struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Mount 注册 /auth/sign-up、/auth/sign-in、/auth/sign-out
func (h *AuthHandler) Mount(e httpez.EZ) {
	httpez.RegisterAction(e, httpez.Action[signUpIn, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/sign-up",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *signUpIn) (*service.Session, error) {
			return h.svc.SignUp(c.Request.Context(), domain.NewUser{
				Name: in.Name, Email: in.Email, Password: in.Password,
			})
		},
	})

	httpez.RegisterAction(e, httpez.Action[signInIn, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/sign-in",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *signInIn) (*service.Session, error) {
			return h.svc.SignIn(c.Request.Context(), in.Email, in.Password)
		},
	})

	// sign-out 不走守卫：token 由服务层解析并注销
	httpez.RegisterAction(e, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/sign-out",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			tok, _ := auth.BearerToken(c.Request)
			if err := h.svc.SignOut(c.Request.Context(), tok); err != nil {
				return nil, err
			}
			return gin.H{"signedOut": true}, nil
		},
	})
}
