package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gin-gorm-user-service/internal/core/auth"
	"gin-gorm-user-service/internal/domain"
	"gin-gorm-user-service/internal/service"
	httpez "gin-gorm-user-service/internal/transport/http/ez"
)

type UserHandler struct {
	svc *service.UserService
	// placeholder 为 true 时 create/update/delete 只返回固定确认，不落库
	placeholder bool
}

func NewUserHandler(svc *service.UserService, placeholderWrites bool) *UserHandler {
	return &UserHandler{svc: svc, placeholder: placeholderWrites}
}

type createUserIn struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserIn struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type listUsersOut struct {
	Total int           `json:"total"`
	Items []domain.User `json:"items"`
}

// Mount 在 /users 下注册资源路由；gate 只作用于 get-by-id
func (h *UserHandler) Mount(e httpez.EZ, gate auth.Guard) {
	httpez.RegisterAction(e, httpez.Action[struct{}, listUsersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (listUsersOut, error) {
			us, err := h.svc.List(c.Request.Context())
			if err != nil {
				return listUsersOut{}, err
			}
			return listUsersOut{Total: len(us), Items: us}, nil
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Guard:  gate,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})

	if h.placeholder {
		h.mountPlaceholders(e)
		return
	}

	httpez.RegisterAction(e, httpez.Action[createUserIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createUserIn) (*domain.User, error) {
			return h.svc.Create(c.Request.Context(), domain.NewUser{
				Name: in.Name, Email: in.Email, Password: in.Password,
			})
		},
	})

	httpez.RegisterAction(e, httpez.Action[updateUserIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *updateUserIn) (*domain.User, error) {
			patch := domain.UserPatch{Name: in.Name, Email: in.Email, Password: in.Password}
			if patch.Empty() {
				return nil, httpez.BadRequest("no fields to update")
			}
			return h.svc.Update(c.Request.Context(), c.Param("id"), patch)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc.Delete(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}

func (h *UserHandler) mountPlaceholders(e httpez.EZ) {
	ack := func(title string) func(*gin.Context, *struct{}) (gin.H, error) {
		return func(*gin.Context, *struct{}) (gin.H, error) { return gin.H{"title": title}, nil }
	}
	httpez.RegisterAction(e, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost, Path: "/users", Binder: httpez.BindNone, Handler: ack("CREATE new user"),
	})
	httpez.RegisterAction(e, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPut, Path: "/users/:id", Binder: httpez.BindNone, Handler: ack("UPDATE user"),
	})
	httpez.RegisterAction(e, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete, Path: "/users/:id", Binder: httpez.BindNone, Handler: ack("DELETE user"),
	})
}
