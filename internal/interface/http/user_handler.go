package handlers

import (
	"errors"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/pkg/response"
	"github.com/oksasatya/go-user-registration/pkg/validation"
)

var (
	usersCreated = expvar.NewInt("users_created")
	usersUpdated = expvar.NewInt("users_updated")
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type phoneRequest struct {
	Number      string `json:"number" binding:"required"`
	CityCode    string `json:"citycode" binding:"required"`
	CountryCode string `json:"countrycode" binding:"required"`
}

type createUserRequest struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required"`
	Password string         `json:"password" binding:"required"`
	Phones   []phoneRequest `json:"phones" binding:"required,min=1,dive"`
	// optional, YYYY-MM-DD; defaults to the creation date
	LastLogin string `json:"lastLogin" binding:"omitempty,datetime=2006-01-02"`
	IsActive  *bool  `json:"isActive"`
}

// updateUserRequest accepts an empty phones array, which clears the user's phones.
type updateUserRequest struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required"`
	Password string         `json:"password" binding:"required"`
	Phones   []phoneRequest `json:"phones" binding:"required,dive"`
}

func toPhones(in []phoneRequest) []entity.Phone {
	out := make([]entity.Phone, 0, len(in))
	for _, p := range in {
		out = append(out, entity.Phone{Number: p.Number, CityCode: p.CityCode, CountryCode: p.CountryCode})
	}
	return out
}

func (r createUserRequest) toEntity() entity.User {
	u := entity.User{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Phones:   toPhones(r.Phones),
		IsActive: r.IsActive,
	}
	// already checked by the datetime binding
	if t, err := time.Parse(userapp.DateLayout, r.LastLogin); err == nil {
		u.LastLogin = &t
	}
	return u
}

func (r updateUserRequest) toEntity() entity.User {
	return entity.User{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Phones:   toPhones(r.Phones),
	}
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), req.toEntity())
	if err != nil {
		h.fail(c, err)
		return
	}
	usersCreated.Add(1)
	c.JSON(http.StatusCreated, u)
}

// Update handles PUT /users. The email in the body selects the user.
func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), req.toEntity())
	if err != nil {
		h.fail(c, err)
		return
	}
	usersUpdated.Add(1)
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, userapp.ErrInvalidEmailFormat):
		response.Abort(c, http.StatusBadRequest, userapp.ErrInvalidEmailFormat.Error(), err.Error())
	case errors.Is(err, userapp.ErrInvalidPasswordFormat):
		response.Abort(c, http.StatusBadRequest, userapp.ErrInvalidPasswordFormat.Error(), err.Error())
	case errors.Is(err, userapp.ErrPasswordTooLong):
		response.Abort(c, http.StatusBadRequest, userapp.ErrPasswordTooLong.Error(), err.Error())
	case errors.Is(err, userapp.ErrEmailAlreadyRegistered):
		response.Abort(c, http.StatusConflict, userapp.ErrEmailAlreadyRegistered.Error(), err.Error())
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Abort(c, http.StatusNotFound, userapp.ErrUserNotFound.Error(), err.Error())
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("user request failed")
		}
		response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
