package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-management/internal/application"
	"github.com/oksasatya/go-user-management/internal/domain/entity"
	"github.com/oksasatya/go-user-management/internal/domain/repository"
	"github.com/oksasatya/go-user-management/internal/interface/middleware"
	"github.com/oksasatya/go-user-management/internal/interface/web"
	"github.com/oksasatya/go-user-management/pkg/helpers"
	"github.com/oksasatya/go-user-management/pkg/response"
	"github.com/oksasatya/go-user-management/pkg/validation"
)

type UserHandler struct {
	Svc      *userapp.Service
	Sessions repository.SessionStore
	Images   repository.ImageStore
	Logger   *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, sessions repository.SessionStore, images repository.ImageStore, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Sessions: sessions, Images: images, Logger: logger}
}

type userForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Phone    string `form:"phone" binding:"required"`
	OldImage string `form:"old_image"`
}

func (f userForm) input() userapp.UserInput {
	return userapp.UserInput{Name: f.Name, Email: f.Email, Phone: f.Phone}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		helpers.RequestEntry(h.Logger, c).WithError(err).Error("list users failed")
		failed := entity.Danger("Failed to fetch users")
		c.HTML(http.StatusInternalServerError, web.IndexPage, gin.H{
			"title":   "Home Page",
			"users":   []entity.User{},
			"message": &failed,
		})
		return
	}

	// Taken only once the list is in hand so a failed read keeps it pending.
	msg := h.takeMessage(c)
	c.HTML(http.StatusOK, web.IndexPage, gin.H{
		"title":   "Home Page",
		"users":   users,
		"message": msg,
	})
}

func (h *UserHandler) AddForm(c *gin.Context) {
	c.HTML(http.StatusOK, web.AddPage, gin.H{"title": "User Page"})
}

func (h *UserHandler) Add(c *gin.Context) {
	log := helpers.RequestEntry(h.Logger, c)

	var form userForm
	if err := c.ShouldBind(&form); err != nil {
		log.WithField("details", validation.ToDetails(err)).Warn("invalid add user form")
		h.redirectWith(c, entity.Danger("Failed to add user"))
		return
	}

	upload, closeUpload, err := formUpload(c)
	if err != nil {
		log.WithError(err).Warn("read upload failed")
		h.redirectWith(c, entity.Danger("Failed to add user"))
		return
	}
	defer closeUpload()

	u, err := h.Svc.AddUser(c.Request.Context(), form.input(), upload)
	if err != nil {
		log.WithError(err).Error("add user failed")
		h.redirectWith(c, entity.Danger("Failed to add user"))
		return
	}

	log.WithField("user_id", u.ID).Info("user added")
	h.redirectWith(c, entity.Success("User added successfully"))
}

func (h *UserHandler) EditForm(c *gin.Context) {
	u, err := h.Svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if !errors.Is(err, userapp.ErrUserNotFound) {
			helpers.RequestEntry(h.Logger, c).WithError(err).Error("load user failed")
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, web.EditPage, gin.H{
		"title": "Edit User",
		"user":  u,
	})
}

func (h *UserHandler) Update(c *gin.Context) {
	log := helpers.RequestEntry(h.Logger, c)
	id := c.Param("id")

	var form userForm
	if err := c.ShouldBind(&form); err != nil {
		log.WithField("details", validation.ToDetails(err)).Warn("invalid update user form")
		h.redirectWith(c, entity.Danger(validation.Summary(err)))
		return
	}

	upload, closeUpload, err := formUpload(c)
	if err != nil {
		log.WithError(err).Warn("read upload failed")
		h.redirectWith(c, entity.Danger(err.Error()))
		return
	}
	defer closeUpload()

	if _, err := h.Svc.UpdateUser(c.Request.Context(), id, form.input(), form.OldImage, upload); err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			log.WithField("user_id", id).Warn("update of unknown user")
			h.redirectWith(c, entity.Danger("User not found"))
			return
		}
		log.WithError(err).WithField("user_id", id).Error("update user failed")
		h.redirectWith(c, entity.Danger(err.Error()))
		return
	}

	log.WithField("user_id", id).Info("user updated")
	h.redirectWith(c, entity.Success("User updated successfully"))
}

func (h *UserHandler) Delete(c *gin.Context) {
	log := helpers.RequestEntry(h.Logger, c)
	id := c.Param("id")

	u, err := h.Svc.DeleteUser(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).WithField("user_id", id).Error("delete user failed")
		response.AbortError(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	if u != nil {
		log.WithField("user_id", id).Info("user deleted")
	}
	h.redirectWith(c, entity.Danger("User deleted successfully"))
}

// ServeImage serves stored images from the site root. It is installed as
// the NoRoute handler so any unmatched GET for a known image succeeds.
func (h *UserHandler) ServeImage(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}

	name := strings.TrimPrefix(c.Request.URL.Path, "/")
	rc, err := h.Images.Open(c.Request.Context(), name)
	if err != nil {
		if !errors.Is(err, repository.ErrImageNotFound) {
			helpers.RequestEntry(h.Logger, c).WithError(err).Error("open image failed")
		}
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, helpers.ContentTypeByName(name), rc, nil)
}

// formUpload returns the "image" file of a multipart request, or nil when
// none was sent.
func formUpload(c *gin.Context) (*userapp.Upload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	if fh.Filename == "" {
		return nil, noop, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &userapp.Upload{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}

func (h *UserHandler) redirectWith(c *gin.Context, msg entity.Message) {
	h.setMessage(c, msg)
	c.Redirect(http.StatusFound, "/")
}

func (h *UserHandler) setMessage(c *gin.Context, msg entity.Message) {
	sid := middleware.SessionID(c)
	if sid == "" {
		return
	}
	if err := h.Sessions.SetMessage(c.Request.Context(), sid, msg); err != nil {
		helpers.RequestEntry(h.Logger, c).WithError(err).Warn("store flash message failed")
	}
}

func (h *UserHandler) takeMessage(c *gin.Context) *entity.Message {
	sid := middleware.SessionID(c)
	if sid == "" {
		return nil
	}
	msg, err := h.Sessions.TakeMessage(c.Request.Context(), sid)
	if err != nil {
		helpers.RequestEntry(h.Logger, c).WithError(err).Warn("read flash message failed")
		return nil
	}
	return msg
}
