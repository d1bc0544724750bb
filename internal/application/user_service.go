package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-management/internal/domain/entity"
	repo "github.com/oksasatya/go-user-management/internal/domain/repository"
	"github.com/oksasatya/go-user-management/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-management/pkg/mailer/templates"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// Publisher queues a JSON message. helpers.RabbitPublisher satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type Service struct {
	Repo   repo.UserRepository
	Images repo.ImageStore
	Logger *logrus.Logger

	// Optional; when nil no notification emails are queued.
	Publisher Publisher
	Brand     mailtpl.Brand
}

func NewService(repo repo.UserRepository, images repo.ImageStore, logger *logrus.Logger, pub Publisher, brand mailtpl.Brand) *Service {
	return &Service{
		Repo:      repo,
		Images:    images,
		Logger:    logger,
		Publisher: pub,
		Brand:     brand,
	}
}

// UserInput is the form payload shared by add and update.
type UserInput struct {
	Name  string
	Email string
	Phone string
}

// Upload is an image attached to a request.
type Upload struct {
	Filename string
	Content  io.Reader
}

func (s *Service) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.Repo.List(ctx)
}

func (s *Service) GetUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// AddUser stores the upload first, if any, and then the record pointing at
// it. Without an upload the image is "".
func (s *Service) AddUser(ctx context.Context, in UserInput, upload *Upload) (*entity.User, error) {
	image := ""
	if upload != nil {
		name, err := s.Images.Save(ctx, upload.Content, upload.Filename)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		image = name
	}

	u := &entity.User{Name: in.Name, Email: in.Email, Phone: in.Phone, Image: image}
	if err := s.Repo.Create(ctx, u); err != nil {
		s.removeImage(ctx, image, "orphaned upload")
		return nil, err
	}

	s.notify(ctx, mailtpl.UserAdded, u)
	return u, nil
}

// UpdateUser overwrites every field of the user. A new upload replaces the
// image and the previous file named by oldImage is removed afterwards;
// without an upload the image becomes oldImage as sent by the client.
func (s *Service) UpdateUser(ctx context.Context, id string, in UserInput, oldImage string, upload *Upload) (*entity.User, error) {
	image := oldImage
	if upload != nil {
		name, err := s.Images.Save(ctx, upload.Content, upload.Filename)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		image = name
	}

	u, err := s.Repo.UpdateByID(ctx, id, entity.UserFields{Name: in.Name, Email: in.Email, Phone: in.Phone, Image: image})
	if err != nil {
		if upload != nil {
			s.removeImage(ctx, image, "orphaned upload")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if upload != nil && oldImage != "" && oldImage != image {
		s.removeImage(ctx, oldImage, "replaced image")
	}

	s.notify(ctx, mailtpl.UserUpdated, u)
	return u, nil
}

// DeleteUser removes the user and its image. A missing user is not an
// error; the returned user is nil in that case.
func (s *Service) DeleteUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.DeleteByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if u.Image != "" {
		s.removeImage(ctx, u.Image, "deleted user")
	}

	s.notify(ctx, mailtpl.UserDeleted, u)
	return u, nil
}

// removeImage is best effort; failures are only logged.
func (s *Service) removeImage(ctx context.Context, name, reason string) {
	if name == "" {
		return
	}
	if err := s.Images.Delete(ctx, name); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"image": name, "reason": reason}).Error("delete image failed")
	}
}

func (s *Service) notify(ctx context.Context, typ string, u *entity.User) {
	if s.Publisher == nil || u.Email == "" {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.UserEvent,
		Data:     mailtpl.NewUserEventData(s.Brand, typ, u.Name, u.Email, mailtpl.WithTime(time.Now())),
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Publisher.PublishJSON(c, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "type": typ}).Warn("queue notification failed")
	}
}
