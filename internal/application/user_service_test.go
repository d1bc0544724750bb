package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-management/internal/domain/entity"
	repo "github.com/oksasatya/go-user-management/internal/domain/repository"
	"github.com/oksasatya/go-user-management/internal/infrastructure/memory"
	"github.com/oksasatya/go-user-management/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-management/pkg/mailer/templates"
)

// fakeImages records what was saved and deleted.
type fakeImages struct {
	mu      sync.Mutex
	next    int
	files   map[string]string
	deleted []string
	saveErr error
}

func newFakeImages() *fakeImages { return &fakeImages{files: map[string]string{}} }

func (f *fakeImages) Save(_ context.Context, r io.Reader, originalName string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	name := strings.Repeat("1", f.next) + "_" + originalName
	f.files[name] = string(b)
	return name, nil
}

func (f *fakeImages) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, name)
	delete(f.files, name)
	return nil
}

func (f *fakeImages) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, repo.ErrImageNotFound
}

type fakePublisher struct {
	jobs []mailer.EmailJob
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if job, ok := body.(mailer.EmailJob); ok {
		p.jobs = append(p.jobs, job)
	}
	return p.err
}

type failingRepo struct {
	*memory.UserRepository
	err error
}

func (r failingRepo) Create(context.Context, *entity.User) error { return r.err }
func (r failingRepo) UpdateByID(context.Context, string, entity.UserFields) (*entity.User, error) {
	return nil, r.err
}
func (r failingRepo) DeleteByID(context.Context, string) (*entity.User, error) { return nil, r.err }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestService(users repo.UserRepository, images *fakeImages) *Service {
	return NewService(users, images, quietLogger(), nil, mailtpl.Brand{AppName: "Users"})
}

func pngUpload(name, body string) *Upload {
	return &Upload{Filename: name, Content: strings.NewReader(body)}
}

var ann = UserInput{Name: "Ann", Email: "ann@example.com", Phone: "555-0100"}

func TestAddUser_StoresImageAndRecord(t *testing.T) {
	images := newFakeImages()
	svc := newTestService(memory.NewUserRepository(), images)

	u, err := svc.AddUser(context.Background(), ann, pngUpload("a.png", "data"))
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "1_a.png", u.Image)
	assert.Equal(t, "data", images.files["1_a.png"])

	got, err := svc.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
}

func TestAddUser_WithoutUpload(t *testing.T) {
	svc := newTestService(memory.NewUserRepository(), newFakeImages())

	u, err := svc.AddUser(context.Background(), ann, nil)
	require.NoError(t, err)
	assert.Empty(t, u.Image)
}

func TestAddUser_StoreFailureRemovesUpload(t *testing.T) {
	images := newFakeImages()
	svc := newTestService(failingRepo{memory.NewUserRepository(), errors.New("insert failed")}, images)

	_, err := svc.AddUser(context.Background(), ann, pngUpload("a.png", "data"))
	require.Error(t, err)
	assert.Equal(t, []string{"1_a.png"}, images.deleted)
	assert.Empty(t, images.files)
}

func TestAddUser_SaveFailureCreatesNothing(t *testing.T) {
	images := newFakeImages()
	images.saveErr = errors.New("disk full")
	users := memory.NewUserRepository()
	svc := newTestService(users, images)

	_, err := svc.AddUser(context.Background(), ann, pngUpload("a.png", "data"))
	require.ErrorIs(t, err, images.saveErr)

	all, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListUsers_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.NewUserRepository(), newFakeImages())

	names := []string{"Ann", "Bob", "Cy"}
	created := make([]*entity.User, 0, len(names))
	for _, name := range names {
		u, err := svc.AddUser(ctx, UserInput{Name: name, Email: name + "@x.io", Phone: "1"}, nil)
		require.NoError(t, err)
		created = append(created, u)
	}

	all, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(names))
	for i, u := range created {
		assert.Equal(t, u.ID, all[i].ID)

		got, err := svc.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, names[i], got.Name)
	}
}

func TestGetUser_Missing(t *testing.T) {
	svc := newTestService(memory.NewUserRepository(), newFakeImages())

	_, err := svc.GetUser(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_NewUploadReplacesOldImage(t *testing.T) {
	images := newFakeImages()
	svc := newTestService(memory.NewUserRepository(), images)
	u, err := svc.AddUser(context.Background(), ann, pngUpload("a.png", "old"))
	require.NoError(t, err)

	in := UserInput{Name: "Ann B", Email: "annb@example.com", Phone: "555-0101"}
	got, err := svc.UpdateUser(context.Background(), u.ID, in, u.Image, pngUpload("b.png", "new"))
	require.NoError(t, err)

	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Ann B", got.Name)
	assert.Equal(t, "annb@example.com", got.Email)
	assert.Equal(t, "11_b.png", got.Image)
	assert.Equal(t, []string{"1_a.png"}, images.deleted)
}

func TestUpdateUser_WithoutUploadUsesOldImage(t *testing.T) {
	images := newFakeImages()
	svc := newTestService(memory.NewUserRepository(), images)
	u, err := svc.AddUser(context.Background(), ann, pngUpload("a.png", "old"))
	require.NoError(t, err)

	got, err := svc.UpdateUser(context.Background(), u.ID, ann, u.Image, nil)
	require.NoError(t, err)
	assert.Equal(t, u.Image, got.Image)

	got, err = svc.UpdateUser(context.Background(), u.ID, ann, "", nil)
	require.NoError(t, err)
	assert.Empty(t, got.Image)
	assert.Empty(t, images.deleted)
}

func TestUpdateUser_Missing(t *testing.T) {
	images := newFakeImages()
	svc := newTestService(memory.NewUserRepository(), images)

	_, err := svc.UpdateUser(context.Background(), "nope", ann, "", pngUpload("b.png", "new"))
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, "user not found", err.Error())
	assert.Equal(t, []string{"1_b.png"}, images.deleted)
}

func TestUpdateUser_StoreFailureKeepsOldImage(t *testing.T) {
	images := newFakeImages()
	images.files["9_a.png"] = "old"
	svc := newTestService(failingRepo{memory.NewUserRepository(), errors.New("update failed")}, images)

	_, err := svc.UpdateUser(context.Background(), "any", ann, "9_a.png", pngUpload("b.png", "new"))
	require.Error(t, err)
	assert.Equal(t, []string{"1_b.png"}, images.deleted)
	assert.Contains(t, images.files, "9_a.png")
}

func TestDeleteUser_RemovesImage(t *testing.T) {
	images := newFakeImages()
	svc := newTestService(memory.NewUserRepository(), images)
	u, err := svc.AddUser(context.Background(), ann, pngUpload("a.png", "x"))
	require.NoError(t, err)

	got, err := svc.DeleteUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, []string{"1_a.png"}, images.deleted)

	_, err = svc.GetUser(context.Background(), u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser_EmptyImageSkipsImageStore(t *testing.T) {
	images := newFakeImages()
	svc := newTestService(memory.NewUserRepository(), images)
	u, err := svc.AddUser(context.Background(), ann, nil)
	require.NoError(t, err)

	got, err := svc.DeleteUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Empty(t, images.deleted)

	_, err = svc.GetUser(context.Background(), u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser_MissingIsNotAnError(t *testing.T) {
	images := newFakeImages()
	svc := newTestService(memory.NewUserRepository(), images)

	got, err := svc.DeleteUser(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, images.deleted)
}

func TestDeleteUser_StoreError(t *testing.T) {
	svc := newTestService(failingRepo{memory.NewUserRepository(), errors.New("db down")}, newFakeImages())

	_, err := svc.DeleteUser(context.Background(), "any")
	assert.EqualError(t, err, "db down")
}

func TestNotifications(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewService(memory.NewUserRepository(), newFakeImages(), quietLogger(), pub, mailtpl.Brand{AppName: "Users"})

	u, err := svc.AddUser(context.Background(), ann, nil)
	require.NoError(t, err)
	_, err = svc.UpdateUser(context.Background(), u.ID, ann, "", nil)
	require.NoError(t, err)
	_, err = svc.DeleteUser(context.Background(), u.ID)
	require.NoError(t, err)

	require.Len(t, pub.jobs, 3)
	types := make([]any, 0, 3)
	for _, job := range pub.jobs {
		assert.Equal(t, "ann@example.com", job.To)
		assert.Equal(t, mailtpl.UserEvent, job.Template)
		types = append(types, job.Data["Type"])
	}
	assert.Equal(t, []any{mailtpl.UserAdded, mailtpl.UserUpdated, mailtpl.UserDeleted}, types)
}

func TestNotifications_PublishFailureIsIgnored(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewService(memory.NewUserRepository(), newFakeImages(), quietLogger(), pub, mailtpl.Brand{})

	_, err := svc.AddUser(context.Background(), ann, nil)
	assert.NoError(t, err)
}
