package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/streamhub/backend/internal/auth"
	"github.com/streamhub/backend/internal/models"
	"github.com/streamhub/backend/internal/repositories"
)

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user models.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (r *fakeUserRepo) FindByIdentifier(_ context.Context, identifier string) (models.User, error) {
	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.PasswordHash = passwordHash
	r.users[id] = user
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id, fullName, email string) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	user.FullName = fullName
	user.Email = email
	r.users[id] = user
	return user, nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, id, avatarURL string) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	user.AvatarURL = avatarURL
	r.users[id] = user
	return user, nil
}

func (r *fakeUserRepo) UpdateCoverImage(_ context.Context, id, coverImageURL string) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	user.CoverImageURL = coverImageURL
	r.users[id] = user
	return user, nil
}

func validParams() RegisterParams {
	return RegisterParams{
		FullName:  "Ada Lovelace",
		Email:     "ada@example.com",
		Username:  "Ada",
		Password:  "supersafe",
		AvatarURL: "https://cdn.example.com/avatars/ada.png",
	}
}

func TestServiceRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), validParams())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.Username != "ada" {
		t.Fatalf("expected lower-cased username, got %q", user.Username)
	}
	if user.PasswordHash == "supersafe" || user.PasswordHash == "" {
		t.Fatal("password must be hashed before storage")
	}
	if !auth.CheckPassword(user.PasswordHash, "supersafe") {
		t.Fatal("stored hash does not match the password")
	}
}

func TestServiceRegisterValidation(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	cases := map[string]func(*RegisterParams){
		"empty full name": func(p *RegisterParams) { p.FullName = "  " },
		"empty email":     func(p *RegisterParams) { p.Email = "" },
		"empty username":  func(p *RegisterParams) { p.Username = "" },
		"empty password":  func(p *RegisterParams) { p.Password = " " },
		"missing avatar":  func(p *RegisterParams) { p.AvatarURL = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := validParams()
			mutate(&p)
			if _, err := svc.Register(context.Background(), p); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput got %v", err)
			}
		})
	}
}

func TestServiceRegisterConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), validParams()); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Same username, different case and email.
	p := validParams()
	p.Email = "other@example.com"
	p.Username = "ADA"
	if _, err := svc.Register(context.Background(), p); !errors.Is(err, repositories.ErrConflict) {
		t.Fatalf("expected ErrConflict got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one stored record, got %d", len(repo.users))
	}

	// Same email, different username.
	p = validParams()
	p.Username = "someoneelse"
	if _, err := svc.Register(context.Background(), p); !errors.Is(err, repositories.ErrConflict) {
		t.Fatalf("expected ErrConflict got %v", err)
	}
}

func TestServiceAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), validParams()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "ada", "supersafe"); err != nil {
		t.Fatalf("authenticate by username: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ada@example.com", "supersafe"); err != nil {
		t.Fatalf("authenticate by email: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "ada", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody", "supersafe"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestServiceChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), validParams())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong-old", "newpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials got %v", err)
	}
	stored, _ := repo.FindByID(context.Background(), user.ID)
	if stored.PasswordHash != user.PasswordHash {
		t.Fatal("failed change must leave the hash untouched")
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "supersafe", "newpass"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ada", "newpass"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ada", "supersafe"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
}

func TestServiceUpdateValidation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), validParams())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.UpdateProfile(context.Background(), user.ID, "", "ada@example.com"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
	if _, err := svc.UpdateAvatar(context.Background(), user.ID, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}
	if _, err := svc.UpdateCoverImage(context.Background(), user.ID, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput got %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), user.ID, "Ada King", "countess@example.com")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FullName != "Ada King" || updated.Email != "countess@example.com" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}
