package service

import (
	"errors"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	users  []*model.User
	nextID uint

	// 已软删除账号占用的标识，仍算重名
	reservedNames  []string
	reservedEmails []string
}

func (f *fakeUserStore) Create(user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserStore) FindByUsername(username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) UsernameTaken(username string, excludeID uint) (bool, error) {
	for _, u := range f.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	for _, name := range f.reservedNames {
		if name == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) EmailTaken(email string, excludeID uint) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	for _, e := range f.reservedEmails {
		if e == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateLastLogin(userID uint) error { return nil }

func newAuthFixture() (*AuthService, *fakeUserStore) {
	store := &fakeUserStore{}
	cfg := &config.Config{}
	cfg.JWT.Secret = "unit-test-secret-key-0123456789abcdef"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(store, nil, cfg), store
}

func TestRegister(t *testing.T) {
	svc, store := newAuthFixture()

	t.Run("stores a hashed password and forces the student role", func(t *testing.T) {
		user, err := svc.Register("alice", "alice@example.com", "s3cret")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Role != model.Student {
			t.Errorf("role = %q, want student regardless of input", user.Role)
		}
		if user.Password == "s3cret" {
			t.Error("password must not be stored in plaintext")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")); err != nil {
			t.Errorf("stored hash does not verify: %v", err)
		}
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, err := svc.Register("alice", "other@example.com", "pw")
		if !errors.Is(err, util.ErrUsernameTaken) {
			t.Fatalf("err = %v, want ErrUsernameTaken", err)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := svc.Register("bob", "alice@example.com", "pw")
		if !errors.Is(err, util.ErrEmailRegistered) {
			t.Fatalf("err = %v, want ErrEmailRegistered", err)
		}
	})

	t.Run("rejects identifiers held by a deleted account", func(t *testing.T) {
		store.reservedNames = append(store.reservedNames, "ghost")
		store.reservedEmails = append(store.reservedEmails, "ghost@example.com")

		if _, err := svc.Register("ghost", "new@example.com", "pw"); !errors.Is(err, util.ErrUsernameTaken) {
			t.Errorf("err = %v, want ErrUsernameTaken", err)
		}
		if _, err := svc.Register("carol", "ghost@example.com", "pw"); !errors.Is(err, util.ErrEmailRegistered) {
			t.Errorf("err = %v, want ErrEmailRegistered", err)
		}
	})

	if len(store.users) != 1 {
		t.Errorf("store holds %d users, want only the successful registration", len(store.users))
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture()
	if _, err := svc.Register("alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("issues a parseable token on the matching portal", func(t *testing.T) {
		token, user, err := svc.Login("alice", "s3cret", model.Student)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
		if err != nil {
			t.Fatalf("issued token does not parse: %v", err)
		}
		if claims.UserID != user.ID || claims.Role != model.Student {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		_, _, err := svc.Login("nobody", "s3cret", model.Student)
		if !errors.Is(err, util.ErrInvalidCredential) {
			t.Fatalf("err = %v, want ErrInvalidCredential", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login("alice", "wrong", model.Student)
		if !errors.Is(err, util.ErrInvalidCredential) {
			t.Fatalf("err = %v, want ErrInvalidCredential", err)
		}
	})

	t.Run("student account on the admin portal", func(t *testing.T) {
		_, _, err := svc.Login("alice", "s3cret", model.Admin)
		if !errors.Is(err, util.ErrPortalMismatch) {
			t.Fatalf("err = %v, want ErrPortalMismatch", err)
		}
	})
}
