package device

import (
	"errors"
	"testing"

	"github.com/nerrad567/devicelink/internal/auth"
	"github.com/nerrad567/devicelink/internal/infrastructure/database/dbtest"
)

func TestSQLiteRepository_ScopedWrites(t *testing.T) {
	db := dbtest.Open(t)
	ctx := t.Context()

	accounts := auth.NewService(auth.NewAccountRepository(db.DB))
	owner, err := accounts.Create(ctx, "John", "Doe", "jd@mail.com", "123123ab")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	repo := NewSQLiteRepository(db.DB)
	d := &Device{AccountID: owner, Address: "192.168.1.1", Port: "5000"}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if d.ID == "" || d.CreatedAt.IsZero() {
		t.Fatalf("Create() did not assign id/timestamps: %+v", d)
	}

	foreign := *d
	foreign.AccountID = "someone-else"
	foreign.Address = "10.0.0.1"
	if err := repo.Update(ctx, &foreign); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Update() wrong owner error = %v, want ErrDeviceNotFound", err)
	}
	if err := repo.Delete(ctx, "someone-else", d.ID); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Delete() wrong owner error = %v, want ErrDeviceNotFound", err)
	}

	got, err := repo.GetOwned(ctx, owner, d.ID)
	if err != nil {
		t.Fatalf("GetOwned() error = %v", err)
	}
	if got.Address != "192.168.1.1" {
		t.Errorf("Address = %s, want unchanged 192.168.1.1", got.Address)
	}

	if err := repo.Delete(ctx, owner, d.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, owner, d.ID); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("second Delete() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestSQLiteRepository_CreateUnknownAccount(t *testing.T) {
	repo := NewSQLiteRepository(dbtest.Open(t).DB)

	err := repo.Create(t.Context(), &Device{AccountID: "ghost", Address: "1.1.1.1", Port: "1"})
	if !errors.Is(err, ErrAccountGone) {
		t.Fatalf("Create() for missing account error = %v, want ErrAccountGone", err)
	}
}

func TestSQLiteRepository_ListEmpty(t *testing.T) {
	repo := NewSQLiteRepository(dbtest.Open(t).DB)

	devices, err := repo.ListByAccount(t.Context(), "nobody")
	if err != nil {
		t.Fatalf("ListByAccount() error = %v", err)
	}
	if devices == nil || len(devices) != 0 {
		t.Errorf("ListByAccount() = %#v, want empty non-nil slice", devices)
	}
}
