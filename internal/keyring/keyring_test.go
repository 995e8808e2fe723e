package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestEntryLifecycle(t *testing.T) {
	gokeyring.MockInit()
	entry := Entry{Service: "voidtrack-test", User: "db"}

	if ok, err := entry.Stored(); ok || err != nil {
		t.Fatalf("Stored() on empty keyring = %v, %v", ok, err)
	}
	if _, err := entry.Get(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty keyring: expected ErrNotFound, got %v", err)
	}

	conn := "postgres://tracker@localhost:5432/voidtrack"
	if err := entry.Set(conn); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := entry.Get()
	if err != nil || got != conn {
		t.Fatalf("Get() = %q, %v; want %q", got, err, conn)
	}
	if ok, _ := entry.Stored(); !ok {
		t.Error("Stored() = false after Set")
	}

	if err := entry.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := entry.Delete(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete(): expected ErrNotFound, got %v", err)
	}
}

func TestEntriesAreIndependent(t *testing.T) {
	gokeyring.MockInit()
	a := Entry{Service: "voidtrack", User: "a"}
	b := Entry{Service: "voidtrack", User: "b"}

	if err := a.Set("host=localhost dbname=a"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("b.Get(): expected ErrNotFound, got %v", err)
	}
}

func TestSetRejectsBlank(t *testing.T) {
	gokeyring.MockInit()
	for _, secret := range []string{"", "   "} {
		if err := Connection.Set(secret); err == nil {
			t.Errorf("Set(%q) should fail", secret)
		}
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus not running"))
	defer gokeyring.MockInit()

	if _, err := GetConnectionString(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get: expected ErrKeyringUnavailable, got %v", err)
	}
	if err := Connection.Set("host=x"); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Set: expected ErrKeyringUnavailable, got %v", err)
	}
	if ok, err := Connection.Stored(); ok || !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Stored() = %v, %v", ok, err)
	}
}
