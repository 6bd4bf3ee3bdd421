package report

import (
	"errors"
	"testing"

	"github.com/smell-of-curry/ambf-world/ambfworld/world"
)

func TestInit(t *testing.T) {
	if err := Init("", "test", ""); err != nil {
		t.Fatalf("Init(empty dsn) = %v; want nil", err)
	}
	if err := Init("not a dsn", "test", ""); err == nil {
		t.Fatalf("Init(bad dsn) err=nil; want error")
	}
}

func TestLoadFailureWithoutClient(t *testing.T) {
	LoadFailure("worlds/a.yaml", &world.MissingFieldError{Field: "gravity"})
	LoadFailure("worlds/b.yaml", nil)
	LoadFailure("worlds/c.yaml", errors.New("boom"))
	Close()
}
