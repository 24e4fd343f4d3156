package models

import (
	"testing"
	"time"
)

func TestUserRole_IsValid(t *testing.T) {
	tests := []struct {
		role  UserRole
		valid bool
	}{
		{RoleUser, true},
		{RoleAdmin, true},
		{"invalid", false},
		{"", false},
		{"USER", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.IsValid(); got != tt.valid {
				t.Errorf("UserRole(%q).IsValid() = %v, want %v", tt.role, got, tt.valid)
			}
		})
	}
}

func TestUser_GetDisplayName(t *testing.T) {
	tests := []struct {
		name        string
		user        User
		wantDisplay string
	}{
		{"with display name", User{Username: "john", DisplayName: "John Doe"}, "John Doe"},
		{"without display name", User{Username: "john"}, "john"},
		{"empty display name", User{Username: "john", DisplayName: ""}, "john"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.GetDisplayName(); got != tt.wantDisplay {
				t.Errorf("GetDisplayName() = %q, want %q", got, tt.wantDisplay)
			}
		})
	}
}

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{"valid user", User{Username: "john", Role: "user"}, false},
		{"valid admin", User{Username: "admin", Role: "admin"}, false},
		{"empty role", User{Username: "john"}, false}, // empty role is allowed
		{"missing username", User{Role: "user"}, true},
		{"invalid role", User{Username: "john", Role: "superuser"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		role    string
		isAdmin bool
	}{
		{"admin", true},
		{"user", false},
		{"", false},
		{"ADMIN", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			user := User{Role: tt.role}
			if got := user.IsAdmin(); got != tt.isAdmin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.isAdmin)
			}
		})
	}
}

func TestDeployment_Matches(t *testing.T) {
	tests := []struct {
		name       string
		deployment Deployment
		bucket     string
		key        string
		want       bool
	}{
		{"no filter matches anything", Deployment{}, "data", "models/weights.bin", true},
		{"bucket match", Deployment{Bucket: "data"}, "data", "anything", true},
		{"bucket mismatch", Deployment{Bucket: "data"}, "other", "anything", false},
		{"prefix match", Deployment{KeyPrefix: "models/"}, "data", "models/weights.bin", true},
		{"prefix mismatch", Deployment{KeyPrefix: "models/"}, "data", "logs/today", false},
		{"both match", Deployment{Bucket: "data", KeyPrefix: "models/"}, "data", "models/a", true},
		{"bucket matches prefix does not", Deployment{Bucket: "data", KeyPrefix: "models/"}, "data", "raw/a", false},
		{"exact key as prefix", Deployment{KeyPrefix: "models/weights.bin"}, "data", "models/weights.bin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.deployment.Matches(tt.bucket, tt.key); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.bucket, tt.key, got, tt.want)
			}
		})
	}
}

func TestDeployment_Validate(t *testing.T) {
	valid := Deployment{
		Name:       "prefetch-models",
		Controller: "prefetch",
		Trigger:    "onget",
	}

	tests := []struct {
		name    string
		mutate  func(d *Deployment)
		wantErr bool
	}{
		{"valid onget", func(d *Deployment) {}, false},
		{"missing name", func(d *Deployment) { d.Name = "" }, true},
		{"missing controller", func(d *Deployment) { d.Controller = "" }, true},
		{"unknown trigger", func(d *Deployment) { d.Trigger = "onrename" }, true},
		{"negative position", func(d *Deployment) { d.Position = -1 }, true},
		{"interval on onget", func(d *Deployment) { d.Interval = time.Minute }, true},
		{"valid ontimer", func(d *Deployment) {
			d.Trigger = "ontimer"
			d.Interval = time.Minute
			d.Bucket = "data"
			d.KeyPrefix = "models/manifest"
		}, false},
		{"ontimer without interval", func(d *Deployment) {
			d.Trigger = "ontimer"
			d.Bucket = "data"
			d.KeyPrefix = "models/manifest"
		}, true},
		{"ontimer interval too short", func(d *Deployment) {
			d.Trigger = "ontimer"
			d.Interval = 100 * time.Millisecond
			d.Bucket = "data"
			d.KeyPrefix = "models/manifest"
		}, true},
		{"ontimer without bucket", func(d *Deployment) {
			d.Trigger = "ontimer"
			d.Interval = time.Minute
			d.KeyPrefix = "models/manifest"
		}, true},
		{"ontimer without key prefix", func(d *Deployment) {
			d.Trigger = "ontimer"
			d.Interval = time.Minute
			d.Bucket = "data"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			err := d.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeployment_TimerObject(t *testing.T) {
	d := Deployment{Bucket: "data", KeyPrefix: "models/manifest"}
	ref := d.TimerObject()
	if ref.Bucket != "data" || ref.Key != "models/manifest" {
		t.Errorf("TimerObject() = %+v, want data/models/manifest", ref)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct-horse-battery" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !VerifyPassword("correct-horse-battery", hash) {
		t.Error("expected password to verify against its own hash")
	}
	if VerifyPassword("wrong-password-guess", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "longenough", nil},
		{"minimum length", "12345678", nil},
		{"too short", "short", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
		{"too long", string(make([]byte, 73)), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePassword(tt.password); err != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	t.Run("current cost", func(t *testing.T) {
		hash, err := HashPassword("correct-horse-battery")
		if err != nil {
			t.Fatalf("HashPassword() error = %v", err)
		}
		if NeedsRehash(hash) {
			t.Error("fresh hash should not need rehashing")
		}
	})

	t.Run("lower cost", func(t *testing.T) {
		hash, err := HashPasswordWithCost("correct-horse-battery", 4)
		if err != nil {
			t.Fatalf("HashPasswordWithCost() error = %v", err)
		}
		if !NeedsRehash(hash) {
			t.Error("low-cost hash should need rehashing")
		}
	})

	t.Run("garbage hash", func(t *testing.T) {
		if !NeedsRehash("not-a-bcrypt-hash") {
			t.Error("invalid hash should need rehashing")
		}
	})
}
