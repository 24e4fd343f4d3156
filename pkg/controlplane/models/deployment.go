package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/marmos91/triggerfish/pkg/event"
)

// MinTimerInterval is the shortest interval accepted for ontimer
// deployments. Anything shorter would hammer the gateway.
const MinTimerInterval = time.Second

// Deployment binds a registered controller to a trigger.
//
// On every event whose trigger matches, the engine invokes the named
// controller, in ascending Position order. Bucket and KeyPrefix narrow
// the deployment to a subset of objects; empty values match everything.
// Ontimer deployments fire on a schedule instead and must name the
// object to visit via Bucket and KeyPrefix.
type Deployment struct {
	ID         string        `gorm:"primaryKey;size:36" json:"id"`
	Name       string        `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Controller string        `gorm:"not null;size:255" json:"controller"`
	Trigger    string        `gorm:"not null;size:50;index" json:"trigger"` // onget, onput, ondelete, ontimer
	Bucket     string        `gorm:"size:255" json:"bucket,omitempty"`
	KeyPrefix  string        `gorm:"size:1024" json:"key_prefix,omitempty"`
	Position   int           `gorm:"default:0" json:"position"`
	Interval   time.Duration `gorm:"default:0" json:"interval,omitempty"` // ontimer only
	Enabled    bool          `gorm:"default:true" json:"enabled"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Deployment.
func (Deployment) TableName() string {
	return "deployments"
}

// GetTrigger returns the trigger as an event.Trigger.
func (d *Deployment) GetTrigger() event.Trigger {
	return event.Trigger(d.Trigger)
}

// Matches reports whether the deployment applies to the given object.
// An empty Bucket or KeyPrefix matches any value.
func (d *Deployment) Matches(bucket, key string) bool {
	if d.Bucket != "" && d.Bucket != bucket {
		return false
	}
	if d.KeyPrefix != "" && !strings.HasPrefix(key, d.KeyPrefix) {
		return false
	}
	return true
}

// TimerObject returns the object an ontimer deployment visits on each
// tick. Only meaningful when Trigger is ontimer.
func (d *Deployment) TimerObject() event.ObjectRef {
	return event.ObjectRef{Bucket: d.Bucket, Key: d.KeyPrefix}
}

// Validate checks if the deployment has valid configuration.
func (d *Deployment) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Controller == "" {
		return fmt.Errorf("controller is required")
	}
	trigger, err := event.ParseTrigger(d.Trigger)
	if err != nil {
		return err
	}
	if d.Position < 0 {
		return fmt.Errorf("position must not be negative")
	}

	if trigger == event.TriggerTimer {
		if d.Interval < MinTimerInterval {
			return fmt.Errorf("ontimer deployments require an interval of at least %s", MinTimerInterval)
		}
		if d.Bucket == "" {
			return fmt.Errorf("ontimer deployments require a bucket")
		}
		if d.KeyPrefix == "" {
			return fmt.Errorf("ontimer deployments require a key prefix")
		}
		return nil
	}

	if d.Interval != 0 {
		return fmt.Errorf("interval is only valid for ontimer deployments")
	}
	return nil
}
