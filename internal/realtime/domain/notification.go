package domain

import (
	"time"

	errprocess "talent_realtime_service/pkg/err"
)

// NotificationType trigger of a notification
type NotificationType string

// notification types
const (
	NotifyApplication NotificationType = "application"
	NotifyConnection  NotificationType = "connection"
	NotifyMessage     NotificationType = "message"
	NotifyLike        NotificationType = "like"
	NotifyComment     NotificationType = "comment"
	NotifyFollow      NotificationType = "follow"
	NotifyJob         NotificationType = "job"
)

// EntityKind kind of related entity
type EntityKind string

// related entity kinds
const (
	EntityChat        EntityKind = "chat"
	EntityApplication EntityKind = "application"
	EntityJob         EntityKind = "job"
	EntityConnection  EntityKind = "connection"
	EntityProfile     EntityKind = "profile"
	EntityPost        EntityKind = "post"
	EntityComment     EntityKind = "comment"
)

var allowedEntities = map[NotificationType][]EntityKind{
	NotifyMessage:     {EntityChat},
	NotifyApplication: {EntityApplication, EntityJob},
	NotifyJob:         {EntityJob},
	NotifyConnection:  {EntityConnection, EntityProfile},
	NotifyFollow:      {EntityProfile},
	NotifyLike:        {EntityPost, EntityComment},
	NotifyComment:     {EntityPost, EntityComment},
}

// Valid known notification type
func (t NotificationType) Valid() bool {
	_, ok := allowedEntities[t]
	return ok
}

// RelatedEntity what the notification points at
type RelatedEntity struct {
	Kind EntityKind `bson:"kind" json:"kind"`
	ID   string     `bson:"id" json:"id"`
}

// ValidateRelated type must be known and related kind allowed for the type, nil related is always fine
func ValidateRelated(t NotificationType, related *RelatedEntity) error {
	kinds, ok := allowedEntities[t]
	if !ok {
		return errprocess.New(errprocess.KindValidation, "unknown notification type: "+string(t))
	}
	if related == nil {
		return nil
	}
	if related.ID == "" {
		return errprocess.New(errprocess.KindValidation, "related entity id is required")
	}
	for _, k := range kinds {
		if k == related.Kind {
			return nil
		}
	}
	return errprocess.New(errprocess.KindValidation,
		"related entity "+string(related.Kind)+" not allowed for "+string(t))
}

// Notification durable notification, only IsRead / ReadAt mutate
type Notification struct {
	ID            string           `bson:"_id" json:"id"`
	Recipient     ActorRef         `bson:"recipient" json:"recipient"`
	Sender        ActorRef         `bson:"sender" json:"sender"`
	Type          NotificationType `bson:"type" json:"type"`
	Title         string           `bson:"title" json:"title"`
	Message       string           `bson:"message" json:"message"`
	RelatedEntity *RelatedEntity   `bson:"related_entity,omitempty" json:"related_entity,omitempty"`
	IsRead        bool             `bson:"is_read" json:"is_read"`
	ReadAt        *time.Time       `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt     time.Time        `bson:"created_at" json:"created_at"`
}

// NotifyInput fields of a new notification
type NotifyInput struct {
	Recipient     ActorRef         `json:"recipient"`
	Sender        ActorRef         `json:"sender"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	RelatedEntity *RelatedEntity   `json:"related_entity,omitempty"`
}

// Validate actors, type and related entity
func (in NotifyInput) Validate() error {
	if err := in.Recipient.Validate(); err != nil {
		return err
	}
	if err := in.Sender.Validate(); err != nil {
		return err
	}
	if in.Title == "" {
		return errprocess.New(errprocess.KindValidation, "title is required")
	}
	return ValidateRelated(in.Type, in.RelatedEntity)
}

// NotificationPage one page of a recipient's notifications
type NotificationPage struct {
	Notifications []*Notification `json:"notifications"`
	Page          int             `json:"page"`
	Limit         int             `json:"limit"`
	Total         int64           `json:"total"`
	UnreadCount   int64           `json:"unread_count"`
}
