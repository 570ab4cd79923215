package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePermissionsReplaced = "permissions.replaced"
	EventTypeMailAlertRequested  = "permissions.mail_alert_requested"
	EventTypeSurveySubmitted     = "survey.submitted"
	EventTypeUserCreated         = "user.created"
	EventTypeUserDeleted         = "user.deleted"
	EventTypeDepartmentCreated   = "department.created"
	EventTypeSessionEstablished  = "session.established"
	EventTypeSessionDestroyed    = "session.destroyed"
)

// DomainEventTypes lists every event the API publishes. Audit logging and the
// NATS forwarder subscribe to all of them.
var DomainEventTypes = []string{
	EventTypePermissionsReplaced,
	EventTypeMailAlertRequested,
	EventTypeSurveySubmitted,
	EventTypeUserCreated,
	EventTypeUserDeleted,
	EventTypeDepartmentCreated,
	EventTypeSessionEstablished,
	EventTypeSessionDestroyed,
}

func newBaseEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

func NewPermissionsReplacedEvent(actorID int64, pairCount int, startDate, endDate string) BaseEvent {
	return newBaseEvent(EventTypePermissionsReplaced, map[string]interface{}{
		"actor_id":   actorID,
		"pair_count": pairCount,
		"start_date": startDate,
		"end_date":   endDate,
	})
}

func NewMailAlertRequestedEvent(actorID int64, payload map[string]interface{}) BaseEvent {
	return newBaseEvent(EventTypeMailAlertRequested, map[string]interface{}{
		"actor_id": actorID,
		"payload":  payload,
	})
}

func NewSurveySubmittedEvent(submissionID, surveyID, submitterID, ratedDepartmentID int64, rating int) BaseEvent {
	return newBaseEvent(EventTypeSurveySubmitted, map[string]interface{}{
		"submission_id":       submissionID,
		"survey_id":           surveyID,
		"submitter_user_id":   submitterID,
		"rated_department_id": ratedDepartmentID,
		"rating":              rating,
	})
}

func NewUserCreatedEvent(actorID, userID int64, username, role string) BaseEvent {
	return newBaseEvent(EventTypeUserCreated, map[string]interface{}{
		"actor_id": actorID,
		"user_id":  userID,
		"username": username,
		"role":     role,
	})
}

func NewUserDeletedEvent(actorID, userID int64) BaseEvent {
	return newBaseEvent(EventTypeUserDeleted, map[string]interface{}{
		"actor_id": actorID,
		"user_id":  userID,
	})
}

func NewDepartmentCreatedEvent(actorID, departmentID int64, name string) BaseEvent {
	return newBaseEvent(EventTypeDepartmentCreated, map[string]interface{}{
		"actor_id":      actorID,
		"department_id": departmentID,
		"name":          name,
	})
}

func NewSessionEstablishedEvent(userID int64, username string) BaseEvent {
	return newBaseEvent(EventTypeSessionEstablished, map[string]interface{}{
		"user_id":  userID,
		"username": username,
	})
}

func NewSessionDestroyedEvent(userID int64) BaseEvent {
	return newBaseEvent(EventTypeSessionDestroyed, map[string]interface{}{
		"user_id": userID,
	})
}
