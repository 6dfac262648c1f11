// Package audit records who did what to which folder or file.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"file-drive/internal/session"
	"file-drive/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActorType represents the type of entity performing an action
type ActorType string

const (
	ActorTypeUser      ActorType = "user"
	ActorTypeAnonymous ActorType = "anonymous"
)

// ResourceType represents the type of resource being acted upon
type ResourceType string

const (
	ResourceTypeUser    ResourceType = "user"
	ResourceTypeSession ResourceType = "session"
	ResourceTypeFolder  ResourceType = "folder"
	ResourceTypeFile    ResourceType = "file"
)

// Action represents the action being performed
type Action string

const (
	ActionCreate   Action = "create"
	ActionRename   Action = "rename"
	ActionDelete   Action = "delete"
	ActionUpload   Action = "upload"
	ActionDownload Action = "download"
	ActionLogin    Action = "login"
	ActionLogout   Action = "logout"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

const (
	writeTimeout = 2 * time.Second

	insertEventQuery = `
		INSERT INTO audit_events (
			id, event_type, actor_type, actor_id, resource_type, resource_id,
			action, status, ip_address, user_agent, request_id, metadata, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	errMarshalMetadataFmt = "failed to marshal audit metadata: %w"
	errInsertEventFmt     = "failed to insert audit event: %w"
)

// Event represents an audit event
type Event struct {
	ID           uuid.UUID
	EventType    string
	ActorType    ActorType
	ActorID      *uuid.UUID
	ResourceType ResourceType
	ResourceID   *uuid.UUID
	Action       Action
	Status       Status
	IPAddress    string
	UserAgent    string
	RequestID    string
	Metadata     map[string]any
	ErrorMessage string
	CreatedAt    time.Time
}

// Logger writes every event to zap and, when a database is configured, to
// the audit_events table.
type Logger struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
	wg  sync.WaitGroup
}

// NewLogger accepts a nil db; events then only reach the zap log.
func NewLogger(db *sql.DB, log *zap.Logger) *Logger {
	return &Logger{db: db, log: log.Named("audit"), now: time.Now}
}

// Log records an audit event
func (l *Logger) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = l.now()
	}
	if event.EventType == "" {
		event.EventType = string(event.Action) + "_" + string(event.ResourceType)
	}

	l.log.Info(event.EventType, eventFields(event)...)

	if l.db == nil {
		return nil
	}

	var metadata any
	if event.Metadata != nil {
		b, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf(errMarshalMetadataFmt, err)
		}
		metadata = b
	}

	_, err := l.db.ExecContext(ctx, insertEventQuery,
		event.ID,
		event.EventType,
		event.ActorType,
		nullableID(event.ActorID),
		event.ResourceType,
		nullableID(event.ResourceID),
		event.Action,
		event.Status,
		event.IPAddress,
		event.UserAgent,
		event.RequestID,
		metadata,
		event.ErrorMessage,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf(errInsertEventFmt, err)
	}

	return nil
}

// Record builds an event from the request and logs it without blocking
// the response.
func (l *Logger) Record(c echo.Context, resourceType ResourceType, resourceID *uuid.UUID, action Action, status Status, metadata map[string]any) {
	l.dispatch(c.Request().Context(), fromContext(c, resourceType, resourceID, action, status, metadata))
}

// RecordError logs a failed action with the error message attached.
func (l *Logger) RecordError(c echo.Context, resourceType ResourceType, resourceID *uuid.UUID, action Action, cause error) {
	event := fromContext(c, resourceType, resourceID, action, StatusFailure, nil)
	event.ErrorMessage = logger.SanitizeLogMessage(cause.Error())
	l.dispatch(c.Request().Context(), event)
}

// Wait blocks until queued events are written. Called on shutdown.
func (l *Logger) Wait() {
	l.wg.Wait()
}

func (l *Logger) dispatch(parent context.Context, event *Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), writeTimeout)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()

		if err := l.Log(ctx, event); err != nil {
			l.log.Warn("audit log failed", zap.String("event_type", event.EventType), zap.Error(err))
		}
	}()
}

func fromContext(c echo.Context, resourceType ResourceType, resourceID *uuid.UUID, action Action, status Status, metadata map[string]any) *Event {
	event := &Event{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Status:       status,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    c.Response().Header().Get(echo.HeaderXRequestID),
		Metadata:     metadata,
		ActorType:    ActorTypeAnonymous,
	}

	if userID, err := session.GetUserID(c); err == nil {
		event.ActorType = ActorTypeUser
		event.ActorID = &userID
	}

	return event
}

func eventFields(event *Event) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.ID.String()),
		zap.String("actor_type", string(event.ActorType)),
		zap.String("resource_type", string(event.ResourceType)),
		zap.String("action", string(event.Action)),
		zap.String("status", string(event.Status)),
		zap.String("request_id", event.RequestID),
		zap.String("ip", event.IPAddress),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.String()))
	}
	if event.ResourceID != nil {
		fields = append(fields, zap.String("resource_id", event.ResourceID.String()))
	}
	if event.ErrorMessage != "" {
		fields = append(fields, zap.String("error", event.ErrorMessage))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}
	return fields
}

func nullableID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
