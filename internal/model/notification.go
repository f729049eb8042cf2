package model

import "time"

// Notification is delivered to a user when something happens to one of
// their jobs or applications. Rows are written by the queue consumer.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – recipient.
//  NotifType – event type (application.submitted, interview.scheduled, ...).
//  Message   – human-readable text.
//  IsRead    – whether the recipient has seen it.
type Notification struct {
    ID        uint64    // notifications.id
    UserID    uint64    // notifications.user_id
    NotifType string    // notifications.notif_type
    Message   string    // notifications.message
    IsRead    bool      // notifications.is_read
    CreatedAt time.Time // notifications.created_at
}
