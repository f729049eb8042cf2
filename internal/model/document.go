package model

import "time"

// Document is an uploaded file reference (CV, portfolio, certificate).
// Only the metadata lives here; the binary is stored elsewhere.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the document.
//  Name      – display name of the file.
//  URL       – storage location of the file.
//  DocType   – kind of document (CV, PORTFOLIO, CERTIFICATE, OTHER).
//  DeletedAt – soft-delete marker.
type Document struct {
    ID        uint64     // documents.id
    UserID    uint64     // documents.user_id
    Name      string     // documents.name
    URL       string     // documents.url
    DocType   string     // documents.doc_type
    CreatedAt time.Time  // documents.created_at
    UpdatedAt time.Time  // documents.updated_at
    DeletedAt *time.Time // documents.deleted_at (nullable)
}
