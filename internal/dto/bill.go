package dto

// BookmarkRequest captures POST /bookmarks payload.
type BookmarkRequest struct {
	BillID string `json:"billId" binding:"required,uuid"`
}

// AnnotationRequest captures annotation create/update payloads.
type AnnotationRequest struct {
	BillID string `json:"billId" binding:"required,uuid"`
	Body   string `json:"body" binding:"required,max=10000"`
}

// AnnotationUpdateRequest rewrites an existing note.
type AnnotationUpdateRequest struct {
	Body string `json:"body" binding:"required,max=10000"`
}
