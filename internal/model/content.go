package model

import "time"

// Platform identifies the social network a content item targets.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
)

// ContentType is the format of a content item.
type ContentType string

const (
	ContentTypePost  ContentType = "post"
	ContentTypeStory ContentType = "story"
	ContentTypeReel  ContentType = "reel"
	ContentTypeTweet ContentType = "tweet"
)

// ContentStatus is the lifecycle state of a content item.
type ContentStatus string

const (
	StatusDraft           ContentStatus = "draft"
	StatusPendingApproval ContentStatus = "pending_approval"
	StatusApproved        ContentStatus = "approved"
	StatusRejected        ContentStatus = "rejected"
	StatusScheduled       ContentStatus = "scheduled"
	StatusPublished       ContentStatus = "published"
)

// Content is one social-media post/story/reel/tweet and its lifecycle state.
//
// Invariants: ApprovedAt/ApprovedBy are set together and only while
// status=approved; RejectedReason only while status=rejected; setting one
// side clears the other. ScheduledAt is non-nil only for scheduled content
// (or approved content awaiting a new slot).
type Content struct {
	ID             string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string        `json:"user_id" gorm:"type:varchar(36);index:idx_content_user;not null"`
	Title          string        `json:"title" gorm:"type:varchar(255);not null"`
	Caption        string        `json:"caption" gorm:"type:text;not null"`
	Hashtags       *string       `json:"hashtags,omitempty" gorm:"type:text"`
	Platform       Platform      `json:"platform" gorm:"type:varchar(16);index;not null"`
	ContentType    ContentType   `json:"content_type" gorm:"type:varchar(16);not null"`
	Status         ContentStatus `json:"status" gorm:"type:varchar(24);index;not null;default:draft"`
	AIGenerated    bool          `json:"ai_generated" gorm:"not null;default:false"`
	ScheduledAt    *time.Time    `json:"scheduled_at,omitempty" gorm:"index"`
	ApprovedAt     *time.Time    `json:"approved_at,omitempty"`
	ApprovedBy     *string       `json:"approved_by,omitempty" gorm:"type:varchar(36)"`
	RejectedReason *string       `json:"rejected_reason,omitempty" gorm:"type:text"`
	CreatedAt      time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (Content) TableName() string { return "contents" }

// ValidPlatform reports whether p is a known platform value.
func ValidPlatform(p Platform) bool {
	switch p {
	case PlatformInstagram, PlatformFacebook, PlatformTwitter, PlatformLinkedIn:
		return true
	}
	return false
}

// ValidContentType reports whether t is a known content type.
func ValidContentType(t ContentType) bool {
	switch t {
	case ContentTypePost, ContentTypeStory, ContentTypeReel, ContentTypeTweet:
		return true
	}
	return false
}

// ValidContentStatus reports whether s is a known lifecycle status.
func ValidContentStatus(s ContentStatus) bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusRejected, StatusScheduled, StatusPublished:
		return true
	}
	return false
}
