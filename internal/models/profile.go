package models

import "time"

// UserProfile mirrors the record the auth provider creates for each user.
// The API only appends to InterviewHistory; identity fields are written by
// the auth flow, which lives outside this service.
type UserProfile struct {
	UID              string    `bson:"_id" json:"uid"`
	Email            string    `bson:"email" json:"email"`
	DisplayName      string    `bson:"display_name,omitempty" json:"displayName,omitempty"`
	PhotoURL         string    `bson:"photo_url,omitempty" json:"photoURL,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
	InterviewHistory []string  `bson:"interview_history" json:"interviewHistory"`
}
