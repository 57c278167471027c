package models

import "time"

// User maps an external identity-provider subject to profile data and a chosen username.
type User struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	ExternalID string    `bson:"externalId" json:"externalId"`
	Email      string    `bson:"email,omitempty" json:"email,omitempty"`
	FullName   string    `bson:"fullName,omitempty" json:"fullName,omitempty"`
	ImageURL   string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Username   string    `bson:"username,omitempty" json:"username,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}
