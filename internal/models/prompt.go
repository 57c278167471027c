package models

import "time"

// Prompt is a user-authored text record with visibility, tags and engagement counters.
// Author and Username are display-name snapshots taken at creation time.
type Prompt struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"userId" bson:"userId"`
	Author    string    `json:"author,omitempty" bson:"author,omitempty"`
	Username  string    `json:"username,omitempty" bson:"username,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	Tags      []string  `json:"tags" bson:"tags"`
	Category  string    `json:"category,omitempty" bson:"category,omitempty"`
	Models    []string  `json:"models" bson:"models"`
	IsPublic  bool      `json:"isPublic" bson:"isPublic"`
	Upvotes   int64     `json:"upvotes" bson:"upvotes"`
	Views     int64     `json:"views" bson:"views"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Normalize replaces nil slices so they encode as [] rather than null.
func (p *Prompt) Normalize() *Prompt {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Models == nil {
		p.Models = []string{}
	}
	return p
}

// Clone returns a deep copy.
func (p *Prompt) Clone() *Prompt {
	c := *p
	c.Tags = append([]string{}, p.Tags...)
	c.Models = append([]string{}, p.Models...)
	return &c
}

// DisplayName is the author snapshot, falling back to the username snapshot.
func (p *Prompt) DisplayName() string {
	if p.Author != "" {
		return p.Author
	}
	return p.Username
}
