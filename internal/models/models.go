package models

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID       string    `json:"_id" db:"id" bson:"_id"`
	Name     string    `json:"name" db:"name" bson:"name"`
	Email    string    `json:"email" db:"email" bson:"email"`
	Password string    `json:"-" db:"password" bson:"password"`
	Avatar   string    `json:"avatar" db:"avatar" bson:"avatar"`
	Date     time.Time `json:"date" db:"date" bson:"date"`
}

// UserRef is the populated owner of a profile.
type UserRef struct {
	ID     string `json:"_id" bson:"_id"`
	Name   string `json:"name" bson:"name"`
	Avatar string `json:"avatar" bson:"avatar"`
}

type Social struct {
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

type Experience struct {
	ID          string     `json:"_id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Company     string     `json:"company" bson:"company"`
	Location    string     `json:"location,omitempty" bson:"location,omitempty"`
	From        time.Time  `json:"from" bson:"from"`
	To          *time.Time `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool       `json:"current" bson:"current"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	ID           string     `json:"_id" bson:"_id"`
	School       string     `json:"school" bson:"school"`
	Degree       string     `json:"degree" bson:"degree"`
	FieldOfStudy string     `json:"fieldofstudy" bson:"fieldofstudy"`
	From         time.Time  `json:"from" bson:"from"`
	To           *time.Time `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool       `json:"current" bson:"current"`
	Description  string     `json:"description,omitempty" bson:"description,omitempty"`
}

type Profile struct {
	ID             string         `json:"_id" db:"id" bson:"_id"`
	UserID         string         `json:"-" db:"user_id" bson:"user"`
	User           *UserRef       `json:"user" db:"-" bson:"-"`
	Company        string         `json:"company,omitempty" db:"company" bson:"company,omitempty"`
	Website        string         `json:"website,omitempty" db:"website" bson:"website,omitempty"`
	Location       string         `json:"location,omitempty" db:"location" bson:"location,omitempty"`
	Bio            string         `json:"bio,omitempty" db:"bio" bson:"bio,omitempty"`
	Status         string         `json:"status" db:"status" bson:"status"`
	GitHubUsername string         `json:"githubusername,omitempty" db:"githubusername" bson:"githubusername,omitempty"`
	Skills         pq.StringArray `json:"skills" db:"skills" bson:"skills"`
	Social         Social         `json:"social" db:"social" bson:"social"`
	Experience     Experiences    `json:"experience" db:"experience" bson:"experience"`
	Education      Educations     `json:"education" db:"education" bson:"education"`
	Date           time.Time      `json:"date" db:"date" bson:"date"`
}

type Like struct {
	User string `json:"user" bson:"user"`
}

type Comment struct {
	ID     string    `json:"_id" bson:"_id"`
	User   string    `json:"user" bson:"user"`
	Text   string    `json:"text" bson:"text"`
	Name   string    `json:"name" bson:"name"`
	Avatar string    `json:"avatar" bson:"avatar"`
	Date   time.Time `json:"date" bson:"date"`
}

type Image struct {
	ID     string    `json:"_id" bson:"_id"`
	URL    string    `json:"url" bson:"url"`
	Object string    `json:"object" bson:"object"`
	Date   time.Time `json:"date" bson:"date"`
}

type Post struct {
	ID       string    `json:"_id" db:"id" bson:"_id"`
	UserID   string    `json:"user" db:"user_id" bson:"user"`
	Text     string    `json:"text" db:"text" bson:"text"`
	Name     string    `json:"name" db:"name" bson:"name"`
	Avatar   string    `json:"avatar" db:"avatar" bson:"avatar"`
	Likes    Likes     `json:"likes" db:"likes" bson:"likes"`
	Comments Comments  `json:"comments" db:"comments" bson:"comments"`
	Images   Images    `json:"images" db:"images" bson:"images"`
	Date     time.Time `json:"date" db:"date" bson:"date"`
}

// Normalize replaces nil collections with empty ones so they encode as [].
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = Likes{}
	}
	if p.Comments == nil {
		p.Comments = Comments{}
	}
	if p.Images == nil {
		p.Images = Images{}
	}
}

// HasLike reports whether userID is among the post's likes.
func (p *Post) HasLike(userID string) bool {
	for _, l := range p.Likes {
		if l.User == userID {
			return true
		}
	}
	return false
}

// Comment returns the comment with the given id, or nil.
func (p *Post) Comment(commentID string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = pq.StringArray{}
	}
	if p.Experience == nil {
		p.Experience = Experiences{}
	}
	if p.Education == nil {
		p.Education = Educations{}
	}
	if p.User == nil {
		p.User = &UserRef{ID: p.UserID}
	}
}
